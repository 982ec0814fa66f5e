// Package events defines the topics and payloads exchanged between the API
// server and the worker.
package events

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Topic names.
const (
	TopicProjectChanged      = "atlas.project.changed"
	TopicTransactionActivity = "atlas.transaction.activity"
	TopicCatalogRefresh      = "atlas.catalog.refresh"
	TopicDeadLetter          = "atlas.dlq"
)

// Event types carried in Envelope.EventType.
const (
	TypeProjectCreated      = "project.created"
	TypeProjectFieldUpdated = "project.field_updated"
	TypeProjectNoteAdded    = "project.note_added"
	TypeTransactionActivity = "transaction.activity"
	TypeCatalogRefresh      = "catalog.refresh"
)

// SchemaVersion is stamped on every envelope.
const SchemaVersion = "v1"

// Envelope standardizes event messages.
type Envelope struct {
	EventID       string          `json:"event_id"`
	EventType     string          `json:"event_type"`
	Source        string          `json:"source"`
	Timestamp     time.Time       `json:"timestamp"`
	SchemaVersion string          `json:"schema_version"`
	Payload       json.RawMessage `json:"payload"`
}

// NewEnvelope marshals payload into a fresh envelope.
func NewEnvelope(eventType, source string, payload interface{}) (*Envelope, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("events: marshal %s payload: %w", eventType, err)
	}
	return &Envelope{
		EventID:       uuid.New().String(),
		EventType:     eventType,
		Source:        source,
		Timestamp:     time.Now().UTC(),
		SchemaVersion: SchemaVersion,
		Payload:       data,
	}, nil
}

// Decode unmarshals the payload into target. An empty payload is a no-op.
func (e *Envelope) Decode(target interface{}) error {
	if len(e.Payload) == 0 || string(e.Payload) == "null" {
		return nil
	}
	return json.Unmarshal(e.Payload, target)
}

// ProjectChanged is published after every successful project write.
type ProjectChanged struct {
	ProjectID  string `json:"project_id"`
	PlantName  string `json:"plant_name"`
	FieldLabel string `json:"field_label"`
	Author     string `json:"author"`
}

// TransactionActivity is published after an activity is recorded.
type TransactionActivity struct {
	TransactionID string `json:"transaction_id"`
	ActivityType  string `json:"activity_type"`
	Title         string `json:"title"`
	Author        string `json:"author"`
}

// CatalogRefresh asks consumers to reload catalog tables. An empty Tables
// list means every catalog table.
type CatalogRefresh struct {
	Tables []string `json:"tables,omitempty"`
	Reason string   `json:"reason,omitempty"`
}

//Personal.AI order the ending
