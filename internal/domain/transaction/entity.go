// Package transaction models deals in the transition pipeline and their
// activity history.
package transaction

import (
	"strings"
	"time"

	"github.com/turtacn/CoalTransition-Atlas/pkg/errors"
)

// Stage is a pipeline stage. Stages are ordered as listed in Stages.
type Stage string

const (
	StageIdentification Stage = "identification"
	StageInitialContact Stage = "initial_contact"
	StageDueDiligence   Stage = "due_diligence"
	StageStructuring    Stage = "structuring"
	StageNegotiation    Stage = "negotiation"
	StageFinancing      Stage = "financing"
	StageClosing        Stage = "closing"
	StageImplementation Stage = "implementation"
)

// Stages lists every stage in pipeline order.
var Stages = []Stage{
	StageIdentification,
	StageInitialContact,
	StageDueDiligence,
	StageStructuring,
	StageNegotiation,
	StageFinancing,
	StageClosing,
	StageImplementation,
}

var stageLabels = map[Stage]string{
	StageIdentification: "Identification",
	StageInitialContact: "Initial Contact",
	StageDueDiligence:   "Due Diligence",
	StageStructuring:    "Structuring",
	StageNegotiation:    "Negotiation",
	StageFinancing:      "Financing",
	StageClosing:        "Closing",
	StageImplementation: "Implementation",
}

// Valid reports whether s is a known stage.
func (s Stage) Valid() bool {
	_, ok := stageLabels[s]
	return ok
}

// Label returns the display label.
func (s Stage) Label() string {
	if l, ok := stageLabels[s]; ok {
		return l
	}
	return string(s)
}

// Index returns the position of s in Stages, or -1.
func (s Stage) Index() int {
	for i, st := range Stages {
		if st == s {
			return i
		}
	}
	return -1
}

// RAGStatus is the qualitative health of a deal.
type RAGStatus string

const (
	RAGGreen  RAGStatus = "green"
	RAGAmber  RAGStatus = "amber"
	RAGRed    RAGStatus = "red"
	RAGClosed RAGStatus = "closed"
)

// Valid reports whether r is a known RAG status.
func (r RAGStatus) Valid() bool {
	switch r {
	case RAGGreen, RAGAmber, RAGRed, RAGClosed:
		return true
	}
	return false
}

// PlantRef is a plant attached to a deal. It is owned by the deal and has no
// link to the catalog.
type PlantRef struct {
	PlantName  string   `json:"plant_name"`
	UnitName   string   `json:"unit_name,omitempty"`
	CapacityMW float64  `json:"capacity_mw"`
	Country    string   `json:"country,omitempty"`
	Latitude   *float64 `json:"latitude,omitempty"`
	Longitude  *float64 `json:"longitude,omitempty"`
	Status     string   `json:"status,omitempty"`
}

// HasCoordinates reports whether the plant can be placed on the map.
func (p PlantRef) HasCoordinates() bool {
	return p.Latitude != nil && p.Longitude != nil
}

// NextStep is one checklist item.
type NextStep struct {
	Text      string `json:"text"`
	Completed bool   `json:"completed"`
}

// Transaction is a deal record.
type Transaction struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Stage      Stage     `json:"stage"`
	RAG        RAGStatus `json:"rag_status"`
	Confidence int       `json:"confidence"`

	// Top-level plant fields stand in for Plants when it is empty.
	PlantName  string   `json:"plant_name,omitempty"`
	CapacityMW float64  `json:"capacity_mw"`
	Country    string   `json:"country,omitempty"`
	Latitude   *float64 `json:"latitude,omitempty"`
	Longitude  *float64 `json:"longitude,omitempty"`

	Plants    []PlantRef `json:"plants"`
	NextSteps []NextStep `json:"next_steps"`
	Owner     string     `json:"owner,omitempty"`
	Notes     string     `json:"notes,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// EffectivePlants returns Plants, or the implicit single plant described by
// the top-level fields when Plants is empty.
func (t *Transaction) EffectivePlants() []PlantRef {
	if len(t.Plants) > 0 {
		return t.Plants
	}
	name := t.PlantName
	if name == "" {
		name = t.Name
	}
	return []PlantRef{{
		PlantName:  name,
		CapacityMW: t.CapacityMW,
		Country:    t.Country,
		Latitude:   t.Latitude,
		Longitude:  t.Longitude,
	}}
}

// TotalCapacityMW sums the capacity of EffectivePlants.
func (t *Transaction) TotalCapacityMW() float64 {
	var sum float64
	for _, p := range t.EffectivePlants() {
		sum += p.CapacityMW
	}
	return sum
}

// Countries joins the distinct plant countries with ", " in first-seen order.
// The result is for display only.
func (t *Transaction) Countries() string {
	seen := make(map[string]bool)
	var out []string
	for _, p := range t.EffectivePlants() {
		c := strings.TrimSpace(p.Country)
		if c == "" || seen[c] {
			continue
		}
		seen[c] = true
		out = append(out, c)
	}
	return strings.Join(out, ", ")
}

// Validate checks the enumerated fields and confidence bounds.
func (t *Transaction) Validate() error {
	if strings.TrimSpace(t.Name) == "" {
		return errors.NewValidationError("name", "name is required")
	}
	if !t.Stage.Valid() {
		return errors.Errorf(errors.ErrCodeStageInvalid, "unknown stage %q", t.Stage)
	}
	if !t.RAG.Valid() {
		return errors.Errorf(errors.ErrCodeRAGInvalid, "unknown RAG status %q", t.RAG)
	}
	if t.Confidence < 0 || t.Confidence > 100 {
		return errors.Errorf(errors.ErrCodeConfidenceInvalid, "confidence %d outside [0,100]", t.Confidence)
	}
	return nil
}

// ActivityType classifies an activity.
type ActivityType string

const (
	ActivityNote        ActivityType = "note"
	ActivityEmail       ActivityType = "email"
	ActivityMeeting     ActivityType = "meeting"
	ActivityCall        ActivityType = "call"
	ActivityTask        ActivityType = "task"
	ActivityStageChange ActivityType = "stage_change"
)

// Valid reports whether a is a known activity type.
func (a ActivityType) Valid() bool {
	switch a {
	case ActivityNote, ActivityEmail, ActivityMeeting, ActivityCall, ActivityTask, ActivityStageChange:
		return true
	}
	return false
}

// Activity is an append-only event on a transaction.
type Activity struct {
	ID            string       `json:"id"`
	TransactionID string       `json:"transaction_id"`
	Type          ActivityType `json:"type"`
	Title         string       `json:"title"`
	Description   string       `json:"description,omitempty"`
	Author        string       `json:"author"`
	CreatedAt     time.Time    `json:"created_at"`
}

//Personal.AI order the ending
