// Package transaction defines the wire types of the deal pipeline.
package transaction

import "time"

// Stage is a pipeline stage, ordered as listed in Stages.
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

// IsValid reports whether s is a known stage.
func (s Stage) IsValid() bool {
	_, ok := stageLabels[s]
	return ok
}

// Label returns the display label, or s itself when unknown.
func (s Stage) Label() string {
	if l, ok := stageLabels[s]; ok {
		return l
	}
	return string(s)
}

// RAGStatus is the qualitative health of a deal.
type RAGStatus string

const (
	RAGGreen  RAGStatus = "green"
	RAGAmber  RAGStatus = "amber"
	RAGRed    RAGStatus = "red"
	RAGClosed RAGStatus = "closed"
)

// IsValid reports whether r is a known RAG status.
func (r RAGStatus) IsValid() bool {
	switch r {
	case RAGGreen, RAGAmber, RAGRed, RAGClosed:
		return true
	default:
		return false
	}
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

// PlantRef is a plant attached to a deal.
type PlantRef struct {
	PlantName  string   `json:"plant_name"`
	UnitName   string   `json:"unit_name,omitempty"`
	CapacityMW float64  `json:"capacity_mw"`
	Country    string   `json:"country,omitempty"`
	Latitude   *float64 `json:"latitude,omitempty"`
	Longitude  *float64 `json:"longitude,omitempty"`
	Status     string   `json:"status,omitempty"`
}

// NextStep is one checklist item.
type NextStep struct {
	Text      string `json:"text"`
	Completed bool   `json:"completed"`
}

// Transaction is one deal.
type Transaction struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Stage      Stage     `json:"stage"`
	RAG        RAGStatus `json:"rag_status"`
	Confidence int       `json:"confidence"`

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

// Activity is one entry of a deal's activity feed.
type Activity struct {
	ID            string       `json:"id"`
	TransactionID string       `json:"transaction_id"`
	Type          ActivityType `json:"type"`
	Title         string       `json:"title"`
	Description   string       `json:"description,omitempty"`
	Author        string       `json:"author"`
	CreatedAt     time.Time    `json:"created_at"`
}

// ActivityInput is the body of POST /transactions/{id}/activities.
type ActivityInput struct {
	Type        ActivityType `json:"type"`
	Title       string       `json:"title"`
	Description string       `json:"description,omitempty"`
}

// ListFilter narrows GET /transactions. Zero values match everything.
type ListFilter struct {
	Stage Stage
	RAG   RAGStatus
}

// StageSummary is one row of GET /pipeline/summary.
type StageSummary struct {
	Stage      Stage   `json:"stage"`
	Label      string  `json:"label"`
	Count      int     `json:"count"`
	CapacityMW float64 `json:"capacity_mw"`
}

// Member is one deal attached to a plant node.
type Member struct {
	Transaction *Transaction `json:"transaction"`
	Plant       PlantRef     `json:"plant"`
}

// PlantNode groups the deals that share a plant location.
type PlantNode struct {
	Key        string   `json:"key"`
	PlantName  string   `json:"plant_name"`
	Country    string   `json:"country,omitempty"`
	Latitude   float64  `json:"latitude"`
	Longitude  float64  `json:"longitude"`
	CapacityMW float64  `json:"capacity_mw"`
	Members    []Member `json:"members"`
}

//Personal.AI order the ending
