// Package project defines the wire types of the project editor and its
// change log.
package project

import (
	"strconv"
	"time"
)

// Record is one transition project.
type Record struct {
	ID string `json:"id"`

	PlantName  string   `json:"plant_name"`
	UnitName   string   `json:"unit_name,omitempty"`
	CapacityMW float64  `json:"capacity_mw"`
	Country    string   `json:"country"`
	Latitude   *float64 `json:"latitude,omitempty"`
	Longitude  *float64 `json:"longitude,omitempty"`

	Status                string `json:"status"`
	PlannedRetirementYear *int   `json:"planned_retirement_year,omitempty"`
	ActualRetirementYear  *int   `json:"actual_retirement_year,omitempty"`
	TransitionType        string `json:"transition_type,omitempty"`
	FinancialMechanism    string `json:"financial_mechanism,omitempty"`
	Funders               string `json:"funders,omitempty"`
	Narrative             string `json:"narrative,omitempty"`
	Challenges            string `json:"challenges,omitempty"`
	NextSteps             string `json:"next_steps,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Value renders an editable column as text; unknown columns render as "".
func (r *Record) Value(column string) string {
	switch column {
	case "status":
		return r.Status
	case "planned_retirement_year":
		return year(r.PlannedRetirementYear)
	case "actual_retirement_year":
		return year(r.ActualRetirementYear)
	case "transition_type":
		return r.TransitionType
	case "financial_mechanism":
		return r.FinancialMechanism
	case "funders":
		return r.Funders
	case "narrative":
		return r.Narrative
	case "challenges":
		return r.Challenges
	case "next_steps":
		return r.NextSteps
	}
	return ""
}

func year(y *int) string {
	if y == nil {
		return ""
	}
	return strconv.Itoa(*y)
}

// Field is an editable column and its display label.
type Field struct {
	Column string `json:"column"`
	Label  string `json:"label"`
}

// ChangeLogEntry is one recorded edit or note.
type ChangeLogEntry struct {
	ID         string    `json:"id"`
	ProjectID  string    `json:"project_id"`
	PlantName  string    `json:"plant_name"`
	FieldLabel string    `json:"field_label"`
	OldValue   string    `json:"old_value,omitempty"`
	NewValue   string    `json:"new_value,omitempty"`
	Note       string    `json:"note,omitempty"`
	Author     string    `json:"author"`
	CreatedAt  time.Time `json:"created_at"`
}

// ListInput filters and pages GET /projects.
type ListInput struct {
	Country  string `json:"country,omitempty"`
	Status   string `json:"status,omitempty"`
	Search   string `json:"search,omitempty"`
	Page     int    `json:"page,omitempty"`
	PageSize int    `json:"page_size,omitempty"`
}

// CreateInput is the body of POST /projects.
type CreateInput struct {
	PlantName  string   `json:"plant_name"`
	UnitName   string   `json:"unit_name,omitempty"`
	CapacityMW float64  `json:"capacity_mw"`
	Country    string   `json:"country"`
	Latitude   *float64 `json:"latitude,omitempty"`
	Longitude  *float64 `json:"longitude,omitempty"`

	Status                string `json:"status,omitempty"`
	PlannedRetirementYear *int   `json:"planned_retirement_year,omitempty"`
	TransitionType        string `json:"transition_type,omitempty"`
	FinancialMechanism    string `json:"financial_mechanism,omitempty"`
	Funders               string `json:"funders,omitempty"`
	Narrative             string `json:"narrative,omitempty"`
}

// UpdateResult reports one field edit. Entry is nil when nothing changed.
type UpdateResult struct {
	Project *Record         `json:"project"`
	Entry   *ChangeLogEntry `json:"entry,omitempty"`
	Changed bool            `json:"changed"`
}

//Personal.AI order the ending
