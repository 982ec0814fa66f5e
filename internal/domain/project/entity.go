// Package project models curated transition projects and their append-only
// change log.
package project

import (
	"strconv"
	"strings"
	"time"

	"github.com/turtacn/CoalTransition-Atlas/pkg/errors"
)

// Record is a curated transition project. Descriptive fields are fixed at
// creation; the rest are edited one field at a time through EditableFields.
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

// HasCoordinates reports whether the project can be placed on the map.
func (r *Record) HasCoordinates() bool {
	return r.Latitude != nil && r.Longitude != nil
}

// FieldKind describes how an editable column is stored.
type FieldKind int

const (
	FieldText FieldKind = iota
	FieldYear
)

// Field is one editable column.
type Field struct {
	Column string    `json:"column"`
	Label  string    `json:"label"`
	Kind   FieldKind `json:"-"`
}

// EditableFields lists every column UpdateField accepts, in form order.
var EditableFields = []Field{
	{Column: "status", Label: "Status"},
	{Column: "planned_retirement_year", Label: "Planned Retirement Year", Kind: FieldYear},
	{Column: "actual_retirement_year", Label: "Actual Retirement Year", Kind: FieldYear},
	{Column: "transition_type", Label: "Transition Type"},
	{Column: "financial_mechanism", Label: "Financial Mechanism"},
	{Column: "funders", Label: "Funders"},
	{Column: "narrative", Label: "Narrative"},
	{Column: "challenges", Label: "Challenges"},
	{Column: "next_steps", Label: "Next Steps"},
}

// LookupField finds an editable column.
func LookupField(column string) (Field, bool) {
	for _, f := range EditableFields {
		if f.Column == column {
			return f, true
		}
	}
	return Field{}, false
}

// Parse converts the submitted text to the value stored in the column. Empty
// input clears the column (nil).
func (f Field) Parse(raw string) (interface{}, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	if f.Kind == FieldYear {
		y, err := strconv.Atoi(raw)
		if err != nil || y < 1900 || y > 2200 {
			return nil, errors.NewValidationError(f.Column, "must be a year between 1900 and 2200")
		}
		return y, nil
	}
	return raw, nil
}

// Value returns the current value of column as display text.
func (r *Record) Value(column string) string {
	switch column {
	case "status":
		return r.Status
	case "planned_retirement_year":
		return yearText(r.PlannedRetirementYear)
	case "actual_retirement_year":
		return yearText(r.ActualRetirementYear)
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
	default:
		return ""
	}
}

// Apply sets column on r from a value produced by Field.Parse.
func (r *Record) Apply(column string, v interface{}) {
	text, _ := v.(string)
	switch column {
	case "status":
		r.Status = text
	case "planned_retirement_year":
		r.PlannedRetirementYear = yearPtr(v)
	case "actual_retirement_year":
		r.ActualRetirementYear = yearPtr(v)
	case "transition_type":
		r.TransitionType = text
	case "financial_mechanism":
		r.FinancialMechanism = text
	case "funders":
		r.Funders = text
	case "narrative":
		r.Narrative = text
	case "challenges":
		r.Challenges = text
	case "next_steps":
		r.NextSteps = text
	}
}

func yearText(y *int) string {
	if y == nil {
		return ""
	}
	return strconv.Itoa(*y)
}

func yearPtr(v interface{}) *int {
	y, ok := v.(int)
	if !ok {
		return nil
	}
	return &y
}

// Labels used on change-log entries that are not field edits.
const (
	LabelCreated = "Project created"
	LabelNote    = "Note"
)

// ChangeLogEntry records one change to a project. Entries are never updated
// or deleted.
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

//Personal.AI order the ending
