// Package plant defines the wire types of the plant catalogue: grouped
// plants, units, filters and the statistics computed over them.
package plant

import (
	"strings"

	"github.com/turtacn/CoalTransition-Atlas/pkg/errors"
	"github.com/turtacn/CoalTransition-Atlas/pkg/types/impact"
)

// Status is the canonical operating status of a unit.
type Status string

const (
	StatusOperating         Status = "Operating"
	StatusRetired           Status = "Retired"
	StatusMothballed        Status = "Mothballed"
	StatusUnderConstruction Status = "UnderConstruction"
	StatusPlanned           Status = "Planned"
	StatusUnknown           Status = "Unknown"
)

// CaptiveMode selects units by their captive flag.
type CaptiveMode string

const (
	CaptiveAll CaptiveMode = "all"
	CaptiveYes CaptiveMode = "yes"
	CaptiveNo  CaptiveMode = "no"
)

// ParseCaptiveMode accepts "", "all", "yes" and "no" in any case.
func ParseCaptiveMode(s string) (CaptiveMode, error) {
	switch CaptiveMode(strings.ToLower(strings.TrimSpace(s))) {
	case "", CaptiveAll:
		return CaptiveAll, nil
	case CaptiveYes:
		return CaptiveYes, nil
	case CaptiveNo:
		return CaptiveNo, nil
	}
	return "", errors.Errorf(errors.ErrCodeFilterInvalid, "captive must be all, yes or no, got %q", s)
}

// FilterOptions narrows the catalogue. Empty sets and nil bounds match
// everything.
type FilterOptions struct {
	CapacityMin          *float64    `json:"capacity_min,omitempty"`
	CapacityMax          *float64    `json:"capacity_max,omitempty"`
	Countries            []string    `json:"countries,omitempty"`
	CombustionTech       []string    `json:"combustion_tech,omitempty"`
	CoalTypes            []string    `json:"coal_types,omitempty"`
	Subregions           []string    `json:"subregions,omitempty"`
	Captive              CaptiveMode `json:"captive,omitempty"`
	MaxRemainingLifetime *float64    `json:"max_remaining_lifetime,omitempty"`
}

// Validate rejects what the server would reject before sending it.
func (o FilterOptions) Validate() error {
	if o.CapacityMin != nil && o.CapacityMax != nil && *o.CapacityMin > *o.CapacityMax {
		return errors.New(errors.ErrCodeFilterInvalid, "capacity_min exceeds capacity_max")
	}
	switch o.Captive {
	case "", CaptiveAll, CaptiveYes, CaptiveNo:
	default:
		return errors.Errorf(errors.ErrCodeFilterInvalid, "unknown captive mode %q", o.Captive)
	}
	if o.MaxRemainingLifetime != nil && *o.MaxRemainingLifetime < 0 {
		return errors.New(errors.ErrCodeFilterInvalid, "max_remaining_lifetime must be >= 0")
	}
	return nil
}

// PlantUnit is one generating unit.
type PlantUnit struct {
	ID                     string   `json:"id,omitempty"`
	PlantName              string   `json:"plant_name"`
	UnitName               string   `json:"unit_name,omitempty"`
	CapacityMW             float64  `json:"capacity_mw"`
	Country                string   `json:"country"`
	Latitude               *float64 `json:"latitude,omitempty"`
	Longitude              *float64 `json:"longitude,omitempty"`
	Status                 Status   `json:"status"`
	StatusLabel            string   `json:"status_label,omitempty"`
	StartYear              *int     `json:"start_year,omitempty"`
	CombustionTechnology   string   `json:"combustion_technology,omitempty"`
	CoalType               string   `json:"coal_type,omitempty"`
	Subregion              string   `json:"subregion,omitempty"`
	Captive                string   `json:"captive,omitempty"`
	Owner                  string   `json:"owner,omitempty"`
	Parent                 string   `json:"parent,omitempty"`
	RemainingLifetimeYears *float64 `json:"remaining_lifetime_years,omitempty"`
}

// UnitDetail is the per-unit line of a grouped plant.
type UnitDetail struct {
	UnitName   string  `json:"unit_name"`
	CapacityMW float64 `json:"capacity_mw"`
}

// Plant is the units sharing one plant name, summed and placed at the
// first unit's coordinates.
type Plant struct {
	Key                  string       `json:"key"`
	Name                 string       `json:"name"`
	CapacityMW           float64      `json:"capacity_mw"`
	Latitude             float64      `json:"latitude"`
	Longitude            float64      `json:"longitude"`
	Country              string       `json:"country"`
	Status               Status       `json:"status"`
	StatusLabel          string       `json:"status_label,omitempty"`
	Owner                string       `json:"owner,omitempty"`
	CombustionTechnology string       `json:"combustion_technology,omitempty"`
	CoalType             string       `json:"coal_type,omitempty"`
	Subregion            string       `json:"subregion,omitempty"`
	Captive              string       `json:"captive,omitempty"`
	StartYear            *int         `json:"start_year,omitempty"`
	UnitDetails          []UnitDetail `json:"unit_details"`
}

// DisplayStatus prefers the server's label over the raw status.
func (p Plant) DisplayStatus() string {
	if p.StatusLabel != "" {
		return p.StatusLabel
	}
	return string(p.Status)
}

// PlantsResult is the body of GET /plants.
type PlantsResult struct {
	Plants    []Plant `json:"plants"`
	UnitCount int     `json:"unit_count"`
	Excluded  int     `json:"excluded"`
}

// Facets lists the distinct filter values present in the catalogue.
type Facets struct {
	Countries      []string `json:"countries"`
	CombustionTech []string `json:"combustion_tech"`
	CoalTypes      []string `json:"coal_types"`
	Subregions     []string `json:"subregions"`
	CapacityMin    float64  `json:"capacity_min"`
	CapacityMax    float64  `json:"capacity_max"`
}

// RowIssues counts catalogue rows that could not be placed on the map.
type RowIssues struct {
	GeometryMissing int `json:"geometry_missing"`
	ParseFailure    int `json:"parse_failure"`
}

// MetricTotals maps each metric to its sum.
type MetricTotals map[impact.Metric]float64

// Summary totals the plants matching a filter.
type Summary struct {
	PlantCount int          `json:"plant_count"`
	UnitCount  int          `json:"unit_count"`
	CapacityMW float64      `json:"capacity_mw"`
	Totals     MetricTotals `json:"totals"`
}

// CountryStats totals one country.
type CountryStats struct {
	Country    string       `json:"country"`
	PlantCount int          `json:"plant_count"`
	Totals     MetricTotals `json:"totals"`
}

// PlantRanking is one row of a top-N ranking.
type PlantRanking struct {
	Rank      int          `json:"rank"`
	PlantName string       `json:"plant_name"`
	Country   string       `json:"country,omitempty"`
	Value     float64      `json:"value"`
	Totals    MetricTotals `json:"totals"`
}

// ScreenPoint is a pixel position on the map canvas.
type ScreenPoint struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// LayoutResult is the child ring computed around a parent marker.
type LayoutResult struct {
	Parent ScreenPoint   `json:"parent"`
	Radius float64       `json:"radius"`
	Points []ScreenPoint `json:"points"`
}

//Personal.AI order the ending
