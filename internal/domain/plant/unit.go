package plant

import (
	"strconv"
	"strings"

	"github.com/turtacn/CoalTransition-Atlas/pkg/types/common"
)

// Status is the operational status of a unit.
type Status string

const (
	StatusOperating         Status = "Operating"
	StatusRetired           Status = "Retired"
	StatusMothballed        Status = "Mothballed"
	StatusUnderConstruction Status = "UnderConstruction"
	StatusPlanned           Status = "Planned"
	StatusUnknown           Status = "Unknown"
)

// ParseStatus maps the free-form status strings found in the catalog onto
// Status. Anything unrecognized is StatusUnknown.
func ParseStatus(s string) Status {
	switch strings.ToLower(strings.Join(strings.Fields(s), " ")) {
	case "operating", "operational", "active":
		return StatusOperating
	case "retired", "closed", "decommissioned":
		return StatusRetired
	case "mothballed", "idle":
		return StatusMothballed
	case "construction", "under construction", "underconstruction":
		return StatusUnderConstruction
	case "planned", "planning", "permitted", "pre-permit", "announced":
		return StatusPlanned
	default:
		return StatusUnknown
	}
}

// PlantUnit is one physical generating unit.
type PlantUnit struct {
	ID        string `json:"id,omitempty"`
	PlantName string `json:"plant_name"`
	UnitName  string `json:"unit_name,omitempty"`

	// CapacityMW is the tolerant parse of CapacityRaw, 0 when unparsable.
	CapacityMW  float64     `json:"capacity_mw"`
	CapacityRaw interface{} `json:"-"`

	Country string `json:"country"`

	// LatitudeRaw and LongitudeRaw are the coordinates exactly as stored;
	// PlantKey is built from them.
	LatitudeRaw  string   `json:"-"`
	LongitudeRaw string   `json:"-"`
	Latitude     *float64 `json:"latitude,omitempty"`
	Longitude    *float64 `json:"longitude,omitempty"`

	Status               Status `json:"status"`
	StatusLabel          string `json:"status_label,omitempty"`
	StartYear            *int   `json:"start_year,omitempty"`
	CombustionTechnology string `json:"combustion_technology,omitempty"`
	CoalType             string `json:"coal_type,omitempty"`
	Subregion            string `json:"subregion,omitempty"`
	Captive              string `json:"captive,omitempty"`
	Owner                string `json:"owner,omitempty"`
	Parent               string `json:"parent,omitempty"`

	// RemainingLifetimeYears is nil when the source value is missing or
	// unparsable.
	RemainingLifetimeYears *float64 `json:"remaining_lifetime_years,omitempty"`
}

// HasCoordinates reports whether both coordinates parsed.
func (u PlantUnit) HasCoordinates() bool {
	return u.Latitude != nil && u.Longitude != nil
}

// Key returns the plant identity key of the unit.
func (u PlantUnit) Key() string {
	return PlantKey(u.PlantName, u.LatitudeRaw, u.LongitudeRaw)
}

// UnitFromRow builds a PlantUnit from a global plant row. Rows that have not
// been normalized yet are normalized first.
func UnitFromRow(row common.Row) PlantUnit {
	if _, ok := row[DisplayPlantName]; !ok {
		row = Normalize(KindGlobalPlant, row)
	}

	u := PlantUnit{
		ID:                   row.String("id"),
		PlantName:            row.String(DisplayPlantName),
		UnitName:             row.String(DisplayUnitName),
		CapacityRaw:          row[DisplayCapacityMW],
		CapacityMW:           common.SumValue(row[DisplayCapacityMW]),
		Country:              row.String(DisplayCountry),
		LatitudeRaw:          row.String(DisplayLatitude),
		LongitudeRaw:         row.String(DisplayLongitude),
		StatusLabel:          row.String(DisplayStatus),
		CombustionTechnology: row.String(DisplayCombustionTech),
		CoalType:             row.String(DisplayCoalType),
		Subregion:            row.String(DisplaySubregion),
		Captive:              row.String(DisplayCaptive),
		Owner:                row.String(DisplayOwner),
		Parent:               row.String(DisplayParent),
	}
	u.Status = ParseStatus(u.StatusLabel)
	u.Latitude = parseCoordinate(u.LatitudeRaw, 90)
	u.Longitude = parseCoordinate(u.LongitudeRaw, 180)
	if v, ok := common.FilterValue(row[DisplayRemainingLifetime]); ok {
		u.RemainingLifetimeYears = &v
	}
	if y, ok := common.FilterValue(row[DisplayStartYear]); ok {
		year := int(y)
		u.StartYear = &year
	}
	return u
}

// UnitsFromRows converts every row with UnitFromRow, preserving order.
func UnitsFromRows(rows []common.Row) []PlantUnit {
	out := make([]PlantUnit, len(rows))
	for i, r := range rows {
		out[i] = UnitFromRow(r)
	}
	return out
}

func parseCoordinate(raw string, limit float64) *float64 {
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || v < -limit || v > limit {
		return nil
	}
	return &v
}

// UnitDetail is one entry of a plant's unit breakdown.
type UnitDetail struct {
	UnitName   string  `json:"unit_name"`
	CapacityMW float64 `json:"capacity_mw"`
}

// Plant is the aggregate of every unit sharing one PlantKey. It is derived on
// demand and never persisted.
type Plant struct {
	Key        string  `json:"key"`
	Name       string  `json:"name"`
	CapacityMW float64 `json:"capacity_mw"`
	Latitude   float64 `json:"latitude"`
	Longitude  float64 `json:"longitude"`

	Country              string `json:"country"`
	Status               Status `json:"status"`
	StatusLabel          string `json:"status_label,omitempty"`
	Owner                string `json:"owner,omitempty"`
	CombustionTechnology string `json:"combustion_technology,omitempty"`
	CoalType             string `json:"coal_type,omitempty"`
	Subregion            string `json:"subregion,omitempty"`
	Captive              string `json:"captive,omitempty"`
	StartYear            *int   `json:"start_year,omitempty"`

	UnitDetails []UnitDetail `json:"unit_details"`
}

// UnitCount returns the number of units folded into p.
func (p Plant) UnitCount() int { return len(p.UnitDetails) }

//Personal.AI order the ending
