// Package plant models generating units as they arrive from the row store,
// the display schema they are normalized into, and the identity rules that
// collapse units into plants.
package plant

import (
	"github.com/turtacn/CoalTransition-Atlas/pkg/types/common"
)

// FieldTableVersion identifies the revision of the alias tables below. Bump it
// whenever an entry is added, removed or renamed.
const FieldTableVersion = 3

// EntityKind selects the alias table applied by Normalize.
type EntityKind string

const (
	KindProject     EntityKind = "project"
	KindGlobalPlant EntityKind = "global_plant"
	KindImpact      EntityKind = "impact"
)

// FieldAlias maps one stored column to the display label it is exposed under.
type FieldAlias struct {
	SourceKey  string
	DisplayKey string
}

// Display labels shared by more than one table.
const (
	DisplayPlantName  = "Plant Name"
	DisplayUnitName   = "Unit Name"
	DisplayCapacityMW = "Capacity (MW)"
	DisplayCountry    = "Country/Area"
	DisplayLatitude   = "Latitude"
	DisplayLongitude  = "Longitude"
	DisplayStatus     = "Status"
	DisplayOwner      = "Owner"
)

// Global plant catalog labels.
const (
	DisplayStartYear         = "Start Year"
	DisplayCombustionTech    = "Combustion Technology"
	DisplayCoalType          = "Coal Type"
	DisplaySubregion         = "Subregion"
	DisplayCaptive           = "Captive"
	DisplayRemainingLifetime = "Remaining Plant Lifetime (years)"
	DisplayParent            = "Parent"
	DisplayRegion            = "Region"
	DisplayPlannedRetirement = "Planned Retirement"
)

// Project labels.
const (
	DisplayPlannedRetirementYear = "Planned Retirement Year"
	DisplayActualRetirementYear  = "Actual Retirement Year"
	DisplayTransitionType        = "Transition Type"
	DisplayFinancialMechanism    = "Financial Mechanism"
	DisplayFunders               = "Funders"
	DisplayNarrative             = "Narrative"
	DisplayChallenges            = "Challenges"
	DisplayNextSteps             = "Next Steps"
)

// Impact result labels.
const (
	DisplayYear            = "Year"
	DisplayAvoidedCO2      = "Avoided CO2 Emissions (Mt)"
	DisplayAvoidedDeaths   = "Avoided Deaths"
	DisplayAvoidedWLD      = "Avoided Work Loss Days"
	DisplayInvestment      = "Investment ($M)"
	DisplaySpillover       = "Economic Spillover ($M)"
	DisplayPermanentJobs   = "Permanent Jobs"
	DisplayTemporaryJobs   = "Temporary Jobs"
	DisplayCustomerSavings = "Customer Savings ($M)"
)

// GlobalPlantFields is the alias table for rows of the global plant catalog.
var GlobalPlantFields = []FieldAlias{
	{"plant_name", DisplayPlantName},
	{"unit_name", DisplayUnitName},
	{"capacity_mw", DisplayCapacityMW},
	{"country", DisplayCountry},
	{"latitude", DisplayLatitude},
	{"longitude", DisplayLongitude},
	{"status", DisplayStatus},
	{"start_year", DisplayStartYear},
	{"combustion_technology", DisplayCombustionTech},
	{"coal_type", DisplayCoalType},
	{"subregion", DisplaySubregion},
	{"captive", DisplayCaptive},
	{"remaining_plant_lifetime_years", DisplayRemainingLifetime},
	{"owner", DisplayOwner},
	{"parent", DisplayParent},
	{"region", DisplayRegion},
	{"planned_retirement", DisplayPlannedRetirement},
}

// ProjectFields is the alias table for curated project rows.
var ProjectFields = []FieldAlias{
	{"plant_name", DisplayPlantName},
	{"unit_name", DisplayUnitName},
	{"capacity_mw", DisplayCapacityMW},
	{"country", DisplayCountry},
	{"latitude", DisplayLatitude},
	{"longitude", DisplayLongitude},
	{"status", DisplayStatus},
	{"owner", DisplayOwner},
	{"planned_retirement_year", DisplayPlannedRetirementYear},
	{"actual_retirement_year", DisplayActualRetirementYear},
	{"transition_type", DisplayTransitionType},
	{"financial_mechanism", DisplayFinancialMechanism},
	{"funders", DisplayFunders},
	{"narrative", DisplayNarrative},
	{"challenges", DisplayChallenges},
	{"next_steps", DisplayNextSteps},
}

// ImpactFields is the alias table for impact result rows, both the lifetime
// totals and the annual breakdown.
var ImpactFields = []FieldAlias{
	{"plant_name", DisplayPlantName},
	{"unit_name", DisplayUnitName},
	{"country", DisplayCountry},
	{"year", DisplayYear},
	{"avoided_co2_emissions", DisplayAvoidedCO2},
	{"avoided_deaths", DisplayAvoidedDeaths},
	{"avoided_work_loss_days", DisplayAvoidedWLD},
	{"investment", DisplayInvestment},
	{"economic_spillover", DisplaySpillover},
	{"permanent_jobs", DisplayPermanentJobs},
	{"temporary_jobs", DisplayTemporaryJobs},
	{"customer_savings", DisplayCustomerSavings},
}

// FieldsFor returns the alias table for kind, or nil for an unknown kind.
func FieldsFor(kind EntityKind) []FieldAlias {
	switch kind {
	case KindProject:
		return ProjectFields
	case KindGlobalPlant:
		return GlobalPlantFields
	case KindImpact:
		return ImpactFields
	default:
		return nil
	}
}

// Normalize returns a new row holding every key of row plus one display key
// per alias of kind. A missing source column yields a nil alias value. Values
// are copied as-is; callers coerce numbers where they do arithmetic.
func Normalize(kind EntityKind, row common.Row) common.Row {
	aliases := FieldsFor(kind)
	out := make(common.Row, len(row)+len(aliases))
	for k, v := range row {
		out[k] = v
	}
	for _, a := range aliases {
		out[a.DisplayKey] = row[a.SourceKey]
	}
	return out
}

// NormalizeAll applies Normalize to every row.
func NormalizeAll(kind EntityKind, rows []common.Row) []common.Row {
	out := make([]common.Row, len(rows))
	for i, r := range rows {
		out[i] = Normalize(kind, r)
	}
	return out
}

//Personal.AI order the ending
