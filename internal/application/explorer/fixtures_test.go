package explorer

import (
	"fmt"

	"github.com/turtacn/CoalTransition-Atlas/internal/domain/impact"
	"github.com/turtacn/CoalTransition-Atlas/internal/domain/plant"
	"github.com/turtacn/CoalTransition-Atlas/pkg/types/common"
)

func f64(v float64) *float64 { return &v }

// plantRows is a small global plant catalog in source-column form.
func plantRows() []common.Row {
	return []common.Row{
		{"plant_name": "Alpha", "unit_name": "U1", "capacity_mw": "300", "country": "Indonesia",
			"latitude": "-6.1", "longitude": "106.8", "status": "operating",
			"combustion_technology": "subcritical", "coal_type": "bituminous", "subregion": "Java",
			"captive": "No", "remaining_plant_lifetime_years": "12"},
		{"plant_name": "Alpha", "unit_name": "U2", "capacity_mw": "1,200", "country": "Indonesia",
			"latitude": "-6.1", "longitude": "106.8", "status": "operating",
			"combustion_technology": "supercritical", "coal_type": "bituminous", "subregion": "Java",
			"captive": "No", "remaining_plant_lifetime_years": "25"},
		{"plant_name": "Beta", "unit_name": "U1", "capacity_mw": "150", "country": "Vietnam",
			"latitude": "21.0", "longitude": "105.8", "status": "retired",
			"combustion_technology": "subcritical", "coal_type": "anthracite", "subregion": "North",
			"captive": " yes ", "remaining_plant_lifetime_years": ""},
		{"plant_name": "Gamma", "unit_name": "U1", "capacity_mw": "n/a", "country": "Philippines",
			"latitude": "", "longitude": "121.0", "status": "planned",
			"combustion_technology": "subcritical", "coal_type": "lignite", "subregion": "Luzon",
			"captive": "No", "remaining_plant_lifetime_years": "30"},
	}
}

func impactRows() []common.Row {
	return []common.Row{
		{"plant_name": "Alpha", "unit_name": "U1", "country": "Indonesia",
			"avoided_co2_emissions": "10.5", "avoided_deaths": "120", "investment": "$45.6M", "permanent_jobs": "1,000"},
		{"plant_name": "alpha ", "unit_name": "u2", "country": "Indonesia",
			"avoided_co2_emissions": "20", "avoided_deaths": "80", "investment": "10"},
		{"plant_name": "Beta", "unit_name": "", "country": "Vietnam",
			"avoided_co2_emissions": "40", "avoided_deaths": "n/a"},
		{"plant_name": "Delta", "unit_name": "U9", "country": "Vietnam",
			"avoided_co2_emissions": "5", "avoided_deaths": "10"},
	}
}

// rowsWithCO2 returns one impact row per country, each a distinct plant with
// the same avoided CO2.
func rowsWithCO2(countries ...string) []common.Row {
	rows := make([]common.Row, len(countries))
	for i, c := range countries {
		rows[i] = common.Row{
			"plant_name":            fmt.Sprintf("Plant %d", i),
			"country":               c,
			"avoided_co2_emissions": "1",
		}
	}
	return rows
}

func testUnits() []plant.PlantUnit { return plant.UnitsFromRows(plantRows()) }

func testImpacts() []impact.Result { return impact.ResultsFromRows(impactRows()) }

//Personal.AI order the ending
