// Package impact holds precomputed impact results and the degradation model
// used to project them over time.
package impact

import (
	"strings"

	"github.com/turtacn/CoalTransition-Atlas/internal/domain/plant"
	"github.com/turtacn/CoalTransition-Atlas/pkg/types/common"
)

// Metric identifies one impact measure.
type Metric string

const (
	MetricCO2             Metric = "co2"
	MetricDeaths          Metric = "deaths"
	MetricWorkLossDays    Metric = "wld"
	MetricInvestment      Metric = "investment"
	MetricSpillover       Metric = "spillover"
	MetricPermanentJobs   Metric = "permanent_jobs"
	MetricTemporaryJobs   Metric = "temporary_jobs"
	MetricCustomerSavings Metric = "customer_savings"
)

// AllMetrics lists every metric in display order.
var AllMetrics = []Metric{
	MetricCO2,
	MetricDeaths,
	MetricWorkLossDays,
	MetricInvestment,
	MetricSpillover,
	MetricPermanentJobs,
	MetricTemporaryJobs,
	MetricCustomerSavings,
}

var metricDisplayKeys = map[Metric]string{
	MetricCO2:             plant.DisplayAvoidedCO2,
	MetricDeaths:          plant.DisplayAvoidedDeaths,
	MetricWorkLossDays:    plant.DisplayAvoidedWLD,
	MetricInvestment:      plant.DisplayInvestment,
	MetricSpillover:       plant.DisplaySpillover,
	MetricPermanentJobs:   plant.DisplayPermanentJobs,
	MetricTemporaryJobs:   plant.DisplayTemporaryJobs,
	MetricCustomerSavings: plant.DisplayCustomerSavings,
}

// ParseMetric validates s.
func ParseMetric(s string) (Metric, bool) {
	m := Metric(strings.ToLower(strings.TrimSpace(s)))
	_, ok := metricDisplayKeys[m]
	return m, ok
}

// DisplayKey returns the normalized row label holding m.
func (m Metric) DisplayKey() string { return metricDisplayKeys[m] }

// Result is one impact row. Values hold the raw, display-formatted strings;
// use Value to get numbers.
type Result struct {
	PlantName string                 `json:"plant_name"`
	UnitName  string                 `json:"unit_name,omitempty"`
	Country   string                 `json:"country,omitempty"`
	Year      *int                   `json:"year,omitempty"`
	Values    map[Metric]interface{} `json:"values"`
}

// Value returns the metric parsed with the summation policy.
func (r Result) Value(m Metric) float64 {
	return common.SumValue(r.Values[m])
}

// MatchKey returns the join key between impact rows and plant units.
func (r Result) MatchKey() string { return MatchKey(r.PlantName, r.UnitName) }

// MatchKey builds the case-insensitive, trimmed plant+unit join key.
func MatchKey(plantName, unitName string) string {
	return strings.ToLower(strings.TrimSpace(plantName)) + "|" + strings.ToLower(strings.TrimSpace(unitName))
}

// ResultFromRow builds a Result from an impact row, normalizing it first when
// needed.
func ResultFromRow(row common.Row) Result {
	if _, ok := row[plant.DisplayPlantName]; !ok {
		row = plant.Normalize(plant.KindImpact, row)
	}
	r := Result{
		PlantName: row.String(plant.DisplayPlantName),
		UnitName:  row.String(plant.DisplayUnitName),
		Country:   row.String(plant.DisplayCountry),
		Values:    make(map[Metric]interface{}, len(AllMetrics)),
	}
	if y, ok := common.FilterValue(row[plant.DisplayYear]); ok {
		year := int(y)
		r.Year = &year
	}
	for _, m := range AllMetrics {
		r.Values[m] = row[m.DisplayKey()]
	}
	return r
}

// ResultsFromRows converts rows in order.
func ResultsFromRows(rows []common.Row) []Result {
	out := make([]Result, len(rows))
	for i, row := range rows {
		out[i] = ResultFromRow(row)
	}
	return out
}

//Personal.AI order the ending
