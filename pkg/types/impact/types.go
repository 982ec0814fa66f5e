// Package impact defines the wire types of the impact endpoints: metric
// identifiers, per-plant results and degradation projections.
package impact

import (
	"strings"

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

// IsValid reports whether m is a known metric.
func (m Metric) IsValid() bool {
	for _, known := range AllMetrics {
		if m == known {
			return true
		}
	}
	return false
}

// ParseMetric trims and lowercases s before checking it.
func ParseMetric(s string) (Metric, bool) {
	m := Metric(strings.ToLower(strings.TrimSpace(s)))
	return m, m.IsValid()
}

// Result is one impact row. Values carry the server's raw display strings.
type Result struct {
	PlantName string                 `json:"plant_name"`
	UnitName  string                 `json:"unit_name,omitempty"`
	Country   string                 `json:"country,omitempty"`
	Year      *int                   `json:"year,omitempty"`
	Values    map[Metric]interface{} `json:"values"`
}

// Value parses one metric; unparsable values read as 0.
func (r Result) Value(m Metric) float64 {
	return common.SumValue(r.Values[m])
}

// MetricKind selects which degradation factors apply.
type MetricKind string

const (
	KindEmissions   MetricKind = "emissions"
	KindOperational MetricKind = "operational"
)

// Segment tells whether a projected year falls before or after retirement.
type Segment string

const (
	SegmentActive Segment = "active"
	SegmentFaded  Segment = "faded"
)

// ProjectionRequest is the body of POST /impact/projection.
type ProjectionRequest struct {
	PlantName             string   `json:"plant_name"`
	Metric                Metric   `json:"metric"`
	BaseAnnualValue       *float64 `json:"base_annual_value,omitempty"`
	StartYear             int      `json:"start_year,omitempty"`
	EndYear               int      `json:"end_year,omitempty"`
	EfficiencyRatePercent float64  `json:"efficiency_rate_percent"`
	CapacityRatePercent   float64  `json:"capacity_rate_percent"`
	Enabled               bool     `json:"degradation_enabled"`
	RetirementYear        int      `json:"retirement_year,omitempty"`
}

// ProjectionPoint is one projected year.
type ProjectionPoint struct {
	Year       int     `json:"year"`
	Annual     float64 `json:"annual"`
	Cumulative float64 `json:"cumulative"`
	Segment    Segment `json:"segment"`
}

// Projection is the series returned for a ProjectionRequest.
type Projection struct {
	PlantName string            `json:"plant_name,omitempty"`
	Metric    Metric            `json:"metric"`
	Kind      MetricKind        `json:"kind"`
	Base      float64           `json:"base_annual_value"`
	BaseYear  int               `json:"base_year,omitempty"`
	Points    []ProjectionPoint `json:"points"`
}

//Personal.AI order the ending
