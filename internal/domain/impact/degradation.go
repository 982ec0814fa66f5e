package impact

import (
	"math"

	"github.com/turtacn/CoalTransition-Atlas/pkg/errors"
)

// MetricKind selects which factors apply to a projected metric.
type MetricKind string

const (
	// KindEmissions metrics scale with fuel burned and take both factors.
	KindEmissions MetricKind = "emissions"
	// KindOperational metrics scale with operating hours and take only the
	// capacity factor.
	KindOperational MetricKind = "operational"
)

// MetricKindFor maps a metric to its kind.
func MetricKindFor(m Metric) MetricKind {
	if m == MetricCO2 {
		return KindEmissions
	}
	return KindOperational
}

// Segment classifies a projection point relative to the retirement year.
type Segment string

const (
	SegmentActive Segment = "active"
	SegmentFaded  Segment = "faded"
)

// MaxProjectionYears bounds the length of one projection.
const MaxProjectionYears = 200

// DegradationParams configures Project.
type DegradationParams struct {
	BaseAnnualValue       float64    `json:"base_annual_value"`
	StartYear             int        `json:"start_year"`
	EndYear               int        `json:"end_year"`
	EfficiencyRatePercent float64    `json:"efficiency_rate_percent"`
	CapacityRatePercent   float64    `json:"capacity_rate_percent"`
	Enabled               bool       `json:"degradation_enabled"`
	Kind                  MetricKind `json:"kind"`
	// RetirementYear splits the series for display; 0 keeps every year active.
	RetirementYear int `json:"retirement_year,omitempty"`
}

// ProjectionPoint is one year of a projection.
type ProjectionPoint struct {
	Year       int     `json:"year"`
	Annual     float64 `json:"annual"`
	Cumulative float64 `json:"cumulative"`
	Segment    Segment `json:"segment"`
}

// EfficiencyFactor is the compounding increase (1+rate/100)^t.
func EfficiencyFactor(ratePercent float64, yearsElapsed int) float64 {
	return math.Pow(1+ratePercent/100, float64(yearsElapsed))
}

// CapacityFactor is the compounding decrease (1-rate/100)^t.
func CapacityFactor(ratePercent float64, yearsElapsed int) float64 {
	return math.Pow(1-ratePercent/100, float64(yearsElapsed))
}

// Validate checks the year range and the rates. A capacity rate above 100
// would turn the factor negative and flip its sign every year.
func (p DegradationParams) Validate() error {
	if p.EndYear < p.StartYear {
		return errors.New(errors.ErrCodeProjectionRangeInvalid, "end year precedes start year")
	}
	if p.EndYear-p.StartYear >= MaxProjectionYears {
		return errors.Errorf(errors.ErrCodeProjectionRangeInvalid, "projection longer than %d years", MaxProjectionYears)
	}
	if math.IsNaN(p.CapacityRatePercent) || p.CapacityRatePercent < 0 || p.CapacityRatePercent > 100 {
		return errors.NewValidationError("capacity_rate_percent", "capacity rate must be within [0,100]")
	}
	if math.IsNaN(p.EfficiencyRatePercent) || math.IsInf(p.EfficiencyRatePercent, 0) || p.EfficiencyRatePercent < 0 {
		return errors.NewValidationError("efficiency_rate_percent", "efficiency rate must not be negative")
	}
	if p.Kind != "" && p.Kind != KindEmissions && p.Kind != KindOperational {
		return errors.NewValidationError("kind", "unknown metric kind")
	}
	return nil
}

// Project computes the annual and cumulative series from StartYear to EndYear
// inclusive. The retirement split only sets Segment.
func Project(p DegradationParams) ([]ProjectionPoint, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	kind := p.Kind
	if kind == "" {
		kind = KindEmissions
	}

	points := make([]ProjectionPoint, 0, p.EndYear-p.StartYear+1)
	var cumulative float64
	for y := p.StartYear; y <= p.EndYear; y++ {
		t := y - p.StartYear
		eff, capf := 1.0, 1.0
		if p.Enabled {
			eff = EfficiencyFactor(p.EfficiencyRatePercent, t)
			capf = CapacityFactor(p.CapacityRatePercent, t)
		}

		annual := p.BaseAnnualValue * capf
		if kind == KindEmissions {
			annual *= eff
		}
		cumulative += annual

		seg := SegmentActive
		if p.RetirementYear != 0 && y > p.RetirementYear {
			seg = SegmentFaded
		}
		points = append(points, ProjectionPoint{Year: y, Annual: annual, Cumulative: cumulative, Segment: seg})
	}
	return points, nil
}

//Personal.AI order the ending
