// Package impact serves precomputed impact results and projections built on
// them.
package impact

import (
	"context"
	"sort"
	"strings"

	"github.com/turtacn/CoalTransition-Atlas/internal/application/catalog"
	domain "github.com/turtacn/CoalTransition-Atlas/internal/domain/impact"
	"github.com/turtacn/CoalTransition-Atlas/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/CoalTransition-Atlas/pkg/errors"
	"github.com/turtacn/CoalTransition-Atlas/pkg/types/common"
)

// DefaultHorizonYears is the projection length used when EndYear is unset.
const DefaultHorizonYears = 30

// RowSource yields raw table rows. *catalog.Loader satisfies it.
type RowSource interface {
	Rows(ctx context.Context, table string) ([]common.Row, error)
}

// ProjectionRequest asks for a degradation projection of one plant metric.
// When BaseAnnualValue is nil the plant's annual result is used.
type ProjectionRequest struct {
	PlantName             string        `json:"plant_name"`
	Metric                domain.Metric `json:"metric"`
	BaseAnnualValue       *float64      `json:"base_annual_value,omitempty"`
	StartYear             int           `json:"start_year,omitempty"`
	EndYear               int           `json:"end_year,omitempty"`
	EfficiencyRatePercent float64       `json:"efficiency_rate_percent"`
	CapacityRatePercent   float64       `json:"capacity_rate_percent"`
	Enabled               bool          `json:"degradation_enabled"`
	RetirementYear        int           `json:"retirement_year,omitempty"`
}

// Projection is the result of Project.
type Projection struct {
	PlantName string                   `json:"plant_name,omitempty"`
	Metric    domain.Metric            `json:"metric"`
	Kind      domain.MetricKind        `json:"kind"`
	Base      float64                  `json:"base_annual_value"`
	BaseYear  int                      `json:"base_year,omitempty"`
	Points    []domain.ProjectionPoint `json:"points"`
}

// Service is the impact application service.
type Service struct {
	rows   RowSource
	logger logging.Logger
}

// NewService builds a Service.
func NewService(rows RowSource, logger logging.Logger) *Service {
	return &Service{rows: rows, logger: logger}
}

// Totals returns the lifetime result rows.
func (s *Service) Totals(ctx context.Context) ([]domain.Result, error) {
	rows, err := s.rows.Rows(ctx, catalog.TableImpactTotal)
	if err != nil {
		return nil, err
	}
	return domain.ResultsFromRows(rows), nil
}

// Annual returns the yearly rows of plantName ordered by year. Names match
// case-insensitively after trimming.
func (s *Service) Annual(ctx context.Context, plantName string) ([]domain.Result, error) {
	if strings.TrimSpace(plantName) == "" {
		return nil, errors.NewValidationError("plant", "plant name is required")
	}
	rows, err := s.rows.Rows(ctx, catalog.TableImpactAnnual)
	if err != nil {
		return nil, err
	}

	want := domain.MatchKey(plantName, "")
	out := make([]domain.Result, 0)
	for _, r := range domain.ResultsFromRows(rows) {
		if domain.MatchKey(r.PlantName, "") == want {
			out = append(out, r)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return yearOf(out[i]) < yearOf(out[j]) })
	return out, nil
}

// Project builds a degradation projection. Without an explicit base, the
// plant's summed annual value for StartYear is used, or for its earliest
// year when StartYear has no rows.
func (s *Service) Project(ctx context.Context, req ProjectionRequest) (*Projection, error) {
	metric := domain.MetricCO2
	if req.Metric != "" {
		m, ok := domain.ParseMetric(string(req.Metric))
		if !ok {
			return nil, errors.Errorf(errors.ErrCodeMetricUnsupported, "unsupported metric %q", req.Metric)
		}
		metric = m
	}

	p := &Projection{PlantName: req.PlantName, Metric: metric, Kind: domain.MetricKindFor(metric)}
	startYear := req.StartYear

	if req.BaseAnnualValue != nil {
		p.Base = *req.BaseAnnualValue
	} else {
		annual, err := s.Annual(ctx, req.PlantName)
		if err != nil {
			return nil, err
		}
		base, year, ok := baseFromAnnual(annual, metric, startYear)
		if !ok {
			return nil, errors.New(errors.ErrCodeImpactNotFound, "no annual results for plant").WithDetail("plant=" + req.PlantName)
		}
		p.Base, p.BaseYear = base, year
		if startYear == 0 {
			startYear = year
		}
	}
	if startYear == 0 {
		return nil, errors.NewValidationError("start_year", "start year is required with an explicit base")
	}
	endYear := req.EndYear
	if endYear == 0 {
		endYear = startYear + DefaultHorizonYears - 1
	}

	points, err := domain.Project(domain.DegradationParams{
		BaseAnnualValue:       p.Base,
		StartYear:             startYear,
		EndYear:               endYear,
		EfficiencyRatePercent: req.EfficiencyRatePercent,
		CapacityRatePercent:   req.CapacityRatePercent,
		Enabled:               req.Enabled,
		Kind:                  p.Kind,
		RetirementYear:        req.RetirementYear,
	})
	if err != nil {
		return nil, err
	}
	p.Points = points
	s.logger.Debug("impact projection built",
		logging.String("plant", req.PlantName),
		logging.String("metric", string(metric)),
		logging.Int("years", len(points)))
	return p, nil
}

// baseFromAnnual sums metric over the rows of one year: year when it has
// rows, else the earliest dated year.
func baseFromAnnual(rows []domain.Result, metric domain.Metric, year int) (float64, int, bool) {
	sums := make(map[int]float64)
	earliest := 0
	for _, r := range rows {
		if r.Year == nil {
			continue
		}
		y := *r.Year
		sums[y] += r.Value(metric)
		if earliest == 0 || y < earliest {
			earliest = y
		}
	}
	if v, ok := sums[year]; ok && year != 0 {
		return v, year, true
	}
	if earliest == 0 {
		return 0, 0, false
	}
	return sums[earliest], earliest, true
}

func yearOf(r domain.Result) int {
	if r.Year == nil {
		return 0
	}
	return *r.Year
}

//Personal.AI order the ending
