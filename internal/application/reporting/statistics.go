// Package reporting assembles the statistics snapshot that the worker exports
// to object storage after every change. A snapshot bundles the global
// summary, the per-country rollup and the top plants for every impact metric.
package reporting

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/turtacn/CoalTransition-Atlas/internal/application/explorer"
	"github.com/turtacn/CoalTransition-Atlas/internal/domain/impact"
	"github.com/turtacn/CoalTransition-Atlas/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/CoalTransition-Atlas/pkg/errors"
)

// DefaultTopLimit is the ranking length per metric.
const DefaultTopLimit = 10

// StatsSource provides the aggregates. *explorer.Service satisfies it.
type StatsSource interface {
	Summary(ctx context.Context, opts explorer.FilterOptions) (*explorer.Summary, error)
	Countries(ctx context.Context) ([]explorer.CountryStats, error)
	TopPlants(ctx context.Context, opts explorer.TopNOptions) ([]explorer.PlantRanking, error)
}

// StatisticsReport is the exported document.
type StatisticsReport struct {
	GeneratedAt time.Time                                 `json:"generated_at"`
	Reason      string                                    `json:"reason,omitempty"`
	Summary     *explorer.Summary                         `json:"summary"`
	Countries   []explorer.CountryStats                   `json:"countries"`
	Top         map[impact.Metric][]explorer.PlantRanking `json:"top"`
}

// Option configures a Reporter.
type Option func(*Reporter)

// WithTopLimit overrides DefaultTopLimit.
func WithTopLimit(n int) Option {
	return func(r *Reporter) {
		if n > 0 {
			r.topLimit = n
		}
	}
}

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(r *Reporter) { r.now = now }
}

// Reporter builds StatisticsReports.
type Reporter struct {
	stats    StatsSource
	logger   logging.Logger
	topLimit int
	now      func() time.Time
}

// NewReporter creates a Reporter over stats.
func NewReporter(stats StatsSource, logger logging.Logger, opts ...Option) *Reporter {
	r := &Reporter{
		stats:    stats,
		logger:   logger,
		topLimit: DefaultTopLimit,
		now:      time.Now,
	}
	for _, o := range opts {
		o(r)
	}
	return r
}

// Build gathers every section concurrently. Any failing section fails the
// whole report; a partial snapshot is never exported.
func (r *Reporter) Build(ctx context.Context, reason string) (*StatisticsReport, error) {
	report := &StatisticsReport{
		GeneratedAt: r.now().UTC(),
		Reason:      reason,
		Top:         make(map[impact.Metric][]explorer.PlantRanking, len(impact.AllMetrics)),
	}

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		s, err := r.stats.Summary(gctx, explorer.FilterOptions{})
		if err != nil {
			return errors.Wrap(err, errors.CodeUnknown, "summary section failed")
		}
		report.Summary = s
		return nil
	})
	g.Go(func() error {
		c, err := r.stats.Countries(gctx)
		if err != nil {
			return errors.Wrap(err, errors.CodeUnknown, "countries section failed")
		}
		report.Countries = c
		return nil
	})
	for _, m := range impact.AllMetrics {
		m := m
		g.Go(func() error {
			top, err := r.stats.TopPlants(gctx, explorer.TopNOptions{Metric: m, Limit: r.topLimit})
			if err != nil {
				return errors.Wrap(err, errors.CodeUnknown, "top section failed for "+string(m))
			}
			mu.Lock()
			report.Top[m] = top
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	r.logger.Debug("statistics report built",
		logging.String("reason", reason),
		logging.Int("countries", len(report.Countries)),
		logging.Int("metrics", len(report.Top)))
	return report, nil
}

// Render encodes the report as indented JSON.
func Render(report *StatisticsReport) ([]byte, error) {
	if report == nil {
		return nil, errors.NewValidationError("report", "report is nil")
	}
	body, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternal, "failed to encode statistics report")
	}
	return body, nil
}

//Personal.AI order the ending
