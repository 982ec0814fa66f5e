package reporting

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/CoalTransition-Atlas/internal/application/explorer"
	"github.com/turtacn/CoalTransition-Atlas/internal/domain/impact"
	"github.com/turtacn/CoalTransition-Atlas/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/CoalTransition-Atlas/pkg/errors"
)

type fakeStats struct {
	mu       sync.Mutex
	limits   []int
	failOn   impact.Metric
	countErr error
}

func (f *fakeStats) Summary(_ context.Context, _ explorer.FilterOptions) (*explorer.Summary, error) {
	return &explorer.Summary{PlantCount: 2, UnitCount: 3, CapacityMW: 1650}, nil
}

func (f *fakeStats) Countries(_ context.Context) ([]explorer.CountryStats, error) {
	if f.countErr != nil {
		return nil, f.countErr
	}
	return []explorer.CountryStats{{Country: "Indonesia", PlantCount: 1}, {Country: "Vietnam", PlantCount: 1}}, nil
}

func (f *fakeStats) TopPlants(_ context.Context, opts explorer.TopNOptions) ([]explorer.PlantRanking, error) {
	f.mu.Lock()
	f.limits = append(f.limits, opts.Limit)
	f.mu.Unlock()
	if opts.Metric == f.failOn {
		return nil, errors.New(errors.ErrCodeFetchFailed, "fetch failed")
	}
	return []explorer.PlantRanking{{Rank: 1, PlantName: "Alpha", Value: 1}}, nil
}

var fixedNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func newReporter(stats StatsSource, opts ...Option) *Reporter {
	opts = append([]Option{WithClock(func() time.Time { return fixedNow })}, opts...)
	return NewReporter(stats, logging.NewNopLogger(), opts...)
}

func TestReporter_Build(t *testing.T) {
	stats := &fakeStats{}
	report, err := newReporter(stats).Build(context.Background(), "project.field_updated")
	require.NoError(t, err)

	assert.Equal(t, fixedNow, report.GeneratedAt)
	assert.Equal(t, "project.field_updated", report.Reason)
	assert.Equal(t, 2, report.Summary.PlantCount)
	assert.Len(t, report.Countries, 2)
	assert.Len(t, report.Top, len(impact.AllMetrics))
	for _, m := range impact.AllMetrics {
		assert.Len(t, report.Top[m], 1, string(m))
	}
	for _, l := range stats.limits {
		assert.Equal(t, DefaultTopLimit, l)
	}
}

func TestReporter_Build_TopLimit(t *testing.T) {
	stats := &fakeStats{}
	_, err := newReporter(stats, WithTopLimit(3), WithTopLimit(0)).Build(context.Background(), "")
	require.NoError(t, err)
	require.NotEmpty(t, stats.limits)
	for _, l := range stats.limits {
		assert.Equal(t, 3, l)
	}
}

func TestReporter_Build_SectionFailure(t *testing.T) {
	_, err := newReporter(&fakeStats{failOn: impact.MetricDeaths}).Build(context.Background(), "")
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeFetchFailed))
	assert.Contains(t, err.Error(), "deaths")

	_, err = newReporter(&fakeStats{countErr: errors.Internal("boom")}).Build(context.Background(), "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "countries section failed")
}

func TestRender(t *testing.T) {
	report, err := newReporter(&fakeStats{}).Build(context.Background(), "manual")
	require.NoError(t, err)

	body, err := Render(report)
	require.NoError(t, err)

	var decoded map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(body, &decoded))
	for _, key := range []string{"generated_at", "reason", "summary", "countries", "top"} {
		assert.Contains(t, decoded, key)
	}

	var top map[string][]explorer.PlantRanking
	require.NoError(t, json.Unmarshal(decoded["top"], &top))
	assert.Contains(t, top, "co2")
}

func TestRender_Nil(t *testing.T) {
	_, err := Render(nil)
	assert.True(t, errors.IsValidation(err))
}

//Personal.AI order the ending
