package explorer

import (
	"sort"
	"strings"

	"github.com/turtacn/CoalTransition-Atlas/internal/domain/impact"
	"github.com/turtacn/CoalTransition-Atlas/internal/domain/plant"
	"github.com/turtacn/CoalTransition-Atlas/pkg/errors"
)

// DefaultTopN is the ranking length used when TopNOptions.Limit <= 0.
const DefaultTopN = 20

// ─────────────────────────────────────────────────────────────────────────────
// MetricTotals
// ─────────────────────────────────────────────────────────────────────────────

// MetricTotals accumulates impact metrics. The zero value is ready to use.
type MetricTotals map[impact.Metric]float64

// Add folds every metric of r into t.
func (t *MetricTotals) Add(r impact.Result) {
	if *t == nil {
		*t = make(MetricTotals, len(impact.AllMetrics))
	}
	for _, m := range impact.AllMetrics {
		(*t)[m] += r.Value(m)
	}
}

// Get returns the total for m, 0 when absent.
func (t MetricTotals) Get(m impact.Metric) float64 { return t[m] }

func newTotals() MetricTotals {
	t := make(MetricTotals, len(impact.AllMetrics))
	for _, m := range impact.AllMetrics {
		t[m] = 0
	}
	return t
}

// ─────────────────────────────────────────────────────────────────────────────
// Summary
// ─────────────────────────────────────────────────────────────────────────────

// Summary is the headline block of the explorer.
type Summary struct {
	PlantCount int          `json:"plant_count"`
	UnitCount  int          `json:"unit_count"`
	CapacityMW float64      `json:"capacity_mw"`
	Totals     MetricTotals `json:"totals"`
}

// Summarize counts plants and units and sums capacity over units and metrics
// over impacts. PlantCount is the number of distinct plants after grouping.
func Summarize(units []plant.PlantUnit, impacts []impact.Result) Summary {
	s := Summary{
		PlantCount: len(plant.BuildPlants(units)),
		UnitCount:  len(units),
		Totals:     newTotals(),
	}
	for _, u := range units {
		s.CapacityMW += u.CapacityMW
	}
	for _, r := range impacts {
		s.Totals.Add(r)
	}
	return s
}

// JoinImpacts returns the impact rows belonging to units, in impact order.
// A row matches on plant+unit name; rows without a unit name match every
// unit of the plant.
func JoinImpacts(units []plant.PlantUnit, impacts []impact.Result) []impact.Result {
	unitKeys := make(map[string]bool, len(units))
	plantKeys := make(map[string]bool, len(units))
	for _, u := range units {
		unitKeys[impact.MatchKey(u.PlantName, u.UnitName)] = true
		plantKeys[impact.MatchKey(u.PlantName, "")] = true
	}

	out := make([]impact.Result, 0, len(impacts))
	for _, r := range impacts {
		if strings.TrimSpace(r.UnitName) == "" {
			if plantKeys[r.MatchKey()] {
				out = append(out, r)
			}
			continue
		}
		if unitKeys[r.MatchKey()] {
			out = append(out, r)
		}
	}
	return out
}

// ─────────────────────────────────────────────────────────────────────────────
// Country rollup
// ─────────────────────────────────────────────────────────────────────────────

// CountryStats is the per-country rollup of impact rows.
type CountryStats struct {
	Country    string       `json:"country"`
	PlantCount int          `json:"plant_count"`
	Totals     MetricTotals `json:"totals"`
}

// CountryRollup groups impacts by country, counting distinct plant names.
// Countries are sorted by avoided CO2, largest first; ties keep first-seen
// order.
func CountryRollup(impacts []impact.Result) []CountryStats {
	groups := plant.GroupBy(impacts, func(r impact.Result) (string, bool) {
		return r.Country, true
	})

	out := make([]CountryStats, 0, groups.Len())
	for _, g := range groups.All() {
		cs := CountryStats{Country: g.Key, Totals: newTotals()}
		names := make(map[string]bool)
		for _, r := range g.Members {
			cs.Totals.Add(r)
			names[strings.ToLower(strings.TrimSpace(r.PlantName))] = true
		}
		cs.PlantCount = len(names)
		out = append(out, cs)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Totals.Get(impact.MetricCO2) > out[j].Totals.Get(impact.MetricCO2)
	})
	return out
}

// ─────────────────────────────────────────────────────────────────────────────
// Top N
// ─────────────────────────────────────────────────────────────────────────────

// TopNOptions selects the ranking metric, direction and length.
type TopNOptions struct {
	Metric    impact.Metric `json:"metric"`
	Ascending bool          `json:"ascending"`
	Limit     int           `json:"limit"`
}

// PlantRanking is one entry of a TopN result.
type PlantRanking struct {
	Rank      int          `json:"rank"`
	PlantName string       `json:"plant_name"`
	Country   string       `json:"country,omitempty"`
	Value     float64      `json:"value"`
	Totals    MetricTotals `json:"totals"`
}

// TopN sums impacts per plant name, compared case-insensitively, and ranks
// plants by opts.Metric.
func TopN(impacts []impact.Result, opts TopNOptions) ([]PlantRanking, error) {
	if opts.Metric == "" {
		opts.Metric = impact.MetricCO2
	}
	if _, ok := impact.ParseMetric(string(opts.Metric)); !ok {
		return nil, errors.Errorf(errors.ErrCodeMetricUnsupported, "unsupported metric %q", opts.Metric)
	}
	limit := opts.Limit
	if limit <= 0 {
		limit = DefaultTopN
	}

	groups := plant.GroupBy(impacts, func(r impact.Result) (string, bool) {
		name := strings.ToLower(strings.TrimSpace(r.PlantName))
		return name, name != ""
	})

	ranked := make([]PlantRanking, 0, groups.Len())
	for _, g := range groups.All() {
		pr := PlantRanking{
			PlantName: strings.TrimSpace(g.Representative.PlantName),
			Country:   g.Representative.Country,
			Totals:    newTotals(),
		}
		for _, r := range g.Members {
			pr.Totals.Add(r)
		}
		pr.Value = pr.Totals.Get(opts.Metric)
		ranked = append(ranked, pr)
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		if opts.Ascending {
			return ranked[i].Value < ranked[j].Value
		}
		return ranked[i].Value > ranked[j].Value
	})
	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	for i := range ranked {
		ranked[i].Rank = i + 1
	}
	return ranked, nil
}

//Personal.AI order the ending
