// Package explorer answers the read-only questions of the plant explorer:
// which plants match a filter, what they add up to and how they rank.
package explorer

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/turtacn/CoalTransition-Atlas/internal/application/catalog"
	"github.com/turtacn/CoalTransition-Atlas/internal/domain/impact"
	"github.com/turtacn/CoalTransition-Atlas/internal/domain/plant"
	"github.com/turtacn/CoalTransition-Atlas/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/CoalTransition-Atlas/pkg/errors"
	"github.com/turtacn/CoalTransition-Atlas/pkg/types/common"
)

// CacheKeyPrefix namespaces every result the service caches.
const CacheKeyPrefix = "explorer:"

// DefaultSearchLimit caps Search when the caller passes limit <= 0.
const DefaultSearchLimit = 50

// CatalogSource provides table rows. *catalog.Loader satisfies it.
type CatalogSource interface {
	Rows(ctx context.Context, table string) ([]common.Row, error)
	RefreshAll(ctx context.Context, tables ...string) error
}

// ResultCache memoizes derived results. The redis Cache satisfies it.
type ResultCache interface {
	GetOrSet(ctx context.Context, key string, dest interface{}, ttl time.Duration, loader func(ctx context.Context) (interface{}, error)) error
	DeleteByPrefix(ctx context.Context, prefix string) (int64, error)
}

// PlantsResult is the map payload for one filter.
type PlantsResult struct {
	Plants    []plant.Plant `json:"plants"`
	UnitCount int           `json:"unit_count"`
	// Excluded counts units dropped for missing coordinates.
	Excluded int `json:"excluded"`
}

// RowIssues counts malformed catalog rows seen while loading.
type RowIssues struct {
	GeometryMissing int `json:"geometry_missing"`
	ParseFailure    int `json:"parse_failure"`
}

type dataset struct {
	units   []plant.PlantUnit
	impacts []impact.Result
	issues  RowIssues
}

// Service is the explorer application service.
type Service struct {
	source CatalogSource
	cache  ResultCache
	ttl    time.Duration
	topN   int
	logger logging.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithResultCache memoizes summaries, rollups and rankings in c for ttl.
func WithResultCache(c ResultCache, ttl time.Duration) Option {
	return func(s *Service) {
		s.cache = c
		s.ttl = ttl
	}
}

// WithDefaultTopN overrides DefaultTopN.
func WithDefaultTopN(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.topN = n
		}
	}
}

// NewService builds a Service over source.
func NewService(source CatalogSource, logger logging.Logger, opts ...Option) *Service {
	s := &Service{source: source, logger: logger, topN: DefaultTopN}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// load reads global plants and lifetime impacts concurrently. A failure of
// either table fails the whole load.
func (s *Service) load(ctx context.Context) (*dataset, error) {
	var plantRows, impactRows []common.Row
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		rows, err := s.source.Rows(gctx, catalog.TableGlobalPlants)
		plantRows = rows
		return err
	})
	g.Go(func() error {
		rows, err := s.source.Rows(gctx, catalog.TableImpactTotal)
		impactRows = rows
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	d := &dataset{
		units:   plant.UnitsFromRows(plantRows),
		impacts: impact.ResultsFromRows(impactRows),
	}
	for _, u := range d.units {
		if !u.HasCoordinates() {
			d.issues.GeometryMissing++
		}
		if u.CapacityRaw != nil {
			if _, ok := common.FilterValue(u.CapacityRaw); !ok {
				d.issues.ParseFailure++
			}
		}
	}
	if d.issues.GeometryMissing > 0 || d.issues.ParseFailure > 0 {
		s.logger.Debug("catalog rows with issues",
			logging.Int("geometry_missing", d.issues.GeometryMissing),
			logging.Int("parse_failure", d.issues.ParseFailure),
			logging.Int("units", len(d.units)))
	}
	return d, nil
}

// Plants filters units and folds the survivors into plants.
func (s *Service) Plants(ctx context.Context, opts FilterOptions) (*PlantsResult, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	d, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	units := Apply(d.units, opts)
	return &PlantsResult{
		Plants:    plant.BuildPlants(units),
		UnitCount: len(units),
		Excluded:  d.issues.GeometryMissing,
	}, nil
}

// Plant returns the aggregated plant with the given PlantKey.
func (s *Service) Plant(ctx context.Context, key string) (*plant.Plant, error) {
	d, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	for _, p := range plant.BuildPlants(d.units) {
		if p.Key == key {
			p := p
			return &p, nil
		}
	}
	return nil, errors.New(errors.ErrCodePlantNotFound, "plant not found").WithDetail("key=" + key)
}

// Search matches text case-insensitively against plant, unit and country
// names. Units without coordinates are included.
func (s *Service) Search(ctx context.Context, text string, limit int) ([]plant.PlantUnit, error) {
	needle := strings.ToLower(strings.TrimSpace(text))
	if needle == "" {
		return []plant.PlantUnit{}, nil
	}
	if limit <= 0 {
		limit = DefaultSearchLimit
	}
	d, err := s.load(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]plant.PlantUnit, 0)
	for _, u := range d.units {
		if strings.Contains(strings.ToLower(u.PlantName), needle) ||
			strings.Contains(strings.ToLower(u.UnitName), needle) ||
			strings.Contains(strings.ToLower(u.Country), needle) {
			out = append(out, u)
			if len(out) == limit {
				break
			}
		}
	}
	return out, nil
}

// Summary summarizes the units passing opts and the impacts joined to them.
func (s *Service) Summary(ctx context.Context, opts FilterOptions) (*Summary, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	var out Summary
	err := s.cached(ctx, "summary:"+fingerprint(opts), &out, func(ctx context.Context) (interface{}, error) {
		d, err := s.load(ctx)
		if err != nil {
			return nil, err
		}
		units := Apply(d.units, opts)
		return Summarize(units, JoinImpacts(units, d.impacts)), nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Countries rolls lifetime impacts up by country.
func (s *Service) Countries(ctx context.Context) ([]CountryStats, error) {
	var out []CountryStats
	err := s.cached(ctx, "countries", &out, func(ctx context.Context) (interface{}, error) {
		d, err := s.load(ctx)
		if err != nil {
			return nil, err
		}
		return CountryRollup(d.impacts), nil
	})
	return out, err
}

// TopPlants ranks plants by one metric.
func (s *Service) TopPlants(ctx context.Context, opts TopNOptions) ([]PlantRanking, error) {
	if opts.Limit <= 0 {
		opts.Limit = s.topN
	}
	if opts.Metric == "" {
		opts.Metric = impact.MetricCO2
	}
	if _, ok := impact.ParseMetric(string(opts.Metric)); !ok {
		return nil, errors.Errorf(errors.ErrCodeMetricUnsupported, "unsupported metric %q", opts.Metric)
	}

	var out []PlantRanking
	err := s.cached(ctx, "top:"+fingerprint(opts), &out, func(ctx context.Context) (interface{}, error) {
		d, err := s.load(ctx)
		if err != nil {
			return nil, err
		}
		return TopN(d.impacts, opts)
	})
	return out, err
}

// Facets lists the values available to each filter control.
func (s *Service) Facets(ctx context.Context) (*Facets, error) {
	d, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	f := FacetValues(d.units)
	return &f, nil
}

// Issues reports malformed rows in the current catalog.
func (s *Service) Issues(ctx context.Context) (RowIssues, error) {
	d, err := s.load(ctx)
	if err != nil {
		return RowIssues{}, err
	}
	return d.issues, nil
}

// Refresh reloads every snapshot table, projects included, and drops cached
// results. On failure the previous snapshots stay in service.
func (s *Service) Refresh(ctx context.Context) error {
	if err := s.source.RefreshAll(ctx, catalog.SnapshotTables...); err != nil {
		return err
	}
	s.DropResults(ctx)
	s.logger.Info("explorer refreshed")
	return nil
}

// DropResults purges memoized summaries, rollups and rankings.
func (s *Service) DropResults(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if n, err := s.cache.DeleteByPrefix(ctx, CacheKeyPrefix); err != nil {
		s.logger.Warn("explorer cache purge failed", logging.Err(err))
	} else {
		s.logger.Debug("explorer cache purged", logging.Int64("keys", n))
	}
}

func (s *Service) cached(ctx context.Context, key string, dest interface{}, compute func(ctx context.Context) (interface{}, error)) error {
	if s.cache == nil {
		v, err := compute(ctx)
		if err != nil {
			return err
		}
		return assign(v, dest)
	}
	return s.cache.GetOrSet(ctx, CacheKeyPrefix+key, dest, s.ttl, compute)
}

// assign copies v into dest through JSON so the uncached path returns the
// same shapes as the cached one.
func assign(v, dest interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeSerialization, "encode result")
	}
	return json.Unmarshal(data, dest)
}

func fingerprint(v interface{}) string {
	data, _ := json.Marshal(v)
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:8])
}

//Personal.AI order the ending
