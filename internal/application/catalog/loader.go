package catalog

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/turtacn/CoalTransition-Atlas/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/CoalTransition-Atlas/pkg/errors"
	"github.com/turtacn/CoalTransition-Atlas/pkg/types/common"
)

// Snapshot is the full content of one table at LoadedAt.
type Snapshot struct {
	Table    string       `json:"table"`
	Rows     []common.Row `json:"rows"`
	LoadedAt time.Time    `json:"loaded_at"`
}

// SnapshotCache shares snapshots between processes. Load returns (nil, nil)
// on a miss.
type SnapshotCache interface {
	Load(ctx context.Context, table string) (*Snapshot, error)
	Store(ctx context.Context, s *Snapshot) error
}

// FetchObserver receives the outcome of every row store fetch.
type FetchObserver interface {
	ObserveCatalogFetch(table string, pages int, d time.Duration, err error)
}

// LoaderOption configures a Loader.
type LoaderOption func(*Loader)

// WithCache shares snapshots through c.
func WithCache(c SnapshotCache) LoaderOption {
	return func(l *Loader) { l.cache = c }
}

// WithPageSize overrides DefaultPageSize.
func WithPageSize(n int) LoaderOption {
	return func(l *Loader) {
		if n > 0 {
			l.pageSize = n
		}
	}
}

// WithObserver reports fetches to o.
func WithObserver(o FetchObserver) LoaderOption {
	return func(l *Loader) { l.observer = o }
}

// Loader keeps the last good snapshot of each table. Concurrent refreshes of
// one table share a single fetch.
type Loader struct {
	store    RowStore
	cache    SnapshotCache
	observer FetchObserver
	logger   logging.Logger
	pageSize int

	mu        sync.RWMutex
	snapshots map[string]*Snapshot
	stale     map[string]bool
	group     singleflight.Group
	now       func() time.Time
}

// NewLoader builds a Loader over store.
func NewLoader(store RowStore, logger logging.Logger, opts ...LoaderOption) *Loader {
	l := &Loader{
		store:     store,
		logger:    logger,
		pageSize:  DefaultPageSize,
		snapshots: make(map[string]*Snapshot),
		stale:     make(map[string]bool),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Current returns the in-memory snapshot without loading.
func (l *Loader) Current(table string) (*Snapshot, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	s, ok := l.snapshots[table]
	return s, ok
}

// Get returns the snapshot of table, consulting memory, then the shared
// cache, then the row store. A stale table is reloaded from the row store;
// if that fails the previous snapshot is served.
func (l *Loader) Get(ctx context.Context, table string) (*Snapshot, error) {
	l.mu.RLock()
	prev, ok := l.snapshots[table]
	stale := l.stale[table]
	l.mu.RUnlock()
	if ok && !stale {
		return prev, nil
	}

	if !stale && l.cache != nil {
		s, err := l.cache.Load(ctx, table)
		if err != nil {
			l.logger.Warn("snapshot cache load failed", logging.String("table", table), logging.Err(err))
		} else if s != nil {
			l.put(s)
			return s, nil
		}
	}

	s, err := l.Refresh(ctx, table)
	if err != nil {
		if ok {
			l.logger.Warn("serving stale snapshot",
				logging.String("table", table),
				logging.Any("loaded_at", prev.LoadedAt))
			return prev, nil
		}
		return nil, err
	}
	return s, nil
}

// Rows is Get returning only the rows.
func (l *Loader) Rows(ctx context.Context, table string) ([]common.Row, error) {
	s, err := l.Get(ctx, table)
	if err != nil {
		return nil, err
	}
	return s.Rows, nil
}

// Refresh reloads table from the row store. On failure the previous snapshot
// stays in place and an ErrCodeFetchFailed error is returned.
func (l *Loader) Refresh(ctx context.Context, table string) (*Snapshot, error) {
	v, err, shared := l.group.Do(table, func() (interface{}, error) {
		start := l.now()
		rows, pages, err := FetchAll(ctx, l.store, table, l.pageSize)
		if l.observer != nil {
			l.observer.ObserveCatalogFetch(table, pages, l.now().Sub(start), err)
		}
		if err != nil {
			return nil, err
		}

		s := &Snapshot{Table: table, Rows: rows, LoadedAt: l.now().UTC()}
		l.put(s)
		if l.cache != nil {
			if cerr := l.cache.Store(ctx, s); cerr != nil {
				l.logger.Warn("snapshot cache store failed", logging.String("table", table), logging.Err(cerr))
			}
		}
		l.logger.Info("catalog table loaded",
			logging.String("table", table),
			logging.Int("rows", len(rows)),
			logging.Int("pages", pages))
		return s, nil
	})
	if err != nil {
		l.logger.Error("catalog table load failed", logging.String("table", table), logging.Err(err))
		if !errors.IsCode(err, errors.ErrCodeFetchFailed) && !errors.IsCode(err, errors.ErrCodeTableUnknown) {
			err = errors.Wrap(err, errors.ErrCodeFetchFailed, "catalog load failed")
		}
		return nil, err
	}
	if shared {
		l.logger.Debug("catalog refresh shared", logging.String("table", table))
	}
	return v.(*Snapshot), nil
}

// RefreshAll reloads every table in tables, stopping at the first failure.
func (l *Loader) RefreshAll(ctx context.Context, tables ...string) error {
	for _, t := range tables {
		if _, err := l.Refresh(ctx, t); err != nil {
			return err
		}
	}
	return nil
}

// Invalidate marks tables stale. Their snapshots stay in service until the
// next Get or Refresh replaces them with a successful load.
func (l *Loader) Invalidate(_ context.Context, tables ...string) error {
	l.mu.Lock()
	for _, t := range tables {
		l.stale[t] = true
	}
	l.mu.Unlock()
	return nil
}

// Stale reports whether table awaits a reload.
func (l *Loader) Stale(table string) bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.stale[table]
}

func (l *Loader) put(s *Snapshot) {
	l.mu.Lock()
	l.snapshots[s.Table] = s
	delete(l.stale, s.Table)
	l.mu.Unlock()
}

//Personal.AI order the ending
