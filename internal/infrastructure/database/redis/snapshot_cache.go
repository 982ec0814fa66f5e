package redis

import (
	"context"
	"time"

	"github.com/turtacn/CoalTransition-Atlas/internal/application/catalog"
)

const snapshotKeyPrefix = "catalog:snapshot:"

// SnapshotCache stores catalog snapshots as JSON so apiserver replicas and
// the worker share one copy per table.
type SnapshotCache struct {
	cache Cache
	ttl   time.Duration
}

// NewSnapshotCache stores entries for ttl; 0 uses the client default.
func NewSnapshotCache(cache Cache, ttl time.Duration) *SnapshotCache {
	return &SnapshotCache{cache: cache, ttl: ttl}
}

// SnapshotKey returns the cache key of table, without the client prefix.
func SnapshotKey(table string) string { return snapshotKeyPrefix + table }

// Load returns (nil, nil) on a miss.
func (s *SnapshotCache) Load(ctx context.Context, table string) (*catalog.Snapshot, error) {
	var snap catalog.Snapshot
	err := s.cache.Get(ctx, SnapshotKey(table), &snap)
	if err == ErrCacheMiss {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &snap, nil
}

func (s *SnapshotCache) Store(ctx context.Context, snap *catalog.Snapshot) error {
	return s.cache.Set(ctx, SnapshotKey(snap.Table), snap, s.ttl)
}

// Delete drops the given tables, or every snapshot when none are named.
func (s *SnapshotCache) Delete(ctx context.Context, tables ...string) error {
	if len(tables) == 0 {
		_, err := s.cache.DeleteByPrefix(ctx, snapshotKeyPrefix)
		return err
	}
	keys := make([]string, len(tables))
	for i, t := range tables {
		keys[i] = SnapshotKey(t)
	}
	return s.cache.Delete(ctx, keys...)
}

var _ catalog.SnapshotCache = (*SnapshotCache)(nil)

//Personal.AI order the ending
