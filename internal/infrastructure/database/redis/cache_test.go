package redis

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/turtacn/CoalTransition-Atlas/internal/infrastructure/monitoring/logging"
	pkgerrors "github.com/turtacn/CoalTransition-Atlas/pkg/errors"
)

type summary struct {
	Plants int     `json:"plants"`
	MW     float64 `json:"mw"`
}

type countingObserver struct {
	hits, misses atomic.Int32
}

func (o *countingObserver) RecordCacheHit(string)  { o.hits.Add(1) }
func (o *countingObserver) RecordCacheMiss(string) { o.misses.Add(1) }

// ─────────────────────────────────────────────────────────────────────────────
// redismock suite
// ─────────────────────────────────────────────────────────────────────────────

type CacheMockSuite struct {
	suite.Suite
	mock  redismock.ClientMock
	cache Cache
}

func (s *CacheMockSuite) SetupTest() {
	db, mock := redismock.NewClientMock()
	s.mock = mock
	client := NewClientFromUniversal(db, "test:", time.Minute, logging.NewNopLogger())
	s.cache = NewRedisCache(client, logging.NewNopLogger(), WithoutJitter())
}

func (s *CacheMockSuite) TearDownTest() {
	s.NoError(s.mock.ExpectationsWereMet())
}

func (s *CacheMockSuite) TestGet_Hit() {
	s.mock.ExpectGet("test:k").SetVal(`{"plants":3,"mw":120.5}`)

	var dest summary
	s.Require().NoError(s.cache.Get(context.Background(), "k", &dest))
	s.Equal(summary{Plants: 3, MW: 120.5}, dest)
}

func (s *CacheMockSuite) TestGet_Miss() {
	s.mock.ExpectGet("test:k").RedisNil()

	var dest summary
	err := s.cache.Get(context.Background(), "k", &dest)
	s.Equal(ErrCacheMiss, err)
	s.True(pkgerrors.IsNotFound(err))
}

func (s *CacheMockSuite) TestGet_BackendError() {
	s.mock.ExpectGet("test:k").SetErr(errors.New("connection reset"))

	var dest summary
	err := s.cache.Get(context.Background(), "k", &dest)
	s.True(pkgerrors.IsCode(err, pkgerrors.ErrCodeCacheError))
}

func (s *CacheMockSuite) TestGet_CorruptValue() {
	s.mock.ExpectGet("test:k").SetVal(`{not json`)

	var dest summary
	err := s.cache.Get(context.Background(), "k", &dest)
	s.True(pkgerrors.IsCode(err, pkgerrors.ErrCodeSerialization))
}

func (s *CacheMockSuite) TestDelete_PrefixesKeys() {
	s.mock.ExpectDel("test:a", "test:b").SetVal(2)

	s.NoError(s.cache.Delete(context.Background(), "a", "b"))
}

func (s *CacheMockSuite) TestDelete_NoKeys() {
	s.NoError(s.cache.Delete(context.Background()))
}

func (s *CacheMockSuite) TestDeleteByPrefix_ScanError() {
	s.mock.ExpectScan(0, "test:stats:*", 100).SetErr(errors.New("boom"))

	_, err := s.cache.DeleteByPrefix(context.Background(), "stats:")
	s.True(pkgerrors.IsCode(err, pkgerrors.ErrCodeCacheError))
}

func TestCacheMockSuite(t *testing.T) {
	suite.Run(t, new(CacheMockSuite))
}

// ─────────────────────────────────────────────────────────────────────────────
// miniredis
// ─────────────────────────────────────────────────────────────────────────────

func TestCache_SetAndGetRoundTrip(t *testing.T) {
	client, mr := newMiniClient(t)
	obs := &countingObserver{}
	cache := NewRedisCache(client, logging.NewNopLogger(), WithoutJitter(), WithCacheObserver(obs))
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "k", summary{Plants: 2, MW: 10}, 0))
	assert.True(t, mr.Exists("atlas:k"))
	assert.Equal(t, time.Minute, mr.TTL("atlas:k"))

	var got summary
	require.NoError(t, cache.Get(ctx, "k", &got))
	assert.Equal(t, summary{Plants: 2, MW: 10}, got)

	assert.Equal(t, ErrCacheMiss, cache.Get(ctx, "missing", &got))
	assert.Equal(t, int32(1), obs.hits.Load())
	assert.Equal(t, int32(1), obs.misses.Load())
}

func TestCache_SetJitterStaysWithinTenPercent(t *testing.T) {
	client, mr := newMiniClient(t)
	cache := NewRedisCache(client, logging.NewNopLogger())

	require.NoError(t, cache.Set(context.Background(), "k", 1, 100*time.Second))

	ttl := mr.TTL("atlas:k")
	assert.GreaterOrEqual(t, ttl, 90*time.Second)
	assert.LessOrEqual(t, ttl, 110*time.Second)
}

func TestCache_GetOrSet_LoadsOnceAndStores(t *testing.T) {
	client, mr := newMiniClient(t)
	cache := NewRedisCache(client, logging.NewNopLogger(), WithoutJitter())
	ctx := context.Background()

	var calls atomic.Int32
	loader := func(context.Context) (interface{}, error) {
		calls.Add(1)
		time.Sleep(20 * time.Millisecond)
		return summary{Plants: 7}, nil
	}

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			var got summary
			assert.NoError(t, cache.GetOrSet(ctx, "s", &got, time.Minute, loader))
			assert.Equal(t, 7, got.Plants)
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), calls.Load())
	assert.True(t, mr.Exists("atlas:s"))

	var again summary
	require.NoError(t, cache.GetOrSet(ctx, "s", &again, time.Minute, loader))
	assert.Equal(t, int32(1), calls.Load())
}

func TestCache_GetOrSet_LoaderErrorNotCached(t *testing.T) {
	client, mr := newMiniClient(t)
	cache := NewRedisCache(client, logging.NewNopLogger())

	loadErr := errors.New("store down")
	var got summary
	err := cache.GetOrSet(context.Background(), "s", &got, time.Minute, func(context.Context) (interface{}, error) {
		return nil, loadErr
	})

	assert.ErrorIs(t, err, loadErr)
	assert.False(t, mr.Exists("atlas:s"))
}

func TestCache_DeleteByPrefix(t *testing.T) {
	client, mr := newMiniClient(t)
	cache := NewRedisCache(client, logging.NewNopLogger())
	ctx := context.Background()

	for _, k := range []string{"stats:a", "stats:b", "stats:c", "other"} {
		require.NoError(t, cache.Set(ctx, k, 1, 0))
	}

	n, err := cache.DeleteByPrefix(ctx, "stats:")
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)
	assert.True(t, mr.Exists("atlas:other"))
	assert.False(t, mr.Exists("atlas:stats:a"))
}

//Personal.AI order the ending
