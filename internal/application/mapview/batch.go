package mapview

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/turtacn/CoalTransition-Atlas/pkg/errors"
)

const (
	DefaultBatchSize  = 100
	DefaultBatchYield = 16 * time.Millisecond
)

// ErrBatchSuperseded is returned by Run when Cancel or a newer Run took over.
var ErrBatchSuperseded = errors.New(errors.ErrCodeConflict, "marker insertion superseded")

// Placement is a marker at a geographic position.
type Placement struct {
	Position LngLat
	Marker   Marker
}

// BatchInserter adds large marker sets in batches, pausing between batches.
// A run stops as soon as its context is done or its generation is no longer
// the live one; nothing is added after that.
type BatchInserter struct {
	engine Engine
	size   int
	yield  time.Duration

	generation atomic.Uint64

	mu      sync.Mutex
	handles []MarkerHandle
}

// BatchOption configures a BatchInserter.
type BatchOption func(*BatchInserter)

// WithBatchSize overrides DefaultBatchSize.
func WithBatchSize(n int) BatchOption {
	return func(b *BatchInserter) {
		if n > 0 {
			b.size = n
		}
	}
}

// WithBatchYield overrides DefaultBatchYield. Zero disables the pause.
func WithBatchYield(d time.Duration) BatchOption {
	return func(b *BatchInserter) {
		if d >= 0 {
			b.yield = d
		}
	}
}

// NewBatchInserter returns an inserter over engine.
func NewBatchInserter(engine Engine, opts ...BatchOption) *BatchInserter {
	b := &BatchInserter{engine: engine, size: DefaultBatchSize, yield: DefaultBatchYield}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Run inserts placements in order and returns how many were added. Starting
// a run supersedes any run in progress.
func (b *BatchInserter) Run(ctx context.Context, placements []Placement) (int, error) {
	gen := b.generation.Add(1)
	inserted := 0

	for start := 0; start < len(placements); start += b.size {
		end := start + b.size
		if end > len(placements) {
			end = len(placements)
		}
		for _, p := range placements[start:end] {
			if err := b.insert(ctx, gen, p); err != nil {
				return inserted, err
			}
			inserted++
		}

		if end < len(placements) && b.yield > 0 {
			select {
			case <-ctx.Done():
				return inserted, ctx.Err()
			case <-time.After(b.yield):
			}
		}
	}
	return inserted, nil
}

// insert adds one marker if gen is still the live generation. The check and
// the insert happen under mu, so nothing lands after Cancel returns.
func (b *BatchInserter) insert(ctx context.Context, gen uint64, p Placement) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return err
	}
	if b.generation.Load() != gen {
		return ErrBatchSuperseded
	}
	h, err := b.engine.AddMarker(p.Position, p.Marker)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeInternal, "add marker")
	}
	b.handles = append(b.handles, h)
	return nil
}

// Cancel stops the run in progress.
func (b *BatchInserter) Cancel() {
	b.mu.Lock()
	b.generation.Add(1)
	b.mu.Unlock()
}

// Generation returns the live generation.
func (b *BatchInserter) Generation() uint64 {
	return b.generation.Load()
}

// Clear cancels any run and removes every marker this inserter added.
func (b *BatchInserter) Clear() {
	b.mu.Lock()
	b.generation.Add(1)
	handles := b.handles
	b.handles = nil
	b.mu.Unlock()
	for _, h := range handles {
		h.Remove()
	}
}

// Count returns the number of markers currently held.
func (b *BatchInserter) Count() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.handles)
}

//Personal.AI order the ending
