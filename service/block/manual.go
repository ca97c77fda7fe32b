package block

import (
	"context"
	"sync/atomic"
	"time"
)

// Manual block clock moved by hand, used by simulations
type Manual struct {
	block int64
}

// NewManual manual clock starting at block
func NewManual(block int64) *Manual {
	return &Manual{block: block}
}

// Advance moves the clock n blocks forward
func (m *Manual) Advance(n int64) int64 {
	return atomic.AddInt64(&m.block, n)
}

func (m *Manual) CurrentBlock(_ context.Context) (int64, error) {
	return atomic.LoadInt64(&m.block), nil
}

// GetBlock the current block whatever t is
func (m *Manual) GetBlock(ctx context.Context, _ time.Time) (int64, error) {
	return m.CurrentBlock(ctx)
}
