// Package chainclock provides the process-wide logical clock standing in for
// the hosting ledger's block height. The registry core never reads a wall
// clock: every record timestamp is a height stamped onto the request context
// by middleware, so tests and embedders can supply their own heights.
package chainclock

import (
	"context"
	"sync/atomic"
	"time"
)

// Clock is a monotonic logical height source. Heights only ever increase.
type Clock struct {
	height atomic.Uint64
}

// New creates a clock starting at the given height.
func New(start uint64) *Clock {
	c := &Clock{}
	c.height.Store(start)
	return c
}

// Height returns the current logical height.
func (c *Clock) Height() uint64 {
	return c.height.Load()
}

// Advance increments the height by one and returns the new value.
func (c *Clock) Advance() uint64 {
	return c.height.Add(1)
}

// Run advances the clock once per interval until ctx is cancelled. This
// approximates block production when the service runs standalone.
func (c *Clock) Run(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			c.Advance()
		}
	}
}
