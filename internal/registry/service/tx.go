package service

import (
	"context"
	"sync"
	"time"

	dErrors "didregistry/pkg/domain-errors"
)

// StoreTx provides the transaction boundary for registry mutations. The
// hosting ledger commits one transaction fully before the next begins; in a
// general-purpose process the same guarantee comes from treating each public
// mutation as one critical section.
type StoreTx interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// defaultTxTimeout is the maximum duration for a registry transaction.
const defaultTxTimeout = 5 * time.Second

// exclusiveTx serializes all mutations behind a single mutex. Sharding by
// principal would not preserve the contract here: create touches the registry
// counter and verifyClaim touches a second ledger, so the boundary is global.
type exclusiveTx struct {
	mu      sync.Mutex
	timeout time.Duration
}

func newExclusiveTx() *exclusiveTx {
	return &exclusiveTx{timeout: defaultTxTimeout}
}

func (t *exclusiveTx) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if err := ctx.Err(); err != nil {
		return dErrors.Wrap(err, dErrors.CodeTimeout, "transaction aborted: context cancelled")
	}

	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, t.timeout)
		defer cancel()
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	// Check again after acquiring the lock.
	if err := ctx.Err(); err != nil {
		return dErrors.Wrap(err, dErrors.CodeTimeout, "transaction aborted: context cancelled")
	}

	return fn(ctx)
}
