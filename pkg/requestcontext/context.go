// Package requestcontext provides HTTP-independent context accessors for
// request-scoped values.
//
// Values are set by middleware at the transport edge and consumed by services.
// Keeping this package free of net/http lets services import only what they
// need.
//
// Usage in services (read values):
//
//	caller := requestcontext.Caller(ctx)
//	height := requestcontext.Height(ctx)
//
// Usage in tests (inject values):
//
//	ctx = requestcontext.WithCaller(ctx, principal)
//	ctx = requestcontext.WithHeight(ctx, 42)
package requestcontext

import (
	"context"

	id "didregistry/pkg/domain"
)

// Context key types (unexported for encapsulation).
type (
	callerKey    struct{}
	requestIDKey struct{}
	heightKey    struct{}
)

// Caller retrieves the authenticated caller principal from the context.
// Returns the zero principal if not set.
func Caller(ctx context.Context) id.Principal {
	if p, ok := ctx.Value(callerKey{}).(id.Principal); ok {
		return p
	}
	return ""
}

// WithCaller injects a caller principal into the context.
func WithCaller(ctx context.Context, p id.Principal) context.Context {
	return context.WithValue(ctx, callerKey{}, p)
}

// RequestID retrieves the request ID from the context.
func RequestID(ctx context.Context) string {
	if reqID, ok := ctx.Value(requestIDKey{}).(string); ok {
		return reqID
	}
	return ""
}

// WithRequestID injects a request ID into the context.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, requestID)
}

// Height retrieves the logical chain height stamped on the request. All
// mutations within a single request observe the same height, the way every
// write in one ledger transaction shares a block height. Returns 0 if not set;
// services treat 0 as a legitimate height, so middleware must always stamp it.
func Height(ctx context.Context) uint64 {
	if h, ok := ctx.Value(heightKey{}).(uint64); ok {
		return h
	}
	return 0
}

// WithHeight injects a logical chain height into a context. Useful for service
// unit tests that don't run the full HTTP middleware chain.
func WithHeight(ctx context.Context, height uint64) context.Context {
	return context.WithValue(ctx, heightKey{}, height)
}
