package middleware

import (
	"net/http"

	"didregistry/internal/platform/chainclock"
	"didregistry/pkg/requestcontext"
)

// ChainHeight stamps the current logical chain height onto the request
// context. All mutations within a single request observe the same height,
// matching the one-transaction-one-height semantics of the hosting ledger.
func ChainHeight(clock *chainclock.Clock) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := requestcontext.WithHeight(r.Context(), clock.Height())
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
