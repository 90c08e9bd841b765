package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	id "didregistry/pkg/domain"
	dErrors "didregistry/pkg/domain-errors"
	"didregistry/pkg/platform/httputil"
	"didregistry/pkg/requestcontext"
)

// TokenValidator validates a caller token and returns the principal it was
// issued to.
type TokenValidator interface {
	Validate(tokenString string) (id.Principal, error)
}

// Authenticate resolves the caller principal from a bearer token. Requests
// without a token pass through unauthenticated: read operations are open to
// any caller, and mutating handlers reject requests with no caller principal.
// An invalid token is always rejected.
func Authenticate(validator TokenValidator, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			token, ok := strings.CutPrefix(authHeader, "Bearer ")
			if !ok {
				next.ServeHTTP(w, r)
				return
			}

			principal, err := validator.Validate(token)
			if err != nil {
				ctx := r.Context()
				logger.WarnContext(ctx, "rejected invalid caller token",
					"request_id", requestcontext.RequestID(ctx),
					"error", err,
				)
				httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "invalid or expired token"))
				return
			}

			ctx := requestcontext.WithCaller(r.Context(), principal)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
