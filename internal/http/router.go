// Package httptransport assembles the public HTTP surface of the registry.
package httptransport

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"didregistry/internal/platform/chainclock"
	"didregistry/internal/platform/middleware"
	"didregistry/pkg/platform/httputil"
)

// Registrar is implemented by module handlers that mount their own routes.
type Registrar interface {
	Register(r chi.Router)
}

// HealthChecker reports the liveness of a backing resource.
type HealthChecker interface {
	Health(ctx context.Context) error
}

// Deps collects everything the router mounts.
type Deps struct {
	Registry  Registrar
	Auth      Registrar
	Clock     *chainclock.Clock
	Validator middleware.TokenValidator
	Logger    *slog.Logger

	// Named backing resources probed by /healthz. Empty is fine: a
	// memory-only deployment has nothing to probe.
	Health map[string]HealthChecker
}

// NewRouter wires middlewares, module handlers, and the operational
// endpoints.
func NewRouter(deps Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middleware.ChainHeight(deps.Clock))
	r.Use(middleware.Authenticate(deps.Validator, deps.Logger))

	deps.Auth.Register(r)
	deps.Registry.Register(r)

	r.Handle("/metrics", promhttp.Handler())
	r.Get("/healthz", handleHealth(deps.Health))

	return r
}

func handleHealth(checkers map[string]HealthChecker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		status := http.StatusOK
		resources := make(map[string]string, len(checkers))
		for name, checker := range checkers {
			if err := checker.Health(ctx); err != nil {
				status = http.StatusServiceUnavailable
				resources[name] = err.Error()
				continue
			}
			resources[name] = "ok"
		}

		httputil.WriteJSON(w, status, map[string]any{
			"status":    http.StatusText(status),
			"resources": resources,
		})
	}
}
