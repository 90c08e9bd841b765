package registry

import (
	"log/slog"

	"didregistry/internal/registry/handler"
	"didregistry/internal/registry/service"
	id "didregistry/pkg/domain"
)

// Service exposes the identity registry state machine.
type Service = service.Service

// Handler wires HTTP endpoints to the registry service.
type Handler = handler.Handler

// NewService constructs the registry service with required dependencies.
func NewService(identities service.IdentityStore, verifications service.VerificationStore, owner id.Principal, opts ...service.Option) *Service {
	return service.New(identities, verifications, owner, opts...)
}

// NewHandler constructs an HTTP handler for registry routes.
func NewHandler(s *Service, logger *slog.Logger) *Handler {
	return handler.New(s, logger)
}
