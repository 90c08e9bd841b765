package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"didregistry/internal/registry/models"
	id "didregistry/pkg/domain"
	dErrors "didregistry/pkg/domain-errors"
	"didregistry/pkg/platform/httputil"
	"didregistry/pkg/requestcontext"
)

// Service defines the interface for registry operations.
type Service interface {
	Create(ctx context.Context, caller id.Principal, did string) error
	UpdateDID(ctx context.Context, caller id.Principal, newDID string) error
	AddClaim(ctx context.Context, caller id.Principal, claim string) error
	SetVerificationStatus(ctx context.Context, caller, principal id.Principal, status bool) error
	VerifyClaim(ctx context.Context, caller, principal id.Principal, claim string) error
	GetIdentity(ctx context.Context, principal id.Principal) (*models.Identity, bool, error)
	GetAllClaims(ctx context.Context, principal id.Principal) ([]string, error)
	IsClaimVerified(ctx context.Context, principal id.Principal, claim string) (bool, error)
	IsIdentityVerified(ctx context.Context, principal id.Principal) (bool, error)
	Count(ctx context.Context) (uint64, error)
}

// Handler wires registry endpoints to the registry service.
type Handler struct {
	service Service
	logger  *slog.Logger
}

// New constructs a registry handler with its dependencies.
func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Register mounts registry endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/identities", h.HandleCreate)
	r.Put("/identities/did", h.HandleUpdateDID)
	r.Post("/identities/claims", h.HandleAddClaim)
	r.Post("/identities/{principal}/claims/verify", h.HandleVerifyClaim)
	r.Put("/identities/{principal}/verification", h.HandleSetVerificationStatus)
	r.Get("/identities/{principal}", h.HandleGetIdentity)
	r.Get("/identities/{principal}/claims", h.HandleGetAllClaims)
	r.Get("/identities/{principal}/claims/verified", h.HandleIsClaimVerified)
	r.Get("/identities/{principal}/verification", h.HandleIsIdentityVerified)
	r.Get("/registry/count", h.HandleCount)
}

// HandleCreate handles POST /identities requests. The identity is registered
// for the authenticated caller.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	start := time.Now()

	caller, ok := requireCaller(w, ctx)
	if !ok {
		return
	}

	req, ok := httputil.DecodeAndPrepare[CreateIdentityRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	if err := h.service.Create(ctx, caller, req.DID); err != nil {
		h.logger.ErrorContext(ctx, "identity creation failed",
			"request_id", requestID,
			"principal", caller,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	identity, _, err := h.service.GetIdentity(ctx, caller)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "identity created",
		"request_id", requestID,
		"principal", caller,
		"duration_ms", time.Since(start).Milliseconds(),
	)

	httputil.WriteJSON(w, http.StatusCreated, FromIdentity(identity))
}

// HandleUpdateDID handles PUT /identities/did requests for the caller's own
// record.
func (h *Handler) HandleUpdateDID(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	caller, ok := requireCaller(w, ctx)
	if !ok {
		return
	}

	req, ok := httputil.DecodeAndPrepare[UpdateDIDRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	if err := h.service.UpdateDID(ctx, caller, req.DID); err != nil {
		h.logger.ErrorContext(ctx, "did update failed",
			"request_id", requestID,
			"principal", caller,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// HandleAddClaim handles POST /identities/claims requests for the caller's
// own record. A 204 reply does not reveal whether the claim was stored or
// silently dropped at the capacity limit.
func (h *Handler) HandleAddClaim(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	caller, ok := requireCaller(w, ctx)
	if !ok {
		return
	}

	req, ok := httputil.DecodeAndPrepare[AddClaimRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	if err := h.service.AddClaim(ctx, caller, req.Claim); err != nil {
		h.logger.ErrorContext(ctx, "claim append failed",
			"request_id", requestID,
			"principal", caller,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// HandleVerifyClaim handles POST /identities/{principal}/claims/verify
// requests. Owner-only; authorization is enforced by the service.
func (h *Handler) HandleVerifyClaim(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	caller, ok := requireCaller(w, ctx)
	if !ok {
		return
	}
	principal, ok := principalParam(w, r)
	if !ok {
		return
	}

	req, ok := httputil.DecodeAndPrepare[VerifyClaimRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	if err := h.service.VerifyClaim(ctx, caller, principal, req.Claim); err != nil {
		h.logger.ErrorContext(ctx, "claim verification failed",
			"request_id", requestID,
			"principal", principal,
			"actor", caller,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// HandleSetVerificationStatus handles PUT /identities/{principal}/verification
// requests. Owner-only.
func (h *Handler) HandleSetVerificationStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	caller, ok := requireCaller(w, ctx)
	if !ok {
		return
	}
	principal, ok := principalParam(w, r)
	if !ok {
		return
	}

	req, ok := httputil.DecodeAndPrepare[SetVerificationStatusRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	if err := h.service.SetVerificationStatus(ctx, caller, principal, *req.Verified); err != nil {
		h.logger.ErrorContext(ctx, "verification status write failed",
			"request_id", requestID,
			"principal", principal,
			"actor", caller,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// HandleGetIdentity handles GET /identities/{principal} requests. Returns 200
// with identity=null for an unregistered principal.
func (h *Handler) HandleGetIdentity(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	principal, ok := principalParam(w, r)
	if !ok {
		return
	}

	identity, found, err := h.service.GetIdentity(ctx, principal)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	resp := GetIdentityResponse{Registered: found}
	if found {
		resp.Identity = FromIdentity(identity)
	}
	httputil.WriteJSON(w, http.StatusOK, resp)
}

// HandleGetAllClaims handles GET /identities/{principal}/claims requests.
// Unlike the identity lookup, a missing principal is a 404 here.
func (h *Handler) HandleGetAllClaims(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	principal, ok := principalParam(w, r)
	if !ok {
		return
	}

	claims, err := h.service.GetAllClaims(ctx, principal)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, ClaimsResponse{Claims: claims})
}

// HandleIsClaimVerified handles
// GET /identities/{principal}/claims/verified?claim=X requests.
func (h *Handler) HandleIsClaimVerified(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	principal, ok := principalParam(w, r)
	if !ok {
		return
	}

	claim := r.URL.Query().Get("claim")
	if claim == "" {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "claim query parameter is required"))
		return
	}

	verified, err := h.service.IsClaimVerified(ctx, principal, claim)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, VerifiedResponse{Verified: verified})
}

// HandleIsIdentityVerified handles GET /identities/{principal}/verification
// requests.
func (h *Handler) HandleIsIdentityVerified(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	principal, ok := principalParam(w, r)
	if !ok {
		return
	}

	verified, err := h.service.IsIdentityVerified(ctx, principal)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, VerifiedResponse{Verified: verified})
}

// HandleCount handles GET /registry/count requests.
func (h *Handler) HandleCount(w http.ResponseWriter, r *http.Request) {
	count, err := h.service.Count(r.Context())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, CountResponse{Count: count})
}

func requireCaller(w http.ResponseWriter, ctx context.Context) (id.Principal, bool) {
	caller := requestcontext.Caller(ctx)
	if caller.IsZero() {
		httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "authentication required"))
		return "", false
	}
	return caller, true
}

func principalParam(w http.ResponseWriter, r *http.Request) (id.Principal, bool) {
	principal, err := id.ParsePrincipal(chi.URLParam(r, "principal"))
	if err != nil {
		httputil.WriteError(w, err)
		return "", false
	}
	return principal, true
}
