package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"didregistry/internal/auth"
	"didregistry/internal/auth/secrets"
	id "didregistry/pkg/domain"
	dErrors "didregistry/pkg/domain-errors"
	"didregistry/pkg/platform/httputil"
	"didregistry/pkg/requestcontext"
)

// Handler exposes the token issuance endpoint. Principals exchange the shared
// issuance secret for a bearer token carrying their address.
type Handler struct {
	tokens     *auth.TokenManager
	secretHash string
	logger     *slog.Logger
}

func New(tokens *auth.TokenManager, secretHash string, logger *slog.Logger) *Handler {
	return &Handler{
		tokens:     tokens,
		secretHash: secretHash,
		logger:     logger,
	}
}

// Register mounts auth endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/auth/token", h.HandleIssueToken)
}

// TokenRequest is the HTTP request body for POST /auth/token.
type TokenRequest struct {
	Principal string `json:"principal"`
	Secret    string `json:"secret"`

	parsedPrincipal id.Principal
}

// Prepare validates and parses the request.
// Implements the Preparer interface for httputil.DecodeAndPrepare.
func (r *TokenRequest) Prepare() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	if r.Secret == "" {
		return dErrors.New(dErrors.CodeInvalidInput, "secret is required")
	}
	principal, err := id.ParsePrincipal(r.Principal)
	if err != nil {
		return err
	}
	r.parsedPrincipal = principal
	return nil
}

// TokenResponse is the HTTP response for POST /auth/token.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// HandleIssueToken handles POST /auth/token requests.
func (h *Handler) HandleIssueToken(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[TokenRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	if err := secrets.Verify(req.Secret, h.secretHash); err != nil {
		h.logger.WarnContext(ctx, "token issuance rejected",
			"request_id", requestID,
			"principal", req.parsedPrincipal,
		)
		httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "invalid issuance secret"))
		return
	}

	token, err := h.tokens.Issue(req.parsedPrincipal)
	if err != nil {
		h.logger.ErrorContext(ctx, "token signing failed",
			"request_id", requestID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "token issued",
		"request_id", requestID,
		"principal", req.parsedPrincipal,
	)

	httputil.WriteJSON(w, http.StatusOK, TokenResponse{
		AccessToken: token,
		TokenType:   "Bearer",
	})
}
