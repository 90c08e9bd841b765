package handler

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"didregistry/internal/auth"
	"didregistry/internal/auth/secrets"
	id "didregistry/pkg/domain"
)

const issuanceSecret = "registry-issuance-secret"

func TestIssueToken(t *testing.T) {
	router, tokens := newAuthRouter(t)

	rec := postToken(router, map[string]string{
		"principal": "ST1ALICE",
		"secret":    issuanceSecret,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 issuing token, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp TokenResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode token response: %v", err)
	}
	if resp.TokenType != "Bearer" || resp.AccessToken == "" {
		t.Fatalf("unexpected token response: %+v", resp)
	}

	principal, err := tokens.Validate(resp.AccessToken)
	if err != nil {
		t.Fatalf("issued token failed validation: %v", err)
	}
	if principal != id.Principal("ST1ALICE") {
		t.Fatalf("expected token subject ST1ALICE, got %s", principal)
	}
}

func TestIssueTokenRejectsWrongSecret(t *testing.T) {
	router, _ := newAuthRouter(t)

	rec := postToken(router, map[string]string{
		"principal": "ST1ALICE",
		"secret":    "wrong",
	})
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for wrong secret, got %d", rec.Code)
	}
}

func TestIssueTokenRequiresPrincipal(t *testing.T) {
	router, _ := newAuthRouter(t)

	rec := postToken(router, map[string]string{"secret": issuanceSecret})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 without principal, got %d", rec.Code)
	}
}

func newAuthRouter(t *testing.T) (http.Handler, *auth.TokenManager) {
	t.Helper()
	hash, err := secrets.Hash(issuanceSecret)
	if err != nil {
		t.Fatalf("failed to hash issuance secret: %v", err)
	}
	tokens := auth.NewTokenManager("test-signing-key", "didregistry")
	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))

	h := New(tokens, hash, logger)
	r := chi.NewRouter()
	h.Register(r)
	return r, tokens
}

func postToken(router http.Handler, payload map[string]string) *httptest.ResponseRecorder {
	body, _ := json.Marshal(payload)
	req := httptest.NewRequest(http.MethodPost, "/auth/token", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}
