package handler

import (
	"didregistry/internal/registry/models"
	dErrors "didregistry/pkg/domain-errors"
)

// CreateIdentityRequest is the HTTP request body for POST /identities.
type CreateIdentityRequest struct {
	DID string `json:"did"`
}

// Prepare validates the request.
// Implements the Preparer interface for httputil.DecodeAndPrepare.
func (r *CreateIdentityRequest) Prepare() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	// Length bounds apply to the raw value; no trimming, whitespace is
	// significant in DIDs and claims.
	return models.ValidateDID(r.DID)
}

// UpdateDIDRequest is the HTTP request body for PUT /identities/did.
type UpdateDIDRequest struct {
	DID string `json:"did"`
}

func (r *UpdateDIDRequest) Prepare() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	return models.ValidateDID(r.DID)
}

// AddClaimRequest is the HTTP request body for POST /identities/claims.
type AddClaimRequest struct {
	Claim string `json:"claim"`
}

func (r *AddClaimRequest) Prepare() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	return models.ValidateClaim(r.Claim)
}

// VerifyClaimRequest is the HTTP request body for
// POST /identities/{principal}/claims/verify.
type VerifyClaimRequest struct {
	Claim string `json:"claim"`
}

func (r *VerifyClaimRequest) Prepare() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	return models.ValidateClaim(r.Claim)
}

// SetVerificationStatusRequest is the HTTP request body for
// PUT /identities/{principal}/verification.
type SetVerificationStatusRequest struct {
	Verified *bool `json:"verified"`
}

func (r *SetVerificationStatusRequest) Prepare() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	if r.Verified == nil {
		return dErrors.New(dErrors.CodeInvalidInput, "verified is required")
	}
	return nil
}
