package handler

import (
	"didregistry/internal/registry/models"
)

// IdentityResponse is the JSON shape of an identity record.
type IdentityResponse struct {
	Principal          string   `json:"principal"`
	DID                string   `json:"did"`
	Claims             []string `json:"claims"`
	VerificationStatus bool     `json:"verification_status"`
	CreatedAt          uint64   `json:"created_at"`
	UpdatedAt          uint64   `json:"updated_at"`
}

// GetIdentityResponse is the HTTP response for GET /identities/{principal}.
// Identity is null for an unregistered principal; the lookup itself never
// fails.
type GetIdentityResponse struct {
	Registered bool              `json:"registered"`
	Identity   *IdentityResponse `json:"identity"`
}

// ClaimsResponse is the HTTP response for GET /identities/{principal}/claims.
type ClaimsResponse struct {
	Claims []string `json:"claims"`
}

// VerifiedResponse reports a verification flag, for both the claim-level and
// identity-level lookups.
type VerifiedResponse struct {
	Verified bool `json:"verified"`
}

// CountResponse is the HTTP response for GET /registry/count.
type CountResponse struct {
	Count uint64 `json:"count"`
}

// FromIdentity converts a domain identity to its HTTP response shape.
func FromIdentity(identity *models.Identity) *IdentityResponse {
	return &IdentityResponse{
		Principal:          identity.Principal.String(),
		DID:                identity.DID,
		Claims:             identity.Claims,
		VerificationStatus: identity.VerificationStatus,
		CreatedAt:          identity.CreatedAt,
		UpdatedAt:          identity.UpdatedAt,
	}
}
