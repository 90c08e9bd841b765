package models

import (
	id "didregistry/pkg/domain"
	dErrors "didregistry/pkg/domain-errors"
)

// Bounds for identity fields. These mirror the on-ledger contract limits and
// are enforced before any mutation.
const (
	MaxDIDLength   = 100
	MaxClaimLength = 200
	MaxClaims      = 10
)

// Identity is the registry record for one principal.
//
// Invariants:
//   - DID length is in [1, MaxDIDLength]
//   - every claim length is in [1, MaxClaimLength]
//   - len(Claims) <= MaxClaims, insertion order preserved, no removal
//   - CreatedAt is immutable after construction
//   - at most one Identity exists per principal (enforced by the store)
type Identity struct {
	Principal          id.Principal `json:"principal"`
	DID                string       `json:"did"`
	VerificationStatus bool         `json:"verification_status"`
	Claims             []string     `json:"claims"`
	CreatedAt          uint64       `json:"created_at"`
	UpdatedAt          uint64       `json:"updated_at"`
}

// NewIdentity constructs an unverified identity with an empty claim list.
// Both timestamps are set to the creation height.
func NewIdentity(principal id.Principal, did string, height uint64) (*Identity, error) {
	if err := ValidateDID(did); err != nil {
		return nil, err
	}
	return &Identity{
		Principal:          principal,
		DID:                did,
		VerificationStatus: false,
		Claims:             []string{},
		CreatedAt:          height,
		UpdatedAt:          height,
	}, nil
}

// ValidateDID checks the DID length bound.
func ValidateDID(did string) error {
	if len(did) == 0 || len(did) > MaxDIDLength {
		return dErrors.Newf(dErrors.CodeInvalidDID, "did must be 1-%d characters", MaxDIDLength)
	}
	return nil
}

// ValidateClaim checks the claim length bound. Claim content is opaque; only
// the length is validated.
func ValidateClaim(claim string) error {
	if len(claim) == 0 || len(claim) > MaxClaimLength {
		return dErrors.Newf(dErrors.CodeInvalidClaim, "claim must be 1-%d characters", MaxClaimLength)
	}
	return nil
}

// SetDID replaces the DID and bumps UpdatedAt.
func (i *Identity) SetDID(did string, height uint64) error {
	if err := ValidateDID(did); err != nil {
		return err
	}
	i.DID = did
	i.UpdatedAt = height
	return nil
}

// AppendClaim appends a claim and bumps UpdatedAt. At capacity the call
// succeeds without mutating the record: the contract silently caps the list
// rather than failing, and callers cannot distinguish the two outcomes from
// the return value. The bool reports whether the claim was actually added.
func (i *Identity) AppendClaim(claim string, height uint64) (bool, error) {
	if err := ValidateClaim(claim); err != nil {
		return false, err
	}
	if len(i.Claims) >= MaxClaims {
		return false, nil
	}
	i.Claims = append(i.Claims, claim)
	i.UpdatedAt = height
	return true, nil
}

// SetVerificationStatus writes the flag and bumps UpdatedAt. Redundant writes
// are allowed.
func (i *Identity) SetVerificationStatus(status bool, height uint64) {
	i.VerificationStatus = status
	i.UpdatedAt = height
}

// Clone returns a deep copy. Stores hand out clones so callers can never
// mutate stored state outside a transaction boundary.
func (i *Identity) Clone() *Identity {
	dup := *i
	dup.Claims = make([]string, len(i.Claims))
	copy(dup.Claims, i.Claims)
	return &dup
}
