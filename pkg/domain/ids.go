// Package domain holds the identifier types shared across modules.
package domain

import (
	"strings"

	dErrors "didregistry/pkg/domain-errors"
)

// MaxPrincipalLength bounds principal addresses. Addresses are opaque strings
// supplied by the hosting execution environment; the bound only guards against
// abuse of the transport layer.
const MaxPrincipalLength = 128

// Principal is the address of an actor in the hosting execution environment.
// It is opaque to the registry: two principals are the same actor iff the
// strings are equal.
type Principal string

// ParsePrincipal validates a raw principal address from a trust boundary.
func ParsePrincipal(raw string) (Principal, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", dErrors.New(dErrors.CodeInvalidInput, "principal is required")
	}
	if len(raw) > MaxPrincipalLength {
		return "", dErrors.Newf(dErrors.CodeInvalidInput, "principal exceeds %d characters", MaxPrincipalLength)
	}
	return Principal(raw), nil
}

func (p Principal) String() string { return string(p) }

// IsZero reports whether the principal is unset.
func (p Principal) IsZero() bool { return p == "" }
