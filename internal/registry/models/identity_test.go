package models

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "didregistry/pkg/domain-errors"
)

func TestNewIdentity(t *testing.T) {
	t.Run("starts unverified with empty claims", func(t *testing.T) {
		identity, err := NewIdentity("ST1OWNER", "did:example:alice", 42)
		require.NoError(t, err)
		assert.False(t, identity.VerificationStatus)
		assert.Empty(t, identity.Claims)
		assert.Equal(t, uint64(42), identity.CreatedAt)
		assert.Equal(t, uint64(42), identity.UpdatedAt)
	})

	t.Run("rejects empty did", func(t *testing.T) {
		_, err := NewIdentity("ST1OWNER", "", 1)
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidDID))
	})

	t.Run("rejects did over 100 characters", func(t *testing.T) {
		_, err := NewIdentity("ST1OWNER", strings.Repeat("x", MaxDIDLength+1), 1)
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidDID))
	})

	t.Run("accepts did at exactly 100 characters", func(t *testing.T) {
		_, err := NewIdentity("ST1OWNER", strings.Repeat("x", MaxDIDLength), 1)
		require.NoError(t, err)
	})
}

func TestSetDID(t *testing.T) {
	identity, err := NewIdentity("ST1OWNER", "did:example:alice", 10)
	require.NoError(t, err)

	t.Run("replaces did and bumps updated height", func(t *testing.T) {
		require.NoError(t, identity.SetDID("did:example:alice-2", 11))
		assert.Equal(t, "did:example:alice-2", identity.DID)
		assert.Equal(t, uint64(10), identity.CreatedAt)
		assert.Equal(t, uint64(11), identity.UpdatedAt)
	})

	t.Run("rejects invalid did without mutation", func(t *testing.T) {
		err := identity.SetDID(strings.Repeat("x", MaxDIDLength+1), 12)
		require.Error(t, err)
		assert.Equal(t, "did:example:alice-2", identity.DID)
		assert.Equal(t, uint64(11), identity.UpdatedAt)
	})
}

func TestAppendClaim(t *testing.T) {
	t.Run("preserves insertion order", func(t *testing.T) {
		identity, err := NewIdentity("ST1OWNER", "did:example:alice", 1)
		require.NoError(t, err)

		for i := 0; i < 3; i++ {
			added, err := identity.AppendClaim(fmt.Sprintf("claim-%d", i), uint64(i+2))
			require.NoError(t, err)
			assert.True(t, added)
		}
		assert.Equal(t, []string{"claim-0", "claim-1", "claim-2"}, identity.Claims)
		assert.Equal(t, uint64(4), identity.UpdatedAt)
	})

	// The contract silently caps the list at 10: the 11th append succeeds but
	// changes nothing. The success-at-capacity behavior is observable and must
	// not be replaced with an error.
	t.Run("silently caps at 10 claims", func(t *testing.T) {
		identity, err := NewIdentity("ST1OWNER", "did:example:alice", 1)
		require.NoError(t, err)

		for i := 0; i < MaxClaims; i++ {
			added, err := identity.AppendClaim(fmt.Sprintf("claim-%d", i), uint64(i))
			require.NoError(t, err)
			require.True(t, added)
		}

		added, err := identity.AppendClaim("claim-overflow", 99)
		require.NoError(t, err, "append at capacity reports success")
		assert.False(t, added)
		assert.Len(t, identity.Claims, MaxClaims)
		assert.NotContains(t, identity.Claims, "claim-overflow")
		assert.Equal(t, uint64(MaxClaims-1), identity.UpdatedAt, "capped append performs no mutation")
	})

	t.Run("rejects out-of-bounds claim lengths", func(t *testing.T) {
		identity, err := NewIdentity("ST1OWNER", "did:example:alice", 1)
		require.NoError(t, err)

		_, err = identity.AppendClaim("", 2)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidClaim))

		_, err = identity.AppendClaim(strings.Repeat("c", MaxClaimLength+1), 2)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidClaim))

		_, err = identity.AppendClaim(strings.Repeat("c", MaxClaimLength), 2)
		assert.NoError(t, err)
	})
}

func TestSetVerificationStatus(t *testing.T) {
	identity, err := NewIdentity("ST1OWNER", "did:example:alice", 5)
	require.NoError(t, err)

	identity.SetVerificationStatus(true, 6)
	assert.True(t, identity.VerificationStatus)
	assert.Equal(t, uint64(6), identity.UpdatedAt)

	// Redundant writes are allowed and still bump the height.
	identity.SetVerificationStatus(true, 7)
	assert.True(t, identity.VerificationStatus)
	assert.Equal(t, uint64(7), identity.UpdatedAt)
}

func TestClone(t *testing.T) {
	identity, err := NewIdentity("ST1OWNER", "did:example:alice", 1)
	require.NoError(t, err)
	_, err = identity.AppendClaim("claim-a", 2)
	require.NoError(t, err)

	dup := identity.Clone()
	_, err = dup.AppendClaim("claim-b", 3)
	require.NoError(t, err)

	assert.Equal(t, []string{"claim-a"}, identity.Claims, "clone mutation must not leak back")
	assert.Equal(t, []string{"claim-a", "claim-b"}, dup.Claims)
}
