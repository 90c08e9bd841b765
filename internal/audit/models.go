package audit

import (
	"time"

	id "didregistry/pkg/domain"
)

// Action identifies what happened to a registry record.
type Action string

const (
	ActionIdentityCreated Action = "identity.created"
	ActionDIDUpdated      Action = "identity.did_updated"
	ActionClaimAdded      Action = "identity.claim_added"
	// ActionClaimCapped records an append that reported success to the caller
	// but was dropped at the 10-claim capacity. The contract hides this from
	// callers; the audit trail does not.
	ActionClaimCapped   Action = "identity.claim_capped"
	ActionClaimVerified Action = "claim.verified"
	ActionStatusSet     Action = "identity.status_set"
)

// Event is one append-only audit record. Height is the logical chain height
// the mutation was stamped with; Timestamp is wall-clock time for operators.
type Event struct {
	ID        string       `json:"id"`
	Action    Action       `json:"action"`
	Principal id.Principal `json:"principal"`
	Actor     id.Principal `json:"actor,omitempty"`
	DID       string       `json:"did,omitempty"`
	Claim     string       `json:"claim,omitempty"`
	Status    bool         `json:"status,omitempty"`
	Height    uint64       `json:"height"`
	RequestID string       `json:"request_id,omitempty"`
	Timestamp time.Time    `json:"timestamp"`
}
