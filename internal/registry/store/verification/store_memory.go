package verification

import (
	"context"
	"sync"

	id "didregistry/pkg/domain"
)

type claimKey struct {
	principal id.Principal
	claim     string
}

// InMemoryStore is the verified-claims ledger: (principal, claim text) -> bool.
// It is deliberately decoupled from the identity record's own claim list; an
// entry may exist for text that was never added to any list.
type InMemoryStore struct {
	mu       sync.RWMutex
	verified map[claimKey]bool
}

func NewInMemory() *InMemoryStore {
	return &InMemoryStore{verified: make(map[claimKey]bool)}
}

// MarkVerified sets the entry to true. Idempotent; entries are never reset.
func (s *InMemoryStore) MarkVerified(_ context.Context, principal id.Principal, claim string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.verified[claimKey{principal: principal, claim: claim}] = true
	return nil
}

// IsVerified reports whether the entry exists and is true. Missing entries
// are false, never an error.
func (s *InMemoryStore) IsVerified(_ context.Context, principal id.Principal, claim string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.verified[claimKey{principal: principal, claim: claim}], nil
}
