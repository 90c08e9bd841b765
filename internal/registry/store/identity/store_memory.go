package identity

import (
	"context"
	"sync"

	"didregistry/internal/registry/models"
	id "didregistry/pkg/domain"
	"didregistry/pkg/platform/sentinel"
)

// InMemoryStore keeps identity records and the registry counter in process.
// It intentionally favors clarity over performance.
type InMemoryStore struct {
	mu         sync.RWMutex
	identities map[id.Principal]*models.Identity
	created    uint64
}

func NewInMemory() *InMemoryStore {
	return &InMemoryStore{identities: make(map[id.Principal]*models.Identity)}
}

// Create inserts a new record and increments the registry counter. Returns
// sentinel.ErrConflict if the principal is already registered.
func (s *InMemoryStore) Create(_ context.Context, identity *models.Identity) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.identities[identity.Principal]; exists {
		return sentinel.ErrConflict
	}
	s.identities[identity.Principal] = identity.Clone()
	s.created++
	return nil
}

// Find returns a copy of the record for the principal.
func (s *InMemoryStore) Find(_ context.Context, principal id.Principal) (*models.Identity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if identity, ok := s.identities[principal]; ok {
		return identity.Clone(), nil
	}
	return nil, sentinel.ErrNotFound
}

// Update replaces the stored record for the identity's principal.
func (s *InMemoryStore) Update(_ context.Context, identity *models.Identity) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.identities[identity.Principal]; !ok {
		return sentinel.ErrNotFound
	}
	s.identities[identity.Principal] = identity.Clone()
	return nil
}

// Count returns how many identities were ever created. The counter never
// decrements; there is no delete operation.
func (s *InMemoryStore) Count(_ context.Context) (uint64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.created, nil
}
