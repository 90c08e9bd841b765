package audit

import (
	"context"
	"sync"

	id "didregistry/pkg/domain"
)

// InMemorySink collects events in process. Default sink when Kafka is not
// configured; also what tests assert against.
type InMemorySink struct {
	mu     sync.RWMutex
	events []Event
}

func NewInMemorySink() *InMemorySink {
	return &InMemorySink{}
}

func (s *InMemorySink) Append(_ context.Context, event Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, event)
	return nil
}

// ListByPrincipal returns events whose subject is the given principal, in
// append order.
func (s *InMemorySink) ListByPrincipal(_ context.Context, principal id.Principal) []Event {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []Event
	for _, event := range s.events {
		if event.Principal == principal {
			out = append(out, event)
		}
	}
	return out
}

// Len returns the total number of captured events.
func (s *InMemorySink) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.events)
}
