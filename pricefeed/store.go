// Package pricefeed polls quote providers and keeps the committed widget state
package pricefeed

import (
	"sync"

	"github.com/sljivkov/bonkboard/domain"
)

// Store holds the committed price state. The poller is its only writer.
type Store struct {
	mu      sync.RWMutex
	state   domain.State
	settled chan struct{} // closed once the first cycle has settled
	once    sync.Once
}

// NewStore creates a store in the initial loading state for assets
func NewStore(assets ...string) *Store {
	return &Store{
		state:   domain.NewState(assets...),
		settled: make(chan struct{}),
	}
}

// Snapshot returns a copy of the committed state
func (s *Store) Snapshot() domain.State {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.state.Clone()
}

// Apply replaces the committed state with fn(current)
func (s *Store) Apply(fn func(domain.State) domain.State) domain.State {
	s.mu.Lock()
	s.state = fn(s.state)
	next := s.state.Clone()
	s.mu.Unlock()

	if !next.Loading {
		s.once.Do(func() { close(s.settled) })
	}

	return next
}

// Settled is closed once the first cycle has completed, successfully or not
func (s *Store) Settled() <-chan struct{} {
	return s.settled
}
