package cache

import (
	"sync"
	"sync/atomic"
)

// Store holds the current Snapshot. Readers never block; writers are
// serialized and publish a new snapshot in a single pointer swap, so a
// reader sees either all of a merge or none of it.
type Store struct {
	mu      sync.Mutex
	current atomic.Pointer[Snapshot]
}

// New creates an empty Store.
func New() *Store {
	s := &Store{}
	s.current.Store(emptySnapshot())
	return s
}

// Snapshot returns the latest snapshot. It must be treated as read-only.
func (s *Store) Snapshot() *Snapshot {
	return s.current.Load()
}

// Update applies fn to a copy of the current snapshot and publishes it.
// Returning false from fn discards the copy.
func (s *Store) Update(fn func(tx *Tx) bool) *Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev := s.current.Load()
	next := prev.clone()
	if !fn(&Tx{snap: next}) {
		return prev
	}
	next.version = prev.version + 1
	s.current.Store(next)
	return next
}

// Reset drops every cached entity.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := emptySnapshot()
	next.version = s.current.Load().version + 1
	s.current.Store(next)
}
