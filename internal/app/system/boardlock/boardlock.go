// internal/app/system/boardlock/boardlock.go

// Package boardlock serializes publish runs per board. Version allocation is
// already race-free at the database level (atomic increment on the bord
// record plus a unique snapshot index); this lock additionally keeps two
// concurrent publishes of the same board from double-classifying the same
// drafts and double-emitting notifications in a single-instance deployment.
package boardlock

import "sync"

// Set is a keyed mutex collection. The zero value is not usable; call New.
type Set struct {
	mu    sync.Mutex
	locks map[string]*entry
}

type entry struct {
	mu   sync.Mutex
	refs int
}

// New returns an empty lock set.
func New() *Set {
	return &Set{locks: make(map[string]*entry)}
}

// Lock acquires the lock for key and returns the unlock function. Entries
// are reference-counted and removed when the last holder releases, so the
// map does not grow with the number of boards ever published.
func (s *Set) Lock(key string) func() {
	s.mu.Lock()
	e, ok := s.locks[key]
	if !ok {
		e = &entry{}
		s.locks[key] = e
	}
	e.refs++
	s.mu.Unlock()

	e.mu.Lock()

	return func() {
		e.mu.Unlock()
		s.mu.Lock()
		e.refs--
		if e.refs == 0 {
			delete(s.locks, key)
		}
		s.mu.Unlock()
	}
}
