package utils

import (
	"sync"

	"github.com/google/uuid"
)

type sessionLock struct {
	mu   sync.Mutex
	refs int
}

// SessionLocks hands out one mutex per session so concurrent requests
// from the same browser session (double-submit, multiple tabs) cannot
// interleave cart mutations. Entries are dropped as soon as nothing holds
// or waits on them.
type SessionLocks struct {
	mu    sync.Mutex
	locks map[uuid.UUID]*sessionLock
}

func NewSessionLocks() *SessionLocks {
	return &SessionLocks{
		locks: make(map[uuid.UUID]*sessionLock),
	}
}

// Lock acquires the mutex for the given session, creating it on first use.
func (s *SessionLocks) Lock(id uuid.UUID) {
	s.mu.Lock()
	entry, exists := s.locks[id]
	if !exists {
		entry = &sessionLock{}
		s.locks[id] = entry
	}
	entry.refs++
	s.mu.Unlock()

	entry.mu.Lock()
}

// Unlock releases the session's mutex and removes the entry once no other
// goroutine is holding or waiting on it.
func (s *SessionLocks) Unlock(id uuid.UUID) {
	s.mu.Lock()
	entry, exists := s.locks[id]
	if !exists {
		s.mu.Unlock()
		panic("unlock of unknown session lock")
	}
	entry.refs--
	if entry.refs == 0 {
		delete(s.locks, id)
	}
	s.mu.Unlock()

	entry.mu.Unlock()
}
