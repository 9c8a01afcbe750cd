package utils

import (
	"sync"
	"testing"

	"github.com/google/uuid"
)

func TestSessionLocksSerialize(t *testing.T) {
	locks := NewSessionLocks()
	id := uuid.New()

	counter := 0
	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			locks.Lock(id)
			counter++
			locks.Unlock(id)
		}()
	}
	wg.Wait()

	if counter != 100 {
		t.Errorf("expected 100 serialized increments, got %d", counter)
	}
}

func TestSessionLocksIndependentSessions(t *testing.T) {
	locks := NewSessionLocks()
	first := uuid.New()
	second := uuid.New()

	locks.Lock(first)
	// A different session must not block.
	done := make(chan struct{})
	go func() {
		locks.Lock(second)
		locks.Unlock(second)
		close(done)
	}()
	<-done
	locks.Unlock(first)
}

func TestSessionLocksEntriesAreReclaimed(t *testing.T) {
	locks := NewSessionLocks()
	id := uuid.New()

	locks.Lock(id)
	locks.Unlock(id)

	locks.mu.Lock()
	remaining := len(locks.locks)
	locks.mu.Unlock()
	if remaining != 0 {
		t.Errorf("expected no lock entries after release, got %d", remaining)
	}
}

func TestSessionLocksUnlockUnknownPanics(t *testing.T) {
	locks := NewSessionLocks()

	defer func() {
		if recover() == nil {
			t.Error("expected panic on unlock of unknown session")
		}
	}()
	locks.Unlock(uuid.New())
}
