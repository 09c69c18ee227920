// Package lock serializes mutations of a single lobby document. Transport
// events for the same lobby can arrive concurrently, and every handler does
// a read-mutate-save round trip against the store; without per-key locking
// two concurrent handlers would silently lose one of the writes.
package lock

import (
	"sync"

	"github.com/drawhive/drawhive/internal/model"
)

// KeyedMutex provides one mutex per lobby name. Mutexes are created lazily
// and released once no handler holds or waits on them.
type KeyedMutex struct {
	mu      sync.Mutex
	entries map[model.LobbyName]*entry
}

type entry struct {
	mu   sync.Mutex
	refs int
}

// New creates a new KeyedMutex
func New() *KeyedMutex {
	return &KeyedMutex{
		entries: make(map[model.LobbyName]*entry),
	}
}

// Lock acquires the mutex for the given lobby name, blocking until it is free
func (k *KeyedMutex) Lock(name model.LobbyName) {
	k.mu.Lock()
	e, ok := k.entries[name]
	if !ok {
		e = &entry{}
		k.entries[name] = e
	}
	e.refs++
	k.mu.Unlock()

	e.mu.Lock()
}

// Unlock releases the mutex for the given lobby name. Unlocking a name that
// was never locked panics, matching sync.Mutex semantics.
func (k *KeyedMutex) Unlock(name model.LobbyName) {
	k.mu.Lock()
	e, ok := k.entries[name]
	if !ok {
		k.mu.Unlock()
		panic("lock: unlock of unlocked lobby key")
	}
	e.refs--
	if e.refs == 0 {
		delete(k.entries, name)
	}
	k.mu.Unlock()

	e.mu.Unlock()
}
