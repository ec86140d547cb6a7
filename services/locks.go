package services

import (
	"sync"
)

// KeyedMutex serializes the check-then-insert sequence per owning resource
// (user id for dish creation, dish id for recipe creation). Without it two
// concurrent creations could both pass the count check and jointly exceed
// the limit. The DB transaction's row lock covers other processes; this
// covers goroutines inside this one.
//
// Entries are reference counted and removed once the last holder releases,
// so the map only holds keys with lockers currently active or waiting.
type KeyedMutex struct {
	mu    sync.Mutex
	locks map[string]*keyedLock
}

type keyedLock struct {
	mu   sync.Mutex
	refs int
}

func (k *KeyedMutex) Lock(key string) func() {
	k.mu.Lock()
	if k.locks == nil {
		k.locks = make(map[string]*keyedLock)
	}
	l, ok := k.locks[key]
	if !ok {
		l = &keyedLock{}
		k.locks[key] = l
	}
	l.refs++
	k.mu.Unlock()

	l.mu.Lock()
	return func() {
		l.mu.Unlock()
		k.mu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(k.locks, key)
		}
		k.mu.Unlock()
	}
}

func (k *KeyedMutex) size() int {
	k.mu.Lock()
	defer k.mu.Unlock()
	return len(k.locks)
}

// CreationLocks guards quota-gated creations across handlers.
var CreationLocks = &KeyedMutex{}
