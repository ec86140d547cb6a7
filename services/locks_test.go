package services

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

// Two concurrent creations for a user one short of the limit: exactly one
// may pass the check-then-increment sequence.
func TestKeyedMutexSerializesQuotaCheck(t *testing.T) {
	var locks KeyedMutex

	dishCount := 14 // free limit is 15
	results := make(chan error, 2)

	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock := locks.Lock("user-1")
			defer unlock()

			err := CheckCreateDish(false, dishCount)
			if err == nil {
				dishCount++ // the guarded insert
			}
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	var passed, rejected int
	for err := range results {
		if err == nil {
			passed++
		} else {
			assert.ErrorIs(t, err, ErrQuotaExceeded)
			rejected++
		}
	}

	assert.Equal(t, 1, passed)
	assert.Equal(t, 1, rejected)
	assert.Equal(t, 15, dishCount)
}

func TestKeyedMutexIndependentKeys(t *testing.T) {
	var locks KeyedMutex

	unlockA := locks.Lock("user-a")
	defer unlockA()

	// A held lock on one key must not block another key.
	done := make(chan struct{})
	go func() {
		unlockB := locks.Lock("user-b")
		unlockB()
		close(done)
	}()

	<-done
}

func TestKeyedMutexReentryAfterUnlock(t *testing.T) {
	var locks KeyedMutex

	unlock := locks.Lock("dish-1")
	unlock()

	// Same key can be taken again once released.
	unlock = locks.Lock("dish-1")
	unlock()
}

// Released keys must not accumulate: the map is emptied once the last
// holder of each key unlocks, even under contention.
func TestKeyedMutexReleasesEntries(t *testing.T) {
	var locks KeyedMutex

	unlock := locks.Lock("user-1")
	assert.Equal(t, 1, locks.size())
	unlock()
	assert.Equal(t, 0, locks.size())

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		key := "user-a"
		if i%2 == 0 {
			key = "user-b"
		}
		wg.Add(1)
		go func(key string) {
			defer wg.Done()
			unlock := locks.Lock(key)
			unlock()
		}(key)
	}
	wg.Wait()

	assert.Equal(t, 0, locks.size())
}

func TestKeyedMutexEntryHeldWhileWaiting(t *testing.T) {
	var locks KeyedMutex

	unlock := locks.Lock("user-1")

	acquired := make(chan struct{})
	go func() {
		u := locks.Lock("user-1")
		u()
		close(acquired)
	}()

	// Contended key stays in the map until the waiter also finishes.
	assert.Equal(t, 1, locks.size())

	unlock()
	<-acquired
	assert.Equal(t, 0, locks.size())
}
