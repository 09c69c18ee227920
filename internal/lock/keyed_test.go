package lock

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLockSerializesSameKey(t *testing.T) {
	k := New()

	counter := 0
	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			k.Lock("abc")
			counter++
			k.Unlock("abc")
		}()
	}
	wg.Wait()

	assert.Equal(t, 100, counter)
}

func TestDifferentKeysDoNotBlockEachOther(t *testing.T) {
	k := New()

	k.Lock("abc")
	done := make(chan struct{})
	go func() {
		k.Lock("xyz")
		k.Unlock("xyz")
		close(done)
	}()
	<-done
	k.Unlock("abc")
}

func TestEntriesAreReleased(t *testing.T) {
	k := New()

	k.Lock("abc")
	k.Unlock("abc")

	k.mu.Lock()
	defer k.mu.Unlock()
	assert.Empty(t, k.entries)
}

func TestUnlockWithoutLockPanics(t *testing.T) {
	k := New()
	assert.Panics(t, func() {
		k.Unlock("abc")
	})
}
