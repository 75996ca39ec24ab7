package concurrency

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetLockReturnsSameMutexForKey(t *testing.T) {
	lm := NewLockManager()

	assert.Same(t, lm.GetLock("player-1"), lm.GetLock("player-1"))
	assert.NotSame(t, lm.GetLock("player-1"), lm.GetLock("player-2"))
}

func TestWithLockPropagatesError(t *testing.T) {
	lm := NewLockManager()
	want := errors.New("boom")

	err := lm.WithLock("player-1", func() error { return want })
	assert.ErrorIs(t, err, want)
}

func TestWithLockSerializesSameKey(t *testing.T) {
	lm := NewLockManager()

	const goroutines = 50
	counter := 0

	var wg sync.WaitGroup
	wg.Add(goroutines)
	for i := 0; i < goroutines; i++ {
		go func() {
			defer wg.Done()
			_ = lm.WithLock("player-1", func() error {
				counter++
				return nil
			})
		}()
	}
	wg.Wait()

	assert.Equal(t, goroutines, counter)
}
