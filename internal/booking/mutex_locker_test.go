package booking

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMutexLockerRunsCallback(t *testing.T) {
	locker := NewMutexLocker()

	ran := false
	err := locker.WithSlotLock(context.Background(), "k", func(ctx context.Context) error {
		ran = true
		return nil
	})

	require.NoError(t, err)
	assert.True(t, ran)
}

func TestMutexLockerContention(t *testing.T) {
	locker := NewMutexLocker()

	inside := make(chan struct{})
	release := make(chan struct{})
	done := make(chan error, 1)

	go func() {
		done <- locker.WithSlotLock(context.Background(), "k", func(ctx context.Context) error {
			close(inside)
			<-release
			return nil
		})
	}()

	<-inside
	err := locker.WithSlotLock(context.Background(), "k", func(ctx context.Context) error {
		t.Error("callback must not run while lock is held")
		return nil
	})
	assert.ErrorIs(t, err, ErrLockNotAcquired)

	close(release)
	require.NoError(t, <-done)

	// Lock is reusable after release.
	err = locker.WithSlotLock(context.Background(), "k", func(ctx context.Context) error { return nil })
	require.NoError(t, err)
}

func TestMutexLockerIndependentKeys(t *testing.T) {
	locker := NewMutexLocker()

	inside := make(chan struct{})
	release := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)

	go func() {
		defer wg.Done()
		_ = locker.WithSlotLock(context.Background(), "a", func(ctx context.Context) error {
			close(inside)
			<-release
			return nil
		})
	}()

	<-inside
	err := locker.WithSlotLock(context.Background(), "b", func(ctx context.Context) error { return nil })
	assert.NoError(t, err, "different slots must not contend")

	close(release)
	wg.Wait()
}
