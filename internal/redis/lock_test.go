package redisclient

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medicareai/clinic-booking/internal/booking"
)

func newTestLocker(t *testing.T) (booking.Locker, *redis.Client, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisSlotLocker(client, 5*time.Second), client, mr
}

func TestWithSlotLockRunsCallback(t *testing.T) {
	locker, _, _ := newTestLocker(t)

	ran := false
	err := locker.WithSlotLock(context.Background(), "Dr. Gray|2024-06-01|09:00", func(ctx context.Context) error {
		ran = true
		return nil
	})

	require.NoError(t, err)
	assert.True(t, ran)
}

func TestWithSlotLockReleasesKey(t *testing.T) {
	locker, _, mr := newTestLocker(t)

	err := locker.WithSlotLock(context.Background(), "k", func(ctx context.Context) error { return nil })
	require.NoError(t, err)

	assert.False(t, mr.Exists("lock:slot:k"))
}

func TestWithSlotLockContention(t *testing.T) {
	locker, client, _ := newTestLocker(t)

	// Simulate another process holding the lock.
	require.NoError(t, client.Set(context.Background(), "lock:slot:busy", "other-token", time.Minute).Err())

	err := locker.WithSlotLock(context.Background(), "busy", func(ctx context.Context) error {
		t.Fatal("callback should not run while lock is held")
		return nil
	})

	assert.ErrorIs(t, err, booking.ErrLockNotAcquired)
}

func TestWithSlotLockDoesNotReleaseForeignToken(t *testing.T) {
	locker, client, mr := newTestLocker(t)

	err := locker.WithSlotLock(context.Background(), "k", func(ctx context.Context) error {
		// Lock expired mid-section and someone else took it.
		return client.Set(ctx, "lock:slot:k", "foreign", time.Minute).Err()
	})
	require.NoError(t, err)

	// The foreign holder's lock must survive our release.
	assert.True(t, mr.Exists("lock:slot:k"))
}
