package lock

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/nimasrn/cable-billing/internal/model"
	"github.com/nimasrn/cable-billing/pkg/redis"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupLocker(t *testing.T, ttl time.Duration) (*miniredis.Miniredis, *CollectionLocker) {
	mr := miniredis.RunT(t)
	adapter, err := redis.NewRedisAdapter(t.Name(), "test:", &redis.Options{Addrs: []string{mr.Addr()}})
	require.NoError(t, err)
	return mr, NewCollectionLocker(adapter, Config{TTL: ttl})
}

func TestCollectionLocker_AcquireRelease(t *testing.T) {
	_, locker := setupLocker(t, time.Minute)
	ctx := context.Background()
	period := model.Period{Month: 3, Year: 2025}

	h, err := locker.Acquire(ctx, 1, period)
	require.NoError(t, err)

	_, err = locker.Acquire(ctx, 1, period)
	assert.ErrorIs(t, err, ErrLockHeld)

	other, err := locker.Acquire(ctx, 1, model.Period{Month: 4, Year: 2025})
	require.NoError(t, err)
	other.Release()

	h.Release()

	again, err := locker.Acquire(ctx, 1, period)
	require.NoError(t, err)
	again.Release()
}

func TestCollectionLocker_ExpiredLockIsNotStolenBack(t *testing.T) {
	mr, locker := setupLocker(t, time.Second)
	ctx := context.Background()
	period := model.Period{Month: 3, Year: 2025}

	first, err := locker.Acquire(ctx, 9, period)
	require.NoError(t, err)

	mr.FastForward(2 * time.Second)

	second, err := locker.Acquire(ctx, 9, period)
	require.NoError(t, err)

	// the stale holder must not remove the new holder's key
	first.Release()
	_, err = locker.Acquire(ctx, 9, period)
	assert.ErrorIs(t, err, ErrLockHeld)

	second.Release()
}

func TestCollectionLocker_RedisDown(t *testing.T) {
	mr, locker := setupLocker(t, time.Minute)
	mr.Close()

	_, err := locker.Acquire(context.Background(), 1, model.Period{Month: 1, Year: 2025})
	assert.ErrorIs(t, err, ErrLockAcquireFailed)
}

func TestHandle_ReleaseNil(t *testing.T) {
	var h *Handle
	assert.NotPanics(t, h.Release)
}
