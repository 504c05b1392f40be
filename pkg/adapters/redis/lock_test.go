package redis_test

import (
	"context"
	"testing"
	"time"

	"github.com/Moosa-Imran/Content-Machine-sub001/pkg/adapters/redis"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisLocker_LockUnlock(t *testing.T) {
	mr, client := newTestClient(t)
	locker := redis.NewLocker(client, "test:")
	ctx := context.Background()

	// 1. Acquire Lock
	unlock, err := locker.Lock(ctx, "framework", 5*time.Second)
	require.NoError(t, err)
	require.NotNil(t, unlock)

	assert.True(t, mr.Exists("test:lock:framework"), "Lock key should be set in Redis")

	// 2. Release Lock
	require.NoError(t, unlock(ctx))
	assert.False(t, mr.Exists("test:lock:framework"), "Lock key should be removed after unlock")
}

func TestRedisLocker_Contention(t *testing.T) {
	_, client := newTestClient(t)
	locker1 := redis.NewLocker(client, "test:")
	locker2 := redis.NewLocker(client, "test:") // Same prefix -> contention
	ctx := context.Background()

	unlock1, err := locker1.Lock(ctx, "framework", 5*time.Second)
	require.NoError(t, err)

	// Client 2 must block until its context expires.
	ctxTimeout, cancel := context.WithTimeout(ctx, 300*time.Millisecond)
	defer cancel()
	_, err = locker2.Lock(ctxTimeout, "framework", 5*time.Second)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	require.NoError(t, unlock1(ctx))

	unlock2, err := locker2.Lock(ctx, "framework", 5*time.Second)
	require.NoError(t, err)
	assert.NoError(t, unlock2(ctx))
}

func TestRedisLocker_StaleUnlockDoesNotReleaseNewHolder(t *testing.T) {
	mr, client := newTestClient(t)
	locker := redis.NewLocker(client, "test:")
	ctx := context.Background()

	unlockOld, err := locker.Lock(ctx, "framework", time.Second)
	require.NoError(t, err)

	// The first holder's lease expires and someone else takes the lock.
	mr.FastForward(2 * time.Second)
	unlockNew, err := locker.Lock(ctx, "framework", 5*time.Second)
	require.NoError(t, err)

	// Late release from the first holder must be a no-op.
	require.NoError(t, unlockOld(ctx))
	assert.True(t, mr.Exists("test:lock:framework"))

	require.NoError(t, unlockNew(ctx))
	assert.False(t, mr.Exists("test:lock:framework"))
}

func TestRedisLocker_RenewsLeaseWhileHeld(t *testing.T) {
	mr, client := newTestClient(t)
	locker := redis.NewLocker(client, "test:")
	ctx := context.Background()
	const key = "test:lock:framework"

	unlock, err := locker.Lock(ctx, "framework", 300*time.Millisecond)
	require.NoError(t, err)

	// Most of the lease passes while the holder is still working.
	mr.FastForward(250 * time.Millisecond)
	require.Eventually(t, func() bool {
		return mr.TTL(key) > 200*time.Millisecond
	}, 2*time.Second, 10*time.Millisecond, "lease should be extended while held")

	mr.FastForward(150 * time.Millisecond)
	assert.True(t, mr.Exists(key), "renewed lock must survive past its original TTL")

	require.NoError(t, unlock(ctx))
	assert.False(t, mr.Exists(key))

	// Unlock is idempotent and renewal has stopped.
	require.NoError(t, unlock(ctx))
	time.Sleep(150 * time.Millisecond)
	assert.False(t, mr.Exists(key))
}
