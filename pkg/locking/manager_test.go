package locking

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	backend "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/lcm/pkg/adapters/redis"
	"github.com/aretw0/lcm/pkg/domain"
	"github.com/aretw0/lcm/pkg/ports"
)

func TestManager_Contract(t *testing.T) {
	ports.LockerContract(t, NewManager())
}

func TestManager_LockLifecycle(t *testing.T) {
	mgr := NewManager()
	ctx := context.Background()

	for i := 0; i < 1000; i++ {
		unlock, err := mgr.Lock(ctx, fmt.Sprintf("mode:%d", i), time.Minute)
		require.NoError(t, err)
		require.NoError(t, unlock(ctx))
	}

	assert.Zero(t, mgr.Held(), "entries must be dropped once released")
}

func TestManager_Serializes(t *testing.T) {
	mgr := NewManager()
	ctx := context.Background()

	var active, peak int32
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock, err := mgr.Lock(ctx, "mode:release", time.Minute)
			if !assert.NoError(t, err) {
				return
			}
			n := atomic.AddInt32(&active, 1)
			for {
				p := atomic.LoadInt32(&peak)
				if n <= p || atomic.CompareAndSwapInt32(&peak, p, n) {
					break
				}
			}
			time.Sleep(time.Millisecond)
			atomic.AddInt32(&active, -1)
			assert.NoError(t, unlock(ctx))
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), peak)
	assert.Zero(t, mgr.Held())
}

func TestManager_CancelledWaitReleasesEntry(t *testing.T) {
	mgr := NewManager()
	ctx := context.Background()

	unlock, err := mgr.Lock(ctx, "mode:users", time.Minute)
	require.NoError(t, err)

	short, cancel := context.WithTimeout(ctx, 20*time.Millisecond)
	defer cancel()
	_, err = mgr.Lock(short, "mode:users", time.Minute)
	assert.True(t, errors.Is(err, domain.ErrLocked))

	require.NoError(t, unlock(ctx))
	assert.Zero(t, mgr.Held())
}

func TestManager_WithDistributedLocker(t *testing.T) {
	mr := miniredis.RunT(t)
	client := backend.NewClient(&backend.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	mgr := NewManager(WithLocker(redis.NewLocker(client, "lcm:")))
	ctx := context.Background()

	unlock, err := mgr.Lock(ctx, "mode:rollout", time.Minute)
	require.NoError(t, err)
	assert.True(t, mr.Exists("lcm:lock:mode:rollout"))

	// A second process sharing redis is excluded too.
	other := redis.NewLocker(client, "lcm:")
	short, cancel := context.WithTimeout(ctx, 150*time.Millisecond)
	defer cancel()
	_, err = other.Lock(short, "mode:rollout", time.Minute)
	assert.ErrorIs(t, err, domain.ErrLocked)

	require.NoError(t, unlock(ctx))
	assert.False(t, mr.Exists("lcm:lock:mode:rollout"))
}
