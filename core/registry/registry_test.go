package registry_test

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/lazyacme/core/registry"
)

func TestRegistryGetSet(t *testing.T) {
	t.Parallel()

	reg := registry.New()

	_, ok := reg.Get("example.com")
	assert.False(t, ok)

	reg.Set(" example.com ", registry.Acquiring("a1"))

	st, ok := reg.Get("example.com")
	require.True(t, ok)
	assert.Equal(t, registry.StateAcquiring, st.State)
	assert.Equal(t, "a1", st.AttemptID)
	assert.False(t, st.UpdatedAt.IsZero())

	reg.Set("example.com", registry.Failed("a1", "boom"))
	st, _ = reg.Get("example.com")
	assert.Equal(t, registry.StateFailed, st.State)
	assert.Equal(t, "boom", st.Reason)

	// names are case-sensitive
	_, ok = reg.Get("EXAMPLE.COM")
	assert.False(t, ok)
}

func TestRegistrySnapshotSorted(t *testing.T) {
	t.Parallel()

	reg := registry.New()
	reg.Set("b.com", registry.Ready("x"))
	reg.Set("a.com", registry.Failed("y", "nope"))
	reg.Set("c.com", registry.Acquiring("z"))

	snap := reg.Snapshot()
	require.Len(t, snap, 3)
	assert.Equal(t, "a.com", snap[0].Domain)
	assert.Equal(t, "b.com", snap[1].Domain)
	assert.Equal(t, "c.com", snap[2].Domain)
	assert.Equal(t, registry.StateFailed, snap[0].Status.State)
}

func TestRegistryGlobalLock(t *testing.T) {
	t.Parallel()

	reg := registry.New()
	assert.False(t, reg.GlobalLockHeld())

	require.True(t, reg.TryAcquireGlobalLock())
	assert.True(t, reg.GlobalLockHeld())

	// not re-entrant
	assert.False(t, reg.TryAcquireGlobalLock())

	reg.ReleaseGlobalLock()
	assert.False(t, reg.GlobalLockHeld())

	// releasing an unheld lock is harmless
	reg.ReleaseGlobalLock()
	assert.True(t, reg.TryAcquireGlobalLock())
}

func TestRegistryGlobalLockSingleWinner(t *testing.T) {
	t.Parallel()

	reg := registry.New()

	const contenders = 32
	var (
		wg      sync.WaitGroup
		winners atomic.Int32
		start   = make(chan struct{})
	)
	for i := 0; i < contenders; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			if reg.TryAcquireGlobalLock() {
				winners.Add(1)
			}
		}()
	}
	close(start)
	wg.Wait()

	assert.Equal(t, int32(1), winners.Load())
}

func TestRegistryAcquireGlobalLockWaits(t *testing.T) {
	t.Parallel()

	reg := registry.New()
	require.True(t, reg.TryAcquireGlobalLock())

	acquired := make(chan error, 1)
	go func() {
		acquired <- reg.AcquireGlobalLock(context.Background())
	}()

	select {
	case <-acquired:
		t.Fatal("lock acquired while held")
	case <-time.After(50 * time.Millisecond):
	}

	reg.ReleaseGlobalLock()

	select {
	case err := <-acquired:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("waiter never acquired the lock")
	}
	assert.True(t, reg.GlobalLockHeld())
}

func TestRegistryAcquireGlobalLockCanceled(t *testing.T) {
	t.Parallel()

	reg := registry.New()
	require.True(t, reg.TryAcquireGlobalLock())

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	err := reg.AcquireGlobalLock(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
