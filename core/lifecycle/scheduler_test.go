package lifecycle_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/lazyacme/core/lifecycle"
	"github.com/dmitrymomot/lazyacme/core/registry"
	"github.com/dmitrymomot/lazyacme/internal/testcert"
	"github.com/dmitrymomot/lazyacme/pkg/subprocess"
)

const renewalDomains = `
[[domains]]
name = "due.com"
dns_provider = "cloudflare"

[[domains]]
name = "fresh.com"
dns_provider = "cloudflare"

[[domains]]
name = "gone.com"
dns_provider = "cloudflare"
`

func TestNewSchedulerRequiresManager(t *testing.T) {
	t.Parallel()

	_, err := lifecycle.NewScheduler(nil, time.Hour)
	assert.ErrorIs(t, err, lifecycle.ErrMissingDependency)
}

func TestSchedulerTick(t *testing.T) {
	t.Parallel()

	t.Run("renews only due certificates", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t)
		f.writeDomains(t, renewalDomains)
		testcert.Write(t, f.certsDir, "due.com", true, time.Now().Add(5*day))
		testcert.Write(t, f.certsDir, "fresh.com", false, time.Now().Add(80*day))

		m := f.manager(t)
		s, err := lifecycle.NewScheduler(m, time.Hour)
		require.NoError(t, err)

		s.Tick(context.Background())

		cmds := f.exec.Commands()
		require.Len(t, cmds, 1)
		assert.Equal(t, "TOKEN=abc renew --domain due.com", cmds[0].Line)

		st, _ := f.reg.Get("due.com")
		assert.Equal(t, registry.StateReady, st.State)

		// evaluation errors do not create status entries
		_, known := f.reg.Get("gone.com")
		assert.False(t, known)
		_, known = f.reg.Get("fresh.com")
		assert.False(t, known)
		assert.False(t, f.reg.GlobalLockHeld())
	})

	t.Run("abandoned while lock is held", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t)
		f.writeDomains(t, renewalDomains)
		testcert.Write(t, f.certsDir, "due.com", true, time.Now().Add(5*day))

		m := f.manager(t)
		s, err := lifecycle.NewScheduler(m, time.Hour)
		require.NoError(t, err)

		require.True(t, f.reg.TryAcquireGlobalLock())
		s.Tick(context.Background())

		assert.Empty(t, f.exec.Commands())
		assert.True(t, f.reg.GlobalLockHeld())
	})

	t.Run("reloads domain list", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t)
		f.writeDomains(t, "domains = []\n")
		testcert.Write(t, f.certsDir, "due.com", true, time.Now().Add(5*day))

		m := f.manager(t)
		s, err := lifecycle.NewScheduler(m, time.Hour)
		require.NoError(t, err)

		s.Tick(context.Background())
		assert.Empty(t, f.exec.Commands())

		f.writeDomains(t, renewalDomains)
		s.Tick(context.Background())
		assert.Len(t, f.exec.Commands(), 1)
	})

	t.Run("renewal failure is recorded", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t)
		f.writeDomains(t, renewalDomains)
		testcert.Write(t, f.certsDir, "due.com", true, time.Now().Add(5*day))
		f.exec.runFunc = func(context.Context, subprocess.Command) error { return exitErr(3) }

		m := f.manager(t)
		s, err := lifecycle.NewScheduler(m, time.Hour)
		require.NoError(t, err)

		s.Tick(context.Background())

		st, _ := f.reg.Get("due.com")
		assert.Equal(t, registry.StateFailed, st.State)
		assert.False(t, f.reg.GlobalLockHeld())
	})

	t.Run("missing config is logged", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t)
		m := f.manager(t)
		s, err := lifecycle.NewScheduler(m, time.Hour)
		require.NoError(t, err)

		assert.NotPanics(t, func() { s.Tick(context.Background()) })
		assert.Empty(t, f.exec.Commands())
	})
}

func TestSchedulerStart(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.writeDomains(t, renewalDomains)
	testcert.Write(t, f.certsDir, "due.com", true, time.Now().Add(5*day))

	m := f.manager(t)
	s, err := lifecycle.NewScheduler(m, 10*time.Millisecond)
	require.NoError(t, err)
	assert.False(t, s.Running())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx)() }()

	assert.Eventually(t, func() bool { return len(f.exec.Commands()) > 0 }, time.Second, 5*time.Millisecond)
	assert.True(t, s.Running())

	// a second loop is refused
	assert.ErrorIs(t, s.Start(context.Background()), lifecycle.ErrSchedulerRunning)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("scheduler did not stop")
	}
	assert.False(t, s.Running())
}

func TestArmAfterReconcile(t *testing.T) {
	t.Parallel()

	t.Run("failed reconcile leaves scheduler disarmed", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t)
		m := f.manager(t)
		s, err := lifecycle.NewScheduler(m, 10*time.Millisecond)
		require.NoError(t, err)

		err = s.ArmAfterReconcile(context.Background())()
		assert.NoError(t, err)
		assert.False(t, s.Running())
	})

	t.Run("arms after successful reconcile", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t)
		f.writeDomains(t, "domains = []\n")
		m := f.manager(t)
		s, err := lifecycle.NewScheduler(m, time.Hour)
		require.NoError(t, err)

		ctx, cancel := context.WithCancel(context.Background())
		done := make(chan error, 1)
		go func() { done <- s.ArmAfterReconcile(ctx)() }()

		assert.Eventually(t, s.Running, time.Second, 5*time.Millisecond)
		cancel()

		select {
		case err := <-done:
			assert.NoError(t, err)
		case <-time.After(time.Second):
			t.Fatal("scheduler did not stop")
		}
	})

	t.Run("shutdown during reconcile is clean", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t)
		f.writeDomains(t, twoDomains)
		m := f.manager(t)
		s, err := lifecycle.NewScheduler(m, time.Hour)
		require.NoError(t, err)
		require.True(t, f.reg.TryAcquireGlobalLock())

		ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
		defer cancel()

		err = s.ArmAfterReconcile(ctx)()
		assert.False(t, errors.Is(err, context.DeadlineExceeded))
		assert.NoError(t, err)
	})
}
