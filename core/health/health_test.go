package health_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/lazyacme/core/health"
)

func TestLiveness(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	health.Liveness().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health/live", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ALIVE", rec.Body.String())
}

func TestReadiness(t *testing.T) {
	t.Parallel()

	ok := func(context.Context) error { return nil }
	fail := func(context.Context) error { return errors.New("down") }

	tests := []struct {
		name   string
		checks []health.Check
		status int
		body   string
	}{
		{name: "no checks", status: http.StatusOK, body: "READY"},
		{name: "all pass", checks: []health.Check{ok, ok}, status: http.StatusOK, body: "READY"},
		{name: "one fails", checks: []health.Check{ok, fail}, status: http.StatusServiceUnavailable, body: "Service Unavailable"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			rec := httptest.NewRecorder()
			health.Readiness(nil, tt.checks...).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health/ready", nil))

			assert.Equal(t, tt.status, rec.Code)
			assert.Equal(t, tt.body, rec.Body.String())
		})
	}
}

func TestDirReadable(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	file := filepath.Join(dir, "file")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0o600))

	assert.NoError(t, health.DirReadable(dir)(context.Background()))
	assert.Error(t, health.DirReadable(filepath.Join(dir, "missing"))(context.Background()))
	assert.ErrorIs(t, health.DirReadable(file)(context.Background()), health.ErrNotDirectory)
}
