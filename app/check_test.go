package app_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/lazyacme/app"
	"github.com/dmitrymomot/lazyacme/core/acmeconfig"
	"github.com/dmitrymomot/lazyacme/internal/testcert"
)

func TestCheck(t *testing.T) {
	t.Parallel()

	cfg := testConfig(t)
	certsDir := filepath.Join(cfg.DirPath, ".lego", "certificates")

	require.NoError(t, os.WriteFile(filepath.Join(cfg.DirPath, "config.toml"), []byte(`
[[domains]]
name = "due.com"
dns_provider = "cf"

[[domains]]
name = "fresh.com"
dns_provider = "cf"
`), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(cfg.DirPath, "cf.dns.toml"), []byte(`
cmd = "TOKEN={{API_KEY}} lego -d {{DOMAIN}} --email {{EMAIL}} run"
api_key = "abc"
`), 0o600))

	testcert.Write(t, certsDir, "due.com", true, time.Now().Add(5*24*time.Hour))
	testcert.Write(t, certsDir, "fresh.com", false, time.Now().Add(80*24*time.Hour))

	var out bytes.Buffer
	results, err := app.Check(cfg, &out)
	require.NoError(t, err)
	require.Len(t, results, 2)

	assert.True(t, results[0].Due)
	assert.False(t, results[1].Due)
	assert.Equal(t, []string{"EMAIL"}, results[0].Unresolved)

	report := out.String()
	assert.Contains(t, report, "DOMAIN")
	assert.Contains(t, report, "due.com")
	assert.Contains(t, report, "unresolved: EMAIL")
}

func TestCheckFailures(t *testing.T) {
	t.Parallel()

	t.Run("missing certificate and provider", func(t *testing.T) {
		t.Parallel()

		cfg := testConfig(t)
		require.NoError(t, os.WriteFile(filepath.Join(cfg.DirPath, "config.toml"), []byte(`
[[domains]]
name = "a.com"
dns_provider = "nope"
`), 0o600))

		var out bytes.Buffer
		results, err := app.Check(cfg, &out)
		require.ErrorIs(t, err, app.ErrCheckFailed)
		require.Len(t, results, 1)
		assert.ErrorIs(t, results[0].Err, acmeconfig.ErrProviderNotFound)
		assert.Contains(t, out.String(), "error:")
	})

	t.Run("missing domain config", func(t *testing.T) {
		t.Parallel()

		cfg := testConfig(t)
		_, err := app.Check(cfg, &bytes.Buffer{})
		assert.ErrorIs(t, err, acmeconfig.ErrDomainConfigNotFound)
	})
}
