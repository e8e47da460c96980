package lifecycle_test

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/lazyacme/core/acmeconfig"
	"github.com/dmitrymomot/lazyacme/core/certstore"
	"github.com/dmitrymomot/lazyacme/core/lifecycle"
	"github.com/dmitrymomot/lazyacme/core/registry"
	"github.com/dmitrymomot/lazyacme/internal/testcert"
	"github.com/dmitrymomot/lazyacme/pkg/subprocess"
)

const day = 24 * time.Hour

// mockExecutor records commands and runs an optional hook instead of a shell.
type mockExecutor struct {
	mu       sync.Mutex
	commands []subprocess.Command
	runFunc  func(ctx context.Context, cmd subprocess.Command) error
}

func (m *mockExecutor) Run(ctx context.Context, cmd subprocess.Command) error {
	m.mu.Lock()
	m.commands = append(m.commands, cmd)
	fn := m.runFunc
	m.mu.Unlock()

	if fn != nil {
		return fn(ctx, cmd)
	}
	return nil
}

func (m *mockExecutor) Commands() []subprocess.Command {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]subprocess.Command(nil), m.commands...)
}

// mockMirror records mirrored domains.
type mockMirror struct {
	mu      sync.Mutex
	domains []string
	files   []certstore.Files
	err     error
}

func (m *mockMirror) Mirror(_ context.Context, domain string, files certstore.Files) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.domains = append(m.domains, domain)
	m.files = append(m.files, files)
	return m.err
}

// failingAppendConfig wraps a real store and fails persistence.
type failingAppendConfig struct {
	*acmeconfig.Store
}

func (failingAppendConfig) AppendDomain(acmeconfig.Domain) error {
	return errors.New("disk full")
}

type fixture struct {
	dir      string
	certsDir string
	reg      *registry.Registry
	config   *acmeconfig.Store
	certs    *certstore.Store
	exec     *mockExecutor
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	dir := t.TempDir()
	certsDir := filepath.Join(dir, ".lego", "certificates")

	certs, err := certstore.New(certsDir)
	require.NoError(t, err)

	f := &fixture{
		dir:      dir,
		certsDir: certsDir,
		reg:      registry.New(),
		config:   acmeconfig.New(dir),
		certs:    certs,
		exec:     &mockExecutor{},
	}

	f.writeProvider(t, "cloudflare", `
cmd = "TOKEN={{API_KEY}} issue --domain {{DOMAIN}}"
renew_cmd = "TOKEN={{API_KEY}} renew --domain {{DOMAIN}}"
api_key = "abc"
`)
	f.writeProvider(t, "plain", `cmd = "issue {{DOMAIN}}"`)
	return f
}

func (f *fixture) writeProvider(t *testing.T, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(f.dir, name+".dns.toml"), []byte(content), 0o600))
}

func (f *fixture) writeDomains(t *testing.T, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(f.dir, "config.toml"), []byte(content), 0o600))
}

// issues makes the executor behave like lego: write a wildcard pair valid
// for validFor and exit 0.
func (f *fixture) issues(t *testing.T, domain string, validFor time.Duration) {
	t.Helper()

	f.exec.runFunc = func(context.Context, subprocess.Command) error {
		testcert.Write(t, f.certsDir, domain, true, time.Now().Add(validFor))
		return nil
	}
}

func (f *fixture) manager(t *testing.T, opts ...lifecycle.ManagerOption) *lifecycle.Manager {
	t.Helper()
	return f.managerWith(t, f.config, opts...)
}

func (f *fixture) managerWith(t *testing.T, cfg lifecycle.ConfigSource, opts ...lifecycle.ManagerOption) *lifecycle.Manager {
	t.Helper()

	opts = append([]lifecycle.ManagerOption{lifecycle.WithWorkDir(f.dir)}, opts...)
	m, err := lifecycle.NewManager(f.reg, cfg, f.certs, f.exec, opts...)
	require.NoError(t, err)
	return m
}

func exitErr(code int) error {
	return &subprocess.ExitError{Code: code, State: fmt.Sprintf("exit status %d", code)}
}
