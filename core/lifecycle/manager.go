package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/lazyacme/core/acmeconfig"
	"github.com/dmitrymomot/lazyacme/core/certstore"
	"github.com/dmitrymomot/lazyacme/core/logger"
	"github.com/dmitrymomot/lazyacme/core/metrics"
	"github.com/dmitrymomot/lazyacme/core/registry"
	"github.com/dmitrymomot/lazyacme/pkg/cmdtemplate"
	"github.com/dmitrymomot/lazyacme/pkg/subprocess"
)

// Mode selects between first issuance and renewal.
type Mode int

const (
	ModeIssue Mode = iota
	ModeRenew
)

func (m Mode) String() string {
	if m == ModeRenew {
		return metrics.ModeRenew
	}
	return metrics.ModeIssue
}

// Request describes one acquisition.
type Request struct {
	Domain   string
	Provider string
	// Persist appends the domain to config.toml after success.
	Persist bool
	Mode    Mode
}

// Manager drives the issuance tool for a domain and records the outcome in
// the registry. Only one acquisition runs at a time, enforced by the
// registry's global lock.
type Manager struct {
	registry *registry.Registry
	config   ConfigSource
	certs    CertStore
	exec     Executor
	redactor *cmdtemplate.Redactor
	mirror   Mirror

	workDir   string
	threshold time.Duration
	logger    *slog.Logger
	newID     func() string

	// background tracks acquisitions started by Submit.
	background sync.WaitGroup
}

// NewManager creates a Manager.
func NewManager(reg *registry.Registry, cfg ConfigSource, certs CertStore, exec Executor, opts ...ManagerOption) (*Manager, error) {
	if reg == nil || cfg == nil || certs == nil || exec == nil {
		return nil, ErrMissingDependency
	}

	m := &Manager{
		registry:  reg,
		config:    cfg,
		certs:     certs,
		exec:      exec,
		redactor:  cmdtemplate.NewRedactor(),
		threshold: DefaultRenewalThreshold,
		logger:    logger.Discard(),
		newID:     uuid.NewString,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m, nil
}

// Registry returns the registry the manager writes to.
func (m *Manager) Registry() *registry.Registry {
	return m.registry
}

// AcquireOrRenew runs one acquisition synchronously. The caller must hold the
// global lock; it is released on every return path.
func (m *Manager) AcquireOrRenew(ctx context.Context, req Request) error {
	domain := strings.TrimSpace(req.Domain)
	if domain == "" {
		m.registry.ReleaseGlobalLock()
		return ErrInvalidRequest
	}

	attempt := m.newID()
	m.registry.Set(domain, registry.Acquiring(attempt))
	return m.acquire(ctx, req, attempt)
}

// Submit admits an on-demand issuance and starts it in the background.
// It returns the attempt ID once the domain is marked Acquiring.
//
// A domain that is Acquiring is rejected with ErrAcquisitionInProgress, a
// Ready one with ErrAlreadyProvisioned. A Failed domain may be retried. Any
// request made while another acquisition holds the lock gets ErrBusy.
// Successful on-demand issuances are persisted to config.toml.
func (m *Manager) Submit(ctx context.Context, domain, provider string) (string, error) {
	domain = strings.TrimSpace(domain)
	provider = strings.TrimSpace(provider)
	if domain == "" || provider == "" {
		return "", ErrInvalidRequest
	}

	if err := m.admissible(domain); err != nil {
		return "", err
	}

	if !m.registry.TryAcquireGlobalLock() {
		metrics.LockRejected(metrics.SourceAPI)
		return "", ErrBusy
	}

	// status may have changed while we were taking the lock
	if err := m.admissible(domain); err != nil {
		m.registry.ReleaseGlobalLock()
		return "", err
	}

	if _, err := m.config.LoadProvider(provider); err != nil {
		m.registry.ReleaseGlobalLock()
		return "", fmt.Errorf("%w: %w", ErrProviderUnavailable, err)
	}

	attempt := m.newID()
	m.registry.Set(domain, registry.Acquiring(attempt))

	req := Request{Domain: domain, Provider: provider, Persist: true, Mode: ModeIssue}
	bg := context.WithoutCancel(ctx)

	m.background.Add(1)
	go func() {
		defer m.background.Done()
		_ = m.acquire(bg, req, attempt)
	}()

	return attempt, nil
}

// Wait blocks until every acquisition started by Submit has finished.
func (m *Manager) Wait() {
	m.background.Wait()
}

// NeedsRenewal reports whether domain's certificate is within the renewal
// threshold. Errors mean the certificate could not be found or parsed.
func (m *Manager) NeedsRenewal(domain string) (bool, time.Duration, error) {
	left, err := m.certs.TimeLeft(domain)
	if err != nil {
		return false, 0, err
	}
	metrics.SetCertificateExpiry(domain, left)
	return left < m.threshold, left, nil
}

// admissible rejects domains that are being acquired or already have a
// certificate. An untracked domain with a key on disk is marked Ready, so a
// request racing the startup reconciler does not re-issue it.
func (m *Manager) admissible(domain string) error {
	st, ok := m.registry.Get(domain)
	if !ok {
		if m.certs.Exists(domain) {
			m.registry.Set(domain, registry.Ready(""))
			return ErrAlreadyProvisioned
		}
		return nil
	}
	switch st.State {
	case registry.StateAcquiring:
		return ErrAcquisitionInProgress
	case registry.StateReady:
		return ErrAlreadyProvisioned
	}
	return nil
}

// acquire runs the tool for a domain already marked Acquiring and releases
// the global lock when done.
func (m *Manager) acquire(ctx context.Context, req Request, attempt string) error {
	defer m.registry.ReleaseGlobalLock()

	domain := strings.TrimSpace(req.Domain)
	log := m.logger.With(
		logger.Component("lifecycle"),
		logger.Action(req.Mode.String()),
		logger.Domain(domain),
		logger.Provider(req.Provider),
		logger.AttemptID(attempt),
	)

	log.InfoContext(ctx, "certificate acquisition started")
	start := time.Now()

	err := m.run(ctx, log, domain, req)
	metrics.ObserveAcquisition(req.Mode.String(), err, time.Since(start))

	if err != nil {
		m.registry.Set(domain, registry.Failed(attempt, err.Error()))
		log.ErrorContext(ctx, "certificate acquisition failed",
			logger.Error(err),
			logger.Duration(time.Since(start)))
		return err
	}

	m.registry.Set(domain, registry.Ready(attempt))
	log.InfoContext(ctx, "certificate acquisition succeeded", logger.Duration(time.Since(start)))

	if req.Persist {
		entry := acmeconfig.Domain{Name: domain, DNSProvider: req.Provider}
		if err := m.config.AppendDomain(entry); err != nil {
			log.ErrorContext(ctx, "failed to persist domain", logger.Error(err))
		}
	}

	m.afterSuccess(ctx, log, domain)
	return nil
}

func (m *Manager) run(ctx context.Context, log *slog.Logger, domain string, req Request) error {
	provider, err := m.config.LoadProvider(req.Provider)
	if err != nil {
		return fmt.Errorf("failed to load dns provider %q: %w", req.Provider, err)
	}

	cmd := cmdtemplate.Render(provider.Template(req.Mode == ModeRenew), domain, provider.Vars)
	log.InfoContext(ctx, "executing issuance command", logger.Command(m.redactor.Redact(cmd)))

	if err := m.exec.Run(ctx, subprocess.Command{Line: cmd, Dir: m.workDir, Logger: log}); err != nil {
		if errors.Is(err, subprocess.ErrNonZeroExit) {
			return fmt.Errorf("issuance tool failed: %w", err)
		}
		return fmt.Errorf("failed to run issuance tool: %w", err)
	}
	return nil
}

// afterSuccess refreshes the expiry gauge and mirrors the files. Failures are
// logged only; the certificate is already usable.
func (m *Manager) afterSuccess(ctx context.Context, log *slog.Logger, domain string) {
	if left, err := m.certs.TimeLeft(domain); err == nil {
		metrics.SetCertificateExpiry(domain, left)
	} else {
		log.WarnContext(ctx, "certificate not readable after successful run", logger.Error(err))
	}

	if m.mirror == nil {
		return
	}

	files, err := m.certs.Locate(domain, certstore.PreferWildcard)
	if err != nil {
		log.ErrorContext(ctx, "failed to locate certificate for mirroring", logger.Error(err))
		return
	}
	if err := m.mirror.Mirror(ctx, domain, files); err != nil {
		log.ErrorContext(ctx, "failed to mirror certificate", logger.Error(err))
		return
	}
	log.InfoContext(ctx, "certificate mirrored")
}
