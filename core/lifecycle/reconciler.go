package lifecycle

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/dmitrymomot/lazyacme/core/logger"
	"github.com/dmitrymomot/lazyacme/core/metrics"
	"github.com/dmitrymomot/lazyacme/core/registry"
)

// Reconcile brings the registry in line with the configured domains at
// startup. Domains with a key on disk become Ready; the rest are issued one
// at a time, each waiting for the global lock.
//
// It returns an error if the domain config cannot be loaded, and
// ErrReconcileIncomplete if any issuance failed. Issuances are not persisted:
// the domains already come from config.toml.
func (m *Manager) Reconcile(ctx context.Context) error {
	log := m.logger.With(logger.Component("reconciler"))

	domains, err := m.config.LoadDomains()
	if err != nil {
		log.ErrorContext(ctx, "failed to load domain config", logger.Error(err))
		return fmt.Errorf("failed to load domain config: %w", err)
	}
	if len(domains) == 0 {
		log.InfoContext(ctx, "no domains configured")
		return nil
	}

	log.InfoContext(ctx, "checking configured domains", logger.Count("domains", len(domains)))

	var missing []Request
	for _, d := range domains {
		if m.certs.Exists(d.Name) {
			m.registry.Set(d.Name, registry.Ready(""))
			if left, err := m.certs.TimeLeft(d.Name); err == nil {
				metrics.SetCertificateExpiry(d.Name, left)
			}
			log.InfoContext(ctx, "certificate found", logger.Domain(d.Name))
			continue
		}

		log.WarnContext(ctx, "certificate not found, will acquire", logger.Domain(d.Name))
		missing = append(missing, Request{Domain: d.Name, Provider: d.DNSProvider, Mode: ModeIssue})
	}

	failed := 0
	for _, req := range missing {
		ok, err := m.issueOnStartup(ctx, log, req)
		if err != nil {
			return err
		}
		if !ok {
			failed++
		}
	}

	if failed > 0 {
		return fmt.Errorf("%w: %d of %d failed", ErrReconcileIncomplete, failed, len(missing))
	}

	log.InfoContext(ctx, "startup certificate check complete")
	return nil
}

// issueOnStartup waits for the lock and issues req unless the domain became
// Ready meanwhile. The error is non-nil only when ctx is done.
func (m *Manager) issueOnStartup(ctx context.Context, log *slog.Logger, req Request) (bool, error) {
	if err := m.registry.AcquireGlobalLock(ctx); err != nil {
		return false, err
	}

	if st, ok := m.registry.Get(req.Domain); ok && st.State == registry.StateReady {
		m.registry.ReleaseGlobalLock()
		log.InfoContext(ctx, "domain provisioned meanwhile, skipping", logger.Domain(req.Domain))
		return true, nil
	}

	return m.AcquireOrRenew(ctx, req) == nil, nil
}
