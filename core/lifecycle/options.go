package lifecycle

import (
	"log/slog"
	"time"

	"github.com/dmitrymomot/lazyacme/pkg/cmdtemplate"
)

// DefaultRenewalThreshold is how close to expiry a certificate gets renewed.
const DefaultRenewalThreshold = 30 * 24 * time.Hour

// ManagerOption configures a Manager during initialization.
type ManagerOption func(*Manager)

// WithLogger sets the logger. Nil is ignored.
func WithLogger(logger *slog.Logger) ManagerOption {
	return func(m *Manager) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// WithWorkDir sets the working directory of the issuance tool.
func WithWorkDir(dir string) ManagerOption {
	return func(m *Manager) {
		m.workDir = dir
	}
}

// WithRedactor sets the redactor applied to commands before they are logged.
func WithRedactor(r *cmdtemplate.Redactor) ManagerOption {
	return func(m *Manager) {
		if r != nil {
			m.redactor = r
		}
	}
}

// WithMirror enables copying certificates after every successful acquisition.
func WithMirror(mirror Mirror) ManagerOption {
	return func(m *Manager) {
		m.mirror = mirror
	}
}

// WithRenewalThreshold sets how long before expiry renewal becomes due.
func WithRenewalThreshold(d time.Duration) ManagerOption {
	return func(m *Manager) {
		if d > 0 {
			m.threshold = d
		}
	}
}

// WithAttemptIDs overrides the attempt ID generator. Used by tests.
func WithAttemptIDs(next func() string) ManagerOption {
	return func(m *Manager) {
		if next != nil {
			m.newID = next
		}
	}
}

// SchedulerOption configures a Scheduler.
type SchedulerOption func(*Scheduler)

// WithSchedulerLogger sets the scheduler logger. Nil is ignored.
func WithSchedulerLogger(logger *slog.Logger) SchedulerOption {
	return func(s *Scheduler) {
		if logger != nil {
			s.logger = logger
		}
	}
}
