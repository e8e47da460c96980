package api

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/dmitrymomot/lazyacme/core/certstore"
	"github.com/dmitrymomot/lazyacme/core/health"
	"github.com/dmitrymomot/lazyacme/core/logger"
	"github.com/dmitrymomot/lazyacme/core/registry"
)

// Acquirer admits on-demand issuances. Implemented by *lifecycle.Manager.
type Acquirer interface {
	Submit(ctx context.Context, domain, provider string) (string, error)
}

// StatusSource reads domain status. Implemented by *registry.Registry.
type StatusSource interface {
	Get(name string) (registry.Status, bool)
	Snapshot() []registry.Entry
}

// CertReader reads certificate material. Implemented by *certstore.Store.
type CertReader interface {
	ReadCertificate(domain string, lookup certstore.Lookup) ([]byte, error)
	ReadKey(domain string, lookup certstore.Lookup) ([]byte, error)
}

// TaskState reports whether the renewal loop is armed.
// Implemented by *lifecycle.Scheduler.
type TaskState interface {
	Running() bool
}

// API serves the HTTP surface.
type API struct {
	acquirer Acquirer
	statuses StatusSource
	certs    CertReader
	task     TaskState

	logger  *slog.Logger
	checks  []health.Check
	metrics http.Handler
}

// Option configures the API.
type Option func(*API)

// WithLogger sets the logger. Nil is ignored.
func WithLogger(l *slog.Logger) Option {
	return func(a *API) {
		if l != nil {
			a.logger = l
		}
	}
}

// WithReadinessChecks adds checks to /health/ready.
func WithReadinessChecks(checks ...health.Check) Option {
	return func(a *API) {
		a.checks = append(a.checks, checks...)
	}
}

// WithMetricsHandler mounts h at /metrics.
func WithMetricsHandler(h http.Handler) Option {
	return func(a *API) {
		a.metrics = h
	}
}

// New creates the API.
func New(acq Acquirer, statuses StatusSource, certs CertReader, task TaskState, opts ...Option) (*API, error) {
	if acq == nil || statuses == nil || certs == nil || task == nil {
		return nil, ErrMissingDependency
	}

	a := &API{
		acquirer: acq,
		statuses: statuses,
		certs:    certs,
		task:     task,
		logger:   logger.Discard(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a, nil
}

// Handler builds the router. Request ID and logging wrap the whole router so
// unmatched requests are logged too.
func (a *API) Handler() http.Handler {
	r := mux.NewRouter()

	r.NotFoundHandler = a.wrap(func(http.ResponseWriter, *http.Request) error {
		return ErrNotFound
	})
	r.MethodNotAllowedHandler = a.wrap(func(http.ResponseWriter, *http.Request) error {
		return HTTPError{
			Status:  http.StatusMethodNotAllowed,
			Code:    "method_not_allowed",
			Message: http.StatusText(http.StatusMethodNotAllowed),
		}
	})

	r.HandleFunc("/v1/task", a.wrap(a.getTask)).Methods(http.MethodGet)
	r.HandleFunc("/v1/domains", a.wrap(a.listDomains)).Methods(http.MethodGet)
	r.HandleFunc("/v1/certificate", a.wrap(a.createCertificate)).Methods(http.MethodPost)
	r.HandleFunc("/v1/certificate/{domain}", a.wrap(a.getCertificate)).Methods(http.MethodGet)
	r.HandleFunc("/v1/certificate/{domain}/key", a.wrap(a.getCertificateKey)).Methods(http.MethodGet)

	r.Handle("/health/live", health.Liveness()).Methods(http.MethodGet)
	r.Handle("/health/ready", health.Readiness(a.logger, a.checks...)).Methods(http.MethodGet)
	if a.metrics != nil {
		r.Handle("/metrics", a.metrics).Methods(http.MethodGet)
	}

	return RequestID()(Logging(a.logger)(r))
}
