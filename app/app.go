package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/dmitrymomot/lazyacme/core/acmeconfig"
	"github.com/dmitrymomot/lazyacme/core/api"
	"github.com/dmitrymomot/lazyacme/core/certstore"
	"github.com/dmitrymomot/lazyacme/core/health"
	"github.com/dmitrymomot/lazyacme/core/lifecycle"
	"github.com/dmitrymomot/lazyacme/core/logger"
	"github.com/dmitrymomot/lazyacme/core/metrics"
	"github.com/dmitrymomot/lazyacme/core/registry"
	"github.com/dmitrymomot/lazyacme/core/server"
	"github.com/dmitrymomot/lazyacme/integration/storage/s3"
	"github.com/dmitrymomot/lazyacme/pkg/cmdtemplate"
	"github.com/dmitrymomot/lazyacme/pkg/subprocess"
)

// App wires the orchestrator, its scheduler and the HTTP API.
type App struct {
	config    Config
	logger    *slog.Logger
	store     *acmeconfig.Store
	certs     *certstore.Store
	registry  *registry.Registry
	manager   *lifecycle.Manager
	scheduler *lifecycle.Scheduler
	api       *api.API
	server    *server.Server

	exec   lifecycle.Executor
	mirror lifecycle.Mirror
}

type AppOption func(*App) error

func WithLogger(l *slog.Logger) AppOption {
	return func(a *App) error {
		if l == nil {
			return errors.New("logger cannot be nil")
		}
		a.logger = l
		return nil
	}
}

// WithExecutor replaces the shell runner.
func WithExecutor(exec lifecycle.Executor) AppOption {
	return func(a *App) error {
		if exec == nil {
			return errors.New("executor cannot be nil")
		}
		a.exec = exec
		return nil
	}
}

// WithMirror replaces the mirror built from the S3 config.
func WithMirror(m lifecycle.Mirror) AppOption {
	return func(a *App) error {
		if m == nil {
			return errors.New("mirror cannot be nil")
		}
		a.mirror = m
		return nil
	}
}

// New builds the application from a resolved config.
func New(ctx context.Context, cfg Config, opts ...AppOption) (*App, error) {
	cfg, err := cfg.Resolve()
	if err != nil {
		return nil, err
	}

	a := &App{
		config:   cfg,
		logger:   logger.Discard(),
		store:    acmeconfig.New(cfg.DirPath),
		registry: registry.New(),
	}
	for _, opt := range opts {
		if err := opt(a); err != nil {
			return nil, err
		}
	}

	if a.certs, err = certstore.New(cfg.CertsDir); err != nil {
		return nil, err
	}

	if a.exec == nil {
		a.exec = subprocess.New(subprocess.WithLogger(a.logger))
	}

	if a.mirror == nil && cfg.S3.Enabled() {
		m, err := s3.New(ctx, cfg.S3)
		if err != nil {
			return nil, fmt.Errorf("failed to configure certificate mirror: %w", err)
		}
		a.mirror = m
		a.logger.Info("certificate mirror enabled", slog.String("bucket", cfg.S3.Bucket))
	}

	managerOpts := []lifecycle.ManagerOption{
		lifecycle.WithLogger(a.logger),
		lifecycle.WithWorkDir(cfg.DirPath),
		lifecycle.WithRedactor(cmdtemplate.NewRedactor(cmdtemplate.WithTool(cfg.IssuanceTool))),
		lifecycle.WithRenewalThreshold(cfg.Threshold()),
	}
	if a.mirror != nil {
		managerOpts = append(managerOpts, lifecycle.WithMirror(a.mirror))
	}

	if a.manager, err = lifecycle.NewManager(a.registry, a.store, a.certs, a.exec, managerOpts...); err != nil {
		return nil, err
	}
	if a.scheduler, err = lifecycle.NewScheduler(a.manager, cfg.Interval()); err != nil {
		return nil, err
	}

	a.api, err = api.New(a.manager, a.registry, a.certs, a.scheduler,
		api.WithLogger(a.logger),
		api.WithReadinessChecks(health.DirReadable(cfg.CertsDir)),
		api.WithMetricsHandler(metrics.Handler()),
	)
	if err != nil {
		return nil, err
	}

	if a.server, err = server.NewFromConfig(cfg.Server, server.WithLogger(a.logger)); err != nil {
		return nil, err
	}

	return a, nil
}

// Config returns the resolved configuration.
func (a *App) Config() Config {
	return a.config
}

// Registry returns the domain status registry.
func (a *App) Registry() *registry.Registry {
	return a.registry
}

// Server returns the HTTP server.
func (a *App) Server() *server.Server {
	return a.server
}

// Run serves the API, reconciles configured domains and then arms the
// renewal scheduler. It returns when ctx is canceled or the server fails,
// after any on-demand acquisition still running has finished.
func (a *App) Run(ctx context.Context) error {
	a.logger.InfoContext(ctx, "starting lazyacme",
		slog.String("dir", a.config.DirPath),
		slog.String("certs_dir", a.config.CertsDir),
		slog.String("addr", a.config.Server.Addr),
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(a.server.Run(gctx, a.api.Handler()))
	g.Go(a.scheduler.ArmAfterReconcile(gctx))

	err := g.Wait()

	a.logger.InfoContext(context.Background(), "waiting for in-flight acquisitions")
	a.manager.Wait()

	if err != nil {
		return fmt.Errorf("lazyacme stopped: %w", err)
	}
	a.logger.InfoContext(context.Background(), "lazyacme stopped")
	return nil
}

// Init creates the config directory and default files. It returns the
// created paths; a non-empty result means first-time setup.
func Init(cfg Config) ([]string, error) {
	cfg, err := cfg.Resolve()
	if err != nil {
		return nil, err
	}
	return acmeconfig.New(cfg.DirPath).Bootstrap()
}
