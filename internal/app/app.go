package app

import (
	"context"
	"io"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/vk/bstgraph/internal/ctxlog"
	"github.com/vk/bstgraph/internal/engine"
	"github.com/vk/bstgraph/internal/metrics"
	"github.com/vk/bstgraph/internal/registry"
	"github.com/vk/bstgraph/internal/scheduler"
	"github.com/vk/bstgraph/internal/watch"
)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	config  *Config
	logger  *slog.Logger
	kinds   *registry.Registry
	engine  *engine.Engine
	promReg *prometheus.Registry
	metrics *metrics.Metrics
}

// NewApp is the constructor for the main application. Logs go to logW. If no
// modules are given, the built-in element kinds are registered.
func NewApp(logW io.Writer, cfg *Config, modules ...registry.Module) *App {
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, logW)
	logger.Debug("Logger configured successfully.")

	if len(modules) == 0 {
		modules = coreModules
	}
	kinds := registry.New(modules...)
	logger.Debug("Element kinds registered.", "count", len(modules), "kinds", kinds.Kinds())

	promReg := prometheus.NewRegistry()
	m := metrics.New(promReg)

	opts := []engine.Option{engine.WithMetrics(m)}
	if cfg.MaxJobs > 0 {
		opts = append(opts, engine.WithMaxJobs(cfg.MaxJobs))
	}

	return &App{
		config:  cfg,
		logger:  logger,
		kinds:   kinds,
		engine:  engine.New(kinds, opts...),
		promReg: promReg,
		metrics: m,
	}
}

// Kinds returns the application's kind registry. This is primarily for testing.
func (a *App) Kinds() *registry.Registry {
	return a.kinds
}

// Metrics returns the metrics the application records.
func (a *App) Metrics() *metrics.Metrics {
	return a.metrics
}

func (a *App) context(ctx context.Context) context.Context {
	return ctxlog.WithLogger(ctx, a.logger)
}

// Resolve resolves the configured project.
func (a *App) Resolve(ctx context.Context) (*engine.Registry, error) {
	return a.engine.Resolve(a.context(ctx), a.config.ProjectDir)
}

// Schedule resolves the project and runs proc over every element.
func (a *App) Schedule(ctx context.Context, proc scheduler.Processor) (*scheduler.Report, error) {
	ctx = a.context(ctx)
	reg, err := a.engine.Resolve(ctx, a.config.ProjectDir)
	if err != nil {
		return nil, err
	}

	stop := a.startMetricsServer(ctx)
	defer stop()

	return scheduler.New(a.config.Workers, scheduler.WithMetrics(a.metrics)).Run(ctx, reg, proc)
}

// Watch resolves the project, calls onChange with the result and again after
// every successful re-resolution, until ctx is done.
func (a *App) Watch(ctx context.Context, onChange func(*engine.Registry)) error {
	ctx = a.context(ctx)
	h, err := watch.NewHolder(ctx, a.config.ProjectDir, a.engine, watch.WithMetrics(a.metrics))
	if err != nil {
		return err
	}
	onChange(h.Get())
	h.OnChange(onChange)

	stop := a.startMetricsServer(ctx)
	defer stop()

	if err := h.Watch(ctx); err != nil {
		return err
	}
	<-ctx.Done()
	a.logger.Debug("Watch stopped.")
	return nil
}
