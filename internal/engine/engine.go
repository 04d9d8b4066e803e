package engine

import (
	"context"
	"runtime"
	"time"

	"github.com/vk/bstgraph/internal/config"
	"github.com/vk/bstgraph/internal/ctxlog"
	"github.com/vk/bstgraph/internal/dag"
	"github.com/vk/bstgraph/internal/element"
	"github.com/vk/bstgraph/internal/junction"
	"github.com/vk/bstgraph/internal/metrics"
	"github.com/vk/bstgraph/internal/project"
	"github.com/vk/bstgraph/internal/registry"
)

// Engine resolves projects. It holds no per-resolution state and may be
// used for any number of resolutions.
type Engine struct {
	kinds   *registry.Registry
	loader  config.Loader
	maxJobs int
	metrics *metrics.Metrics
}

// Option configures an Engine.
type Option func(*Engine)

// WithLoader replaces the default project loader.
func WithLoader(l config.Loader) Option {
	return func(e *Engine) { e.loader = l }
}

// WithMaxJobs sets the value of the built-in max-jobs variable.
func WithMaxJobs(n int) Option {
	return func(e *Engine) { e.maxJobs = n }
}

// WithMetrics records resolution metrics on m.
func WithMetrics(m *metrics.Metrics) Option {
	return func(e *Engine) { e.metrics = m }
}

// New returns an engine that looks element kinds up in kinds.
func New(kinds *registry.Registry, opts ...Option) *Engine {
	e := &Engine{
		kinds:   kinds,
		loader:  project.NewLoader(),
		maxJobs: runtime.NumCPU(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// resolution is the state of one Resolve call.
type resolution struct {
	*Engine
	resolver *junction.LocalResolver
}

// Resolve loads and resolves the project rooted at dir. Nothing is returned
// unless every element and both dependency graphs resolved cleanly.
func (e *Engine) Resolve(ctx context.Context, dir string) (reg *Registry, err error) {
	start := time.Now()
	defer func() {
		n := 0
		if reg != nil {
			n = len(reg.elements)
		}
		e.metrics.ObserveResolve(start, n, err)
	}()

	logger := ctxlog.FromContext(ctx)
	logger.Debug("Resolution started.", "dir", dir)

	r := &resolution{Engine: e}
	r.resolver = junction.NewLocalResolver(r.loadProject)

	root, err := r.loadProject(ctx, dir, "", nil)
	if err != nil {
		return nil, err
	}

	elements := make(map[string]*element.Resolved)
	deps := make(map[string][]dag.Dep)
	for _, p := range append([]*junction.Project{root}, r.resolver.Projects()...) {
		for k, v := range p.Elements {
			elements[k] = v
		}
		for k, v := range p.Deps {
			deps[k] = v
		}
	}

	plan, err := dag.NewPlan(deps)
	if err != nil {
		return nil, err
	}

	logger.Debug("Resolution finished.", "project", root.Name, "elements", len(elements), "subprojects", len(r.resolver.Projects()))
	return &Registry{project: root.Name, elements: elements, plan: plan}, nil
}
