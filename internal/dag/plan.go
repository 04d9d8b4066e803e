package dag

import (
	"fmt"
	"maps"
	"slices"

	"github.com/vk/bstgraph/internal/element"
	"github.com/vk/bstgraph/internal/loaderr"
)

// Dep is one resolved dependency of an element: the canonical key of the
// target and the declared type.
type Dep struct {
	Key  string
	Type element.DepType
}

// edge is the union of every declaration of one dependency.
type edge struct {
	build, runtime bool
}

func (e edge) depType() element.DepType {
	switch {
	case e.build && e.runtime:
		return element.DepAll
	case e.build:
		return element.DepBuild
	default:
		return element.DepRuntime
	}
}

// Plan is the build plan of a set of elements. It is immutable once built
// and safe for concurrent reads.
type Plan struct {
	build    *Graph
	runtime  *Graph
	combined *Graph

	direct         map[string]map[string]edge
	runtimeClosure map[string][]string
	staging        map[string][]string
	order          []string
}

// NewPlan builds both graphs from every element's resolved dependencies,
// rejects cycles, and computes staging sets and the build order. Every
// dependency target must itself be a key of deps.
func NewPlan(deps map[string][]Dep) (*Plan, error) {
	p := &Plan{
		build:          New("build"),
		runtime:        New("runtime"),
		combined:       New("dependency"),
		direct:         make(map[string]map[string]edge, len(deps)),
		runtimeClosure: make(map[string][]string, len(deps)),
		staging:        make(map[string][]string, len(deps)),
	}

	keys := slices.Sorted(maps.Keys(deps))
	for _, k := range keys {
		p.build.AddNode(k)
		p.runtime.AddNode(k)
		p.combined.AddNode(k)
		p.direct[k] = make(map[string]edge)
	}

	for _, k := range keys {
		for _, d := range deps[k] {
			if _, ok := deps[d.Key]; !ok {
				return nil, &loaderr.Error{
					Kind:    loaderr.ErrUnknownDependencyTarget,
					Element: k,
					Msg:     fmt.Sprintf("%q is not a known element", d.Key),
				}
			}
			e := p.direct[k][d.Key]
			e.build = e.build || d.Type.Build()
			e.runtime = e.runtime || d.Type.Runtime()
			p.direct[k][d.Key] = e
		}
		for target, e := range p.direct[k] {
			if e.build {
				_ = p.build.AddDependency(k, target)
			}
			if e.runtime {
				_ = p.runtime.AddDependency(k, target)
			}
			_ = p.combined.AddDependency(k, target)
		}
	}

	// The combined graph catches cycles that alternate between build and
	// runtime edges; such a cycle makes an element stage itself.
	for _, g := range []*Graph{p.build, p.runtime, p.combined} {
		if err := g.DetectCycles(); err != nil {
			return nil, err
		}
	}

	memo := make(map[string]map[string]struct{}, len(keys))
	for _, k := range keys {
		p.runtimeClosure[k] = slices.Sorted(maps.Keys(p.runtime.closure(k, memo)))
	}
	for _, k := range keys {
		buildDeps, _ := p.build.Dependencies(k)
		p.staging[k] = StageForBuild(buildDeps, func(b string) []string { return p.runtimeClosure[b] })
	}

	order, ok := topoOrder(keys, p.staging)
	if !ok {
		// Unreachable once the combined graph is acyclic.
		return nil, fmt.Errorf("staging relation has a cycle")
	}
	p.order = order
	return p, nil
}

// Has reports whether key is an element of the plan.
func (p *Plan) Has(key string) bool {
	_, ok := p.direct[key]
	return ok
}

// BuildOrder returns the elements in an order where every element comes
// after its whole staging set. Ties are broken by key.
func (p *Plan) BuildOrder() []string {
	return slices.Clone(p.order)
}

// StageForBuild returns the sorted staging set of key.
func (p *Plan) StageForBuild(key string) []string {
	return slices.Clone(p.staging[key])
}

// RuntimeDependencies returns the sorted direct runtime dependencies of key.
func (p *Plan) RuntimeDependencies(key string) []string {
	if !p.runtime.Has(key) {
		return nil
	}
	deps, _ := p.runtime.Dependencies(key)
	return deps
}

// RuntimeClosure returns every element that must be present, transitively,
// for key to function. It is sorted and excludes key.
func (p *Plan) RuntimeClosure(key string) []string {
	return slices.Clone(p.runtimeClosure[key])
}

// Dependencies returns the direct dependencies of key with their effective
// type, sorted by key. Two declarations of the same target with different
// types collapse into one entry.
func (p *Plan) Dependencies(key string) []Dep {
	direct := p.direct[key]
	out := make([]Dep, 0, len(direct))
	for _, target := range slices.Sorted(maps.Keys(direct)) {
		out = append(out, Dep{Key: target, Type: direct[target].depType()})
	}
	return out
}
