package engine

import (
	"errors"
	"fmt"
	"maps"
	"slices"

	"github.com/vk/bstgraph/internal/dag"
	"github.com/vk/bstgraph/internal/element"
)

// ErrElementNotFound is returned for keys the registry does not hold.
var ErrElementNotFound = errors.New("element not found")

// Registry is the outcome of a successful resolution. It is never modified
// after Resolve returns it, so reads need no locking.
type Registry struct {
	project  string
	elements map[string]*element.Resolved
	plan     *dag.Plan
}

// ProjectName returns the name of the top-level project.
func (r *Registry) ProjectName() string { return r.project }

// ResolvedElement returns a copy of the element keyed key, so callers on
// different goroutines never share its maps. Junction elements are included.
func (r *Registry) ResolvedElement(key string) (*element.Resolved, error) {
	e, ok := r.elements[key]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrElementNotFound, key)
	}
	return e.Clone(), nil
}

// Elements returns every element key, sorted.
func (r *Registry) Elements() []string {
	return slices.Sorted(maps.Keys(r.elements))
}

// BuildOrder returns every non-junction element such that each comes after
// everything staged for its build.
func (r *Registry) BuildOrder() []string {
	return r.plan.BuildOrder()
}

// StageForBuild returns the elements that must be present to build key.
func (r *Registry) StageForBuild(key string) ([]string, error) {
	if err := r.check(key); err != nil {
		return nil, err
	}
	return r.plan.StageForBuild(key), nil
}

// RuntimeDependencies returns the direct runtime dependencies of key.
func (r *Registry) RuntimeDependencies(key string) ([]string, error) {
	if err := r.check(key); err != nil {
		return nil, err
	}
	return r.plan.RuntimeDependencies(key), nil
}

// RuntimeClosure returns every element key needs at run time.
func (r *Registry) RuntimeClosure(key string) ([]string, error) {
	if err := r.check(key); err != nil {
		return nil, err
	}
	return r.plan.RuntimeClosure(key), nil
}

// SortedDependencies returns the direct dependencies of key in staging order.
func (r *Registry) SortedDependencies(key string) ([]dag.Dep, error) {
	if err := r.check(key); err != nil {
		return nil, err
	}
	return r.plan.SortedDependencies(key), nil
}

func (r *Registry) check(key string) error {
	if !r.plan.Has(key) {
		if _, ok := r.elements[key]; ok {
			return fmt.Errorf("%s is a junction and has no dependencies", key)
		}
		return fmt.Errorf("%w: %s", ErrElementNotFound, key)
	}
	return nil
}
