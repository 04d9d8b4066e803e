package registry

import (
	"errors"
	"fmt"
	"maps"
	"slices"

	"github.com/vk/bstgraph/internal/element"
)

// ErrUnknownKind is returned by Lookup for a kind nobody registered.
var ErrUnknownKind = errors.New("unknown element kind")

// Module is the interface that all core modules must implement to be registered.
type Module interface {
	Register(r *Registry)
}

// Kind is one registered element kind.
type Kind struct {
	Name string
	// Defaults is the lowest composition layer for elements of this kind.
	Defaults element.Layer
}

// Registry holds the kinds known to a single application instance.
type Registry struct {
	kinds map[string]*Kind
}

// New creates and initializes a new Registry instance.
func New(modules ...Module) *Registry {
	r := &Registry{kinds: make(map[string]*Kind)}
	for _, m := range modules {
		m.Register(r)
	}
	return r
}

// Lookup returns the kind registered under name.
func (r *Registry) Lookup(name string) (*Kind, error) {
	k, ok := r.kinds[name]
	if !ok {
		return nil, fmt.Errorf("%w %q", ErrUnknownKind, name)
	}
	return k, nil
}

// Kinds returns the names of all registered kinds, sorted.
func (r *Registry) Kinds() []string {
	return slices.Sorted(maps.Keys(r.kinds))
}

// Clone returns a registry holding the same kinds. Kinds added to the clone
// are not visible in r.
func (r *Registry) Clone() *Registry {
	return &Registry{kinds: maps.Clone(r.kinds)}
}
