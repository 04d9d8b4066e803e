package registry

import (
	"fmt"
	"log/slog"

	"github.com/vk/bstgraph/internal/yaml_adapter"
)

// RegisterKind registers a kind with its defaults. Registering the same name
// twice is a programming error and panics.
func (r *Registry) RegisterKind(kind *Kind) {
	if _, exists := r.kinds[kind.Name]; exists {
		panic(fmt.Sprintf("element kind '%s' already registered", kind.Name))
	}
	slog.Debug("Registering element kind.", "kind", kind.Name)
	r.kinds[kind.Name] = kind
}

// MustRegisterYAML parses defaults written in the element declaration format
// and registers them under name. It is meant for embedded, compiled-in
// defaults and panics on malformed input.
func (r *Registry) MustRegisterYAML(name string, defaults []byte) {
	kind, err := ParseKind(name, name+" defaults", defaults)
	if err != nil {
		panic(err)
	}
	r.RegisterKind(kind)
}

// ParseKind parses a kind's defaults document. It is read exactly like an
// element declaration, so scalars keep the same form in every layer.
func ParseKind(name, origin string, data []byte) (*Kind, error) {
	layer, err := yaml_adapter.NewParser().ParseElement(origin, data)
	if err != nil {
		return nil, fmt.Errorf("parsing defaults of kind %q: %w", name, err)
	}
	kind := &Kind{Name: name, Defaults: layer}
	if err := validateDefaults(kind); err != nil {
		return nil, err
	}
	return kind, nil
}
