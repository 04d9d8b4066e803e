// Package junction provides the built-in defaults of the "junction" element kind.
package junction

import (
	_ "embed"

	"github.com/vk/bstgraph/internal/registry"
)

//go:embed junction.yaml
var defaults []byte

// Module implements the registry.Module interface for this package.
type Module struct{}

// Register registers the kind with the registry.
func (m *Module) Register(r *registry.Registry) {
	r.MustRegisterYAML("junction", defaults)
}
