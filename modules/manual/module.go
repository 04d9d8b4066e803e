// Package manual provides the built-in defaults of the "manual" element kind.
package manual

import (
	_ "embed"

	"github.com/vk/bstgraph/internal/registry"
)

//go:embed manual.yaml
var defaults []byte

// Module implements the registry.Module interface for this package.
type Module struct{}

// Register registers the kind with the registry.
func (m *Module) Register(r *registry.Registry) {
	r.MustRegisterYAML("manual", defaults)
}
