// Package stack provides the built-in defaults of the "stack" element kind.
package stack

import (
	_ "embed"

	"github.com/vk/bstgraph/internal/registry"
)

//go:embed stack.yaml
var defaults []byte

// Module implements the registry.Module interface for this package.
type Module struct{}

// Register registers the kind with the registry.
func (m *Module) Register(r *registry.Registry) {
	r.MustRegisterYAML("stack", defaults)
}
