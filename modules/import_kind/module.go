// Package import_kind provides the built-in defaults of the "import" element
// kind. The directory is not named after the kind since import is a keyword.
package import_kind

import (
	_ "embed"

	"github.com/vk/bstgraph/internal/registry"
)

//go:embed import.yaml
var defaults []byte

// Module implements the registry.Module interface for this package.
type Module struct{}

// Register registers the kind with the registry.
func (m *Module) Register(r *registry.Registry) {
	r.MustRegisterYAML("import", defaults)
}
