package app

import (
	"github.com/vk/bstgraph/internal/registry"
	"github.com/vk/bstgraph/modules/autotools"
	"github.com/vk/bstgraph/modules/import_kind"
	"github.com/vk/bstgraph/modules/junction"
	"github.com/vk/bstgraph/modules/manual"
	"github.com/vk/bstgraph/modules/stack"
)

// coreModules is the definitive list of element kinds compiled into the
// bstgraph binary.
var coreModules = []registry.Module{
	&autotools.Module{},
	&import_kind.Module{},
	&junction.Module{},
	&manual.Module{},
	&stack.Module{},
}
