package config

import (
	"maps"
	"slices"

	"github.com/vk/bstgraph/internal/element"
)

// Model is the unified, format-agnostic representation of one project: its
// project-wide declarations and the raw declaration of every element.
type Model struct {
	Project *Project
	// Elements maps an element path, relative to the element directory, to
	// its declaration.
	Elements map[string]element.Layer
}

// ElementNames returns the element paths of the model, sorted.
func (m *Model) ElementNames() []string {
	return slices.Sorted(maps.Keys(m.Elements))
}

// Project is the format-agnostic representation of the project file.
type Project struct {
	Name string
	// Dir is the project's root directory.
	Dir string
	// ElementPath is the element directory, relative to Dir.
	ElementPath string
	// KindPath, if set, is a directory relative to Dir holding
	// project-local kind defaults.
	KindPath string
	// Defaults is the project-wide layer: variables, environment and
	// environment-nocache.
	Defaults element.Layer
	// KindOverrides holds the project's overrides per element kind.
	KindOverrides map[string]element.Layer
	// Origin is the path of the project file.
	Origin string
}

// KindLayer returns the project's overrides for kind, if any.
func (p *Project) KindLayer(kind string) (element.Layer, bool) {
	l, ok := p.KindOverrides[kind]
	return l, ok
}
