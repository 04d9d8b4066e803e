// Package project loads a whole project from disk: the project file and every
// element declaration below its element directory.
package project

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/vk/bstgraph/internal/config"
	"github.com/vk/bstgraph/internal/ctxlog"
	"github.com/vk/bstgraph/internal/element"
	"github.com/vk/bstgraph/internal/fsutil"
	"github.com/vk/bstgraph/internal/hcl_adapter"
	"github.com/vk/bstgraph/internal/loaderr"
	"github.com/vk/bstgraph/internal/yaml_adapter"
)

// ProjectLoader reads the project file.
type ProjectLoader interface {
	LoadProject(ctx context.Context, dir string) (*config.Project, error)
}

// Loader implements config.Loader on top of a project file loader and an
// element parser.
type Loader struct {
	projects ProjectLoader
	elements config.ElementParser
}

var _ config.Loader = (*Loader)(nil)

// NewLoader returns a loader for HCL project files and YAML elements.
func NewLoader() *Loader {
	return &Loader{
		projects: hcl_adapter.NewLoader(),
		elements: yaml_adapter.NewParser(),
	}
}

// Load reads the project rooted at dir.
func (l *Loader) Load(ctx context.Context, dir string) (*config.Model, error) {
	logger := ctxlog.FromContext(ctx)

	proj, err := l.projects.LoadProject(ctx, dir)
	if err != nil {
		return nil, err
	}

	elemDir := filepath.Join(dir, proj.ElementPath)
	paths, err := fsutil.FindFilesByExtension(elemDir, element.Suffix)
	if err != nil {
		return nil, fmt.Errorf("failed to read element directory %s: %w", elemDir, err)
	}
	logger.Debug("Discovered element files.", "project", proj.Name, "count", len(paths))

	model := &config.Model{
		Project:  proj,
		Elements: make(map[string]element.Layer, len(paths)),
	}
	for _, name := range paths {
		origin := filepath.Join(elemDir, filepath.FromSlash(name))
		data, err := os.ReadFile(origin)
		if err != nil {
			return nil, err
		}
		layer, err := l.elements.ParseElement(origin, data)
		if err != nil {
			if le, ok := loaderr.As(err); ok {
				le.For(name)
			}
			return nil, err
		}
		model.Elements[name] = layer
	}

	logger.Debug("Project loaded.", "project", proj.Name, "elements", len(model.Elements))
	return model, nil
}
