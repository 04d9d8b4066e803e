package hcl_adapter

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/vk/bstgraph/internal/config"
	"github.com/vk/bstgraph/internal/ctxlog"
	"github.com/vk/bstgraph/internal/element"
	"github.com/vk/bstgraph/internal/loaderr"
	"github.com/zclconf/go-cty/cty"
)

// ProjectFile is the name of the project file in a project's root directory.
const ProjectFile = "project.hcl"

// DefaultElementPath is used when the project file sets no element_path.
const DefaultElementPath = "elements"

// Loader reads project files.
type Loader struct{}

// NewLoader creates a new HCL project file loader.
func NewLoader() *Loader {
	return &Loader{}
}

// LoadProject parses the project file of the project rooted at dir.
func (l *Loader) LoadProject(ctx context.Context, dir string) (*config.Project, error) {
	path := filepath.Join(dir, ProjectFile)
	logger := ctxlog.FromContext(ctx).With("file", path)
	ctx = ctxlog.WithLogger(ctx, logger)
	logger.Debug("HCL project loader started.")

	parser := hclparse.NewParser()
	hclFile, diags := parser.ParseHCLFile(path)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse project file %s: %w", path, diags)
	}
	return l.decode(ctx, dir, path, hclFile.Body)
}

// decode is split from LoadProject so tests can feed in-memory sources.
func (l *Loader) decode(ctx context.Context, dir, path string, body hcl.Body) (*config.Project, error) {
	var root projectFile
	if diags := gohcl.DecodeBody(body, nil, &root); diags.HasErrors() {
		return nil, &loaderr.Error{Kind: loaderr.ErrMalformedDeclaration, Provenance: path, Msg: diags.Error()}
	}
	if root.Name == "" {
		return nil, loaderr.Malformed("", "project name must not be empty").At(path)
	}

	p := &config.Project{
		Name:          root.Name,
		Dir:           dir,
		ElementPath:   DefaultElementPath,
		Defaults:      element.Layer{Fields: map[string]any{}, Origin: path, Positions: map[string]string{}},
		KindOverrides: make(map[string]element.Layer),
		Origin:        path,
	}
	if root.ElementPath != nil {
		p.ElementPath = *root.ElementPath
	}
	if root.KindPath != nil {
		p.KindPath = *root.KindPath
	}

	attrs := []attr{
		{element.KeyVariables, root.Variables, mapOf},
		{element.KeyEnvironment, root.Environment, mapOf},
		{element.KeyEnvironmentNoCache, root.EnvironmentNoCache, listOf},
	}
	if err := decodeAttrs(ctx, &p.Defaults, attrs); err != nil {
		return nil, err
	}

	for _, b := range root.Elements {
		if _, dup := p.KindOverrides[b.Kind]; dup {
			return nil, loaderr.Malformed("", "duplicate element block for kind %q", b.Kind).At(rangePos(b.DefRange))
		}
		layer := element.Layer{
			Fields:    map[string]any{},
			Origin:    rangePos(b.DefRange),
			Positions: map[string]string{},
		}
		attrs := []attr{
			{element.KeyVariables, b.Variables, mapOf},
			{element.KeyEnvironment, b.Environment, mapOf},
			{element.KeyEnvironmentNoCache, b.EnvironmentNoCache, listOf},
			{element.KeyConfig, b.Config, ctyToNative},
			{element.KeyPublic, b.Public, ctyToNative},
			{element.KeySandbox, b.Sandbox, ctyToNative},
		}
		if err := decodeAttrs(ctx, &layer, attrs); err != nil {
			return nil, err
		}
		p.KindOverrides[b.Kind] = layer
	}

	ctxlog.FromContext(ctx).Debug("HCL project loading complete.",
		"project", p.Name, "element_path", p.ElementPath, "kind_overrides", len(p.KindOverrides))
	return p, nil
}

// attr binds a project file attribute to an element key and its conversion.
type attr struct {
	key     string
	expr    hcl.Expression
	convert func(cty.Value) (any, error)
}

func decodeAttrs(ctx context.Context, layer *element.Layer, attrs []attr) error {
	for _, a := range attrs {
		if !isExprDefined(ctx, a.expr, a.key) {
			continue
		}
		pos := rangePos(a.expr.Range())
		val, diags := a.expr.Value(nil)
		if diags.HasErrors() {
			return &loaderr.Error{Kind: loaderr.ErrMalformedDeclaration, Provenance: pos, Msg: diags.Error()}
		}
		native, err := a.convert(val)
		if err != nil {
			return loaderr.Malformed("", "%s: %v", a.key, err).At(pos)
		}
		layer.Fields[a.key] = native
		layer.Positions[a.key] = pos
	}
	return nil
}

func mapOf(v cty.Value) (any, error) {
	return ctyToStringMap(v)
}

func listOf(v cty.Value) (any, error) {
	return ctyToStringList(v)
}
