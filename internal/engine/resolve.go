package engine

import (
	"errors"
	"strconv"
	"strings"

	"github.com/vk/bstgraph/internal/compose"
	"github.com/vk/bstgraph/internal/config"
	"github.com/vk/bstgraph/internal/element"
	"github.com/vk/bstgraph/internal/loaderr"
	"github.com/vk/bstgraph/internal/registry"
	"github.com/vk/bstgraph/internal/variables"
)

// Built-in variables, available to every element.
const (
	VarElementName = "element-name"
	VarProjectName = "project-name"
	VarMaxJobs     = "max-jobs"
)

// builtins returns the lowest layer of an element.
func builtins(proj *config.Project, path string, maxJobs int) element.Layer {
	return element.Layer{
		Origin: "builtin",
		Fields: map[string]any{
			element.KeyVariables: map[string]any{
				VarElementName: strings.TrimSuffix(path, element.Suffix),
				VarProjectName: proj.Name,
				VarMaxJobs:     strconv.Itoa(maxJobs),
			},
		},
	}
}

// resolveElement composes the layers of the element declared at path and
// expands every variable reference. Errors name the element by key.
func resolveElement(proj *config.Project, kinds *registry.Registry, path, key string, decl element.Layer, maxJobs int) (*element.Resolved, error) {
	kindName, _ := decl.Fields[element.KeyKind].(string)
	if kindName == "" {
		// let the composer describe what is wrong with kind
		_, err := compose.Compose(key, decl)
		return nil, err
	}
	kind, err := kinds.Lookup(kindName)
	if err != nil {
		return nil, &loaderr.Error{Kind: registry.ErrUnknownKind, Element: key, Provenance: decl.Pos(element.KeyKind), Msg: strconv.Quote(kindName)}
	}

	layers := []element.Layer{builtins(proj, path, maxJobs), kind.Defaults, proj.Defaults}
	if l, ok := proj.KindLayer(kindName); ok {
		layers = append(layers, l)
	}
	layers = append(layers, decl)

	e, err := compose.Compose(key, layers...)
	if err != nil {
		return nil, err
	}

	vars, err := variables.Resolve(e.Variables)
	if err != nil {
		return nil, annotate(err, key, e.Provenance)
	}

	res, err := expand(e, vars)
	if err != nil {
		return nil, annotate(err, key, e.Provenance)
	}
	res.Name = key
	return res, nil
}

// expand substitutes resolved variables into every string leaf of the
// element. Dependency filenames are taken literally.
func expand(e *element.Element, vars *variables.Resolved) (*element.Resolved, error) {
	res := &element.Resolved{
		Kind:               e.Kind,
		Depends:            e.Depends,
		Variables:          vars.Map(),
		EnvironmentNoCache: e.EnvironmentNoCache,
		Sandbox:            e.Sandbox,
		Provenance:         e.Provenance,
	}

	var err error
	if res.Environment, err = vars.ExpandMap(element.KeyEnvironment, e.Environment); err != nil {
		return nil, err
	}
	if e.Config != nil {
		tree, err := vars.ExpandTree(element.KeyConfig, e.Config)
		if err != nil {
			return nil, err
		}
		res.Config = tree.(map[string]any)
	}
	if e.Public != nil {
		tree, err := vars.ExpandTree(element.KeyPublic, e.Public)
		if err != nil {
			return nil, err
		}
		res.Public = tree.(map[string]any)
	}

	for i, src := range e.Sources {
		where := element.KeySources + "[" + strconv.Itoa(i) + "]"
		dir, err := vars.Expand(where+".directory", src.Directory)
		if err != nil {
			return nil, err
		}
		out := element.Source{Kind: src.Kind, Directory: dir}
		if src.Config != nil {
			tree, err := vars.ExpandTree(where, src.Config)
			if err != nil {
				return nil, err
			}
			out.Config = tree.(map[string]any)
		}
		res.Sources = append(res.Sources, out)
	}
	return res, nil
}

func annotate(err error, key, provenance string) error {
	var le *loaderr.Error
	if !errors.As(err, &le) {
		return err
	}
	le.For(key)
	if le.Provenance == "" {
		le.At(provenance)
	}
	return le
}
