package engine

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/vk/bstgraph/internal/ctxlog"
	"github.com/vk/bstgraph/internal/dag"
	"github.com/vk/bstgraph/internal/element"
	"github.com/vk/bstgraph/internal/junction"
	"github.com/vk/bstgraph/internal/loaderr"
)

// loadProject resolves the elements of the project in dir, keyed under
// prefix, and maps their dependencies onto canonical keys. It is also the
// junction resolver's way of loading subprojects.
func (r *resolution) loadProject(ctx context.Context, dir, prefix string, parent *junction.Project) (*junction.Project, error) {
	model, err := r.loader.Load(ctx, dir)
	if err != nil {
		return nil, err
	}
	proj := junction.NewProject(model.Project.Name, dir, prefix, parent)
	ctx, logger := ctxlog.With(ctx, "project", proj.Name)

	kinds := r.kinds
	if model.Project.KindPath != "" {
		kinds = kinds.Clone()
		if err := kinds.LoadKindsDir(ctx, filepath.Join(dir, model.Project.KindPath)); err != nil {
			return nil, err
		}
	}

	names := model.ElementNames()
	for _, name := range names {
		res, err := resolveElement(model.Project, kinds, name, proj.Key(name), model.Elements[name], r.maxJobs)
		if err != nil {
			return nil, err
		}
		if res.IsJunction() && len(res.Depends) > 0 {
			return nil, loaderr.Malformed(res.Name, "junctions do not support dependencies").At(res.Depends[0].Provenance)
		}
		proj.Elements[res.Name] = res
	}
	logger.Debug("Elements resolved.", "count", len(names))

	if err := r.registerJunctions(ctx, proj, names); err != nil {
		return nil, err
	}

	for _, name := range names {
		res, _ := proj.Element(name)
		if res.IsJunction() {
			continue
		}
		deps := make([]dag.Dep, 0, len(res.Depends))
		for _, d := range res.Depends {
			key, err := r.dependencyKey(ctx, proj, d)
			if err != nil {
				return nil, annotate(err, res.Name, d.Provenance)
			}
			deps = append(deps, dag.Dep{Key: key, Type: d.Type})
		}
		proj.Deps[res.Name] = deps
	}
	return proj, nil
}

// registerJunctions fills proj.Junctions. Plain junctions are registered
// with the resolver first, so that junctions targeting another junction can
// look through them.
func (r *resolution) registerJunctions(ctx context.Context, proj *junction.Project, names []string) error {
	var targeted []string
	for _, name := range names {
		res, _ := proj.Element(name)
		if !res.IsJunction() {
			continue
		}
		if target, _ := res.Config["target"].(string); target != "" {
			targeted = append(targeted, name)
			continue
		}
		path, _ := res.Config["path"].(string)
		r.resolver.Register(res.Name, filepath.Join(proj.Dir, filepath.FromSlash(path)), proj)
		proj.Junctions[name] = res.Name
	}

	for _, name := range targeted {
		res, _ := proj.Element(name)
		target := res.Config["target"].(string)
		via, inner, ok := strings.Cut(target, element.KeySeparator)
		if !ok || via == "" || inner == "" || strings.Contains(inner, element.KeySeparator) {
			return loaderr.Malformed(res.Name, "'target' option must be in format '{junction-name}:{element-name}'").At(res.Provenance)
		}
		if inner == name {
			return loaderr.Malformed(res.Name, "junction elements cannot target an element with the same name").At(res.Provenance)
		}
		viaKey, ok, err := r.resolver.Junction(proj, via)
		if err != nil {
			return annotate(err, res.Name, res.Provenance)
		}
		if !ok {
			return &loaderr.Error{Kind: loaderr.ErrUnknownDependencyTarget, Element: res.Name, Provenance: res.Provenance, Msg: fmt.Sprintf("no junction %q", via)}
		}
		sub, err := r.resolver.Project(ctx, viaKey)
		if err != nil {
			return err
		}
		key, ok := sub.Junctions[inner]
		if !ok {
			return &loaderr.Error{Kind: loaderr.ErrUnknownDependencyTarget, Element: res.Name, Provenance: res.Provenance, Msg: fmt.Sprintf("%q is not a junction of %q", inner, via)}
		}
		proj.Junctions[name] = key
	}
	return nil
}

// dependencyKey maps one declared dependency onto its canonical key.
func (r *resolution) dependencyKey(ctx context.Context, proj *junction.Project, d element.Dependency) (string, error) {
	if d.Junction != "" {
		jkey, ok, err := r.resolver.Junction(proj, d.Junction)
		if err != nil {
			return "", err
		}
		if !ok {
			if other, exists := proj.Element(d.Junction); exists {
				return "", loaderr.Malformed("", "%s: expected junction but element kind is %s", d.Junction, other.Kind)
			}
			return "", &loaderr.Error{Kind: loaderr.ErrUnknownDependencyTarget, Msg: fmt.Sprintf("no junction %q", d.Junction)}
		}
		return r.resolver.Resolve(ctx, jkey, d.Filename)
	}

	target, ok := proj.Element(d.Filename)
	if !ok {
		return "", &loaderr.Error{Kind: loaderr.ErrUnknownDependencyTarget, Msg: fmt.Sprintf("%q is not a known element", d.Filename)}
	}
	if target.IsJunction() {
		return "", loaderr.Malformed("", "cannot depend on junction %q", d.Filename)
	}
	return target.Name, nil
}
