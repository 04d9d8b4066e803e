package junction

import (
	"context"
	"fmt"
	"maps"
	"path/filepath"
	"slices"
	"strconv"

	"github.com/vk/bstgraph/internal/ctxlog"
	"github.com/vk/bstgraph/internal/loaderr"
)

// Resolver maps a dependency on filename, inside the project linked by the
// junction whose key is junctionKey, onto the target's canonical key.
type Resolver interface {
	Resolve(ctx context.Context, junctionKey, filename string) (string, error)
}

// LoadFunc loads and resolves the project in dir, keying its elements under
// prefix.
type LoadFunc func(ctx context.Context, dir, prefix string, parent *Project) (*Project, error)

// link is a registered but possibly not yet loaded junction.
type link struct {
	dir    string
	parent *Project
}

// LocalResolver resolves junctions to projects found in local directories.
// It is used by a single resolution and is not safe for concurrent use.
type LocalResolver struct {
	load     LoadFunc
	links    map[string]link
	projects map[string]*Project
	loading  map[string]string // absolute dir -> junction key
	// claims records which subproject first supplied a junction name that
	// no common ancestor declares.
	claims map[string]*Project
}

var _ Resolver = (*LocalResolver)(nil)

// NewLocalResolver returns a resolver that loads linked projects with load.
func NewLocalResolver(load LoadFunc) *LocalResolver {
	return &LocalResolver{
		load:     load,
		links:    make(map[string]link),
		projects: make(map[string]*Project),
		loading:  make(map[string]string),
		claims:   make(map[string]*Project),
	}
}

// Register records that the junction keyed key, declared in parent, links
// the project in dir. Nothing is loaded until the junction is used.
func (r *LocalResolver) Register(key, dir string, parent *Project) {
	r.links[key] = link{dir: dir, parent: parent}
}

// Junction returns the key of the junction named name as seen from p. A
// junction supplied by a subproject is only usable if no other subproject
// supplies one of the same name: two subprojects bringing their own copy of
// a shared project must leave the choice to an ancestor.
func (r *LocalResolver) Junction(p *Project, name string) (string, bool, error) {
	key, owner, ok := p.LookupJunction(name)
	if !ok {
		return "", false, nil
	}
	if owner.Parent == nil {
		return key, true, nil
	}
	if prev, claimed := r.claims[name]; claimed && prev != owner {
		where := "a common parent project"
		if anc := commonAncestor(prev, owner); anc != nil {
			where = strconv.Quote(anc.Name)
		}
		return "", true, loaderr.Malformed("", "conflicting junction %q in subprojects %q and %q, define junction in %s", name, prev.Name, owner.Name, where)
	}
	r.claims[name] = owner
	return key, true, nil
}

// Project returns the project linked by the junction keyed key, loading it
// on first use.
func (r *LocalResolver) Project(ctx context.Context, key string) (*Project, error) {
	if p, ok := r.projects[key]; ok {
		return p, nil
	}
	l, ok := r.links[key]
	if !ok {
		return nil, &loaderr.Error{
			Kind: loaderr.ErrUnknownDependencyTarget,
			Msg:  fmt.Sprintf("no junction %q", key),
		}
	}

	abs, err := filepath.Abs(l.dir)
	if err != nil {
		return nil, err
	}
	if other, busy := r.loading[abs]; busy {
		return nil, loaderr.Malformed(key, "junction links project %s, which is already being loaded through %q", l.dir, other)
	}
	r.loading[abs] = key
	defer delete(r.loading, abs)

	ctxlog.FromContext(ctx).Debug("Loading junctioned project.", "junction", key, "dir", l.dir)
	p, err := r.load(ctx, l.dir, key, l.parent)
	if err != nil {
		return nil, fmt.Errorf("junction %s: %w", key, err)
	}
	r.projects[key] = p
	return p, nil
}

// Resolve implements Resolver.
func (r *LocalResolver) Resolve(ctx context.Context, junctionKey, filename string) (string, error) {
	p, err := r.Project(ctx, junctionKey)
	if err != nil {
		return "", err
	}
	target, ok := p.Element(filename)
	if !ok {
		return "", &loaderr.Error{
			Kind: loaderr.ErrUnknownDependencyTarget,
			Msg:  fmt.Sprintf("%q is not an element of junction %q", filename, junctionKey),
		}
	}
	if target.IsJunction() {
		return "", loaderr.Malformed("", "cannot depend on junction %q", target.Name)
	}
	return target.Name, nil
}

// Projects returns every project loaded so far, ordered by junction key.
func (r *LocalResolver) Projects() []*Project {
	out := make([]*Project, 0, len(r.projects))
	for _, k := range slices.Sorted(maps.Keys(r.projects)) {
		out = append(out, r.projects[k])
	}
	return out
}
