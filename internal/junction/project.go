package junction

import (
	"github.com/vk/bstgraph/internal/dag"
	"github.com/vk/bstgraph/internal/element"
)

// Project is one loaded project with its elements keyed canonically.
type Project struct {
	Name string
	Dir  string
	// Prefix is the key of the junction that linked the project; empty for
	// the top-level project.
	Prefix string
	Parent *Project
	// Elements holds every resolved element, junctions included.
	Elements map[string]*element.Resolved
	// Deps holds the resolved dependencies of every element that takes part
	// in the dependency graphs. Junctions are absent.
	Deps map[string][]dag.Dep
	// Junctions maps a junction element path to the key of the project it
	// links to.
	Junctions map[string]string
}

// NewProject returns an empty project.
func NewProject(name, dir, prefix string, parent *Project) *Project {
	return &Project{
		Name:      name,
		Dir:       dir,
		Prefix:    prefix,
		Parent:    parent,
		Elements:  make(map[string]*element.Resolved),
		Deps:      make(map[string][]dag.Dep),
		Junctions: make(map[string]string),
	}
}

// Key returns the canonical key of an element path of this project.
func (p *Project) Key(path string) string {
	return element.JoinKey(p.Prefix, path)
}

// Element returns the element declared at path in this project.
func (p *Project) Element(path string) (*element.Resolved, bool) {
	e, ok := p.Elements[p.Key(path)]
	return e, ok
}

// LookupJunction returns the key of the junction named name as seen from p,
// and the project that declares it. Junctions declared by an ancestor take
// precedence over the project's own, the top-level project first, so that
// every subproject agrees on a single copy of a shared dependency project.
func (p *Project) LookupJunction(name string) (string, *Project, bool) {
	chain := p.ancestry()
	for i := len(chain) - 1; i >= 0; i-- {
		if key, ok := chain[i].Junctions[name]; ok {
			return key, chain[i], true
		}
	}
	return "", nil, false
}

// ancestry returns p followed by its ancestors, the top-level project last.
func (p *Project) ancestry() []*Project {
	var chain []*Project
	for cur := p; cur != nil; cur = cur.Parent {
		chain = append(chain, cur)
	}
	return chain
}

// commonAncestor returns the closest project that both p and q descend from.
func commonAncestor(p, q *Project) *Project {
	seen := make(map[*Project]bool)
	for _, a := range p.ancestry() {
		seen[a] = true
	}
	for _, a := range q.ancestry() {
		if seen[a] {
			return a
		}
	}
	return nil
}
