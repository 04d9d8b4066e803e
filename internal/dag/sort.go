package dag

import (
	"cmp"
	"slices"

	"github.com/vk/bstgraph/internal/element"
)

// SortedDependencies returns the direct dependencies of key in staging
// order: a dependency that transitively depends on another one comes after
// it. Unrelated dependencies are ordered runtime-only last, then by element
// name within their project. On equal names, elements behind a junction come
// before the depending project's own, ordered by junction key.
func (p *Plan) SortedDependencies(key string) []Dep {
	deps := p.Dependencies(key)
	if len(deps) < 2 {
		return deps
	}

	home, _ := element.SplitKey(key)
	memo := make(map[string]map[string]struct{})
	reach := make(map[string]map[string]struct{}, len(deps))
	for _, d := range deps {
		reach[d.Key] = p.combined.closure(d.Key, memo)
	}

	// Ready dependencies are picked with the tie-break rule; a dependency
	// becomes ready once every sibling it depends on has been emitted.
	pending := slices.Clone(deps)
	out := make([]Dep, 0, len(deps))
	for len(pending) > 0 {
		best := -1
		for i, d := range pending {
			if blockedBy(d, pending, reach) {
				continue
			}
			if best < 0 || compareDeps(home, d, pending[best]) < 0 {
				best = i
			}
		}
		out = append(out, pending[best])
		pending = slices.Delete(pending, best, best+1)
	}
	return out
}

// blockedBy reports whether d depends on any other pending dependency.
func blockedBy(d Dep, pending []Dep, reach map[string]map[string]struct{}) bool {
	for _, o := range pending {
		if o.Key == d.Key {
			continue
		}
		if _, ok := reach[d.Key][o.Key]; ok {
			return true
		}
	}
	return false
}

func compareDeps(home string, a, b Dep) int {
	if ra, rb := a.Type == element.DepRuntime, b.Type == element.DepRuntime; ra != rb {
		if ra {
			return 1
		}
		return -1
	}
	ja, fa := element.SplitKey(a.Key)
	jb, fb := element.SplitKey(b.Key)
	if c := cmp.Compare(fa, fb); c != 0 {
		return c
	}
	switch la, lb := ja == home, jb == home; {
	case la && lb:
		return 0
	case la:
		return 1
	case lb:
		return -1
	}
	return cmp.Compare(ja, jb)
}
