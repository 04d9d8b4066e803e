package variables

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/vk/bstgraph/internal/loaderr"
)

// Resolved is a variable table in which no value contains a reference.
// It is immutable.
type Resolved struct {
	values map[string]string
}

// frame is one entry of the explicit resolution stack.
type frame struct {
	name string
	segs []segment
	next int
}

// Resolve expands every value of the merged table. Values are resolved in an
// order driven by their references, not by declaration order; each finished
// value is memoized. Resolution walks an explicit stack so that reference
// depth does not grow the goroutine stack and so that a cycle can be reported
// with its full chain.
func Resolve(raw Table) (*Resolved, error) {
	parsed := make(map[string][]segment, len(raw))
	for _, name := range raw.Keys() {
		if !IsIdentifier(name) {
			return nil, loaderr.Malformed("", "invalid variable name %q", name)
		}
		segs, err := parse(raw[name])
		if err != nil {
			le := err.(*loaderr.Error)
			le.Msg = fmt.Sprintf("variable %q: %s", name, le.Msg)
			return nil, le
		}
		parsed[name] = segs
	}

	done := make(map[string]string, len(raw))
	inProgress := make(map[string]int, len(raw)) // name -> stack index

	for _, root := range raw.Keys() {
		if _, ok := done[root]; ok {
			continue
		}

		stack := []*frame{{name: root, segs: parsed[root]}}
		inProgress[root] = 0

		for len(stack) > 0 {
			top := stack[len(stack)-1]

			pushed := false
			for top.next < len(top.segs) {
				seg := top.segs[top.next]
				if !seg.isRef() {
					top.next++
					continue
				}
				if _, ok := done[seg.ref]; ok {
					top.next++
					continue
				}
				if idx, ok := inProgress[seg.ref]; ok {
					chain := make([]string, 0, len(stack)-idx+1)
					for _, f := range stack[idx:] {
						chain = append(chain, f.name)
					}
					chain = append(chain, seg.ref)
					return nil, &loaderr.Error{Kind: loaderr.ErrVariableReferenceCycle, Chain: chain}
				}
				segs, ok := parsed[seg.ref]
				if !ok {
					return nil, &loaderr.Error{
						Kind: loaderr.ErrUndefinedVariable,
						Msg:  fmt.Sprintf("%q referenced by variable %q", seg.ref, top.name),
					}
				}
				inProgress[seg.ref] = len(stack)
				stack = append(stack, &frame{name: seg.ref, segs: segs})
				pushed = true
				break
			}
			if pushed {
				continue
			}

			done[top.name] = join(top.segs, done)
			delete(inProgress, top.name)
			stack = stack[:len(stack)-1]
		}
	}

	return &Resolved{values: done}, nil
}

// join concatenates segments, substituting finished references.
func join(segs []segment, values map[string]string) string {
	if len(segs) == 1 && !segs[0].isRef() {
		return segs[0].literal
	}
	var sb strings.Builder
	for _, s := range segs {
		if s.isRef() {
			sb.WriteString(values[s.ref])
		} else {
			sb.WriteString(s.literal)
		}
	}
	return sb.String()
}

// Get returns the resolved value of name.
func (r *Resolved) Get(name string) (string, bool) {
	v, ok := r.values[name]
	return v, ok
}

// Len returns the number of variables.
func (r *Resolved) Len() int {
	return len(r.values)
}

// Map returns a copy of the resolved values.
func (r *Resolved) Map() map[string]string {
	return maps.Clone(r.values)
}

// Expand substitutes every reference in s with its resolved value. where
// names the location of s for diagnostics, e.g. "config.build-commands[0]".
func (r *Resolved) Expand(where, s string) (string, error) {
	segs, err := parse(s)
	if err != nil {
		le := err.(*loaderr.Error)
		le.Msg = fmt.Sprintf("%s: %s", where, le.Msg)
		return "", le
	}
	for _, seg := range segs {
		if seg.isRef() {
			if _, ok := r.values[seg.ref]; !ok {
				return "", &loaderr.Error{
					Kind: loaderr.ErrUndefinedVariable,
					Msg:  fmt.Sprintf("%q referenced by %s", seg.ref, where),
				}
			}
		}
	}
	return join(segs, r.values), nil
}

// ExpandTree returns a copy of v with every string leaf expanded. Mappings
// and sequences are walked recursively; other scalars are returned as is.
func (r *Resolved) ExpandTree(where string, v any) (any, error) {
	switch val := v.(type) {
	case string:
		return r.Expand(where, val)
	case map[string]any:
		out := make(map[string]any, len(val))
		for _, k := range slices.Sorted(maps.Keys(val)) {
			expanded, err := r.ExpandTree(where+"."+k, val[k])
			if err != nil {
				return nil, err
			}
			out[k] = expanded
		}
		return out, nil
	case []any:
		out := make([]any, len(val))
		for i, child := range val {
			expanded, err := r.ExpandTree(fmt.Sprintf("%s[%d]", where, i), child)
			if err != nil {
				return nil, err
			}
			out[i] = expanded
		}
		return out, nil
	default:
		return v, nil
	}
}

// ExpandMap expands every value of a string mapping.
func (r *Resolved) ExpandMap(where string, m map[string]string) (map[string]string, error) {
	if m == nil {
		return nil, nil
	}
	out := make(map[string]string, len(m))
	for _, k := range slices.Sorted(maps.Keys(m)) {
		expanded, err := r.Expand(where+"."+k, m[k])
		if err != nil {
			return nil, err
		}
		out[k] = expanded
	}
	return out, nil
}
