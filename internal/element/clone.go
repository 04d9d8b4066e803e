package element

import (
	"maps"
	"slices"
)

// CloneTree deep-copies mappings and sequences. Other values are returned
// as is.
func CloneTree(v any) any {
	switch val := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, child := range val {
			out[k] = CloneTree(child)
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, child := range val {
			out[i] = CloneTree(child)
		}
		return out
	default:
		return v
	}
}

func cloneMap(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	return CloneTree(m).(map[string]any)
}

// Clone returns a deep copy of r that shares no mutable state with it.
func (r *Resolved) Clone() *Resolved {
	c := *r
	c.Depends = slices.Clone(r.Depends)
	if r.Sources != nil {
		c.Sources = make([]Source, len(r.Sources))
		for i, s := range r.Sources {
			s.Config = cloneMap(s.Config)
			c.Sources[i] = s
		}
	}
	c.Variables = maps.Clone(r.Variables)
	c.Environment = maps.Clone(r.Environment)
	c.EnvironmentNoCache = slices.Clone(r.EnvironmentNoCache)
	c.Config = cloneMap(r.Config)
	c.Public = cloneMap(r.Public)
	return &c
}
