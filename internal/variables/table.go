// Package variables implements the variable table and the %{name} reference
// resolver used by element declarations.
//
// A Table is one raw layer of variable declarations. Layers are merged with
// Merge before any resolution happens, so a higher layer's value is the one
// seen by every expansion, including expansions of values that were declared
// in a lower layer. Resolve then expands the merged table in dependency order
// and returns a Resolved table, which is the only thing strings elsewhere in a
// declaration are expanded against.
package variables

import (
	"maps"
	"slices"
)

// Table maps variable names to raw, possibly unresolved, values.
type Table map[string]string

// Merge overlays layers from lowest to highest priority. Keys present in a
// later layer replace earlier ones; all other keys are kept.
func Merge(layers ...Table) Table {
	out := make(Table)
	for _, layer := range layers {
		maps.Copy(out, layer)
	}
	return out
}

// Keys returns the table's names in lexical order.
func (t Table) Keys() []string {
	return slices.Sorted(maps.Keys(t))
}

// Clone returns a shallow copy of the table.
func (t Table) Clone() Table {
	if t == nil {
		return nil
	}
	return maps.Clone(t)
}
