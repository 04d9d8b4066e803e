// Package compose merges configuration layers into one element record.
//
// Composition runs before variable resolution: the result still holds raw
// %{name} references, so an override in a higher layer is visible to every
// string declared in a lower one.
package compose

import (
	"fmt"
	"maps"
	"slices"

	"github.com/vk/bstgraph/internal/element"
	"github.com/vk/bstgraph/internal/loaderr"
)

// Policies maps every recognized top-level key to its merge rule.
var Policies = map[string]Policy{
	element.KeyKind:               Replace,
	element.KeyDepends:            Replace,
	element.KeySources:            Replace,
	element.KeySandbox:            Replace,
	element.KeyVariables:          Override,
	element.KeyEnvironment:        Override,
	element.KeyConfig:             DeepMerge,
	element.KeyPublic:             DeepMerge,
	element.KeyEnvironmentNoCache: Union,
}

// Compose merges layers, lowest priority first, and decodes the merged tree
// into an Element named name. It does not modify its inputs.
func Compose(name string, layers ...element.Layer) (*element.Element, error) {
	merged := make(map[string]any, len(Policies))
	// winner records which layer last contributed each key, for diagnostics.
	winner := make(map[string]element.Layer, len(Policies))

	for _, layer := range layers {
		for _, key := range element.Keys {
			high, ok := layer.Fields[key]
			if !ok {
				continue
			}
			if high == nil {
				// null is the same as absent
				continue
			}
			v, err := Merge(Policies[key], merged[key], high)
			if err != nil {
				return nil, loaderr.Malformed(name, "%s: %v", key, err).At(layer.Pos(key))
			}
			merged[key] = v
			winner[key] = layer
		}
		for _, key := range slices.Sorted(maps.Keys(layer.Fields)) {
			if _, ok := Policies[key]; !ok {
				return nil, loaderr.Malformed(name, "unknown key %q", key).At(layer.Pos(key))
			}
		}
	}

	return decode(name, merged, winner)
}

// posOf returns the best known position for a field path under top-level key.
func posOf(winner map[string]element.Layer, key, field string) string {
	l, ok := winner[key]
	if !ok {
		return ""
	}
	return l.Pos(field)
}

func decode(name string, tree map[string]any, winner map[string]element.Layer) (*element.Element, error) {
	malformed := func(key, field, format string, args ...any) error {
		return loaderr.Malformed(name, "%s: %s", field, fmt.Sprintf(format, args...)).At(posOf(winner, key, field))
	}

	e := &element.Element{Name: name, Provenance: posOf(winner, element.KeyKind, element.KeyKind)}

	kind, ok := tree[element.KeyKind].(string)
	switch {
	case tree[element.KeyKind] == nil:
		return nil, loaderr.Malformed(name, "missing required key %q", element.KeyKind)
	case !ok:
		return nil, malformed(element.KeyKind, element.KeyKind, "expected string, got %s", describe(tree[element.KeyKind]))
	case kind == "":
		return nil, malformed(element.KeyKind, element.KeyKind, "must not be empty")
	}
	e.Kind = kind

	if raw, ok := tree[element.KeyDepends]; ok {
		list, ok := raw.([]any)
		if !ok {
			return nil, malformed(element.KeyDepends, element.KeyDepends, "expected sequence, got %s", describe(raw))
		}
		for i, item := range list {
			field := fmt.Sprintf("%s[%d]", element.KeyDepends, i)
			dep, err := decodeDependency(item)
			if err != nil {
				return nil, malformed(element.KeyDepends, field, "%v", err)
			}
			dep.Provenance = posOf(winner, element.KeyDepends, field)
			e.Depends = append(e.Depends, dep)
		}
	}

	if raw, ok := tree[element.KeySources]; ok {
		list, ok := raw.([]any)
		if !ok {
			return nil, malformed(element.KeySources, element.KeySources, "expected sequence, got %s", describe(raw))
		}
		for i, item := range list {
			src, err := decodeSource(item)
			if err != nil {
				return nil, malformed(element.KeySources, fmt.Sprintf("%s[%d]", element.KeySources, i), "%v", err)
			}
			e.Sources = append(e.Sources, src)
		}
	}

	vars, err := stringMap(tree[element.KeyVariables])
	if err != nil {
		return nil, malformed(element.KeyVariables, element.KeyVariables, "%v", err)
	}
	e.Variables = vars

	if e.Environment, err = stringMap(tree[element.KeyEnvironment]); err != nil {
		return nil, malformed(element.KeyEnvironment, element.KeyEnvironment, "%v", err)
	}

	if raw, ok := tree[element.KeyEnvironmentNoCache]; ok {
		if e.EnvironmentNoCache, err = stringList(raw); err != nil {
			return nil, malformed(element.KeyEnvironmentNoCache, element.KeyEnvironmentNoCache, "%v", err)
		}
	}

	if raw, ok := tree[element.KeyConfig]; ok {
		e.Config = raw.(map[string]any) // shape checked by Merge
	}

	if raw, ok := tree[element.KeyPublic]; ok {
		public := raw.(map[string]any)
		for _, domain := range slices.Sorted(maps.Keys(public)) {
			data := public[domain]
			if _, ok := data.(map[string]any); !ok {
				field := element.KeyPublic + "." + domain
				return nil, malformed(element.KeyPublic, field, "expected mapping, got %s", describe(data))
			}
		}
		e.Public = public
	}

	if raw, ok := tree[element.KeySandbox]; ok {
		if e.Sandbox, err = decodeSandbox(raw); err != nil {
			return nil, malformed(element.KeySandbox, element.KeySandbox, "%v", err)
		}
	}

	return e, nil
}

func decodeDependency(v any) (element.Dependency, error) {
	switch d := v.(type) {
	case string:
		if d == "" {
			return element.Dependency{}, fmt.Errorf("empty dependency")
		}
		return element.Dependency{Filename: d}, nil

	case map[string]any:
		var dep element.Dependency
		for _, k := range slices.Sorted(maps.Keys(d)) {
			val := d[k]
			s, ok := val.(string)
			if !ok {
				return dep, fmt.Errorf("%s: expected string, got %s", k, describe(val))
			}
			switch k {
			case "filename":
				dep.Filename = s
			case "junction":
				dep.Junction = s
			case "type":
				t, err := element.ParseDepType(s)
				if err != nil {
					return dep, err
				}
				dep.Type = t
			default:
				return dep, fmt.Errorf("unknown dependency key %q", k)
			}
		}
		if dep.Filename == "" {
			return dep, fmt.Errorf("missing required key %q", "filename")
		}
		return dep, nil

	default:
		return element.Dependency{}, fmt.Errorf("expected string or mapping, got %s", describe(v))
	}
}

func decodeSource(v any) (element.Source, error) {
	m, ok := v.(map[string]any)
	if !ok {
		return element.Source{}, fmt.Errorf("expected mapping, got %s", describe(v))
	}
	var src element.Source
	for _, k := range slices.Sorted(maps.Keys(m)) {
		val := m[k]
		switch k {
		case "kind":
			s, ok := val.(string)
			if !ok || s == "" {
				return src, fmt.Errorf("kind: expected non-empty string")
			}
			src.Kind = s
		case "directory":
			s, ok := val.(string)
			if !ok {
				return src, fmt.Errorf("directory: expected string, got %s", describe(val))
			}
			src.Directory = s
		default:
			if src.Config == nil {
				src.Config = make(map[string]any)
			}
			src.Config[k] = val
		}
	}
	if src.Kind == "" {
		return src, fmt.Errorf("missing required key %q", "kind")
	}
	return src, nil
}

// stringMap accepts a mapping of scalars. Numbers and booleans are kept in
// their textual form since variables and environment entries are strings.
func stringMap(v any) (map[string]string, error) {
	if v == nil {
		return nil, nil
	}
	m, ok := v.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("expected mapping, got %s", describe(v))
	}
	out := make(map[string]string, len(m))
	for k, val := range m {
		s, ok := scalarString(val)
		if !ok {
			return nil, fmt.Errorf("%s: expected scalar, got %s", k, describe(val))
		}
		out[k] = s
	}
	return out, nil
}

func scalarString(v any) (string, bool) {
	switch s := v.(type) {
	case string:
		return s, true
	case bool, int, int64, float64:
		return fmt.Sprint(s), true
	default:
		return "", false
	}
}

func decodeSandbox(v any) (element.Sandbox, error) {
	var sb element.Sandbox
	m, ok := v.(map[string]any)
	if !ok {
		return sb, fmt.Errorf("expected mapping, got %s", describe(v))
	}
	for _, k := range slices.Sorted(maps.Keys(m)) {
		val := m[k]
		n, ok := toInt(val)
		if !ok {
			return sb, fmt.Errorf("%s: expected integer, got %s", k, describe(val))
		}
		switch k {
		case "build-uid":
			sb.BuildUID = n
		case "build-gid":
			sb.BuildGID = n
		default:
			return sb, fmt.Errorf("unknown sandbox key %q", k)
		}
	}
	return sb, nil
}

func toInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		if n != float64(int(n)) {
			return 0, false
		}
		return int(n), true
	default:
		return 0, false
	}
}
