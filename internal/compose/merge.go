package compose

import (
	"fmt"
	"maps"
	"slices"

	"github.com/vk/bstgraph/internal/element"
)

// Policy is the override rule applied to one class of field when a higher
// layer is merged over a lower one.
type Policy int

const (
	// Replace makes the higher layer's value win wholesale.
	Replace Policy = iota
	// Override merges two flat mappings key by key; the higher layer wins on
	// collision and unmatched keys of both layers are kept.
	Override
	// DeepMerge merges mappings recursively. Lists and scalars are replaced
	// by the higher layer, never concatenated.
	DeepMerge
	// Union merges two string lists into their sorted, de-duplicated union.
	Union
)

func (p Policy) String() string {
	switch p {
	case Replace:
		return "replace"
	case Override:
		return "override"
	case DeepMerge:
		return "deep-merge"
	case Union:
		return "union"
	default:
		return fmt.Sprintf("Policy(%d)", int(p))
	}
}

// shapeError reports a value that does not have the shape a policy needs.
type shapeError struct {
	want string
	got  any
}

func (e *shapeError) Error() string {
	return fmt.Sprintf("expected %s, got %s", e.want, describe(e.got))
}

func describe(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case map[string]any:
		return "mapping"
	case []any:
		return "sequence"
	case string:
		return "string"
	default:
		return fmt.Sprintf("%T", v)
	}
}

// Merge combines a lower and a higher layer's value for one field under the
// given policy. Neither input is modified; the result shares no mutable
// containers with them. A nil low means the field was absent below.
func Merge(p Policy, low, high any) (any, error) {
	switch p {
	case Replace:
		return element.CloneTree(high), nil

	case Override:
		hm, ok := high.(map[string]any)
		if !ok {
			return nil, &shapeError{want: "mapping", got: high}
		}
		out := make(map[string]any)
		if low != nil {
			lm, ok := low.(map[string]any)
			if !ok {
				return nil, &shapeError{want: "mapping", got: low}
			}
			maps.Copy(out, lm)
		}
		maps.Copy(out, hm)
		return out, nil

	case DeepMerge:
		if _, ok := high.(map[string]any); !ok {
			return nil, &shapeError{want: "mapping", got: high}
		}
		if low == nil {
			return element.CloneTree(high), nil
		}
		if _, ok := low.(map[string]any); !ok {
			return nil, &shapeError{want: "mapping", got: low}
		}
		return deepMerge(low, high), nil

	case Union:
		hs, err := stringList(high)
		if err != nil {
			return nil, err
		}
		var ls []string
		if low != nil {
			if ls, err = stringList(low); err != nil {
				return nil, err
			}
		}
		merged := slices.Compact(slices.Sorted(slices.Values(append(ls, hs...))))
		out := make([]any, len(merged))
		for i, s := range merged {
			out[i] = s
		}
		return out, nil

	default:
		return nil, fmt.Errorf("unknown merge policy %v", p)
	}
}

// deepMerge merges two trees. Mappings merge per key; any other pair of
// values resolves to the higher one.
func deepMerge(low, high any) any {
	lm, lok := low.(map[string]any)
	hm, hok := high.(map[string]any)
	if !lok || !hok {
		return element.CloneTree(high)
	}
	out := make(map[string]any, len(lm)+len(hm))
	for k, v := range lm {
		out[k] = element.CloneTree(v)
	}
	for k, hv := range hm {
		if lv, ok := out[k]; ok {
			out[k] = deepMerge(lv, hv)
		} else {
			out[k] = element.CloneTree(hv)
		}
	}
	return out
}

func stringList(v any) ([]string, error) {
	list, ok := v.([]any)
	if !ok {
		return nil, &shapeError{want: "sequence of strings", got: v}
	}
	out := make([]string, 0, len(list))
	for _, item := range list {
		s, ok := item.(string)
		if !ok {
			return nil, &shapeError{want: "sequence of strings", got: item}
		}
		out = append(out, s)
	}
	return out, nil
}
