// This file contains the logic for converting cty values into the plain Go
// trees the composer merges.

package hcl_adapter

import (
	"fmt"
	"math/big"

	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
	"github.com/zclconf/go-cty/cty/gocty"
)

// ctyToNative recursively converts a cty.Value to its most natural Go counterpart.
func ctyToNative(v cty.Value) (any, error) {
	// A nil or unknown value becomes a nil interface{}.
	if v.IsNull() || !v.IsKnown() {
		return nil, nil
	}

	ty := v.Type()

	switch {
	case ty == cty.String:
		return v.AsString(), nil

	case ty == cty.Number:
		// Integral numbers become int so that they read back the way a YAML
		// declaration of the same value would.
		bf := v.AsBigFloat()
		if bf.IsInt() {
			if i, acc := bf.Int64(); acc == big.Exact {
				return int(i), nil
			}
		}
		var f float64
		if err := gocty.FromCtyValue(v, &f); err != nil {
			return nil, fmt.Errorf("could not convert cty.Number to float64: %w", err)
		}
		return f, nil

	case ty == cty.Bool:
		return v.True(), nil

	case ty.IsListType() || ty.IsTupleType() || ty.IsSetType():
		slice := make([]any, 0, v.LengthInt())
		it := v.ElementIterator()
		for it.Next() {
			_, val := it.Element()
			nativeVal, err := ctyToNative(val)
			if err != nil {
				return nil, err
			}
			slice = append(slice, nativeVal)
		}
		return slice, nil

	case ty.IsObjectType() || ty.IsMapType():
		goMap := make(map[string]any)
		it := v.ElementIterator()
		for it.Next() {
			key, val := it.Element()
			keyStr := key.AsString()
			nativeVal, err := ctyToNative(val)
			if err != nil {
				return nil, fmt.Errorf("in attribute '%s': %w", keyStr, err)
			}
			goMap[keyStr] = nativeVal
		}
		return goMap, nil

	default:
		return nil, fmt.Errorf("unsupported value type %s", ty.FriendlyName())
	}
}

// ctyToStringMap converts an object or map of primitives into a mapping of
// strings, as variables and environment entries are strings.
func ctyToStringMap(v cty.Value) (map[string]any, error) {
	ty := v.Type()
	if !ty.IsObjectType() && !ty.IsMapType() {
		return nil, fmt.Errorf("expected an object, got %s", ty.FriendlyName())
	}
	out := make(map[string]any)
	it := v.ElementIterator()
	for it.Next() {
		key, val := it.Element()
		s, err := convert.Convert(val, cty.String)
		if err != nil || s.IsNull() {
			return nil, fmt.Errorf("in attribute '%s': expected a string, got %s", key.AsString(), val.Type().FriendlyName())
		}
		out[key.AsString()] = s.AsString()
	}
	return out, nil
}

// ctyToStringList converts a list or tuple of strings.
func ctyToStringList(v cty.Value) ([]any, error) {
	l, err := convert.Convert(v, cty.List(cty.String))
	if err != nil {
		return nil, fmt.Errorf("expected a list of strings, got %s", v.Type().FriendlyName())
	}
	out := make([]any, 0, l.LengthInt())
	for it := l.ElementIterator(); it.Next(); {
		_, s := it.Element()
		if s.IsNull() {
			return nil, fmt.Errorf("list elements must not be null")
		}
		out = append(out, s.AsString())
	}
	return out, nil
}
