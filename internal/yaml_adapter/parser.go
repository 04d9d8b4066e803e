package yaml_adapter

import (
	"fmt"
	"slices"

	"github.com/vk/bstgraph/internal/element"
	"github.com/vk/bstgraph/internal/loaderr"
	"gopkg.in/yaml.v3"
)

// Parser is the YAML implementation of config.ElementParser.
type Parser struct{}

// NewParser creates a new element parser.
func NewParser() *Parser {
	return &Parser{}
}

// stringValued lists the top-level keys whose scalar values are kept as
// written rather than typed: "1.10" stays "1.10", not 1.1.
var stringValued = []string{element.KeyVariables, element.KeyEnvironment}

// ParseElement decodes one element declaration into a raw layer. Unknown
// top-level keys are rejected here, at the position they appear.
func (p *Parser) ParseElement(origin string, data []byte) (element.Layer, error) {
	layer := element.Layer{
		Fields:    make(map[string]any),
		Origin:    origin,
		Positions: make(map[string]string),
	}

	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return layer, loaderr.Malformed("", "%v", err).At(origin)
	}
	if len(doc.Content) == 0 {
		// Empty file: the composer reports the missing kind.
		return layer, nil
	}

	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return layer, loaderr.Malformed("", "expected a mapping at top level").At(pos(origin, root))
	}

	d := &decoder{origin: origin, positions: layer.Positions}
	for i := 0; i+1 < len(root.Content); i += 2 {
		keyNode, valNode := root.Content[i], root.Content[i+1]
		key := keyNode.Value
		if !slices.Contains(element.Keys, key) {
			return layer, loaderr.Malformed("", "unknown key %q", key).At(pos(origin, keyNode))
		}
		if _, dup := layer.Fields[key]; dup {
			return layer, loaderr.Malformed("", "duplicate key %q", key).At(pos(origin, keyNode))
		}
		d.raw = slices.Contains(stringValued, key)
		v, err := d.decode(key, valNode)
		if err != nil {
			return layer, err
		}
		layer.Fields[key] = v
	}
	return layer, nil
}

func pos(origin string, n *yaml.Node) string {
	return fmt.Sprintf("%s:%d:%d", origin, n.Line, n.Column)
}

// decoder converts a node tree to plain Go values, recording the position of
// every path it visits.
type decoder struct {
	origin    string
	positions map[string]string
	// raw keeps scalars as their source text.
	raw bool
}

func (d *decoder) decode(path string, n *yaml.Node) (any, error) {
	d.positions[path] = pos(d.origin, n)

	switch n.Kind {
	case yaml.AliasNode:
		return d.decode(path, n.Alias)

	case yaml.MappingNode:
		out := make(map[string]any, len(n.Content)/2)
		for i := 0; i+1 < len(n.Content); i += 2 {
			keyNode, valNode := n.Content[i], n.Content[i+1]
			if keyNode.Kind != yaml.ScalarNode {
				return nil, loaderr.Malformed("", "%s: mapping keys must be strings", path).At(pos(d.origin, keyNode))
			}
			key := keyNode.Value
			if _, dup := out[key]; dup {
				return nil, loaderr.Malformed("", "%s: duplicate key %q", path, key).At(pos(d.origin, keyNode))
			}
			v, err := d.decode(path+"."+key, valNode)
			if err != nil {
				return nil, err
			}
			out[key] = v
		}
		return out, nil

	case yaml.SequenceNode:
		out := make([]any, 0, len(n.Content))
		for i, item := range n.Content {
			v, err := d.decode(fmt.Sprintf("%s[%d]", path, i), item)
			if err != nil {
				return nil, err
			}
			out = append(out, v)
		}
		return out, nil

	case yaml.ScalarNode:
		if n.ShortTag() == "!!null" {
			return nil, nil
		}
		if d.raw {
			return n.Value, nil
		}
		var v any
		if err := n.Decode(&v); err != nil {
			return nil, loaderr.Malformed("", "%s: %v", path, err).At(pos(d.origin, n))
		}
		return v, nil

	default:
		return nil, loaderr.Malformed("", "%s: unsupported YAML node", path).At(pos(d.origin, n))
	}
}
