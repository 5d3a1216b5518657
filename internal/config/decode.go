// Package config decodes policy and test documents from YAML or JSON
// into frenum's ordered value trees, and from there into the typed
// rules.RawRule and runner.TestCase values the rest of the engine
// consumes.
package config

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/terry-li-hm/frenum/internal/probe"
)

// DecodeYAML parses a YAML document into frenum's value tree:
// *probe.OrderedMap for mappings (preserving key order, unlike
// map[string]any), []any for sequences, and scalars otherwise.
func DecodeYAML(data []byte) (any, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse yaml: %w", err)
	}
	if len(doc.Content) == 0 {
		return nil, nil
	}
	return decodeYAMLNode(doc.Content[0])
}

func decodeYAMLNode(n *yaml.Node) (any, error) {
	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return nil, nil
		}
		return decodeYAMLNode(n.Content[0])
	case yaml.MappingNode:
		m := probe.NewOrderedMap()
		for i := 0; i+1 < len(n.Content); i += 2 {
			key, err := decodeYAMLNode(n.Content[i])
			if err != nil {
				return nil, err
			}
			ks, ok := key.(string)
			if !ok {
				return nil, fmt.Errorf("mapping key at line %d is not a string", n.Content[i].Line)
			}
			val, err := decodeYAMLNode(n.Content[i+1])
			if err != nil {
				return nil, err
			}
			m.Set(ks, val)
		}
		return m, nil
	case yaml.SequenceNode:
		out := make([]any, 0, len(n.Content))
		for _, c := range n.Content {
			v, err := decodeYAMLNode(c)
			if err != nil {
				return nil, err
			}
			out = append(out, v)
		}
		return out, nil
	case yaml.ScalarNode:
		return decodeYAMLScalar(n)
	case yaml.AliasNode:
		return decodeYAMLNode(n.Alias)
	}
	return nil, fmt.Errorf("unsupported yaml node kind at line %d", n.Line)
}

func decodeYAMLScalar(n *yaml.Node) (any, error) {
	switch n.Tag {
	case "!!null":
		return nil, nil
	case "!!bool":
		var b bool
		if err := n.Decode(&b); err != nil {
			return nil, fmt.Errorf("decode bool at line %d: %w", n.Line, err)
		}
		return b, nil
	case "!!int":
		var i int64
		if err := n.Decode(&i); err != nil {
			return nil, fmt.Errorf("decode int at line %d: %w", n.Line, err)
		}
		return float64(i), nil
	case "!!float":
		var f float64
		if err := n.Decode(&f); err != nil {
			return nil, fmt.Errorf("decode float at line %d: %w", n.Line, err)
		}
		return f, nil
	default:
		return n.Value, nil
	}
}

// DecodeJSON parses a JSON document into the same value tree shape as
// DecodeYAML: *probe.OrderedMap for objects, []any for arrays, and
// scalars otherwise.
func DecodeJSON(data []byte) (any, error) {
	v, err := probe.DecodeJSON(data)
	if err != nil {
		return nil, fmt.Errorf("parse json: %w", err)
	}
	return v, nil
}
