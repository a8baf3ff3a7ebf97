// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package loader

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/tfctl/objdiff/internal/tree"
)

// parseYAML decodes the first document into yaml.v3 nodes and converts them
// in document order. Aliases resolve to the same subtree as their anchor; an
// alias that points at one of its own ancestors is rejected.
func parseYAML(data []byte) (tree.Value, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return tree.Value{}, err
	}

	c := yamlConverter{
		active: make(map[*yaml.Node]bool),
		done:   make(map[*yaml.Node]tree.Value),
	}
	return c.convert(&doc)
}

type yamlConverter struct {
	active map[*yaml.Node]bool
	done   map[*yaml.Node]tree.Value
}

func (c yamlConverter) convert(n *yaml.Node) (tree.Value, error) {
	if v, ok := c.done[n]; ok {
		return v, nil
	}
	if c.active[n] {
		return tree.Value{}, fmt.Errorf("line %d: anchor %q is used inside itself", n.Line, n.Anchor)
	}
	c.active[n] = true
	defer delete(c.active, n)

	var (
		v   tree.Value
		err error
	)
	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return tree.Null(), nil
		}
		v, err = c.convert(n.Content[0])
	case yaml.AliasNode:
		v, err = c.convert(n.Alias)
	case yaml.MappingNode:
		v, err = c.mapping(n)
	case yaml.SequenceNode:
		s := tree.NewSequence()
		for _, item := range n.Content {
			child, cerr := c.convert(item)
			if cerr != nil {
				return tree.Value{}, cerr
			}
			s.Append(child)
		}
		v = tree.Seq(s)
	case yaml.ScalarNode:
		v, err = scalarFromYAML(n)
	default:
		// An empty input yields a zero node.
		v = tree.Null()
	}
	if err != nil {
		return tree.Value{}, err
	}

	c.done[n] = v
	return v, nil
}

func (c yamlConverter) mapping(n *yaml.Node) (tree.Value, error) {
	m := tree.NewMapping()
	for i := 0; i+1 < len(n.Content); i += 2 {
		keyNode, valNode := n.Content[i], n.Content[i+1]

		// Merge keys fill in entries not set explicitly, wherever they appear.
		if keyNode.Kind == yaml.ScalarNode && keyNode.ShortTag() == "!!merge" {
			if err := c.merge(m, valNode); err != nil {
				return tree.Value{}, err
			}
			continue
		}

		key, err := c.key(keyNode)
		if err != nil {
			return tree.Value{}, err
		}
		child, err := c.convert(valNode)
		if err != nil {
			return tree.Value{}, err
		}
		m.Set(key, child)
	}
	return tree.Map(m), nil
}

func (c yamlConverter) merge(m *tree.Mapping, n *yaml.Node) error {
	sources := []*yaml.Node{n}
	if n.Kind == yaml.SequenceNode {
		sources = n.Content
	}

	for _, src := range sources {
		v, err := c.convert(src)
		if err != nil {
			return err
		}
		if v.Kind() != tree.KindMapping {
			return fmt.Errorf("line %d: merge value is not a mapping", src.Line)
		}
		for k, child := range v.Mapping().All() {
			if !m.Has(k) {
				m.Set(k, child)
			}
		}
	}
	return nil
}

func (c yamlConverter) key(n *yaml.Node) (string, error) {
	if n.Kind == yaml.ScalarNode {
		return n.Value, nil
	}
	v, err := c.convert(n)
	if err != nil {
		return "", err
	}
	return v.String(), nil
}

func scalarFromYAML(n *yaml.Node) (tree.Value, error) {
	switch n.ShortTag() {
	case "!!null":
		return tree.Null(), nil
	case "!!bool":
		var b bool
		if err := n.Decode(&b); err != nil {
			return tree.Value{}, err
		}
		return tree.Bool(b), nil
	case "!!int", "!!float":
		var f float64
		if err := n.Decode(&f); err != nil {
			return tree.Value{}, err
		}
		return tree.Number(f), nil
	}
	// Strings, timestamps, binary and custom tags keep their literal text.
	return tree.String(n.Value), nil
}
