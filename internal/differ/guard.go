// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package differ

import (
	"github.com/tfctl/objdiff/internal/tree"
)

// guard walks a whole tree once, tracking the containers on the current
// recursion chain by reference identity. A container met again while still
// on the chain is a cycle. Containers shared by sibling branches are fine.
type guard struct {
	side      Side
	maxDepth  int
	ancestors map[any]struct{}
	stack     []tree.Segment
}

func validate(v tree.Value, base tree.Path, side Side, maxDepth int) error {
	g := &guard{
		side:      side,
		maxDepth:  maxDepth,
		ancestors: make(map[any]struct{}),
		stack:     append([]tree.Segment(nil), base...),
	}
	return g.walk(v, len(base))
}

func (g *guard) walk(v tree.Value, depth int) error {
	if depth > g.maxDepth {
		return &DepthError{Side: g.side, Path: g.path(), Limit: g.maxDepth}
	}

	var id any
	switch v.Kind() {
	case tree.KindMapping:
		id = v.Mapping()
	case tree.KindSequence:
		id = v.Sequence()
	default:
		return nil
	}

	if _, seen := g.ancestors[id]; seen {
		return &CycleError{Side: g.side, Path: g.path()}
	}
	g.ancestors[id] = struct{}{}
	defer delete(g.ancestors, id)

	if m := v.Mapping(); m != nil {
		for k, child := range m.All() {
			if err := g.descend(tree.Key(k), child, depth); err != nil {
				return err
			}
		}
		return nil
	}

	for i, child := range v.Sequence().All() {
		if err := g.descend(tree.Index(i), child, depth); err != nil {
			return err
		}
	}
	return nil
}

func (g *guard) descend(seg tree.Segment, child tree.Value, depth int) error {
	g.stack = append(g.stack, seg)
	err := g.walk(child, depth+1)
	g.stack = g.stack[:len(g.stack)-1]
	return err
}

func (g *guard) path() tree.Path {
	out := make(tree.Path, len(g.stack))
	copy(out, g.stack)
	return out
}
