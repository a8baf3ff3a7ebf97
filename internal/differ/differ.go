// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package differ

import (
	"github.com/apex/log"

	"github.com/tfctl/objdiff/internal/tree"
)

// DefaultMaxDepth bounds nesting when no WithMaxDepth option is given.
const DefaultMaxDepth = 10000

// ChangeKind classifies a Difference.
type ChangeKind string

const (
	Added    ChangeKind = "added"
	Removed  ChangeKind = "removed"
	Modified ChangeKind = "modified"
)

// Difference is one divergence between two trees. Before is absent for Added
// records and After is absent for Removed records. For Modified records both
// carry the whole subtree found at Path on each side.
type Difference struct {
	Kind   ChangeKind
	Path   tree.Path
	Before tree.Value
	After  tree.Value
}

// Engine compares trees. The zero Engine is not usable; use New. An Engine
// holds no mutable state and may be shared between goroutines.
type Engine struct {
	maxDepth int
}

// Option customizes an Engine.
type Option func(*Engine)

// WithMaxDepth sets the deepest nesting accepted before ErrDepthExceeded. Non
// positive values keep the default.
func WithMaxDepth(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.maxDepth = n
		}
	}
}

// New returns an Engine configured by opts.
func New(opts ...Option) *Engine {
	e := &Engine{maxDepth: DefaultMaxDepth}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// MaxDepth returns the nesting limit in effect.
func (e *Engine) MaxDepth() int { return e.maxDepth }

var defaultEngine = New()

// Compare diffs left against right from the root using the default engine.
func Compare(left, right tree.Value) ([]Difference, error) {
	return defaultEngine.CompareAt(left, right, nil)
}

// CompareAt diffs left against right under base using the default engine.
func CompareAt(left, right tree.Value, base tree.Path) ([]Difference, error) {
	return defaultEngine.CompareAt(left, right, base)
}

// Compare diffs left against right from the root.
func (e *Engine) Compare(left, right tree.Value) ([]Difference, error) {
	return e.CompareAt(left, right, nil)
}

// CompareAt diffs left against right, prefixing every record's path with
// base. The result is empty, never nil, when the trees are deeply equal. On
// error no records are returned.
func (e *Engine) CompareAt(left, right tree.Value, base tree.Path) ([]Difference, error) {
	if err := e.Validate(left, right, base); err != nil {
		return nil, err
	}

	w := walker{out: make([]Difference, 0)}
	w.diff(left, right, base)

	log.Debugf("compare at %q: %d differences", base.String(), len(w.out))
	return w.out, nil
}

// Validate checks both trees for cycles and excessive depth without diffing
// them.
func (e *Engine) Validate(left, right tree.Value, base tree.Path) error {
	if err := validate(left, base, Left, e.maxDepth); err != nil {
		return err
	}
	return validate(right, base, Right, e.maxDepth)
}

type walker struct {
	out []Difference
}

func (w *walker) diff(left, right tree.Value, path tree.Path) {
	if left.Kind() == tree.KindMapping && right.Kind() == tree.KindMapping {
		w.diffMappings(left.Mapping(), right.Mapping(), path)
		return
	}

	// Sequences, scalars and mismatched kinds are all atomic at this level.
	if !Equal(left, right) {
		w.out = append(w.out, Difference{Kind: Modified, Path: path, Before: left, After: right})
	}
}

func (w *walker) diffMappings(left, right *tree.Mapping, path tree.Path) {
	for k, lv := range left.All() {
		rv, ok := right.Get(k)
		if !ok {
			w.out = append(w.out, Difference{Kind: Removed, Path: path.Child(tree.Key(k)), Before: lv})
			continue
		}
		w.diff(lv, rv, path.Child(tree.Key(k)))
	}

	for k, rv := range right.All() {
		if !left.Has(k) {
			w.out = append(w.out, Difference{Kind: Added, Path: path.Child(tree.Key(k)), After: rv})
		}
	}
}
