// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package differ

import (
	"math"

	"github.com/tfctl/objdiff/internal/tree"
)

// Equal reports whether a and b are deeply equal: same kind, mappings with
// the same keys and equal children regardless of key order, sequences of the
// same length with equal items position by position, and strictly equal
// scalars. Both trees must be acyclic; CompareAt guarantees that before it
// calls Equal.
func Equal(a, b tree.Value) bool {
	if a.Kind() != b.Kind() {
		return false
	}

	switch a.Kind() {
	case tree.KindMapping:
		am, bm := a.Mapping(), b.Mapping()
		if am == bm {
			return true
		}
		if am.Len() != bm.Len() {
			return false
		}
		for k, av := range am.All() {
			bv, ok := bm.Get(k)
			if !ok || !Equal(av, bv) {
				return false
			}
		}
		return true

	case tree.KindSequence:
		as, bs := a.Sequence(), b.Sequence()
		if as == bs {
			return true
		}
		if as.Len() != bs.Len() {
			return false
		}
		for i, av := range as.All() {
			if !Equal(av, bs.At(i)) {
				return false
			}
		}
		return true

	case tree.KindScalar:
		return scalarEqual(a, b)
	}

	// Both absent.
	return true
}

// scalarEqual is strict: a string never equals a number, null never equals
// undefined. NaN equals NaN so every value equals itself.
func scalarEqual(a, b tree.Value) bool {
	if a.ScalarKind() != b.ScalarKind() {
		return false
	}

	switch a.ScalarKind() {
	case tree.ScalarBool:
		return a.AsBool() == b.AsBool()
	case tree.ScalarNumber:
		x, y := a.AsNumber(), b.AsNumber()
		return x == y || (math.IsNaN(x) && math.IsNaN(y))
	case tree.ScalarString:
		return a.AsString() == b.AsString()
	}

	// null and undefined carry no payload.
	return true
}
