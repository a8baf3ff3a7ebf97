// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package differ

import (
	"errors"
	"fmt"

	"github.com/tfctl/objdiff/internal/tree"
)

var (
	// ErrCycleDetected reports a tree that contains one of its ancestors.
	ErrCycleDetected = errors.New("cycle detected")

	// ErrDepthExceeded reports a tree nested deeper than the engine allows.
	ErrDepthExceeded = errors.New("depth exceeded")
)

// Side names the input an error was found in.
type Side string

const (
	Left  Side = "left"
	Right Side = "right"
)

// CycleError is returned when a mapping or sequence is reachable from itself.
// Path is where the back-reference was found.
type CycleError struct {
	Side Side
	Path tree.Path
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("%v: %s document refers back to an ancestor at %s", ErrCycleDetected, e.Side, displayPath(e.Path))
}

func (e *CycleError) Unwrap() error { return ErrCycleDetected }

// DepthError is returned when nesting goes past Limit. Path is the first node
// found beyond the limit.
type DepthError struct {
	Side  Side
	Path  tree.Path
	Limit int
}

func (e *DepthError) Error() string {
	return fmt.Sprintf("%v: %s document is nested deeper than %d at %s", ErrDepthExceeded, e.Side, e.Limit, displayPath(e.Path))
}

func (e *DepthError) Unwrap() error { return ErrDepthExceeded }

func displayPath(p tree.Path) string {
	if len(p) == 0 {
		return "(root)"
	}
	return p.String()
}
