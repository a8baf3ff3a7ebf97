// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package differ

import (
	"errors"
	"fmt"

	"github.com/apex/log"
	"github.com/yudai/gojsondiff"
	"github.com/yudai/gojsondiff/formatter"

	"github.com/tfctl/objdiff/internal/tree"
)

// ErrDeltaRoots is returned by Delta when either root is not a mapping.
var ErrDeltaRoots = errors.New("delta output requires both documents to be mappings")

// Delta renders the whole left document annotated with the changes that turn
// it into right, in gojsondiff's ASCII format. It returns "" when the
// documents are equal. Mapping key order is not kept in this view.
func (e *Engine) Delta(left, right tree.Value, coloring bool) (string, error) {
	log.Debugf(">> delta()")

	if err := e.Validate(left, right, nil); err != nil {
		return "", err
	}

	if left.Kind() != tree.KindMapping || right.Kind() != tree.KindMapping {
		return "", ErrDeltaRoots
	}

	ldoc := tree.ToAny(left).(map[string]any)
	rdoc := tree.ToAny(right).(map[string]any)

	delta := gojsondiff.New().CompareObjects(ldoc, rdoc)
	if !delta.Modified() {
		return "", nil
	}

	config := formatter.AsciiFormatterConfig{
		ShowArrayIndex: true,
		Coloring:       coloring,
	}

	out, err := formatter.NewAsciiFormatter(ldoc, config).Format(delta)
	if err != nil {
		return "", fmt.Errorf("failed to format delta: %w", err)
	}
	return out, nil
}
