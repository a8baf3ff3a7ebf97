// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package output

import (
	"fmt"
	"sort"
	"strings"

	"github.com/tfctl/objdiff/internal/differ"
	"github.com/tfctl/objdiff/internal/tree"
)

// SortFields lists the keys SortDifferences understands.
var SortFields = []string{"path", "kind", "depth", "before", "after"}

// SortDifferences orders diffs in place by a comma-separated list of fields.
// A leading "-" sorts a field descending and a leading "!" makes string
// comparison case-sensitive. An empty spec keeps engine order. Ties keep
// their relative order.
func SortDifferences(diffs []differ.Difference, spec string) error {
	type key struct {
		field         string
		ascending     bool
		caseSensitive bool
	}

	var keys []key
	for _, field := range strings.Split(spec, ",") {
		field = strings.TrimSpace(field)
		if field == "" {
			continue
		}
		k := key{ascending: true}
		if strings.HasPrefix(field, "-") {
			field = strings.TrimPrefix(field, "-")
			k.ascending = false
		}
		if strings.HasPrefix(field, "!") {
			field = strings.TrimPrefix(field, "!")
			k.caseSensitive = true
		}
		if !validSortField(field) {
			return fmt.Errorf("unknown sort field %q: must be one of %v", field, SortFields)
		}
		k.field = field
		keys = append(keys, k)
	}
	if len(keys) == 0 {
		return nil
	}

	sort.SliceStable(diffs, func(one, two int) bool {
		for _, k := range keys {
			c := compareField(diffs[one], diffs[two], k.field, k.caseSensitive)
			if c == 0 {
				continue
			}
			if k.ascending {
				return c < 0
			}
			return c > 0
		}
		return false
	})
	return nil
}

func validSortField(field string) bool {
	for _, f := range SortFields {
		if f == field {
			return true
		}
	}
	return false
}

func compareField(one, two differ.Difference, field string, caseSensitive bool) int {
	switch field {
	case "path":
		return comparePaths(one.Path, two.Path, caseSensitive)
	case "depth":
		return len(one.Path) - len(two.Path)
	case "kind":
		return compareStrings(string(one.Kind), string(two.Kind), caseSensitive)
	case "before":
		return compareValues(one.Before, two.Before, caseSensitive)
	case "after":
		return compareValues(one.After, two.After, caseSensitive)
	}
	return 0
}

// comparePaths orders segment by segment. Indexes sort numerically and before
// keys, and a path sorts before its descendants.
func comparePaths(one, two tree.Path, caseSensitive bool) int {
	for i := 0; i < len(one) && i < len(two); i++ {
		a, b := one[i], two[i]
		switch {
		case a.IsIndex() && b.IsIndex():
			if a.Index() != b.Index() {
				return a.Index() - b.Index()
			}
		case a.IsIndex():
			return -1
		case b.IsIndex():
			return 1
		default:
			if c := compareStrings(a.Key(), b.Key(), caseSensitive); c != 0 {
				return c
			}
		}
	}
	return len(one) - len(two)
}

// compareValues puts absent values last, numbers before other values and
// compares the rest by their text.
func compareValues(one, two tree.Value, caseSensitive bool) int {
	switch {
	case one.IsAbsent() && two.IsAbsent():
		return 0
	case one.IsAbsent():
		return 1
	case two.IsAbsent():
		return -1
	}

	oneNum := one.Kind() == tree.KindScalar && one.ScalarKind() == tree.ScalarNumber
	twoNum := two.Kind() == tree.KindScalar && two.ScalarKind() == tree.ScalarNumber
	switch {
	case oneNum && twoNum:
		a, b := one.AsNumber(), two.AsNumber()
		switch {
		case a < b:
			return -1
		case a > b:
			return 1
		}
		return 0
	case oneNum:
		return -1
	case twoNum:
		return 1
	}
	return compareStrings(one.Text(), two.Text(), caseSensitive)
}

func compareStrings(a, b string, caseSensitive bool) int {
	if !caseSensitive {
		a, b = strings.ToLower(a), strings.ToLower(b)
	}
	return strings.Compare(a, b)
}
