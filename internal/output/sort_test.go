// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package output

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tfctl/objdiff/internal/differ"
	"github.com/tfctl/objdiff/internal/tree"
)

func paths(diffs []differ.Difference) []string {
	out := make([]string, 0, len(diffs))
	for _, d := range diffs {
		out = append(out, d.Path.String())
	}
	return out
}

func unsorted() []differ.Difference {
	return []differ.Difference{
		{Kind: differ.Removed, Path: tree.Path{tree.Key("b")}, Before: tree.String("Zed")},
		{Kind: differ.Modified, Path: tree.Path{tree.Key("a"), tree.Index(10)}, Before: tree.Number(3), After: tree.Number(4)},
		{Kind: differ.Added, Path: tree.Path{tree.Key("a"), tree.Index(2)}, After: tree.Number(1)},
		{Kind: differ.Modified, Path: tree.Path{tree.Key("B")}, Before: tree.String("alpha"), After: tree.Null()},
	}
}

func TestSortDifferences(t *testing.T) {
	tests := []struct {
		spec string
		want []string
	}{
		{spec: "", want: []string{"b", "a.10", "a.2", "B"}},
		{spec: "path", want: []string{"a.2", "a.10", "b", "B"}},
		{spec: "!path", want: []string{"B", "a.2", "a.10", "b"}},
		{spec: "-path", want: []string{"b", "B", "a.10", "a.2"}},
		{spec: "kind,path", want: []string{"a.2", "a.10", "B", "b"}},
		{spec: "-kind", want: []string{"b", "a.10", "B", "a.2"}},
		{spec: "depth", want: []string{"b", "B", "a.10", "a.2"}},
		{spec: "before", want: []string{"a.10", "B", "b", "a.2"}},
		{spec: " after , path ", want: []string{"a.2", "a.10", "B", "b"}},
	}

	for _, tt := range tests {
		t.Run(tt.spec, func(t *testing.T) {
			diffs := unsorted()
			require.NoError(t, SortDifferences(diffs, tt.spec))
			assert.Equal(t, tt.want, paths(diffs))
		})
	}
}

func TestSortDifferences_UnknownField(t *testing.T) {
	diffs := unsorted()
	err := SortDifferences(diffs, "path,size")
	assert.ErrorContains(t, err, `unknown sort field "size"`)
	assert.Equal(t, []string{"b", "a.10", "a.2", "B"}, paths(diffs), "input untouched on error")
}
