// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

// no-cloc
package differ

import (
	"embed"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/tfctl/objdiff/internal/tree"
)

//go:embed testdata/*.yaml
var testDataFS embed.FS

// pairCase is a pair of documents from testdata/pairs.yaml.
type pairCase struct {
	Name  string `yaml:"name"`
	Left  any    `yaml:"left"`
	Right any    `yaml:"right"`
}

func loadPairs(t *testing.T) []pairCase {
	t.Helper()
	data, err := testDataFS.ReadFile("testdata/pairs.yaml")
	require.NoError(t, err)

	var pairs []pairCase
	require.NoError(t, yaml.Unmarshal(data, &pairs))
	require.NotEmpty(t, pairs)
	return pairs
}

func TestProperties(t *testing.T) {
	for _, pc := range loadPairs(t) {
		left, err := tree.FromAny(pc.Left)
		require.NoError(t, err)
		right, err := tree.FromAny(pc.Right)
		require.NoError(t, err)

		t.Run(pc.Name+"/reflexive", func(t *testing.T) {
			for _, v := range []tree.Value{left, right} {
				got, err := Compare(v, v)
				require.NoError(t, err)
				assert.Empty(t, got)
			}
		})

		t.Run(pc.Name+"/symmetric", func(t *testing.T) {
			forward, err := Compare(left, right)
			require.NoError(t, err)
			backward, err := Compare(right, left)
			require.NoError(t, err)
			require.Len(t, backward, len(forward))

			byPath := make(map[string]Difference, len(backward))
			for _, d := range backward {
				byPath[d.Path.String()] = d
			}

			for _, f := range forward {
				b, ok := byPath[f.Path.String()]
				require.True(t, ok, "missing %s in reverse", f.Path)
				switch f.Kind {
				case Added:
					assert.Equal(t, Removed, b.Kind)
					assert.Equal(t, f.After.String(), b.Before.String())
				case Removed:
					assert.Equal(t, Added, b.Kind)
					assert.Equal(t, f.Before.String(), b.After.String())
				case Modified:
					assert.Equal(t, Modified, b.Kind)
					assert.Equal(t, f.Before.String(), b.After.String())
					assert.Equal(t, f.After.String(), b.Before.String())
				}
			}
		})

		t.Run(pc.Name+"/deterministic", func(t *testing.T) {
			first, err := Compare(left, right)
			require.NoError(t, err)
			for i := 0; i < 5; i++ {
				again, err := Compare(left, right)
				require.NoError(t, err)
				assert.Equal(t, flatten(first), flatten(again))
			}
		})

		t.Run(pc.Name+"/no overlap", func(t *testing.T) {
			got, err := Compare(left, right)
			require.NoError(t, err)
			for i := range got {
				for j := range got {
					if i != j {
						assert.False(t, got[i].Path.HasPrefix(got[j].Path),
							"%s overlaps %s", got[i].Path, got[j].Path)
					}
				}
			}
		})

		t.Run(pc.Name+"/sequences are atomic", func(t *testing.T) {
			got, err := Compare(left, right)
			require.NoError(t, err)
			for _, d := range got {
				for _, seg := range d.Path {
					assert.False(t, seg.IsIndex(), "record inside a sequence at %s", d.Path)
				}
			}
		})
	}
}
