// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package tree

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPathString(t *testing.T) {
	assert.Equal(t, "", Path{}.String())
	assert.Equal(t, "a.b.2.c", Path{Key("a"), Key("b"), Index(2), Key("c")}.String())
}

func TestPathChildDoesNotAlias(t *testing.T) {
	parent := make(Path, 1, 8)
	parent[0] = Key("root")

	left := parent.Child(Key("left"))
	right := parent.Child(Key("right"))

	assert.Equal(t, "root.left", left.String())
	assert.Equal(t, "root.right", right.String())
	assert.Len(t, parent, 1)
}

func TestPathHasPrefix(t *testing.T) {
	p := Path{Key("a"), Index(0), Key("b")}

	tests := []struct {
		name   string
		prefix Path
		want   bool
	}{
		{name: "root", prefix: Path{}, want: true},
		{name: "self", prefix: p, want: true},
		{name: "ancestor", prefix: Path{Key("a"), Index(0)}, want: true},
		{name: "index is not key", prefix: Path{Key("a"), Key("0")}, want: false},
		{name: "sibling", prefix: Path{Key("x")}, want: false},
		{name: "longer", prefix: Path{Key("a"), Index(0), Key("b"), Key("c")}, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, p.HasPrefix(tt.prefix))
		})
	}
}
