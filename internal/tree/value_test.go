// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package tree

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMappingKeepsInsertionOrder(t *testing.T) {
	m := NewMapping().
		Set("zeta", Number(1)).
		Set("alpha", Number(2)).
		Set("mid", Number(3))

	// Overwrite keeps the original slot.
	m.Set("zeta", Number(9))

	assert.Equal(t, []string{"zeta", "alpha", "mid"}, m.Keys())
	v, ok := m.Get("zeta")
	require.True(t, ok)
	assert.Equal(t, 9.0, v.AsNumber())
	assert.Equal(t, 3, m.Len())
	assert.False(t, m.Has("nope"))
}

func TestZeroValueIsAbsent(t *testing.T) {
	var v Value
	assert.True(t, v.IsAbsent())
	assert.Equal(t, KindAbsent, v.Kind())
	assert.Equal(t, "", v.String())
	assert.False(t, Null().IsAbsent())
}

func TestValueString(t *testing.T) {
	tests := []struct {
		name string
		v    Value
		want string
	}{
		{name: "null", v: Null(), want: "null"},
		{name: "undefined", v: Undefined(), want: "null"},
		{name: "bool", v: Bool(true), want: "true"},
		{name: "integer", v: Number(42), want: "42"},
		{name: "float", v: Number(1.5), want: "1.5"},
		{name: "nan", v: Number(math.NaN()), want: `"NaN"`},
		{name: "inf", v: Number(math.Inf(-1)), want: `"-Inf"`},
		{name: "string", v: String(`a"b`), want: `"a\"b"`},
		{name: "empty mapping", v: Map(nil), want: "{}"},
		{name: "empty sequence", v: Seq(nil), want: "[]"},
		{
			name: "ordered mapping",
			v: Map(NewMapping().
				Set("b", Number(1)).
				Set("a", Seq(NewSequence(String("x"), Null())))),
			want: `{"b":1,"a":["x",null]}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.v.String())
		})
	}
}

func TestSequenceAll(t *testing.T) {
	s := NewSequence(Number(1), Number(2), Number(3))
	var seen []float64
	for i, v := range s.All() {
		if i == 2 {
			break
		}
		seen = append(seen, v.AsNumber())
	}
	assert.Equal(t, []float64{1, 2}, seen)
	assert.Equal(t, 3, s.Len())
}

func TestValueText(t *testing.T) {
	assert.Equal(t, `a"b`, String(`a"b`).Text())
	assert.Equal(t, "undefined", Undefined().Text())
	assert.Equal(t, "null", Null().Text())
	assert.Equal(t, "3", Number(3).Text())
	assert.Equal(t, `{"k":"v"}`, Map(NewMapping().Set("k", String("v"))).Text())
	assert.Equal(t, "", Value{}.Text())
}
