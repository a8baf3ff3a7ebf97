// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package tree

import (
	"bytes"
	"encoding/json"
	"iter"
	"math"
	"strconv"
)

// Kind is the tag of a Value.
type Kind int

const (
	KindAbsent Kind = iota
	KindMapping
	KindSequence
	KindScalar
)

func (k Kind) String() string {
	switch k {
	case KindMapping:
		return "mapping"
	case KindSequence:
		return "sequence"
	case KindScalar:
		return "scalar"
	default:
		return "absent"
	}
}

// ScalarKind discriminates scalar leaves.
type ScalarKind int

const (
	ScalarNull ScalarKind = iota
	ScalarUndefined
	ScalarBool
	ScalarNumber
	ScalarString
)

func (k ScalarKind) String() string {
	switch k {
	case ScalarNull:
		return "null"
	case ScalarUndefined:
		return "undefined"
	case ScalarBool:
		return "bool"
	case ScalarNumber:
		return "number"
	default:
		return "string"
	}
}

// Value is a node of a document tree. The zero Value is absent.
type Value struct {
	kind Kind
	m    *Mapping
	s    *Sequence

	scalar ScalarKind
	b      bool
	n      float64
	str    string
}

// Null returns the null scalar.
func Null() Value { return Value{kind: KindScalar, scalar: ScalarNull} }

// Undefined returns the undefined scalar sentinel.
func Undefined() Value { return Value{kind: KindScalar, scalar: ScalarUndefined} }

// Bool returns a boolean scalar.
func Bool(b bool) Value { return Value{kind: KindScalar, scalar: ScalarBool, b: b} }

// Number returns a numeric scalar. All numbers are held as float64.
func Number(n float64) Value { return Value{kind: KindScalar, scalar: ScalarNumber, n: n} }

// String returns a string scalar.
func String(s string) Value { return Value{kind: KindScalar, scalar: ScalarString, str: s} }

// Map wraps a Mapping. A nil mapping yields an empty one.
func Map(m *Mapping) Value {
	if m == nil {
		m = NewMapping()
	}
	return Value{kind: KindMapping, m: m}
}

// Seq wraps a Sequence. A nil sequence yields an empty one.
func Seq(s *Sequence) Value {
	if s == nil {
		s = NewSequence()
	}
	return Value{kind: KindSequence, s: s}
}

// Kind returns the tag of v.
func (v Value) Kind() Kind { return v.kind }

// IsAbsent reports whether v is the zero Value.
func (v Value) IsAbsent() bool { return v.kind == KindAbsent }

// Mapping returns the underlying mapping or nil when v is not a mapping.
func (v Value) Mapping() *Mapping { return v.m }

// Sequence returns the underlying sequence or nil when v is not a sequence.
func (v Value) Sequence() *Sequence { return v.s }

// ScalarKind returns the scalar tag. It is only meaningful for scalars.
func (v Value) ScalarKind() ScalarKind { return v.scalar }

// AsBool returns the boolean payload.
func (v Value) AsBool() bool { return v.b }

// AsNumber returns the numeric payload.
func (v Value) AsNumber() float64 { return v.n }

// AsString returns the string payload.
func (v Value) AsString() string { return v.str }

// String renders v as compact JSON. Absent renders as the empty string.
func (v Value) String() string {
	if v.IsAbsent() {
		return ""
	}
	b, err := json.Marshal(v)
	if err != nil {
		return "<" + err.Error() + ">"
	}
	return string(b)
}

// Text renders v for people: strings without quotes, undefined as
// "undefined", everything else as compact JSON.
func (v Value) Text() string {
	if v.kind == KindScalar {
		switch v.scalar {
		case ScalarString:
			return v.str
		case ScalarUndefined:
			return "undefined"
		}
	}
	return v.String()
}

// MarshalJSON encodes v keeping mapping key order. Undefined encodes as null
// and non-finite numbers as strings since JSON has no literal for them. The
// tree must be acyclic.
func (v Value) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	if err := v.encodeJSON(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (v Value) encodeJSON(buf *bytes.Buffer) error {
	switch v.kind {
	case KindMapping:
		buf.WriteByte('{')
		i := 0
		for k, child := range v.m.All() {
			if i > 0 {
				buf.WriteByte(',')
			}
			i++
			kb, _ := json.Marshal(k)
			buf.Write(kb)
			buf.WriteByte(':')
			if err := child.encodeJSON(buf); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
	case KindSequence:
		buf.WriteByte('[')
		for i, child := range v.s.All() {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := child.encodeJSON(buf); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
	case KindScalar:
		switch v.scalar {
		case ScalarBool:
			buf.WriteString(strconv.FormatBool(v.b))
		case ScalarNumber:
			if math.IsNaN(v.n) || math.IsInf(v.n, 0) {
				buf.WriteString(strconv.Quote(strconv.FormatFloat(v.n, 'g', -1, 64)))
				break
			}
			b, err := json.Marshal(v.n)
			if err != nil {
				return err
			}
			buf.Write(b)
		case ScalarString:
			b, err := json.Marshal(v.str)
			if err != nil {
				return err
			}
			buf.Write(b)
		default:
			buf.WriteString("null")
		}
	default:
		buf.WriteString("null")
	}
	return nil
}

// Mapping is an insertion-ordered set of string keys to values.
type Mapping struct {
	keys []string
	vals map[string]Value
}

// NewMapping returns an empty mapping.
func NewMapping() *Mapping {
	return &Mapping{vals: make(map[string]Value)}
}

// Set stores v under k. Overwriting a key keeps its original position.
func (m *Mapping) Set(k string, v Value) *Mapping {
	if _, ok := m.vals[k]; !ok {
		m.keys = append(m.keys, k)
	}
	m.vals[k] = v
	return m
}

// Get returns the value under k.
func (m *Mapping) Get(k string) (Value, bool) {
	v, ok := m.vals[k]
	return v, ok
}

// Has reports whether k is present.
func (m *Mapping) Has(k string) bool {
	_, ok := m.vals[k]
	return ok
}

// Len returns the number of keys.
func (m *Mapping) Len() int { return len(m.keys) }

// Keys returns a copy of the keys in insertion order.
func (m *Mapping) Keys() []string {
	out := make([]string, len(m.keys))
	copy(out, m.keys)
	return out
}

// All iterates keys and values in insertion order.
func (m *Mapping) All() iter.Seq2[string, Value] {
	return func(yield func(string, Value) bool) {
		for _, k := range m.keys {
			if !yield(k, m.vals[k]) {
				return
			}
		}
	}
}

// Sequence is an ordered list of values.
type Sequence struct {
	items []Value
}

// NewSequence returns a sequence holding items.
func NewSequence(items ...Value) *Sequence {
	s := &Sequence{items: make([]Value, 0, len(items))}
	s.items = append(s.items, items...)
	return s
}

// Append adds v at the end.
func (s *Sequence) Append(v Value) *Sequence {
	s.items = append(s.items, v)
	return s
}

// Len returns the number of items.
func (s *Sequence) Len() int { return len(s.items) }

// At returns the item at index i. It panics when i is out of range.
func (s *Sequence) At(i int) Value { return s.items[i] }

// All iterates indexes and items in order.
func (s *Sequence) All() iter.Seq2[int, Value] {
	return func(yield func(int, Value) bool) {
		for i, v := range s.items {
			if !yield(i, v) {
				return
			}
		}
	}
}
