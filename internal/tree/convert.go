// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package tree

import (
	"encoding/json"
	"fmt"
	"reflect"
	"sort"
)

// FromAny converts plain Go data, as produced by encoding/json, yaml or
// hand-written literals, into a Value. Maps and slices that appear more than
// once, including a map that contains itself, convert to the same *Mapping or
// *Sequence so reference structure survives the conversion.
//
// Go maps have no order, so their keys are sorted to keep conversion
// deterministic. Use a loader when document order matters.
func FromAny(v any) (Value, error) {
	c := converter{
		maps: make(map[uintptr]*Mapping),
		seqs: make(map[seqID]*Sequence),
	}
	return c.convert(reflect.ValueOf(v))
}

// MustFromAny is FromAny for literals known to be convertible.
func MustFromAny(v any) Value {
	out, err := FromAny(v)
	if err != nil {
		panic(err)
	}
	return out
}

type seqID struct {
	ptr uintptr
	len int
}

type converter struct {
	maps map[uintptr]*Mapping
	seqs map[seqID]*Sequence
}

func (c converter) convert(rv reflect.Value) (Value, error) {
	if !rv.IsValid() {
		return Null(), nil
	}

	switch x := rv.Interface().(type) {
	case Value:
		return x, nil
	case *Mapping:
		return Map(x), nil
	case *Sequence:
		return Seq(x), nil
	case json.Number:
		f, err := x.Float64()
		if err != nil {
			return Value{}, fmt.Errorf("invalid number %q: %w", x.String(), err)
		}
		return Number(f), nil
	}

	switch rv.Kind() {
	case reflect.Interface, reflect.Pointer:
		if rv.IsNil() {
			return Null(), nil
		}
		return c.convert(rv.Elem())
	case reflect.Bool:
		return Bool(rv.Bool()), nil
	case reflect.String:
		return String(rv.String()), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return Number(float64(rv.Int())), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return Number(float64(rv.Uint())), nil
	case reflect.Float32, reflect.Float64:
		return Number(rv.Float()), nil
	case reflect.Map:
		return c.convertMap(rv)
	case reflect.Slice:
		if rv.IsNil() {
			return Null(), nil
		}
		return c.convertSlice(rv)
	case reflect.Array:
		return c.convertSlice(rv)
	}

	return Value{}, fmt.Errorf("unsupported type %s", rv.Type())
}

func (c converter) convertMap(rv reflect.Value) (Value, error) {
	if rv.IsNil() {
		return Null(), nil
	}
	if m, ok := c.maps[rv.Pointer()]; ok {
		return Map(m), nil
	}

	m := NewMapping()
	c.maps[rv.Pointer()] = m

	type entry struct {
		key string
		val reflect.Value
	}
	entries := make([]entry, 0, rv.Len())
	iter := rv.MapRange()
	for iter.Next() {
		entries = append(entries, entry{key: keyString(iter.Key()), val: iter.Value()})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].key < entries[j].key })

	for _, e := range entries {
		child, err := c.convert(e.val)
		if err != nil {
			return Value{}, fmt.Errorf("key %q: %w", e.key, err)
		}
		m.Set(e.key, child)
	}
	return Map(m), nil
}

func (c converter) convertSlice(rv reflect.Value) (Value, error) {
	var id seqID
	if rv.Kind() == reflect.Slice && rv.Len() > 0 {
		id = seqID{ptr: rv.Pointer(), len: rv.Len()}
		if s, ok := c.seqs[id]; ok {
			return Seq(s), nil
		}
	}

	s := NewSequence()
	if id.ptr != 0 {
		c.seqs[id] = s
	}
	for i := 0; i < rv.Len(); i++ {
		child, err := c.convert(rv.Index(i))
		if err != nil {
			return Value{}, fmt.Errorf("index %d: %w", i, err)
		}
		s.Append(child)
	}
	return Seq(s), nil
}

func keyString(k reflect.Value) string {
	for k.Kind() == reflect.Interface && !k.IsNil() {
		k = k.Elem()
	}
	if k.Kind() == reflect.String {
		return k.String()
	}
	return fmt.Sprint(k.Interface())
}

// ToAny converts v back into plain Go data: map[string]any, []any, float64,
// string, bool and nil. Key order is lost. v must be acyclic.
func ToAny(v Value) any {
	switch v.Kind() {
	case KindMapping:
		out := make(map[string]any, v.m.Len())
		for k, child := range v.m.All() {
			out[k] = ToAny(child)
		}
		return out
	case KindSequence:
		out := make([]any, 0, v.s.Len())
		for _, child := range v.s.All() {
			out = append(out, ToAny(child))
		}
		return out
	case KindScalar:
		switch v.scalar {
		case ScalarBool:
			return v.b
		case ScalarNumber:
			return v.n
		case ScalarString:
			return v.str
		}
	}
	return nil
}
