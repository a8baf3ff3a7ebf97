// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package loader

import (
	"errors"

	"github.com/tidwall/gjson"

	"github.com/tfctl/objdiff/internal/tree"
)

var errInvalidJSON = errors.New("invalid JSON document")

// parseJSON walks the document with gjson, which visits object members in
// document order. A repeated key keeps its first position and its last value.
func parseJSON(data []byte) (tree.Value, error) {
	if !gjson.ValidBytes(data) {
		return tree.Value{}, errInvalidJSON
	}
	return fromGJSON(gjson.ParseBytes(data)), nil
}

func fromGJSON(r gjson.Result) tree.Value {
	switch {
	case r.IsObject():
		m := tree.NewMapping()
		r.ForEach(func(k, v gjson.Result) bool {
			m.Set(k.String(), fromGJSON(v))
			return true
		})
		return tree.Map(m)
	case r.IsArray():
		s := tree.NewSequence()
		r.ForEach(func(_, v gjson.Result) bool {
			s.Append(fromGJSON(v))
			return true
		})
		return tree.Seq(s)
	}

	switch r.Type {
	case gjson.True:
		return tree.Bool(true)
	case gjson.False:
		return tree.Bool(false)
	case gjson.Number:
		return tree.Number(r.Num)
	case gjson.String:
		return tree.String(r.Str)
	}
	return tree.Null()
}
