// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package tree

import (
	"regexp"
	"strconv"
	"strings"
)

var segmentRe = regexp.MustCompile(`^([^\[\]]*)(\[(\d+)\])?$`)

// Lookup navigates v along a dotted spec such as "spec.containers[0].image"
// or "spec.containers.0.image" and returns the value found and its Path. An
// empty spec returns v itself at the root.
func Lookup(v Value, spec string) (Value, Path, bool) {
	var path Path
	if spec == "" || spec == "." {
		return v, path, true
	}

	current := v
	for _, part := range strings.Split(strings.TrimPrefix(spec, "."), ".") {
		matches := segmentRe.FindStringSubmatch(part)
		if matches == nil {
			return Value{}, nil, false
		}

		key := matches[1]
		if key != "" {
			switch current.Kind() {
			case KindMapping:
				next, ok := current.Mapping().Get(key)
				if !ok {
					return Value{}, nil, false
				}
				current = next
				path = path.Child(Key(key))
			case KindSequence:
				// A bare number addresses a sequence position.
				i, err := strconv.Atoi(key)
				if err != nil || i < 0 || i >= current.Sequence().Len() {
					return Value{}, nil, false
				}
				current = current.Sequence().At(i)
				path = path.Child(Index(i))
			default:
				return Value{}, nil, false
			}
		}

		// matches[3] is the optional [n] suffix.
		if matches[3] != "" {
			i, err := strconv.Atoi(matches[3])
			if err != nil || current.Kind() != KindSequence || i >= current.Sequence().Len() {
				return Value{}, nil, false
			}
			current = current.Sequence().At(i)
			path = path.Child(Index(i))
		}

		if key == "" && matches[3] == "" {
			return Value{}, nil, false
		}
	}

	return current, path, true
}
