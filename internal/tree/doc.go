// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package tree defines the in-memory document model compared by objdiff.
//
// A Value is a closed tagged union over three kinds:
//
//   - Mapping: string keys to child values. Keys are unique and keep the order
//     in which they were first set, which is normally document order.
//   - Sequence: an ordered, position-significant list of child values.
//   - Scalar: a string, number, boolean, null or the undefined sentinel.
//
// The zero Value is absent. It never appears inside a tree and is used by
// callers to mark a missing side, e.g. the "before" of an added record.
//
// Mappings and sequences are held by reference so a tree built by hand (or
// converted from Go maps and slices with FromAny) may contain itself. Package
// differ rejects such trees; nothing in this package walks a tree without
// being told it is acyclic.
//
// A Path locates a node inside a tree and renders as dot-joined text, e.g.
// "spec.containers.2.image".
package tree
