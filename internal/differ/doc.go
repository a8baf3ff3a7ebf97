// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package differ computes the structural differences between two document
// trees as a flat list of added, removed and modified records addressed by
// path.
//
// Mappings are compared key by key and descended into. Sequences are atomic:
// any element-wise inequality yields one modified record at the sequence's own
// path. Scalars compare strictly, without type coercion. Records come out in
// left key order followed by keys only present on the right, so the result
// is reproducible for a given pair of inputs.
//
// Both inputs are validated before any record is produced. A tree that refers
// back to one of its ancestors fails with ErrCycleDetected, a tree deeper than
// the engine's limit fails with ErrDepthExceeded, and in both cases no partial
// result is returned.
package differ
