// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package output sorts difference records and renders them as a text table,
// JSON, YAML or raw tab separated lines.
package output
