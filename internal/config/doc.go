// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package config provides loading and typed accessors for objdiff's user
// configuration. The configuration is a YAML document located in the user's
// configuration directory, typically:
//   - Linux: $XDG_CONFIG_HOME/objdiff.yaml or $HOME/.config/objdiff.yaml
//   - macOS: $HOME/Library/Application Support/objdiff.yaml
//   - Windows: %APPDATA%/objdiff.yaml
//
// OBJDIFF_CFG_FILE overrides the location. Keys are looked up by dotted path,
// first under the current Namespace (the running command) and then bare, so
// "diff.output" beats "output" while running objdiff diff.
package config
