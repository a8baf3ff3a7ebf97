// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package loader

import (
	"bytes"
	"fmt"
	"path"
	"strings"
)

// Format names a document syntax.
type Format string

const (
	FormatAuto Format = ""
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatHCL  Format = "hcl"
)

// Formats lists the values accepted by ParseFormat, besides "auto".
var Formats = []Format{FormatJSON, FormatYAML, FormatHCL}

// ParseFormat validates a user supplied format name. "" and "auto" select
// detection.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "auto":
		return FormatAuto, nil
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	case "hcl", "tfvars":
		return FormatHCL, nil
	}
	return FormatAuto, fmt.Errorf("unknown format %q: must be one of auto %v", s, Formats)
}

// detectFormat picks a format from the name's extension and then from the
// content.
func detectFormat(name string, data []byte) Format {
	switch strings.ToLower(path.Ext(name)) {
	case ".json":
		return FormatJSON
	case ".yaml", ".yml":
		return FormatYAML
	case ".hcl", ".tfvars":
		return FormatHCL
	}

	trimmed := bytes.TrimLeft(data, " \t\r\n\ufeff")
	if len(trimmed) > 0 && (trimmed[0] == '{' || trimmed[0] == '[') {
		return FormatJSON
	}
	return FormatYAML
}
