// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package loader reads documents and parses them into tree values.
//
// A source spec is one of:
//   - "-": standard input
//   - "s3://bucket/key" or "s3://bucket/key?versionId=ID": an S3 object
//   - anything else: a local file path
//
// The format is JSON, YAML or HCL, either forced with WithFormat or detected
// from the extension (.json, .yaml, .yml, .hcl, .tfvars) and, failing that,
// from the first non-blank byte. JSON and YAML keep document key order. HCL
// keeps the source order of attributes and blocks in a body; object values
// come out in cty's sorted key order.
//
// Failures are reported as *ReadError when the bytes could not be obtained and
// as *ParseError when they could not be understood, so callers can tell
// unreadable inputs apart from comparison failures.
package loader
