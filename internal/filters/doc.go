// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package filters selects difference records with --filter expressions.
//
// Filters are key-operator-target expressions combined with a configurable
// delimiter (default: comma, override with OBJDIFF_FILTER_DELIM). A record is
// kept when it matches every filter.
//
// Operators, each negatable with a leading !:
//
//   - = : exact match
//   - ^ : prefix match
//   - ~ : case-insensitive match
//   - < : less than (numeric when both sides are numbers)
//   - > : greater than (numeric when both sides are numbers)
//   - @ : substring, or membership for mapping keys and sequence elements
//   - / : regular expression match
//
// Keys:
//
//   - kind   : added, removed or modified
//   - path   : the dotted record path
//   - depth  : the number of path segments
//   - before : the left value; absent values never match
//   - after  : the right value; absent values never match
//
// Examples:
//
//   - "kind=modified" : only changed values
//   - "path^spec.containers" : records under spec.containers
//   - "kind!=added,depth<3" : shallow removals and modifications
//   - "after@debug" : right values mentioning debug
package filters
