// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package filters

import (
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/apex/log"

	"github.com/tfctl/objdiff/internal/differ"
	"github.com/tfctl/objdiff/internal/tree"
)

// filterRegex is the pattern used to parse filter expressions into key,
// operator, and target components. Operators are one of = ^ ~ < > @ or /,
// optionally prefixed with '!'. Examples: "kind=added", "path^spec.",
// "after!@debug", "depth>2".
var filterRegex = regexp.MustCompile(`^([^!?=^~<>@/]*)(!?[=^~<>@/])?(.*)$`)

// Keys lists the record attributes a filter can test.
var Keys = []string{"kind", "path", "before", "after", "depth"}

// Filter is a single parsed --filter expression including the key, operand,
// optional negation and value to match against.
type Filter struct {
	Key     string `yaml:"key" json:"Key"`
	Negate  bool   `yaml:"negate" json:"Negate"`
	Operand string `yaml:"operand" json:"Operand"`
	Value   string `yaml:"value" json:"Value"`
}

// BuildFilters parses a filter specification string into a slice of Filter.
// Malformed expressions are skipped.
func BuildFilters(spec string) []Filter {
	//nolint:prealloc
	var filters []Filter

	if spec == "" {
		return filters
	}

	// Default delimiter is ",", allow an override for situations where the value
	// contains commas.
	delim := ","
	if d, ok := os.LookupEnv("OBJDIFF_FILTER_DELIM"); ok && d != "" {
		delim = d
	}

	for _, filterSpec := range strings.Split(spec, delim) {
		filterSpec = strings.TrimSpace(filterSpec)
		if filterSpec == "" {
			continue
		}

		parts := filterRegex.FindStringSubmatch(filterSpec)
		if parts == nil {
			log.Error("invalid filter: " + filterSpec)
			continue
		}

		key := strings.TrimSpace(parts[1])
		operand := parts[2]
		if key == "" || operand == "" {
			log.Error("invalid filter: " + filterSpec)
			continue
		}

		negate := strings.HasPrefix(operand, "!")
		filters = append(filters, Filter{
			Key:     key,
			Negate:  negate,
			Operand: strings.TrimPrefix(operand, "!"),
			Value:   parts[3],
		})
	}

	return filters
}

// Check reports the first filter whose key is not one of Keys or whose regex
// does not compile.
func Check(filters []Filter) error {
	for _, f := range filters {
		known := false
		for _, k := range Keys {
			if f.Key == k {
				known = true
				break
			}
		}
		if !known {
			return fmt.Errorf("unknown filter key %q: must be one of %v", f.Key, Keys)
		}
		if f.Operand == "/" {
			if _, err := regexp.Compile(f.Value); err != nil {
				return fmt.Errorf("invalid filter regex %q: %w", f.Value, err)
			}
		}
	}
	return nil
}

// Apply returns the records matching every filter, in their original order.
func Apply(diffs []differ.Difference, filters []Filter) []differ.Difference {
	if len(filters) == 0 {
		return diffs
	}

	kept := make([]differ.Difference, 0, len(diffs))
	for _, d := range diffs {
		if matches(d, filters) {
			kept = append(kept, d)
		}
	}
	return kept
}

// FilterDifferences parses spec and applies it.
func FilterDifferences(diffs []differ.Difference, spec string) []differ.Difference {
	return Apply(diffs, BuildFilters(spec))
}

func matches(d differ.Difference, filters []Filter) bool {
	for _, filter := range filters {
		var ok bool
		switch filter.Key {
		case "kind":
			ok = checkStringOperand(string(d.Kind), filter)
		case "path":
			ok = checkStringOperand(d.Path.String(), filter)
		case "depth":
			ok = checkNumericOperand(float64(len(d.Path)), filter)
		case "before":
			ok = checkValue(d.Before, filter)
		case "after":
			ok = checkValue(d.After, filter)
		default:
			log.Debugf("ignoring filter on unknown key %s", filter.Key)
			continue
		}
		if !ok {
			return false
		}
	}
	return true
}

// checkValue tests a Before or After value. An absent value never matches,
// even a negated filter.
func checkValue(v tree.Value, filter Filter) bool {
	switch {
	case v.IsAbsent():
		return false
	case v.Kind() == tree.KindScalar && v.ScalarKind() == tree.ScalarNumber:
		if _, err := strconv.ParseFloat(strings.TrimSpace(filter.Value), 64); err == nil {
			return checkNumericOperand(v.AsNumber(), filter)
		}
	case v.Kind() != tree.KindScalar && filter.Operand == "@":
		return checkContainsOperand(v, filter)
	case v.Kind() != tree.KindScalar && (filter.Operand == "<" || filter.Operand == ">"):
		// Containers have no order.
		return false
	}
	return checkStringOperand(v.Text(), filter)
}

// checkContainsOperand tests membership: a key of a mapping or the text of a
// sequence element.
func checkContainsOperand(v tree.Value, filter Filter) bool {
	found := false
	switch v.Kind() {
	case tree.KindMapping:
		found = v.Mapping().Has(filter.Value)
	case tree.KindSequence:
		for _, item := range v.Sequence().All() {
			if item.Text() == filter.Value {
				found = true
				break
			}
		}
	default:
		log.Error(fmt.Sprintf("unsupported type for contains filtering: %s", v.Kind()))
		return false
	}
	return found == !filter.Negate
}

// checkNumericOperand compares a numeric value against the filter value using
// numeric semantics. Supported operands: =, >, < and the negated form via
// filter.Negate (e.g., != is represented as Negate + "=").
func checkNumericOperand(value float64, filter Filter) bool {
	tgt, err := strconv.ParseFloat(strings.TrimSpace(filter.Value), 64)
	if err != nil {
		log.Error("invalid numeric value: " + filter.Value)
		return false
	}

	switch filter.Operand {
	case "=":
		return (value == tgt) == !filter.Negate
	case ">":
		return (value > tgt) == !filter.Negate
	case "<":
		return (value < tgt) == !filter.Negate
	default:
		return checkStringOperand(strconv.FormatFloat(value, 'f', -1, 64), filter)
	}
}

// checkStringOperand evaluates a string comparison style filter against the
// provided value using the operand semantics.
func checkStringOperand(value string, filter Filter) bool {
	switch filter.Operand {
	case "=":
		return value == filter.Value == !filter.Negate
	case "~":
		return strings.EqualFold(value, filter.Value) == !filter.Negate
	case "^":
		return strings.HasPrefix(value, filter.Value) == !filter.Negate
	case ">":
		return value > filter.Value == !filter.Negate
	case "<":
		return value < filter.Value == !filter.Negate
	case "@":
		return strings.Contains(value, filter.Value) == !filter.Negate
	case "/":
		matched, err := regexp.MatchString(filter.Value, value)
		if err != nil {
			log.Error("invalid regex: " + filter.Value)
			return false
		}
		return matched == !filter.Negate
	default:
		log.Error("unsupported filtering operand: " + filter.Operand)
		return false
	}
}
