// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"fmt"
	"slices"

	"github.com/tfctl/objdiff/internal/differ"
	"github.com/tfctl/objdiff/internal/filters"
	"github.com/tfctl/objdiff/internal/loader"
	"github.com/tfctl/objdiff/internal/output"
	"github.com/tfctl/objdiff/internal/tree"
)

type FlagValidatorType func(any) error

func FlagValidators(value any, validators ...FlagValidatorType) error {
	for _, v := range validators {
		if err := v(value); err != nil {
			return err
		}
	}
	return nil
}

// OutputValidator accepts the renderer formats plus "delta".
func OutputValidator(value any) error {
	validOutputFlagValues := append(slices.Clone(output.Formats), "delta")
	s, _ := value.(string)
	if !slices.Contains(validOutputFlagValues, s) {
		return fmt.Errorf("must be one of %v", validOutputFlagValues)
	}
	return nil
}

// FormatValidator accepts the names loader.ParseFormat understands.
func FormatValidator(value any) error {
	s, _ := value.(string)
	_, err := loader.ParseFormat(s)
	return err
}

// FilterValidator rejects filters on unknown keys and broken regexes.
func FilterValidator(value any) error {
	s, _ := value.(string)
	return filters.Check(filters.BuildFilters(s))
}

// SortValidator rejects unknown sort fields.
func SortValidator(value any) error {
	s, _ := value.(string)
	return output.SortDifferences([]differ.Difference{{Path: tree.Path{}}}, s)
}
