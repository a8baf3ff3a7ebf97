// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	altsrc "github.com/urfave/cli-altsrc/v3"
	yaml "github.com/urfave/cli-altsrc/v3/yaml"
	"github.com/urfave/cli/v3"
)

// NewGlobalFlags returns the flags shared by every command that compares
// documents. ns is the command name and cfgFile the loaded config file; when
// both are given, string flags fall back to "ns.flag" and then "flag" in the
// config file.
func NewGlobalFlags(params ...string) (flags []cli.Flag) {
	stringFlags := []*cli.StringFlag{
		{
			Name:    "filter",
			Aliases: []string{"f"},
			Usage:   "comma-separated list of filters to apply to differences",
			Sources: cli.NewValueSourceChain(cli.EnvVar("OBJDIFF_FILTER")),
			Validator: func(value string) error {
				return FlagValidators(value, FilterValidator)
			},
		},
		{
			Name:    "format",
			Aliases: []string{"F"},
			Usage:   "input format: auto, json, yaml or hcl",
			Value:   "auto",
			Sources: cli.NewValueSourceChain(cli.EnvVar("OBJDIFF_FORMAT")),
			Validator: func(value string) error {
				return FlagValidators(value, FormatValidator)
			},
		},
		{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "output format: text, json, yaml, raw or delta",
			Value:   "text",
			Sources: cli.NewValueSourceChain(cli.EnvVar("OBJDIFF_OUTPUT")),
			Validator: func(value string) error {
				return FlagValidators(value, OutputValidator)
			},
		},
		{
			Name:    "root",
			Aliases: []string{"r"},
			Usage:   "dotted path of the sub-document to compare, e.g. spec.containers[0]",
		},
		{
			Name:    "sort",
			Aliases: []string{"s"},
			Usage:   "comma-separated list of fields to sort differences by",
			Sources: cli.NewValueSourceChain(cli.EnvVar("OBJDIFF_SORT")),
			Validator: func(value string) error {
				return FlagValidators(value, SortValidator)
			},
		},
		{
			Name:    "profile",
			Usage:   "AWS shared config profile for s3:// sources",
			Sources: cli.NewValueSourceChain(cli.EnvVar("AWS_PROFILE")),
		},
		{
			Name:    "region",
			Usage:   "AWS region for s3:// sources",
			Sources: cli.NewValueSourceChain(cli.EnvVar("AWS_REGION")),
		},
		{
			Name:    "endpoint",
			Usage:   "S3 compatible endpoint URL for s3:// sources",
			Sources: cli.NewValueSourceChain(cli.EnvVar("OBJDIFF_S3_ENDPOINT")),
		},
	}

	for _, f := range stringFlags {
		if len(params) == 2 && params[1] != "" {
			f = NameSpacedValueChainFlagFromConfigFile(params[0], params[1], f)
		}
		flags = append(flags, f)
	}

	flags = append(flags,
		&cli.BoolFlag{
			Name:    "color",
			Aliases: []string{"c"},
			Usage:   "enable colored text output",
			Value:   false,
		},
		&cli.BoolFlag{
			Name:    "exit-code",
			Aliases: []string{"e"},
			Usage:   "exit with status 1 when differences are found",
			Value:   false,
		},
		&cli.IntFlag{
			Name:  "max-depth",
			Usage: "deepest nesting accepted before giving up",
		},
		&cli.BoolFlag{
			Name:    "titles",
			Aliases: []string{"t"},
			Usage:   "show titles with text output",
			Value:   false,
		},
	)

	return
}

// NameSpacedValueChainFlagFromConfigFile adds namespaced and global config file
// sources to the given flag's Sources chain.
func NameSpacedValueChainFlagFromConfigFile(ns string, path string, flag *cli.StringFlag) *cli.StringFlag {
	src := yaml.YAML(ns+"."+flag.Name, altsrc.StringSourcer(path))
	flag.Sources.Chain = append(flag.Sources.Chain, src)

	src = yaml.YAML(flag.Name, altsrc.StringSourcer(path))
	flag.Sources.Chain = append(flag.Sources.Chain, src)

	return flag
}
