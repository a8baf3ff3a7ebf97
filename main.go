// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/tfctl/objdiff/internal/cacheutil"
	"github.com/tfctl/objdiff/internal/command"
	"github.com/tfctl/objdiff/internal/config"
	"github.com/tfctl/objdiff/internal/log"
	"github.com/tfctl/objdiff/internal/version"
)

var ctx = context.Background()

// boolFlags never take a value. valueFlags always take the next argument,
// even one starting with "-" such as --sort -path.
var (
	boolFlags = map[string]bool{
		"--color": true, "-c": true,
		"--exit-code": true, "-e": true,
		"--help": true, "-h": true,
		"--list": true, "-l": true,
		"--titles": true, "-t": true,
		"--version": true, "-v": true,
	}
	valueFlags = map[string]bool{
		"--endpoint": true,
		"--filter":   true, "-f": true,
		"--format": true, "-F": true,
		"--left-version": true,
		"--max-depth":    true,
		"--output":       true, "-o": true,
		"--profile":       true,
		"--region":        true,
		"--right-version": true,
		"--root":          true, "-r": true,
		"--sort": true, "-s": true,
	}
)

func main() {
	os.Exit(realMain())
}

// handleVersion checks for --version/-v and returns whether it was handled.
func handleVersion(args []string) bool {
	for _, a := range args {
		if a == "--version" || a == "-v" {
			fmt.Println(version.Version)
			return true
		}
	}
	return false
}

// handleNakedCommand appends --help if no command is provided.
func handleNakedCommand(args []string) []string {
	if len(args) <= 1 {
		return append(args, "--help")
	}
	return args
}

// initAndRunApp initializes the app and runs it, returning the exit code.
func initAndRunApp(args []string) int {
	// Pre-create cache directory when caching is enabled.
	if _, _, err := cacheutil.EnsureBaseDir(); err != nil {
		log.Warnf("cache disabled: %v", err)
	}

	app, err := command.InitApp(ctx, args)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		log.Debugf("app init err: err=%v", err)
		return 2
	}

	err = app.Run(ctx, args)
	if err != nil && !errors.Is(err, command.ErrDifferences) {
		fmt.Fprintln(os.Stderr, err)
		log.Debugf("app run err: err=%v", err)
	}
	return command.ExitCode(err)
}

func realMain() int {
	log.InitLogger()

	args := os.Args
	log.Debugf("args captured: args=%v", args)

	if handleVersion(args) {
		return 0
	}

	args = handleNakedCommand(args)

	// If --help appears anywhere, skip argument processing and let the CLI
	// handle it.
	helpFound := false
	for _, a := range args {
		if a == "--help" || a == "-h" {
			helpFound = true
			break
		}
	}

	if !helpFound && len(args) > 1 && args[1] != "completion" {
		args = processSetOnly(args)
		args = deduplicateFlags(args)
		log.Debugf("args after set processing: args=%v", args)
	}

	return initAndRunApp(args)
}

// processSetOnly expands an @set argument in place with the flags configured
// under "<command>.<set>". Only the first @set is honored.
func processSetOnly(args []string) []string {
	if len(args) < 3 {
		return args
	}

	removeIdx := -1
	set := ""
	for i, a := range args[2:] {
		if strings.HasPrefix(a, "@") && len(a) > 1 {
			set = a[1:]
			removeIdx = 2 + i
			break
		}
	}
	if removeIdx == -1 {
		return args
	}

	setArgs, err := config.GetStringSlice(args[1] + "." + set)
	if err != nil {
		log.Warnf("ignoring @%s: %v", set, err)
	}

	var expanded []string
	for _, arg := range setArgs {
		expanded = append(expanded, strings.Fields(arg)...)
	}

	out := make([]string, 0, len(args)-1+len(expanded))
	out = append(out, args[:removeIdx]...)
	out = append(out, expanded...)
	return append(out, args[removeIdx+1:]...)
}

// deduplicateFlags keeps only the last occurrence of each repeated flag, so an
// explicit flag after an @set overrides the set's value. Positional arguments
// are kept in order and everything after "--" is left alone.
func deduplicateFlags(args []string) []string {
	if len(args) <= 2 {
		return args
	}

	type group struct {
		name   string
		tokens []string
	}

	var groups []group
	rest := args[2:]
	for i := 0; i < len(rest); i++ {
		tok := rest[i]
		switch {
		case tok == "--":
			groups = append(groups, group{tokens: rest[i:]})
			i = len(rest)
			continue
		case tok == "-" || !strings.HasPrefix(tok, "-"):
			groups = append(groups, group{tokens: []string{tok}})
			continue
		}

		name, _, hasValue := strings.Cut(tok, "=")
		g := group{name: name, tokens: []string{tok}}
		if !hasValue && !boolFlags[name] && i+1 < len(rest) {
			next := rest[i+1]
			if valueFlags[name] || !strings.HasPrefix(next, "-") {
				g.tokens = append(g.tokens, next)
				i++
			}
		}
		groups = append(groups, g)
	}

	last := map[string]int{}
	for i, g := range groups {
		if g.name != "" {
			last[g.name] = i
		}
	}

	out := append([]string{}, args[:2]...)
	for i, g := range groups {
		if g.name == "" || last[g.name] == i {
			out = append(out, g.tokens...)
		}
	}
	return out
}
