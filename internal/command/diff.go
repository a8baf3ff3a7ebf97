// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/apex/log"
	"github.com/urfave/cli/v3"
	"golang.org/x/sync/errgroup"

	awsx "github.com/tfctl/objdiff/internal/aws"
	"github.com/tfctl/objdiff/internal/config"
	"github.com/tfctl/objdiff/internal/differ"
	"github.com/tfctl/objdiff/internal/filters"
	"github.com/tfctl/objdiff/internal/loader"
	"github.com/tfctl/objdiff/internal/meta"
	"github.com/tfctl/objdiff/internal/output"
	"github.com/tfctl/objdiff/internal/tree"
)

// ErrDifferences is returned with --exit-code when the documents differ.
var ErrDifferences = errors.New("differences found")

// s3Override replaces the S3 client built from the AWS config chain.
var s3Override loader.S3API

// ExitCode maps an action error to the process exit status: 0 for success, 1
// when --exit-code found differences and 2 for everything else.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, ErrDifferences):
		return 1
	}
	return 2
}

// diffCommandAction is the action handler for the "diff" subcommand. It loads
// both documents concurrently and reports their differences.
func diffCommandAction(ctx context.Context, cmd *cli.Command) error {
	m := GetMeta(cmd)
	log.Debugf("Executing action for %v", m.Args[1:])

	config.Config.Namespace = "diff"

	if cmd.NArg() != 2 {
		return fmt.Errorf("diff needs exactly two documents, got %d", cmd.NArg())
	}
	leftSpec, rightSpec := cmd.Args().Get(0), cmd.Args().Get(1)
	if leftSpec == "-" && rightSpec == "-" {
		return fmt.Errorf("standard input can only be used for one side")
	}

	ld, err := newLoader(cmd, m)
	if err != nil {
		return err
	}

	left, right, err := loadPair(ctx, ld, leftSpec, rightSpec)
	if err != nil {
		return err
	}

	return compareAndRender(cmd, m, left, right)
}

// newLoader builds a loader from the --format and AWS flags.
func newLoader(cmd *cli.Command, m meta.Meta) (*loader.Loader, error) {
	format, err := loader.ParseFormat(cmd.String("format"))
	if err != nil {
		return nil, err
	}

	opts := []loader.Option{
		loader.WithFormat(format),
		loader.WithAWS(
			awsx.WithProfile(cmd.String("profile")),
			awsx.WithRegion(cmd.String("region")),
			awsx.WithEndpoint(cmd.String("endpoint")),
		),
	}
	if m.Stdin != nil {
		opts = append(opts, loader.WithStdin(m.Stdin))
	}
	if s3Override != nil {
		opts = append(opts, loader.WithS3Client(s3Override))
	}
	return loader.New(opts...), nil
}

// loadPair loads both sides in parallel. The first failure cancels the other.
func loadPair(ctx context.Context, ld *loader.Loader, leftSpec, rightSpec string) (left, right tree.Value, err error) {
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var lerr error
		left, lerr = ld.Load(gctx, leftSpec)
		return lerr
	})
	g.Go(func() error {
		var rerr error
		right, rerr = ld.Load(gctx, rightSpec)
		return rerr
	})
	if err := g.Wait(); err != nil {
		return tree.Value{}, tree.Value{}, err
	}
	return left, right, nil
}

// compareAndRender runs the engine over two loaded documents and writes the
// result per the output flags.
func compareAndRender(cmd *cli.Command, m meta.Meta, left, right tree.Value) error {
	w := m.Stdout
	if w == nil {
		w = io.Discard
	}

	left, right, base, err := selectRoot(cmd.String("root"), left, right)
	if err != nil {
		return err
	}

	color := useColor(cmd, w)

	if cmd.String("output") == "delta" {
		engine := differ.New(differ.WithMaxDepth(maxDepth(cmd)))
		delta, err := engine.Delta(left, right, color)
		if err != nil {
			return fmt.Errorf("cannot compare: %w", err)
		}
		if delta == "" {
			fmt.Fprintln(w, output.NoDifferences)
			return nil
		}
		fmt.Fprint(w, delta)
		return exitStatus(cmd, 1)
	}

	diffs, err := differences(cmd, left, right, base)
	if err != nil {
		return err
	}

	if err := output.Render(w, diffs, output.Options{
		Format: cmd.String("output"),
		Color:  color,
		Titles: cmd.Bool("titles"),
	}); err != nil {
		return err
	}

	return exitStatus(cmd, len(diffs))
}

// differences compares from base and applies --filter and --sort.
func differences(cmd *cli.Command, left, right tree.Value, base tree.Path) ([]differ.Difference, error) {
	engine := differ.New(differ.WithMaxDepth(maxDepth(cmd)))

	diffs, err := engine.CompareAt(left, right, base)
	if err != nil {
		return nil, fmt.Errorf("cannot compare: %w", err)
	}

	fs := filters.BuildFilters(cmd.String("filter"))
	if err := filters.Check(fs); err != nil {
		return nil, err
	}
	diffs = filters.Apply(diffs, fs)
	if err := output.SortDifferences(diffs, cmd.String("sort")); err != nil {
		return nil, err
	}
	return diffs, nil
}

func exitStatus(cmd *cli.Command, count int) error {
	if count > 0 && cmd.Bool("exit-code") {
		return ErrDifferences
	}
	return nil
}

// selectRoot narrows both documents to the --root path. Records keep the
// absolute path because the engine is started at base.
func selectRoot(spec string, left, right tree.Value) (tree.Value, tree.Value, tree.Path, error) {
	if spec == "" {
		return left, right, nil, nil
	}

	l, base, ok := tree.Lookup(left, spec)
	if !ok {
		return tree.Value{}, tree.Value{}, nil, fmt.Errorf("root %q not found in left document", spec)
	}
	r, _, ok := tree.Lookup(right, spec)
	if !ok {
		return tree.Value{}, tree.Value{}, nil, fmt.Errorf("root %q not found in right document", spec)
	}
	return l, r, base, nil
}

// maxDepth prefers --max-depth, then compare.max_depth from the config.
func maxDepth(cmd *cli.Command) int {
	if cmd.IsSet("max-depth") {
		return cmd.Int("max-depth")
	}
	depth, err := config.GetInt("compare.max_depth", differ.DefaultMaxDepth)
	if err != nil {
		log.Warnf("ignoring compare.max_depth: %v", err)
		return differ.DefaultMaxDepth
	}
	return depth
}

// useColor prefers --color, then the color config value, which may be "auto"
// to color only when writing to a terminal.
func useColor(cmd *cli.Command, w io.Writer) bool {
	if cmd.IsSet("color") {
		return cmd.Bool("color")
	}
	if s, err := config.GetString("color"); err == nil && s == "auto" {
		return output.AutoColor(w)
	}
	color, _ := config.GetBool("color", false)
	return color
}

// diffCommandBuilder constructs the cli.Command for "diff", wiring metadata,
// flags, and the action handler.
func diffCommandBuilder(meta meta.Meta) *cli.Command {
	return &cli.Command{
		Name:      "diff",
		Usage:     "compare two documents",
		UsageText: "objdiff diff [options] LEFT RIGHT\n\nLEFT and RIGHT are file paths, - for stdin or s3://bucket/key[?versionId=ID].",
		Metadata: map[string]any{
			"meta": meta,
		},
		Flags:  NewGlobalFlags("diff", meta.Config.Source),
		Action: diffCommandAction,
	}
}
