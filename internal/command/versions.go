// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/apex/log"
	"github.com/dustin/go-humanize"
	"github.com/urfave/cli/v3"

	"github.com/tfctl/objdiff/internal/config"
	"github.com/tfctl/objdiff/internal/differ"
	"github.com/tfctl/objdiff/internal/loader"
	"github.com/tfctl/objdiff/internal/meta"
)

// selectVersions is swapped out by tests.
var selectVersions = differ.SelectVersions

// versionsCommandAction is the action handler for the "versions" subcommand.
// It diffs two versions of one S3 object, picked by flag or interactively.
func versionsCommandAction(ctx context.Context, cmd *cli.Command) error {
	m := GetMeta(cmd)
	log.Debugf("Executing action for %v", m.Args[1:])

	config.Config.Namespace = "versions"

	if cmd.NArg() != 1 {
		return fmt.Errorf("versions needs exactly one s3:// URI, got %d arguments", cmd.NArg())
	}
	src, err := loader.ParseSource(cmd.Args().First())
	if err != nil {
		return err
	}
	if src.Kind != loader.SourceS3 {
		return fmt.Errorf("%s is not an s3:// URI", src.Spec)
	}

	ld, err := newLoader(cmd, m)
	if err != nil {
		return err
	}

	defer func() {
		if err := loader.PurgeCache(); err != nil {
			log.WithError(err).Warnf("cache purge failed")
		}
	}()

	versions, err := ld.ListVersions(ctx, src.Spec)
	if err != nil {
		return err
	}

	if cmd.Bool("list") {
		writeVersions(m.Stdout, versions)
		return nil
	}

	leftID, rightID, err := pickVersions(cmd, versions)
	if err != nil || leftID == "" {
		return err
	}
	log.Debugf("comparing versions %s and %s", leftID, rightID)

	left, right, err := loadPair(ctx, ld, src.WithVersion(leftID), src.WithVersion(rightID))
	if err != nil {
		return err
	}
	return compareAndRender(cmd, m, left, right)
}

// pickVersions resolves the two version ids. A single flag is paired with the
// latest version. With no flags the user picks in a TUI; an empty leftID means
// the user quit.
func pickVersions(cmd *cli.Command, versions []loader.ObjectVersion) (leftID, rightID string, err error) {
	leftID, rightID = cmd.String("left-version"), cmd.String("right-version")

	if leftID != "" || rightID != "" {
		if len(versions) == 0 {
			return "", "", fmt.Errorf("object has no versions")
		}
		if leftID == "" {
			leftID = versions[0].ID
		}
		if rightID == "" {
			rightID = versions[0].ID
		}
		for _, id := range []string{leftID, rightID} {
			if !hasVersion(versions, id) {
				return "", "", fmt.Errorf("version %q not found", id)
			}
		}
		return leftID, rightID, nil
	}

	if len(versions) < 2 {
		return "", "", fmt.Errorf("object has %d version(s), need at least two to compare", len(versions))
	}

	choices := make([]differ.Choice, 0, len(versions))
	for _, v := range versions {
		choices = append(choices, differ.Choice{ID: v.ID, Detail: versionDetail(v)})
	}
	picked, err := selectVersions(choices)
	if err != nil {
		return "", "", err
	}
	if len(picked) != 2 {
		return "", "", nil
	}
	return picked[0].ID, picked[1].ID, nil
}

func hasVersion(versions []loader.ObjectVersion, id string) bool {
	for _, v := range versions {
		if v.ID == id {
			return true
		}
	}
	return false
}

func versionDetail(v loader.ObjectVersion) string {
	detail := fmt.Sprintf("%-16s %8s", humanize.Time(v.LastModified), humanize.Bytes(uint64(max(v.Size, 0))))
	if v.IsLatest {
		detail += "  latest"
	}
	return detail
}

func writeVersions(w io.Writer, versions []loader.ObjectVersion) {
	if w == nil {
		w = os.Stdout
	}
	for _, v := range versions {
		fmt.Fprintf(w, "%s  %s\n", v.ID, versionDetail(v))
	}
}

// versionsCommandBuilder constructs the cli.Command for "versions".
func versionsCommandBuilder(meta meta.Meta) *cli.Command {
	return &cli.Command{
		Name:      "versions",
		Usage:     "compare two versions of an S3 object",
		UsageText: "objdiff versions [options] s3://bucket/key",
		Metadata: map[string]any{
			"meta": meta,
		},
		Flags: append([]cli.Flag{
			&cli.BoolFlag{
				Name:    "list",
				Aliases: []string{"l"},
				Usage:   "list the versions and exit",
			},
			&cli.StringFlag{
				Name:  "left-version",
				Usage: "version id for the left side, latest when only --right-version is given",
			},
			&cli.StringFlag{
				Name:  "right-version",
				Usage: "version id for the right side, latest when only --left-version is given",
			},
		}, NewGlobalFlags("versions", meta.Config.Source)...),
		Action: versionsCommandAction,
	}
}
