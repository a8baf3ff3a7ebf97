// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package output

import (
	"encoding/json"
	"fmt"
	"image/color"
	"io"
	"math"
	"os"

	"github.com/apex/log"
	"github.com/charmbracelet/lipgloss/v2"
	"github.com/charmbracelet/lipgloss/v2/table"
	"golang.org/x/term"
	"gopkg.in/yaml.v2"

	"github.com/tfctl/objdiff/internal/config"
	"github.com/tfctl/objdiff/internal/differ"
	"github.com/tfctl/objdiff/internal/tree"
)

// Formats lists the values Render accepts.
var Formats = []string{"text", "json", "yaml", "raw"}

// NoDifferences is printed by the text format for an empty result.
const NoDifferences = "No differences."

// Options controls rendering.
type Options struct {
	// Format is one of Formats. Empty means text.
	Format string
	// Color styles text rows by kind.
	Color bool
	// Titles adds a header row to text output.
	Titles bool
	// Padding is extra space between text columns.
	Padding int
}

// Render writes diffs to w in the requested format. If w is nil, os.Stdout is
// used.
func Render(w io.Writer, diffs []differ.Difference, opts Options) error {
	if w == nil {
		w = os.Stdout
	}

	switch opts.Format {
	case "", "text":
		TableWriter(w, diffs, opts)
		return nil
	case "json":
		return writeJSON(w, diffs)
	case "yaml":
		return writeYAML(w, diffs)
	case "raw":
		for _, d := range diffs {
			if _, err := fmt.Fprintf(w, "%s\t%s\n", d.Kind, d.Path); err != nil {
				return err
			}
		}
		return nil
	}
	return fmt.Errorf("unknown output format %q: must be one of %v", opts.Format, Formats)
}

// ValueToString renders a record value for a table cell. Absent values render
// as the optional emptyValue, "" by default.
func ValueToString(v tree.Value, emptyValue ...string) string {
	if v.IsAbsent() {
		if len(emptyValue) == 0 {
			return ""
		}
		return emptyValue[0]
	}
	return v.Text()
}

// PathToString renders a record path, naming the document root.
func PathToString(p tree.Path) string {
	if len(p) == 0 {
		return "(root)"
	}
	return p.String()
}

// TableWriter renders the records as a borderless table. Rows are colored by
// kind when opts.Color is set.
func TableWriter(w io.Writer, diffs []differ.Difference, opts Options) {
	if len(diffs) == 0 {
		fmt.Fprintln(w, NoDifferences)
		return
	}

	var (
		headerStyle = lipgloss.NewStyle().Align(lipgloss.Left).Bold(true)
		cellStyle   = lipgloss.NewStyle().Padding(0, 0).Align(lipgloss.Left)
		kindStyles  = map[differ.ChangeKind]lipgloss.Style{}
	)

	if opts.Color {
		colors := getColors("colors")
		headerStyle = headerStyle.Foreground(colors.title)
		kindStyles[differ.Added] = cellStyle.Foreground(colors.added)
		kindStyles[differ.Removed] = cellStyle.Foreground(colors.removed)
		kindStyles[differ.Modified] = cellStyle.Foreground(colors.modified)
	}

	rows := make([][]string, 0, len(diffs))
	for _, d := range diffs {
		rows = append(rows, []string{
			string(d.Kind),
			PathToString(d.Path),
			ValueToString(d.Before, "-"),
			ValueToString(d.After, "-"),
		})
	}

	t := table.New().
		BorderBottom(false).
		BorderTop(false).
		BorderLeft(false).
		BorderRight(false).
		Border(lipgloss.HiddenBorder()).
		StyleFunc(func(row, col int) lipgloss.Style {
			style := cellStyle
			switch {
			case row == table.HeaderRow:
				style = headerStyle
			case row >= 0 && row < len(diffs):
				if s, ok := kindStyles[diffs[row].Kind]; ok {
					style = s
				}
			}

			if col > 0 {
				style = style.PaddingLeft(opts.Padding)
			}
			return style
		}).
		Headers().
		Rows(rows...)

	if opts.Titles {
		// https://github.com/charmbracelet/lipgloss/issues/261
		t = t.Headers("KIND", "PATH", "BEFORE", "AFTER").BorderHeader(false)
	}
	fmt.Fprintln(w, t)
}

// AutoColor reports whether w is a terminal that accepts color. NO_COLOR
// disables it.
func AutoColor(w io.Writer) bool {
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return false
	}
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

type palette struct {
	title, added, removed, modified color.Color
}

// hasDarkBackground is swapped out by tests.
var hasDarkBackground = func() bool {
	return lipgloss.HasDarkBackground(os.Stdin, os.Stdout)
}

// getColors returns configured color values for table rendering. Without a
// configured value, a default is picked for the terminal background.
func getColors(key string) palette {
	isDark := hasDarkBackground()

	resolveColor := func(key string, light string, dark string) color.Color {
		colorCfg, err := config.GetString(key)
		if err == nil {
			return lipgloss.Color(colorCfg)
		}
		if isDark {
			return lipgloss.Color(dark)
		}
		return lipgloss.Color(light)
	}

	return palette{
		title:    resolveColor(key+".title", "#b08800", "#f6be00"),
		added:    resolveColor(key+".added", "#1a7f37", "#3fb950"),
		removed:  resolveColor(key+".removed", "#cf222e", "#f85149"),
		modified: resolveColor(key+".modified", "#9a6700", "#d29922"),
	}
}

// record is the JSON and YAML shape of a Difference.
type record struct {
	Kind   differ.ChangeKind `json:"kind"`
	Path   string            `json:"path"`
	Before *tree.Value       `json:"before,omitempty"`
	After  *tree.Value       `json:"after,omitempty"`
}

func writeJSON(w io.Writer, diffs []differ.Difference) error {
	records := make([]record, 0, len(diffs))
	for _, d := range diffs {
		r := record{Kind: d.Kind, Path: d.Path.String()}
		if !d.Before.IsAbsent() {
			r.Before = &d.Before
		}
		if !d.After.IsAbsent() {
			r.After = &d.After
		}
		records = append(records, r)
	}

	out, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		log.Errorf("json marshal: %v", err)
		return fmt.Errorf("failed to encode json output: %w", err)
	}
	_, err = fmt.Fprintln(w, string(out))
	return err
}

func writeYAML(w io.Writer, diffs []differ.Difference) error {
	records := make([]yaml.MapSlice, 0, len(diffs))
	for _, d := range diffs {
		r := yaml.MapSlice{
			{Key: "kind", Value: string(d.Kind)},
			{Key: "path", Value: d.Path.String()},
		}
		if !d.Before.IsAbsent() {
			r = append(r, yaml.MapItem{Key: "before", Value: toYAML(d.Before)})
		}
		if !d.After.IsAbsent() {
			r = append(r, yaml.MapItem{Key: "after", Value: toYAML(d.After)})
		}
		records = append(records, r)
	}

	out, err := yaml.Marshal(records)
	if err != nil {
		log.Errorf("yaml marshal: %v", err)
		return fmt.Errorf("failed to encode yaml output: %w", err)
	}
	_, err = w.Write(out)
	return err
}

// toYAML converts v into yaml.v2 values. MapSlice keeps mapping order.
func toYAML(v tree.Value) interface{} {
	switch v.Kind() {
	case tree.KindMapping:
		ms := yaml.MapSlice{}
		for k, child := range v.Mapping().All() {
			ms = append(ms, yaml.MapItem{Key: k, Value: toYAML(child)})
		}
		return ms
	case tree.KindSequence:
		items := []interface{}{}
		for _, child := range v.Sequence().All() {
			items = append(items, toYAML(child))
		}
		return items
	}

	switch v.ScalarKind() {
	case tree.ScalarBool:
		return v.AsBool()
	case tree.ScalarNumber:
		n := v.AsNumber()
		if n == math.Trunc(n) && math.Abs(n) < 1<<53 {
			return int64(n)
		}
		return n
	case tree.ScalarString:
		return v.AsString()
	}
	return nil
}
