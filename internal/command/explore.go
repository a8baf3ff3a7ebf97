// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/apex/log"
	"github.com/urfave/cli/v3"

	"github.com/tfctl/objdiff/internal/config"
	"github.com/tfctl/objdiff/internal/differ"
	"github.com/tfctl/objdiff/internal/filters"
	"github.com/tfctl/objdiff/internal/meta"
	"github.com/tfctl/objdiff/internal/output"
)

// maxHistory bounds the saved console history.
const maxHistory = 1000

// runExploreConsole is swapped out by tests.
var runExploreConsole = func(diffs []differ.Difference) error {
	p := tea.NewProgram(initialExploreModel(diffs, loadExploreHistory(getExploreHistoryFile())))
	_, err := p.Run()
	return err
}

func exploreCommandAction(ctx context.Context, cmd *cli.Command) error {
	m := GetMeta(cmd)
	log.Debugf("Executing action for %v", m.Args[1:])

	config.Config.Namespace = "explore"

	if cmd.NArg() != 2 {
		return fmt.Errorf("explore needs exactly two documents, got %d", cmd.NArg())
	}
	leftSpec, rightSpec := cmd.Args().Get(0), cmd.Args().Get(1)
	if leftSpec == "-" || rightSpec == "-" {
		return fmt.Errorf("explore reads the terminal, so standard input cannot be a document")
	}

	ld, err := newLoader(cmd, m)
	if err != nil {
		return err
	}
	left, right, err := loadPair(ctx, ld, leftSpec, rightSpec)
	if err != nil {
		return err
	}

	left, right, base, err := selectRoot(cmd.String("root"), left, right)
	if err != nil {
		return err
	}
	diffs, err := differences(cmd, left, right, base)
	if err != nil {
		return err
	}

	return runExploreConsole(diffs)
}

// exploreModel is the Bubble Tea model for the explore console.
type exploreModel struct {
	input          textinput.Model
	history        []string // Full history for navigation (includes file history)
	sessionHistory []string // Only queries from this session (matches with outputs)
	histIndex      int
	output         []string
	diffs          []differ.Difference
}

func initialExploreModel(diffs []differ.Difference, history []string) exploreModel {
	ti := textinput.New()
	ti.Placeholder = ""
	ti.Focus()
	ti.CharLimit = 2048
	ti.Width = 999
	ti.Prompt = ""
	ti.Cursor.SetMode(cursor.CursorBlink)

	return exploreModel{
		input:          ti,
		history:        history,
		sessionHistory: []string{},
		histIndex:      -1,
		output: []string{
			summarize(diffs),
			"Type 'help' for syntax, 'exit' or Ctrl+C to quit.",
		},
		diffs: diffs,
	}
}

func (m exploreModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m exploreModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "enter":
			entry := strings.TrimSpace(m.input.Value())
			m.input.SetValue("")
			if entry == "" {
				return m, nil
			}
			if entry == "exit" || entry == "quit" {
				return m, tea.Quit
			}

			m.history = append(m.history, entry)
			m.sessionHistory = append(m.sessionHistory, entry)
			m.histIndex = -1
			m.output = append(m.output, processExploreQuery(m.diffs, entry))
			saveExploreHistory(getExploreHistoryFile(), m.history)
			return m, nil

		case "up":
			if len(m.history) == 0 {
				return m, nil
			}
			if m.histIndex == -1 {
				m.histIndex = len(m.history) - 1
			} else if m.histIndex > 0 {
				m.histIndex--
			}
			m.input.SetValue(m.history[m.histIndex])
			m.input.CursorEnd()
			return m, nil

		case "down":
			if len(m.history) == 0 {
				return m, nil
			}
			if m.histIndex >= 0 && m.histIndex < len(m.history)-1 {
				m.histIndex++
				m.input.SetValue(m.history[m.histIndex])
				m.input.CursorEnd()
			} else {
				m.histIndex = -1
				m.input.SetValue("")
			}
			return m, nil

		case "ctrl+c", "esc":
			return m, tea.Quit
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m exploreModel) View() string {
	promptStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#623CE4"))

	// The first two outputs are the banner; each later one answers the
	// session query with the same index.
	lines := append([]string{}, m.output[:2]...)
	for i, q := range m.sessionHistory {
		lines = append(lines, promptStyle.Render("> ")+q)
		if i+2 < len(m.output) {
			lines = append(lines, m.output[i+2])
		}
	}
	lines = append(lines, promptStyle.Render("> ")+m.input.View())

	return strings.Join(lines, "\n")
}

func getExploreHelp() string {
	return `Query syntax:
  PATH            records at PATH or below it, e.g. spec.containers[0]
  . or *          all records
  ?FILTER         records matching a --filter expression, e.g. ?kind=added
  summary         counts by kind
  help            this text

  Navigation:
     ↑/↓ arrows   navigate query history
     Ctrl+C       exit`
}

var indexSegment = regexp.MustCompile(`\[(\d+)\]`)

// processExploreQuery answers one console query as text.
func processExploreQuery(diffs []differ.Difference, query string) string {
	query = strings.TrimSpace(query)

	var matches []differ.Difference
	switch {
	case query == "help":
		return getExploreHelp()
	case query == "summary":
		return summarize(diffs)
	case query == "." || query == "*":
		matches = diffs
	case strings.HasPrefix(query, "?"):
		fs := filters.BuildFilters(query[1:])
		if err := filters.Check(fs); err != nil {
			return err.Error()
		}
		if len(fs) == 0 {
			return "No valid filter in " + query
		}
		matches = filters.Apply(diffs, fs)
	default:
		prefix := strings.TrimPrefix(indexSegment.ReplaceAllString(query, ".$1"), ".")
		for _, d := range diffs {
			p := d.Path.String()
			if p == prefix || strings.HasPrefix(p, prefix+".") {
				matches = append(matches, d)
			}
		}
	}

	if len(matches) == 0 {
		return "No results found."
	}

	var buf bytes.Buffer
	output.TableWriter(&buf, matches, output.Options{Titles: true})
	return strings.TrimSuffix(buf.String(), "\n")
}

func summarize(diffs []differ.Difference) string {
	counts := map[differ.ChangeKind]int{}
	for _, d := range diffs {
		counts[d.Kind]++
	}
	return fmt.Sprintf("%d differences: %d added, %d removed, %d modified.",
		len(diffs), counts[differ.Added], counts[differ.Removed], counts[differ.Modified])
}

func getExploreHistoryFile() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".objdiff_history"
	}
	return filepath.Join(homeDir, ".objdiff_history")
}

func loadExploreHistory(filename string) []string {
	var history []string

	file, err := os.Open(filename)
	if err != nil {
		return history
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		if line := strings.TrimSpace(scanner.Text()); line != "" {
			history = append(history, line)
		}
	}
	return history
}

func saveExploreHistory(filename string, history []string) {
	start := 0
	if len(history) > maxHistory {
		start = len(history) - maxHistory
	}

	file, err := os.Create(filename)
	if err != nil {
		log.Debugf("history not saved: %v", err)
		return
	}
	defer file.Close()

	writer := bufio.NewWriter(file)
	for _, h := range history[start:] {
		fmt.Fprintln(writer, h)
	}
	writer.Flush()
}

// exploreCommandBuilder constructs the cli.Command for "explore".
func exploreCommandBuilder(meta meta.Meta) *cli.Command {
	return &cli.Command{
		Name:      "explore",
		Usage:     "browse the differences between two documents interactively",
		UsageText: "objdiff explore [options] LEFT RIGHT",
		Metadata: map[string]any{
			"meta": meta,
		},
		Flags:  NewGlobalFlags("explore", meta.Config.Source),
		Action: exploreCommandAction,
	}
}
