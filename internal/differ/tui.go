// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package differ

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
)

// Choice is one selectable document version.
type Choice struct {
	ID     string
	Detail string
}

// SelectVersions lets the user pick two of items. The selection is returned
// in the order it was made, or nil if the user quit.
func SelectVersions(items []Choice) ([]Choice, error) {
	p := tea.NewProgram(model{items: items})
	m, err := p.Run()
	if err != nil {
		return nil, fmt.Errorf("version picker failed: %w", err)
	}
	return m.(model).selected, nil
}

type model struct {
	items    []Choice
	cursor   int
	selected []Choice
}

func (m model) Init() tea.Cmd { return nil }

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "q", "esc", "ctrl+c":
			m.selected = nil
			return m, tea.Quit
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.cursor < len(m.items)-1 {
				m.cursor++
			}
		case " ":
			if len(m.items) == 0 {
				break
			}
			if i := indexOf(m.selected, m.items[m.cursor]); i >= 0 {
				m.selected = append(m.selected[:i:i], m.selected[i+1:]...)
			} else if len(m.selected) < 2 {
				m.selected = append(m.selected, m.items[m.cursor])
			}
		case "enter":
			if len(m.selected) == 2 {
				return m, tea.Quit
			}
		}
	}
	return m, nil
}

func (m model) View() string {
	s := "Select two versions (first pick is the left side):\n\n"
	for i, c := range m.items {
		cursor := " "
		if m.cursor == i {
			cursor = ">"
		}
		mark := " "
		switch indexOf(m.selected, c) {
		case 0:
			mark = "L"
		case 1:
			mark = "R"
		}

		s += fmt.Sprintf("%s [%s] %s %s\n", cursor, mark, c.ID, c.Detail)
	}
	return s + "\nSPACE: toggle, ENTER: go, Q/ESCAPE: quit\n"
}

func indexOf(choices []Choice, c Choice) int {
	for i, v := range choices {
		if v.ID == c.ID {
			return i
		}
	}
	return -1
}
