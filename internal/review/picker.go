// Package review is an interactive terminal browser for the currently
// matching postings of one source: pick a source, wait for the scrape, then
// page through the matches.
package review

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/andrada/kijobs/internal/model"
)

// sourceHosts gives the picker a line of context under each source name.
var sourceHosts = map[model.Source]string{
	model.SourceKIDoctoral:        "kidoktorand.varbi.com",
	model.SourceKIStaff:           "ki.varbi.com",
	model.SourceAcademicPositions: "academicpositions.com",
}

var (
	pickerTitleStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("39")).
				Padding(1, 0, 1, 2)

	pickerItemStyle = lipgloss.NewStyle().
			Padding(0, 0, 0, 4)

	pickerSelectedStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("39")).
				Bold(true).
				Padding(0, 0, 0, 2)

	pickerDetailStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("245")).
				Padding(0, 0, 0, 7)

	pickerHintStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Padding(1, 0, 0, 2)
)

type pickerItem struct {
	source model.Source
	detail string
}

type pickerModel struct {
	items  []pickerItem
	cursor int
	chosen int // -1 = no choice yet, -2 = quit
}

func (m pickerModel) Init() tea.Cmd {
	return nil
}

func (m pickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch s := key.String(); s {
	case "q", "ctrl+c":
		m.chosen = -2
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.items)-1 {
			m.cursor++
		}
	case "enter":
		m.chosen = m.cursor
		return m, tea.Quit
	default:
		// Digit shortcuts jump straight to a source.
		if len(s) == 1 && s[0] >= '1' && s[0] <= '9' {
			if idx := int(s[0] - '1'); idx < len(m.items) {
				m.chosen = idx
				return m, tea.Quit
			}
		}
	}
	return m, nil
}

func (m pickerModel) View() string {
	s := pickerTitleStyle.Render("Review — pick a source to scrape")
	s += "\n"

	for i, it := range m.items {
		label := fmt.Sprintf("%d. %s", i+1, it.source.DisplayName())
		if i == m.cursor {
			s += pickerSelectedStyle.Render("> "+label) + "\n"
		} else {
			s += pickerItemStyle.Render(label) + "\n"
		}
		s += pickerDetailStyle.Render(it.detail) + "\n"
	}

	s += pickerHintStyle.Render("↑/↓/j/k move  1-9 jump  enter select  q quit")
	return s
}

// RunSourcePicker shows an interactive source selector.
// Returns the index of the chosen source, or -1 if the user quit.
func RunSourcePicker(sources []model.Source) (int, error) {
	items := make([]pickerItem, len(sources))
	for i, src := range sources {
		detail := sourceHosts[src]
		if detail == "" {
			detail = string(src)
		}
		items[i] = pickerItem{source: src, detail: detail}
	}

	m := pickerModel{
		items:  items,
		chosen: -1,
	}

	p := tea.NewProgram(m)
	result, err := p.Run()
	if err != nil {
		return -1, err
	}

	final := result.(pickerModel)
	if final.chosen == -2 {
		return -1, nil
	}
	return final.chosen, nil
}
