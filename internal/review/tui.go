package review

import (
	"fmt"
	"os/exec"
	"runtime"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/andrada/kijobs/internal/match"
	"github.com/andrada/kijobs/internal/model"
)

type viewState int

const (
	viewList viewState = iota
	viewDetail
)

var (
	listTitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("39")).
			Padding(1, 0, 1, 2)

	jobTitleStyle = lipgloss.NewStyle().
			Padding(0, 0, 0, 4)

	jobSelectedStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("39")).
				Bold(true).
				Padding(0, 0, 0, 2)

	jobMetaStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245")).
			Padding(0, 0, 0, 6)

	badgeHighStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("203")).
			Bold(true)

	badgeClosingStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("214")).
				Bold(true)

	hintStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Padding(1, 0, 0, 2)

	detailLabelStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("39")).
				Width(12)

	emptyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Padding(1, 0, 1, 2)
)

type browseModel struct {
	sourceName string
	matches    []model.Match
	cursor     int
	view       viewState
	detail     viewport.Model
	width      int
	height     int
	ready      bool
}

func (m browseModel) Init() tea.Cmd {
	return nil
}

func (m browseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.detail = viewport.New(msg.Width-4, msg.Height-6)
		m.ready = true
		if m.view == viewDetail {
			m.detail.SetContent(m.detailContent())
		}
		return m, nil

	case tea.KeyMsg:
		switch m.view {
		case viewList:
			switch msg.String() {
			case "q", "ctrl+c":
				return m, tea.Quit
			case "up", "k":
				if m.cursor > 0 {
					m.cursor--
				}
			case "down", "j":
				if m.cursor < len(m.matches)-1 {
					m.cursor++
				}
			case "o":
				if len(m.matches) > 0 {
					openBrowser(m.matches[m.cursor].URL)
				}
			case "enter":
				if len(m.matches) > 0 && m.ready {
					m.view = viewDetail
					m.detail.SetContent(m.detailContent())
					m.detail.GotoTop()
				}
			}
		case viewDetail:
			switch msg.String() {
			case "q", "ctrl+c":
				return m, tea.Quit
			case "esc", "backspace":
				m.view = viewList
			case "o":
				openBrowser(m.matches[m.cursor].URL)
			default:
				var cmd tea.Cmd
				m.detail, cmd = m.detail.Update(msg)
				return m, cmd
			}
		}
	}
	return m, nil
}

func (m browseModel) View() string {
	if m.view == viewDetail {
		return m.detailView()
	}
	return m.listView()
}

func (m browseModel) listView() string {
	s := listTitleStyle.Render(fmt.Sprintf("%s — %d matching", m.sourceName, len(m.matches)))
	s += "\n"

	if len(m.matches) == 0 {
		s += emptyStyle.Render("No matching postings right now.")
		s += "\n" + hintStyle.Render("q quit")
		return s
	}

	for i, job := range m.matches {
		line := job.Title
		var badges []string
		if job.HighPriority {
			badges = append(badges, badgeHighStyle.Render("HIGH"))
		}
		if job.ClosingSoon {
			badges = append(badges, badgeClosingStyle.Render("CLOSING"))
		}
		if len(badges) > 0 {
			line += "  " + strings.Join(badges, " ")
		}

		if i == m.cursor {
			s += jobSelectedStyle.Render("> "+line) + "\n"
		} else {
			s += jobTitleStyle.Render(line) + "\n"
		}
		s += jobMetaStyle.Render(strings.Join(job.Keywords, ", ")) + "\n"
	}

	s += hintStyle.Render("↑/↓/j/k navigate  enter detail  o open in browser  q quit")
	return s
}

func (m browseModel) detailView() string {
	s := listTitleStyle.Render(m.matches[m.cursor].Title)
	s += "\n" + m.detail.View()
	s += "\n" + hintStyle.Render("↑/↓ scroll  o open in browser  esc back  q quit")
	return s
}

func (m browseModel) detailContent() string {
	job := m.matches[m.cursor]

	row := func(label, value string) string {
		return detailLabelStyle.Render(label) + value + "\n"
	}

	deadline := job.Deadline
	if deadline == "" {
		deadline = "Not specified"
	} else if job.DeadlineDate != nil {
		deadline += job.DeadlineDate.Format(" (Mon, Jan 2 2006)")
	}

	var b strings.Builder
	b.WriteString(row("Source", job.Source.DisplayName()))
	b.WriteString(row("Deadline", deadline))
	b.WriteString(row("Keywords", strings.Join(job.Keywords, ", ")))
	b.WriteString(row("Priority", priorityLabel(job.HighPriority)))
	b.WriteString(row("URL", job.URL))
	if job.Description != "" {
		b.WriteString("\n" + job.Description + "\n")
	}
	return b.String()
}

func priorityLabel(high bool) string {
	if high {
		return "high"
	}
	return "medium"
}

func openBrowser(url string) {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	default:
		cmd = exec.Command("xdg-open", url)
	}
	_ = cmd.Start()
}

// Run scrapes one source interactively and browses its matching postings.
func Run(source model.Source, fetcher model.Fetcher, matcher *match.Matcher) error {
	postings, err := runLoader(source.DisplayName(), fetcher.FetchPostings)
	if err != nil {
		return err
	}

	now := time.Now()
	var matches []model.Match
	for _, p := range postings {
		if matcher.ExcludedTitle(p.Title) {
			continue
		}
		keywords := matcher.Match(p.Title, p.Description)
		if len(keywords) == 0 {
			continue
		}
		matches = append(matches, model.Match{
			Posting:      p,
			Keywords:     keywords,
			HighPriority: matcher.HighPriority(keywords),
			ClosingSoon:  match.ClosingSoon(p.DeadlineDate, now),
		})
	}

	m := browseModel{
		sourceName: source.DisplayName(),
		matches:    matches,
	}
	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err = p.Run()
	return err
}
