package review

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/andrada/kijobs/internal/model"
)

var loaderStyle = lipgloss.NewStyle().
	Padding(1, 0, 1, 2)

var loaderElapsedStyle = lipgloss.NewStyle().
	Foreground(lipgloss.Color("240"))

type fetchDoneMsg struct {
	postings []model.Posting
	err      error
}

type loaderModel struct {
	sourceName string
	fetchFn    func(ctx context.Context) ([]model.Posting, error)
	spin       spinner.Model
	started    time.Time
	result     []model.Posting
	err        error
	done       bool
}

func (m loaderModel) Init() tea.Cmd {
	return tea.Batch(m.doFetch(), m.spin.Tick)
}

func (m loaderModel) doFetch() tea.Cmd {
	fetchFn := m.fetchFn
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()
		postings, err := fetchFn(ctx)
		return fetchDoneMsg{postings: postings, err: err}
	}
}

func (m loaderModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case fetchDoneMsg:
		m.result = msg.postings
		m.err = msg.err
		m.done = true
		return m, tea.Quit
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" || msg.String() == "q" {
			m.err = fmt.Errorf("cancelled")
			m.done = true
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m loaderModel) View() string {
	if m.done {
		return ""
	}
	elapsed := loaderElapsedStyle.Render(time.Since(m.started).Round(time.Second).String())
	return loaderStyle.Render(fmt.Sprintf("%s Scraping %s… %s", m.spin.View(), m.sourceName, elapsed))
}

// runLoader scrapes the source while showing a spinner, returning its postings.
func runLoader(sourceName string, fetchFn func(ctx context.Context) ([]model.Posting, error)) ([]model.Posting, error) {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))

	m := loaderModel{
		sourceName: sourceName,
		fetchFn:    fetchFn,
		spin:       sp,
		started:    time.Now(),
	}

	p := tea.NewProgram(m)
	result, err := p.Run()
	if err != nil {
		return nil, err
	}

	final := result.(loaderModel)
	return final.result, final.err
}
