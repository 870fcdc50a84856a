// Package dashboard renders the static HTML status page: every currently
// matching posting grouped by source, with applied/irrelevant marks kept in
// the viewer's browser via localStorage.
package dashboard

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html/template"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/andrada/kijobs/internal/model"
)

// Sections appear in this order; unknown sources follow alphabetically.
var sourceOrder = []model.Source{
	model.SourceKIDoctoral,
	model.SourceKIStaff,
	model.SourceAcademicPositions,
}

// Renderer writes the dashboard file.
type Renderer struct {
	path   string
	title  string
	topic  string // ntfy topic for the subscribe footer, empty hides it
	logger *slog.Logger
}

// New returns a renderer writing to path.
func New(path, title, topic string, logger *slog.Logger) *Renderer {
	return &Renderer{path: path, title: title, topic: topic, logger: logger}
}

type section struct {
	Name string
	Jobs []model.Match
}

type jobSummary struct {
	ID     string `json:"id"`
	Title  string `json:"title"`
	URL    string `json:"url"`
	Source string `json:"source"`
}

type pageData struct {
	Title        string
	Matching     int
	ClosingSoon  int
	HighPriority int
	Sections     []section
	LastUpdated  string
	Topic        string
	JobsJSON     template.JS
}

// Render writes the page for the given matches. The input slice is not modified.
func (r *Renderer) Render(matches []model.Match, lastUpdated time.Time) error {
	sorted := make([]model.Match, len(matches))
	copy(sorted, matches)

	// Closing-soon first, then high-priority, then title alphabetical.
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		if a.ClosingSoon != b.ClosingSoon {
			return a.ClosingSoon
		}
		if a.HighPriority != b.HighPriority {
			return a.HighPriority
		}
		return strings.ToLower(a.Title) < strings.ToLower(b.Title)
	})

	data := pageData{
		Title:       r.title,
		Matching:    len(sorted),
		Sections:    groupBySource(sorted),
		LastUpdated: lastUpdated.Format("2006-01-02 15:04") + " CET",
		Topic:       r.topic,
	}
	for _, m := range sorted {
		if m.ClosingSoon {
			data.ClosingSoon++
		}
		if m.HighPriority {
			data.HighPriority++
		}
	}

	summaries := make([]jobSummary, 0, len(sorted))
	for _, m := range sorted {
		summaries = append(summaries, jobSummary{
			ID:     m.ID,
			Title:  m.Title,
			URL:    m.URL,
			Source: string(m.Source),
		})
	}
	jobsJSON, err := json.Marshal(summaries)
	if err != nil {
		return fmt.Errorf("marshal job summaries: %w", err)
	}
	data.JobsJSON = template.JS(jobsJSON)

	var buf bytes.Buffer
	if err := pageTmpl.Execute(&buf, data); err != nil {
		return fmt.Errorf("render dashboard: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(r.path), 0o755); err != nil {
		return fmt.Errorf("create dashboard directory: %w", err)
	}
	if err := os.WriteFile(r.path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write dashboard: %w", err)
	}

	r.logger.Info("dashboard generated", "path", r.path, "jobs", len(sorted))
	return nil
}

// groupBySource splits the (already sorted) matches into per-source sections
// in the fixed source order, preserving the sort within each section.
func groupBySource(matches []model.Match) []section {
	bySource := make(map[model.Source][]model.Match)
	for _, m := range matches {
		bySource[m.Source] = append(bySource[m.Source], m)
	}

	var sections []section
	for _, src := range sourceOrder {
		if jobs, ok := bySource[src]; ok {
			sections = append(sections, section{Name: src.DisplayName(), Jobs: jobs})
			delete(bySource, src)
		}
	}

	var rest []model.Source
	for src := range bySource {
		rest = append(rest, src)
	}
	sort.Slice(rest, func(i, j int) bool { return rest[i] < rest[j] })
	for _, src := range rest {
		sections = append(sections, section{Name: src.DisplayName(), Jobs: bySource[src]})
	}

	return sections
}
