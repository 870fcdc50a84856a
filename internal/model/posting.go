package model

import (
	"context"
	"time"
)

// Source identifies a listing site.
type Source string

const (
	SourceKIDoctoral        Source = "ki_doktorand"
	SourceKIStaff           Source = "ki_varbi"
	SourceAcademicPositions Source = "academic_positions"
)

var sourceNames = map[Source]string{
	SourceKIDoctoral:        "KI Doctoral Positions",
	SourceKIStaff:           "KI Staff Positions",
	SourceAcademicPositions: "Academic Positions",
}

// DisplayName returns the human-readable name of a source, falling back to the
// raw identifier for sources without a registered name.
func (s Source) DisplayName() string {
	if name, ok := sourceNames[s]; ok {
		return name
	}
	return string(s)
}

// Posting is one scraped job advertisement, produced fresh by an adapter each run.
type Posting struct {
	ID           string     // globally unique: "<source>_<native id>"
	Title        string
	URL          string     // absolute link to the posting
	Deadline     string     // raw deadline text as shown on the site, empty if absent
	DeadlineDate *time.Time // best-effort parsed deadline, nil if unparseable
	Source       Source
	Description  string // brief description when the listing exposes one
}

// Match is a posting that survived exclusion and keyword filtering, annotated
// with everything the notifier and dashboard need.
type Match struct {
	Posting
	Keywords     []string // matched keywords in configured order
	HighPriority bool     // at least one matched keyword is in the high tier
	ClosingSoon  bool     // deadline within the next 7 days inclusive
}

// Fetcher scrapes one listing site and returns its current postings.
type Fetcher interface {
	FetchPostings(ctx context.Context) ([]Posting, error)
}

// SeenStore tracks which posting IDs have already been reported. Lookups and
// mutations operate on in-memory state; Save persists the whole database.
type SeenStore interface {
	IsNew(id string) bool
	Record(p Posting, keywords []string)
	Prune(current map[string]struct{}) int
	Save() error
	Len() int
}

// Notifier delivers push messages for new matches.
type Notifier interface {
	Notify(m Match) error
	Test() error
	Summary(newCount, totalMatching int) error
}
