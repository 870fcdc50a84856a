package match

import (
	"regexp"
	"strings"
	"time"

	"github.com/andrada/kijobs/internal/config"
)

// closingSoonWindow is the number of days ahead (inclusive) within which a
// deadline counts as closing soon.
const closingSoonWindow = 7

// Matcher classifies postings against two priority tiers of keywords and a
// title exclusion list. All configuration is passed in explicitly; the matcher
// is immutable after construction.
type Matcher struct {
	keywords []string // high tier followed by medium tier, configured order
	patterns []*regexp.Regexp
	highTier map[string]bool
	exclude  []string // lowercased exclusion substrings
}

// New builds a matcher from the keyword configuration. Keywords match as
// whole words (word-boundary regexp), case-insensitively.
func New(cfg config.KeywordConfig) *Matcher {
	keywords := make([]string, 0, len(cfg.High)+len(cfg.Medium))
	keywords = append(keywords, cfg.High...)
	keywords = append(keywords, cfg.Medium...)

	patterns := make([]*regexp.Regexp, len(keywords))
	for i, kw := range keywords {
		patterns[i] = regexp.MustCompile(`\b` + regexp.QuoteMeta(strings.ToLower(kw)) + `\b`)
	}

	highTier := make(map[string]bool, len(cfg.High))
	for _, kw := range cfg.High {
		highTier[strings.ToLower(kw)] = true
	}

	exclude := make([]string, len(cfg.ExcludeTitles))
	for i, s := range cfg.ExcludeTitles {
		exclude[i] = strings.ToLower(s)
	}

	return &Matcher{
		keywords: keywords,
		patterns: patterns,
		highTier: highTier,
		exclude:  exclude,
	}
}

// Match returns the configured keywords found as whole words in the
// case-folded concatenation of title and description, in configured order.
func (m *Matcher) Match(title, description string) []string {
	text := strings.ToLower(title + " " + description)

	var matched []string
	for i, p := range m.patterns {
		if p.MatchString(text) {
			matched = append(matched, m.keywords[i])
		}
	}
	return matched
}

// HighPriority reports whether any of the matched keywords belongs to the
// high-priority tier.
func (m *Matcher) HighPriority(matched []string) bool {
	for _, kw := range matched {
		if m.highTier[strings.ToLower(kw)] {
			return true
		}
	}
	return false
}

// HighTier reports whether a single keyword is in the high-priority tier.
func (m *Matcher) HighTier(keyword string) bool {
	return m.highTier[strings.ToLower(keyword)]
}

// ExcludedTitle reports whether the title contains any exclusion substring,
// case-insensitively. Excluded postings are dropped before keyword matching.
func (m *Matcher) ExcludedTitle(title string) bool {
	titleLower := strings.ToLower(title)
	for _, s := range m.exclude {
		if strings.Contains(titleLower, s) {
			return true
		}
	}
	return false
}

// ClosingSoon reports whether the deadline falls within [today, today+7 days]
// inclusive, comparing calendar dates. A nil deadline is never closing soon.
func ClosingSoon(deadline *time.Time, now time.Time) bool {
	if deadline == nil {
		return false
	}
	days := int(truncateToDate(*deadline).Sub(truncateToDate(now)).Hours() / 24)
	return days >= 0 && days <= closingSoonWindow
}

func truncateToDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
