package scrape

import (
	"regexp"
	"time"
)

// Deadline phrasing differs per site, so the patterns are tried most specific
// first; the trailing bare ISO date is a last resort.
var deadlinePatterns = []*regexp.Regexp{
	regexp.MustCompile(`[Dd]eadline[:\s]+(\d{4}-\d{2}-\d{2})`),
	regexp.MustCompile(`[Dd]eadline[:\s]+(\d{1,2}[/-]\d{1,2}[/-]\d{4})`),
	regexp.MustCompile(`[Aa]pply by[:\s]+([A-Z][a-z]+ \d{1,2},? \d{4})`),
	regexp.MustCompile(`[Aa]pplication deadline[:\s]+([A-Z][a-z]+ \d{1,2},? \d{4})`),
	regexp.MustCompile(`[Ll]ast application date[:\s]+(\d{4}-\d{2}-\d{2})`),
	regexp.MustCompile(`[Ss]ista ansökningsdag[:\s]+(\d{4}-\d{2}-\d{2})`),
	regexp.MustCompile(`[Cc]losing[:\s]+(\d{4}-\d{2}-\d{2})`),
	regexp.MustCompile(`[Ee]xpires?[:\s]+([A-Z][a-z]+ \d{1,2},? \d{4})`),
	regexp.MustCompile(`(\d{4}-\d{2}-\d{2})`),
}

var deadlineFormats = []string{
	"2006-01-02",
	"2/1/2006",
	"1/2/2006",
	"January 2, 2006",
	"January 2 2006",
	"Jan 2, 2006",
}

// Varbi detail pages print the deadline after a "Last application date" label,
// in one of several date shapes (15.Mar.2026, 2026-03-15, 15/03/2026).
var detailDeadlineRe = regexp.MustCompile(
	`(?i)last application date[\s:]*(\d{1,2}[./-][A-Za-z]{3}[./-]\d{4}|\d{4}-\d{2}-\d{2}|\d{1,2}[./-]\d{1,2}[./-]\d{4})`)

var detailDeadlineFormats = []string{
	"2.Jan.2006",
	"02.Jan.2006",
	"2-Jan-2006",
	"2006-01-02",
	"2/1/2006",
	"2.1.2006",
}

// parseDeadlineText scans free text for a deadline. It returns the raw date
// string and a best-effort parsed date; unparseable text yields the raw
// string with a nil date, and text without any date yields ("", nil).
func parseDeadlineText(text string) (string, *time.Time) {
	for _, pattern := range deadlinePatterns {
		m := pattern.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		dateStr := m[1]
		if t, ok := parseDate(dateStr, deadlineFormats); ok {
			return dateStr, t
		}
		return dateStr, nil
	}
	return "", nil
}

// parseDetailDeadline scans a detail page's full text for the Varbi
// "Last application date" label.
func parseDetailDeadline(text string) (string, *time.Time) {
	m := detailDeadlineRe.FindStringSubmatch(text)
	if m == nil {
		return "", nil
	}
	dateStr := m[1]
	if t, ok := parseDate(dateStr, detailDeadlineFormats); ok {
		return dateStr, t
	}
	return dateStr, nil
}

func parseDate(s string, formats []string) (*time.Time, bool) {
	for _, layout := range formats {
		if t, err := time.Parse(layout, s); err == nil {
			return &t, true
		}
	}
	return nil, false
}
