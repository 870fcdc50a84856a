// Package notify delivers push notifications for new matching postings via an
// ntfy.sh-compatible relay. Delivery is best-effort and at-least-once: each
// push is one HTTP POST with no retry.
package notify

import (
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/andrada/kijobs/internal/model"
)

// titleLimit is the maximum number of posting-title runes carried into the
// notification title header.
const titleLimit = 60

// Ensure Ntfy implements model.Notifier.
var _ model.Notifier = (*Ntfy)(nil)

// Ntfy publishes to a single ntfy topic. The message body is free text; title,
// click-through URL, tags, and priority travel as headers, which ntfy requires
// to be ASCII-safe.
type Ntfy struct {
	url      string // <base>/<topic>
	highTier map[string]bool
	client   *http.Client
	logger   *slog.Logger
}

// NewNtfy returns a notifier publishing to baseURL/topic. highTier is used to
// split matched keywords into priority groups in the message body.
func NewNtfy(baseURL, topic string, highTier []string, client *http.Client, logger *slog.Logger) *Ntfy {
	tier := make(map[string]bool, len(highTier))
	for _, kw := range highTier {
		tier[strings.ToLower(kw)] = true
	}
	return &Ntfy{
		url:      strings.TrimRight(baseURL, "/") + "/" + topic,
		highTier: tier,
		client:   client,
		logger:   logger,
	}
}

// Notify sends one push for a new matching posting.
func (n *Ntfy) Notify(m model.Match) error {
	title := "New KI Position: " + sanitizeHeader(truncateRunes(m.Title, titleLimit))
	if len([]rune(m.Title)) > titleLimit {
		title += "..."
	}

	var lines []string
	if m.Deadline != "" {
		lines = append(lines, "Deadline: "+m.Deadline)
	}
	lines = append(lines, "Source: "+m.Source.DisplayName())

	var high, medium []string
	for _, kw := range m.Keywords {
		if n.highTier[strings.ToLower(kw)] {
			high = append(high, kw)
		} else {
			medium = append(medium, kw)
		}
	}
	if len(high) > 0 {
		lines = append(lines, "High priority: "+strings.Join(high, ", "))
	}
	if len(medium) > 0 {
		lines = append(lines, "Medium priority: "+strings.Join(medium, ", "))
	}

	priority := "default"
	if m.HighPriority {
		priority = "high"
	}

	err := n.publish(strings.Join(lines, "\n"), map[string]string{
		"Title":    title,
		"Click":    m.URL,
		"Tags":     "briefcase,sweden",
		"Priority": priority,
	})
	if err != nil {
		return err
	}

	n.logger.Info("notification sent", "id", m.ID)
	return nil
}

// Test sends a fixed low-priority message to verify the topic works end to end.
func (n *Ntfy) Test() error {
	err := n.publish(
		"This is a test notification from your KI Job Scraper.\n\nIf you see this, notifications are working!",
		map[string]string{
			"Title":    "KI Job Scraper - Test",
			"Tags":     "white_check_mark,test_tube",
			"Priority": "low",
		})
	if err != nil {
		return err
	}

	n.logger.Info("test notification sent")
	return nil
}

// Summary sends one per-run digest after the individual pushes.
func (n *Ntfy) Summary(newCount, totalMatching int) error {
	message := fmt.Sprintf("No new matching positions today.\n\nTotal open matching positions: %d", totalMatching)
	title := "KI Jobs - Daily Check"
	priority := "low"
	if newCount > 0 {
		message = fmt.Sprintf("Found %d new matching position(s)!\n\nTotal open matching positions: %d", newCount, totalMatching)
		title = fmt.Sprintf("KI Jobs - %d New Position(s)!", newCount)
		priority = "default"
	}

	return n.publish(message, map[string]string{
		"Title":    title,
		"Tags":     "clipboard",
		"Priority": priority,
	})
}

func (n *Ntfy) publish(body string, headers map[string]string) error {
	req, err := http.NewRequest(http.MethodPost, n.url, strings.NewReader(body))
	if err != nil {
		return fmt.Errorf("build ntfy request: %w", err)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("post to ntfy: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("ntfy returned %d", resp.StatusCode)
	}
	return nil
}

func truncateRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
