package notify

import (
	"log/slog"
	"strings"

	"github.com/andrada/kijobs/internal/model"
)

// Ensure LogNotifier implements model.Notifier.
var _ model.Notifier = (*LogNotifier)(nil)

// LogNotifier writes matches to the logger instead of pushing. Used by check
// mode and when no ntfy topic is configured.
type LogNotifier struct {
	logger *slog.Logger
}

// NewLogNotifier returns a notifier that logs each match via slog.
func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

// Notify logs the match. Returns nil (stdout logging does not fail).
func (n *LogNotifier) Notify(m model.Match) error {
	n.logger.Info("new matching posting",
		"title", m.Title,
		"source", m.Source,
		"url", m.URL,
		"deadline", m.Deadline,
		"keywords", strings.Join(m.Keywords, ", "),
		"high_priority", m.HighPriority,
		"closing_soon", m.ClosingSoon,
	)
	return nil
}

func (n *LogNotifier) Test() error {
	n.logger.Info("test notification (log notifier)")
	return nil
}

func (n *LogNotifier) Summary(newCount, totalMatching int) error {
	n.logger.Info("run summary notification (log notifier)", "new", newCount, "matching", totalMatching)
	return nil
}
