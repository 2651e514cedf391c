package notifier

import (
	"context"
	"log/slog"

	"github.com/amishk599/jobwatch/internal/model"
)

// Ensure LogSender implements model.Sender.
var _ model.Sender = (*LogSender)(nil)

// LogSender writes messages to the given logger instead of a messaging channel.
type LogSender struct {
	logger *slog.Logger
}

// NewLogSender returns a sender that logs each message via slog.
func NewLogSender(logger *slog.Logger) *LogSender {
	return &LogSender{logger: logger}
}

// Send logs text. Returns nil (stdout logging does not fail).
func (n *LogSender) Send(_ context.Context, text string) error {
	n.logger.Info("new posting", "message", text)
	return nil
}

// SendTestMessage sends a sample posting to verify the channel works.
func SendTestMessage(ctx context.Context, s model.Sender) error {
	p := model.Posting{
		RawLink: "https://il.linkedin.com/jobs/view/jobwatch-test",
		ID:      "https://il.linkedin.com/jobs/view/jobwatch-test",
		Title:   "jobwatch test notification",
		Snippet: "If you can read this, notifications are configured correctly.",
	}
	return s.Send(ctx, FormatPosting(1, p))
}
