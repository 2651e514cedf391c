package notifier

import (
	"context"
	"log/slog"
	"time"

	"github.com/amishk599/jobwatch/internal/model"
)

// Dispatcher sends new postings one message at a time and reports which
// postings were delivered.
type Dispatcher struct {
	sender model.Sender
	delay  time.Duration
	logger *slog.Logger
}

// NewDispatcher returns a dispatcher that waits delay after each delivered
// message before sending the next one.
func NewDispatcher(sender model.Sender, delay time.Duration, logger *slog.Logger) *Dispatcher {
	return &Dispatcher{
		sender: sender,
		delay:  delay,
		logger: logger,
	}
}

// DispatchAll sends each posting in order and returns the ids that were
// delivered. A failed send is logged and skipped; the posting is left out of
// the result so it is offered again on the next cycle. If ctx is cancelled
// the remaining postings are skipped.
func (d *Dispatcher) DispatchAll(ctx context.Context, postings []model.Posting) model.SeenSet {
	sent := model.NewSeenSet()
	if len(postings) == 0 {
		return sent
	}

	failures := 0
	for i, p := range postings {
		if ctx.Err() != nil {
			d.logger.Warn("dispatch interrupted", "remaining", len(postings)-i, "error", ctx.Err())
			break
		}

		if err := d.sender.Send(ctx, FormatPosting(i+1, p)); err != nil {
			d.logger.Error("notification failed", "title", p.Title, "link", p.RawLink, "error", err)
			failures++
			continue
		}
		sent.Add(p.ID)
		d.logger.Debug("notification sent", "title", p.Title, "link", p.RawLink)

		// Pause between messages, except after the last one.
		if i < len(postings)-1 && d.delay > 0 {
			select {
			case <-ctx.Done():
			case <-time.After(d.delay):
			}
		}
	}

	d.logger.Info("notifications complete", "sent", sent.Len(), "failed", failures)
	return sent
}
