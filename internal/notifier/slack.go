package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/amishk599/jobwatch/internal/model"
)

// SlackSender delivers messages to a Slack channel via an Incoming Webhook.
type SlackSender struct {
	webhookURL string
	httpClient *http.Client
	logger     *slog.Logger
}

var _ model.Sender = (*SlackSender)(nil)

// NewSlackSender returns a sender that posts plain-text messages to webhookURL.
func NewSlackSender(webhookURL string, httpClient *http.Client, logger *slog.Logger) *SlackSender {
	return &SlackSender{
		webhookURL: webhookURL,
		httpClient: httpClient,
		logger:     logger,
	}
}

type slackPayload struct {
	Text string `json:"text"`
}

// Send posts text to the webhook. A 429 is retried once after Retry-After.
func (s *SlackSender) Send(ctx context.Context, text string) error {
	body, err := json.Marshal(slackPayload{Text: truncate(text, MaxMessageLen)})
	if err != nil {
		return fmt.Errorf("marshal slack payload: %w", err)
	}

	status, retryAfter, err := s.post(ctx, body)
	if err != nil {
		return err
	}

	if status == http.StatusTooManyRequests {
		s.logger.Warn("slack rate limited, retrying", "retry_after", retryAfter)
		select {
		case <-ctx.Done():
			return fmt.Errorf("%w: %w", model.ErrNotify, ctx.Err())
		case <-time.After(retryAfter):
		}

		status, _, err = s.post(ctx, body)
		if err != nil {
			return err
		}
		if status != http.StatusOK {
			return fmt.Errorf("%w: slack returned %d on retry", model.ErrNotify, status)
		}
		return nil
	}

	if status != http.StatusOK {
		return fmt.Errorf("%w: slack returned %d", model.ErrNotify, status)
	}
	return nil
}

func (s *SlackSender) post(ctx context.Context, body []byte) (int, time.Duration, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.webhookURL, bytes.NewReader(body))
	if err != nil {
		return 0, 0, fmt.Errorf("%w: build slack request: %w", model.ErrNotify, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: post to slack: %w", model.ErrNotify, err)
	}
	defer resp.Body.Close()

	secs, _ := strconv.Atoi(resp.Header.Get("Retry-After"))
	if secs <= 0 {
		secs = 1
	}
	return resp.StatusCode, time.Duration(secs) * time.Second, nil
}
