package notifier

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	tele "gopkg.in/telebot.v4"

	"github.com/amishk599/jobwatch/internal/model"
)

// chatRecipient addresses a chat by numeric id or @channel username.
type chatRecipient string

func (c chatRecipient) Recipient() string { return string(c) }

// TelegramSender delivers messages through the Telegram Bot API sendMessage call.
type TelegramSender struct {
	bot    *tele.Bot
	chat   chatRecipient
	logger *slog.Logger
}

var _ model.Sender = (*TelegramSender)(nil)

// NewTelegramSender returns a sender posting to chatID as the bot identified
// by token. An empty apiURL uses the public Bot API.
func NewTelegramSender(apiURL, token, chatID string, httpClient *http.Client, logger *slog.Logger) (*TelegramSender, error) {
	b, err := tele.NewBot(tele.Settings{
		URL:     apiURL,
		Token:   token,
		Client:  httpClient,
		Offline: true, // send-only: no getMe round trip, no update polling
	})
	if err != nil {
		return nil, fmt.Errorf("creating telegram bot: %w", err)
	}
	return &TelegramSender{
		bot:    b,
		chat:   chatRecipient(chatID),
		logger: logger,
	}, nil
}

// Send posts text to the configured chat. A transport failure or a response
// without ok=true is returned as an error wrapping model.ErrNotify.
func (s *TelegramSender) Send(ctx context.Context, text string) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %w", model.ErrNotify, err)
	}
	if _, err := s.bot.Send(s.chat, truncate(text, MaxMessageLen)); err != nil {
		return fmt.Errorf("%w: telegram sendMessage: %w", model.ErrNotify, err)
	}
	return nil
}
