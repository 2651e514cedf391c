package notifier

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/wneessen/go-mail"

	"github.com/amishk599/jobwatch/internal/model"
)

// DefaultEmailSubject is used when EmailSettings.Subject is empty.
const DefaultEmailSubject = "New Job Postings"

// EmailSettings describes the SMTP relay and the envelope of every message.
type EmailSettings struct {
	Host     string
	Port     int
	Username string // empty disables SMTP AUTH
	Password string
	TLS      string // "mandatory" (STARTTLS), "opportunistic", "none" or "ssl"
	From     string
	To       []string
	Subject  string
	Timeout  time.Duration
}

// EmailSender delivers each message as a plain-text email.
type EmailSender struct {
	client   *mail.Client
	settings EmailSettings
	logger   *slog.Logger
}

var _ model.Sender = (*EmailSender)(nil)

// NewEmailSender returns a sender relaying through settings.Host. Each Send
// opens its own SMTP session.
func NewEmailSender(settings EmailSettings, logger *slog.Logger) (*EmailSender, error) {
	opts := []mail.Option{mail.WithPort(settings.Port)}
	if settings.Timeout > 0 {
		opts = append(opts, mail.WithTimeout(settings.Timeout))
	}

	switch settings.TLS {
	case "", "mandatory":
		opts = append(opts, mail.WithTLSPolicy(mail.TLSMandatory))
	case "opportunistic":
		opts = append(opts, mail.WithTLSPolicy(mail.TLSOpportunistic))
	case "none":
		opts = append(opts, mail.WithTLSPolicy(mail.NoTLS))
	case "ssl":
		opts = append(opts, mail.WithSSL())
	default:
		return nil, fmt.Errorf("unknown smtp tls mode %q", settings.TLS)
	}

	if settings.Username != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(settings.Username),
			mail.WithPassword(settings.Password),
		)
	}

	client, err := mail.NewClient(settings.Host, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating smtp client: %w", err)
	}
	if settings.Subject == "" {
		settings.Subject = DefaultEmailSubject
	}
	return &EmailSender{client: client, settings: settings, logger: logger}, nil
}

// Send mails text to every configured recipient. Address or SMTP failures
// are returned wrapping model.ErrNotify.
func (s *EmailSender) Send(ctx context.Context, text string) error {
	msg := mail.NewMsg()
	if err := msg.From(s.settings.From); err != nil {
		return fmt.Errorf("%w: email from %q: %w", model.ErrNotify, s.settings.From, err)
	}
	if err := msg.To(s.settings.To...); err != nil {
		return fmt.Errorf("%w: email to %v: %w", model.ErrNotify, s.settings.To, err)
	}
	msg.Subject(s.settings.Subject)
	msg.SetBodyString(mail.TypeTextPlain, truncate(text, MaxMessageLen))

	if err := s.client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("%w: smtp send via %s: %w", model.ErrNotify, s.settings.Host, err)
	}
	s.logger.Debug("email sent", "to", s.settings.To)
	return nil
}
