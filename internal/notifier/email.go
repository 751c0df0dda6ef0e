// Package notifier delivers notifications about new items.
package notifier

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/wneessen/go-mail"

	"video_notifier/internal/domain"
)

// EmailConfig holds SMTP settings.
type EmailConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	To       string
	Subject  string
	Timeout  time.Duration
}

// Email sends one plain-text message per item over SMTP with STARTTLS
// and PLAIN authentication.
type Email struct {
	cfg    EmailConfig
	send   func(ctx context.Context, msg *mail.Msg) error
	logger *slog.Logger
}

func NewEmail(cfg EmailConfig, logger *slog.Logger) (*Email, error) {
	client, err := mail.NewClient(cfg.Host,
		mail.WithPort(cfg.Port),
		mail.WithTLSPortPolicy(mail.TLSMandatory),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(cfg.Username),
		mail.WithPassword(cfg.Password),
		mail.WithTimeout(cfg.Timeout),
	)
	if err != nil {
		return nil, fmt.Errorf("create smtp client: %w", err)
	}

	return &Email{
		cfg: cfg,
		send: func(ctx context.Context, msg *mail.Msg) error {
			return client.DialAndSendWithContext(ctx, msg)
		},
		logger: logger.With("notifier", "email"),
	}, nil
}

// Notify sends the item's message.
func (e *Email) Notify(ctx context.Context, item domain.Item) error {
	msg, err := e.message(item)
	if err != nil {
		return err
	}

	if err := e.send(ctx, msg); err != nil {
		return fmt.Errorf("send email: %w", err)
	}

	e.logger.Info("email sent", "item_id", item.ID, "to", e.cfg.To)
	return nil
}

func (e *Email) message(item domain.Item) (*mail.Msg, error) {
	msg := mail.NewMsg(mail.WithEncoding(mail.NoEncoding))
	if err := msg.From(e.cfg.From); err != nil {
		return nil, fmt.Errorf("set sender: %w", err)
	}
	if err := msg.To(e.cfg.To); err != nil {
		return nil, fmt.Errorf("set recipient: %w", err)
	}
	msg.Subject(e.cfg.Subject)
	msg.SetDate()
	msg.SetBodyString(mail.TypeTextPlain, item.Message())
	return msg, nil
}
