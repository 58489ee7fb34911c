package notify

import (
	"context"
	"fmt"

	"mkc-office-backend/config"
	"mkc-office-backend/internal/logger"
	"mkc-office-backend/internal/usecase"

	"gopkg.in/gomail.v2"
)

// Mailer sends plain-text mail over SMTP.
type Mailer struct {
	dialer *gomail.Dialer
	from   string
}

func NewMailer(cfg config.SMTPConfig) *Mailer {
	return &Mailer{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.User, cfg.Password),
		from:   cfg.From,
	}
}

// Send delivers one message to all recipients, Bcc'd so staff do not see each other.
func (m *Mailer) Send(ctx context.Context, to []string, subject, body string) error {
	if len(to) == 0 {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	if len(to) == 1 {
		msg.SetHeader("To", to[0])
	} else {
		msg.SetHeader("To", m.from)
		msg.SetHeader("Bcc", to...)
	}
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", body)

	if err := m.dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}
	logger.Debug("mail.sent", "recipients", len(to), "subject", subject)
	return nil
}

// LogNotifier only logs messages. Used when SMTP is not configured.
type LogNotifier struct{}

func (LogNotifier) Send(_ context.Context, to []string, subject, body string) error {
	logger.Info("mail.skipped", "recipients", to, "subject", subject, "body_len", len(body))
	return nil
}

// FromConfig picks the SMTP mailer when a host is configured.
func FromConfig(cfg config.SMTPConfig) usecase.Notifier {
	if cfg.Host == "" {
		return LogNotifier{}
	}
	return NewMailer(cfg)
}
