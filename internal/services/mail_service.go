package services

import (
	"fmt"

	"github.com/lehae/lehae-api/internal/config"
	gomail "gopkg.in/gomail.v2"
)

// Mailer sends plain-text notification mail. Implementations may fail; the
// service layer always treats a send failure as non-fatal.
type Mailer interface {
	Send(subject, body, from, to string) error
}

// SMTPMailer sends through the configured SMTP relay via gomail.
type SMTPMailer struct {
	dialer *gomail.Dialer
}

// NewSMTPMailer builds a mailer from config. Returns nil when no SMTP host
// is configured, in which case notifications are skipped.
func NewSMTPMailer(cfg *config.Config) *SMTPMailer {
	if cfg.SMTPHost == "" {
		return nil
	}
	return &SMTPMailer{
		dialer: gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword),
	}
}

// Send implements Mailer.
func (m *SMTPMailer) Send(subject, body, from, to string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", body)

	if err := m.dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("smtp send failed: %w", err)
	}
	return nil
}
