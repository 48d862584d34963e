// Package mailer delivers report emails with in-memory attachments
// over SMTP.
package mailer

import (
	"errors"
	"io"

	"hospital-sim-reporting/internal/config"

	"go.uber.org/zap"
	gomail "gopkg.in/gomail.v2"
)

// ErrNotConfigured marks a skipped delivery: sender, credential or
// recipient missing. Callers treat it as a degraded path, not a
// failure.
var ErrNotConfigured = errors.New("mailer: email not configured")

type Attachment struct {
	Name string
	Data []byte
}

// Sender is the delivery sink. Satisfied by SMTPMailer in production
// and by fakes in tests.
type Sender interface {
	Send(subject, body string, attachments []Attachment) error
}

type SMTPMailer struct {
	cfg    config.EmailConfig
	logger *zap.Logger
}

func NewSMTPMailer(cfg config.EmailConfig, logger *zap.Logger) *SMTPMailer {
	return &SMTPMailer{cfg: cfg, logger: logger}
}

// Send delivers one message with all attachments to the configured
// recipient. Returns ErrNotConfigured without dialing when the email
// settings are incomplete.
func (m *SMTPMailer) Send(subject, body string, attachments []Attachment) error {
	if !m.cfg.Configured() {
		return ErrNotConfigured
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.cfg.Sender)
	msg.SetHeader("To", m.cfg.Receiver)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", body)

	for _, att := range attachments {
		data := att.Data
		msg.Attach(att.Name, gomail.SetCopyFunc(func(w io.Writer) error {
			_, err := w.Write(data)
			return err
		}))
	}

	dialer := gomail.NewDialer(m.cfg.SMTPHost, m.cfg.SMTPPort, m.cfg.Sender, m.cfg.Password)
	if err := dialer.DialAndSend(msg); err != nil {
		return err
	}

	m.logger.Info("report email sent",
		zap.String("to", m.cfg.Receiver),
		zap.Int("attachments", len(attachments)))
	return nil
}
