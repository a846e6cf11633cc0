package infra

import (
	"fmt"
	"net/smtp"

	"github.com/Sabharish-Varshaan/Inventory-management/internal/config"

	"github.com/jordan-wright/email"
)

// Mailer wraps SMTP configuration for sending operator notifications.
type Mailer struct {
	host     string
	user     string
	password string
	addr     string
}

// NewMailer returns nil when SMTP_HOST is unset so callers can skip email.
func NewMailer(cfg *config.Config) *Mailer {
	if cfg.SMTPHost == "" {
		return nil
	}
	return &Mailer{
		host:     cfg.SMTPHost,
		user:     cfg.SMTPUser,
		password: cfg.SMTPPassword,
		addr:     fmt.Sprintf("%s:%d", cfg.SMTPHost, cfg.SMTPPort),
	}
}

// SendText sends a plain-text message.
func (m *Mailer) SendText(to, subject, body string) error {
	e := email.NewEmail()
	e.From = m.user
	e.To = []string{to}
	e.Subject = subject
	e.Text = []byte(body)

	var auth smtp.Auth
	if m.user != "" {
		auth = smtp.PlainAuth("", m.user, m.password, m.host)
	}
	if err := e.Send(m.addr, auth); err != nil {
		return fmt.Errorf("mailer: send to %s: %w", to, err)
	}
	return nil
}
