// Package mailer is the narrow email collaborator. Delivery is best effort;
// callers treat failures as log-and-continue.
package mailer

import (
	"fmt"
	"net/smtp"

	"depot_tracker/internal/config"
)

type Mailer interface {
	Send(to, subject, body string) error
}

// SMTPMailer sends plain-text mail through a single SMTP relay.
type SMTPMailer struct {
	Host     string
	Port     string
	From     string
	Username string
	Password string
}

// NewFromEnv reads SMTP_* variables; falls back to a local relay.
func NewFromEnv() *SMTPMailer {
	return &SMTPMailer{
		Host:     config.GetEnv("SMTP_HOST", "localhost"),
		Port:     config.GetEnv("SMTP_PORT", "587"),
		From:     config.GetEnv("SMTP_FROM", "noreply@depot-tracker.local"),
		Username: config.GetEnv("SMTP_USER", ""),
		Password: config.GetEnv("SMTP_PASSWORD", ""),
	}
}

func (m *SMTPMailer) Send(to, subject, body string) error {
	msg := []byte(fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\n\r\n%s\r\n", m.From, to, subject, body))
	addr := m.Host + ":" + m.Port

	var a smtp.Auth
	if m.Username != "" {
		a = smtp.PlainAuth("", m.Username, m.Password, m.Host)
	}
	return smtp.SendMail(addr, a, m.From, []string{to}, msg)
}

// Noop discards mail; used in tests and when SMTP is not configured.
type Noop struct{}

func (Noop) Send(to, subject, body string) error { return nil }
