package mailer

import (
	"fmt"
	"log"
	"net/smtp"
	"strings"
)

// Mailer sends plain-text mail to a single recipient.
type Mailer interface {
	Send(to, subject, body string) error
}

// SMTPMailer sends mail through a configured SMTP relay. When no host is
// configured it logs the message instead, so registration never fails on a
// missing mail setup.
type SMTPMailer struct {
	Host string
	Port string
	User string
	Pass string
	From string
}

// New creates a mailer for the given SMTP settings.
func New(host, port, user, pass, from string) *SMTPMailer {
	return &SMTPMailer{Host: host, Port: port, User: user, Pass: pass, From: from}
}

// Send delivers the message, or logs it when SMTP is not configured.
func (m *SMTPMailer) Send(to, subject, body string) error {
	if m.Host == "" {
		log.Printf("mail (smtp not configured) to=%s subject=%q", to, subject)
		return nil
	}

	msg := strings.Join([]string{
		"From: " + m.From,
		"To: " + to,
		"Subject: " + subject,
		"MIME-Version: 1.0",
		"Content-Type: text/plain; charset=utf-8",
		"",
		body,
	}, "\r\n")

	addr := m.Host + ":" + m.Port
	var a smtp.Auth
	if m.User != "" {
		a = smtp.PlainAuth("", m.User, m.Pass, m.Host)
	}
	if err := smtp.SendMail(addr, a, m.From, []string{to}, []byte(msg)); err != nil {
		return fmt.Errorf("send mail: %w", err)
	}
	return nil
}
