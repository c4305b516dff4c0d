package notification

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"
)

// Mailer delivers a rendered HTML email.
type Mailer interface {
	Send(ctx context.Context, to, subject, htmlBody string) error
}

// SMTPMailer sends mail through an SMTP relay. Auth is used only when a user is set.
type SMTPMailer struct {
	addr string
	host string
	from string
	auth smtp.Auth
}

func NewSMTPMailer(host, port, user, password, from string) *SMTPMailer {
	host = strings.TrimSpace(host)
	m := &SMTPMailer{
		addr: fmt.Sprintf("%s:%s", host, strings.TrimSpace(port)),
		host: host,
		from: strings.TrimSpace(from),
	}
	if user != "" {
		m.auth = smtp.PlainAuth("", user, password, host)
	}
	return m
}

func (m *SMTPMailer) Send(ctx context.Context, to, subject, htmlBody string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	msg := buildMessage(m.from, to, subject, htmlBody)
	if err := smtp.SendMail(m.addr, m.auth, m.from, []string{to}, []byte(msg)); err != nil {
		return fmt.Errorf("SMTPMailer: send to %s: %w", to, err)
	}
	return nil
}

func buildMessage(from, to, subject, body string) string {
	return fmt.Sprintf(
		"From: %s\r\nTo: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: text/html; charset=utf-8\r\n\r\n%s\r\n",
		from,
		to,
		subject,
		body,
	)
}
