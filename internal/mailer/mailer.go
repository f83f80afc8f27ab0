// Package mailer sends account mail. Delivery failures are the caller's
// problem to tolerate; handlers treat confirmation mail as best effort.
package mailer

import (
	"context"
	"fmt"
	"log"
	"net/smtp"

	"notesapi/internal/config"
)

// Sender delivers a confirmation mail carrying the verification link.
type Sender interface {
	SendConfirmation(ctx context.Context, to, username, link string) error
}

// SMTPSender sends mail over plain SMTP with AUTH PLAIN.
type SMTPSender struct {
	cfg config.MailConfig
}

// NewSMTPSender returns a Sender backed by the configured SMTP server.
func NewSMTPSender(cfg config.MailConfig) *SMTPSender {
	return &SMTPSender{cfg: cfg}
}

func (s *SMTPSender) SendConfirmation(ctx context.Context, to, username, link string) error {
	msg := fmt.Sprintf(
		"From: %s\r\nTo: %s\r\nSubject: Confirm your email\r\nMIME-Version: 1.0\r\nContent-Type: text/plain; charset=utf-8\r\n\r\n"+
			"Hi %s,\r\n\r\nFollow the link to confirm your email:\r\n\r\n%s\r\n\r\nThe link is valid for 7 days.\r\n",
		s.cfg.From, to, username, link)

	addr := fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)
	auth := smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.Host)
	if err := smtp.SendMail(addr, auth, s.cfg.From, []string{to}, []byte(msg)); err != nil {
		return fmt.Errorf("send mail to %s: %w", to, err)
	}
	return nil
}

// LogSender logs the verification link instead of sending it. Used when no
// SMTP server is configured (local runs, CI).
type LogSender struct{}

func (LogSender) SendConfirmation(_ context.Context, to, _, link string) error {
	log.Printf("mailer disabled, confirmation link for %s: %s", to, link)
	return nil
}
