package mail

import (
	"fmt"
	"log"
	"net/smtp"
	"strings"
)

// Mailer delivers notification emails. Delivery is best-effort; callers log
// and continue on error.
type Mailer interface {
	Send(to, subject, body string) error
}

// ConsoleMailer writes outgoing mail to the log, the development default.
type ConsoleMailer struct{}

func (ConsoleMailer) Send(to, subject, body string) error {
	log.Printf("[mail] to=%s subject=%q\n%s", to, subject, body)
	return nil
}

// SMTPMailer relays through a plain SMTP endpoint.
type SMTPMailer struct {
	Addr string // host:port
	From string
}

func (m SMTPMailer) Send(to, subject, body string) error {
	msg := strings.Join([]string{
		"From: " + m.From,
		"To: " + to,
		"Subject: " + subject,
		"",
		body,
	}, "\r\n")
	if err := smtp.SendMail(m.Addr, nil, m.From, []string{to}, []byte(msg)); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}
	return nil
}

// New picks the backend: "smtp" relays, anything else logs.
func New(backend, addr, from string) Mailer {
	if backend == "smtp" {
		return SMTPMailer{Addr: addr, From: from}
	}
	return ConsoleMailer{}
}
