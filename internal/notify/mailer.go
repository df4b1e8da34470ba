package notify

import (
	"context"
	"errors"
	"fmt"
	"net/smtp"
	"strings"
)

// Mailer sends plain-text mail over SMTP with PLAIN auth.
type Mailer struct {
	Host       string
	Port       string
	From       string
	Password   string
	AdminEmail string

	// send defaults to smtp.SendMail; tests replace it.
	send func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

func NewMailer(host, port, from, password, adminEmail string) *Mailer {
	return &Mailer{
		Host:       host,
		Port:       port,
		From:       from,
		Password:   password,
		AdminEmail: adminEmail,
		send:       smtp.SendMail,
	}
}

func (m *Mailer) Notify(ctx context.Context, ev Event) error {
	to, subject, body := m.compose(ev)
	if to == "" {
		return fmt.Errorf("%s: no recipient", ev.Kind)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	auth := smtp.PlainAuth("", m.From, m.Password, m.Host)
	msg := []byte("Subject: " + subject + "\r\n" +
		"From: " + m.From + "\r\n" +
		"To: " + to + "\r\n" +
		"Content-Type: text/plain; charset=UTF-8\r\n" +
		"\r\n" +
		body + "\r\n")

	return m.send(m.Host+":"+m.Port, auth, m.From, []string{to}, msg)
}

func (m *Mailer) compose(ev Event) (to, subject, body string) {
	switch ev.Kind {
	case RequestCreated:
		to = m.AdminEmail
		subject = fmt.Sprintf("Upgrade request #%d from %s", ev.RequestID, ev.AccountName)
		body = fmt.Sprintf("%s <%s> asked to move to plan %s.", ev.AccountName, ev.AccountEmail, ev.PlanName)
		if ev.Notes != "" {
			body += "\n\nNotes:\n" + ev.Notes
		}
	case RequestApproved:
		to = ev.AccountEmail
		subject = "Your upgrade request was approved"
		body = fmt.Sprintf("Your account now uses plan %s.", ev.PlanName)
	case RequestRejected:
		to = ev.AccountEmail
		subject = "Your upgrade request was rejected"
		body = fmt.Sprintf("Your request to move to plan %s was not approved.", ev.PlanName)
	default:
		return "", "", ""
	}
	if ev.AdminNotes != "" && ev.Kind != RequestCreated {
		body += "\n\nAdministrator notes:\n" + ev.AdminNotes
	}
	return strings.TrimSpace(to), subject, body
}

// Configured reports whether enough settings exist to send mail.
func (m *Mailer) Configured() error {
	if m.Host == "" || m.Port == "" || m.From == "" {
		return errors.New("SMTP_HOST, SMTP_PORT and SMTP_FROM are required")
	}
	return nil
}
