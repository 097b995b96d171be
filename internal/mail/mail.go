// Package mail sends transactional email over SMTP. Sends are
// fire-and-forget: callers never block a request on mail delivery, and
// failures are logged rather than surfaced.
package mail

import (
	"fmt"
	"log/slog"
	"net/smtp"
)

// Sender delivers mail through a single SMTP server. A Sender with an
// empty host drops all mail, which keeps development setups working
// without an SMTP server.
type Sender struct {
	host     string
	port     string
	user     string
	password string
	from     string
}

// NewSender creates an SMTP sender. Pass an empty host to disable mail.
func NewSender(host, port, user, password, from string) *Sender {
	return &Sender{host: host, port: port, user: user, password: password, from: from}
}

// Enabled reports whether a mail server is configured.
func (s *Sender) Enabled() bool {
	return s.host != ""
}

// Send delivers one plain-text message synchronously.
func (s *Sender) Send(to, subject, body string) error {
	if !s.Enabled() {
		slog.Debug("mail disabled, dropping message", "to", to, "subject", subject)
		return nil
	}

	message := fmt.Sprintf("From: %s\r\n"+
		"To: %s\r\n"+
		"Subject: %s\r\n"+
		"\r\n"+
		"%s\r\n", s.from, to, subject, body)

	var auth smtp.Auth
	if s.user != "" {
		auth = smtp.PlainAuth("", s.user, s.password, s.host)
	}

	if err := smtp.SendMail(s.host+":"+s.port, auth, s.from, []string{to}, []byte(message)); err != nil {
		return fmt.Errorf("send mail to %s: %w", to, err)
	}
	return nil
}

// SendAsync delivers a message on a separate goroutine, logging failures.
func (s *Sender) SendAsync(to, subject, body string) {
	if !s.Enabled() {
		return
	}
	go func() {
		if err := s.Send(to, subject, body); err != nil {
			slog.Error("mail delivery failed", "to", to, "subject", subject, "error", err)
		}
	}()
}

// SendVerification mails the account verification link.
func (s *Sender) SendVerification(to, clientURL, token string) {
	link := fmt.Sprintf("%s/verify-email?token=%s", clientURL, token)
	body := fmt.Sprintf(`Welcome to Inkwell!

To verify your email address and activate your account, open the link below:

%s

If you did not sign up, you can ignore this message.
`, link)
	s.SendAsync(to, "Verify your email", body)
}
