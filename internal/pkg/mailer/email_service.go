package mailer

import (
	"fmt"

	"recruit-assist-be/internal/entity"

	"gopkg.in/gomail.v2"
)

type IEmailService interface {
	SendHandoffAlert(toEmail, sessionID, reason string, contact entity.HandoffContact) error
}

type emailService struct {
	dialer      *gomail.Dialer
	senderEmail string
	senderName  string
}

func NewEmailService(host string, port int, username, password, senderEmail, senderName string) IEmailService {
	d := gomail.NewDialer(host, port, username, password)
	return &emailService{
		dialer:      d,
		senderEmail: senderEmail,
		senderName:  senderName,
	}
}

// SendHandoffAlert notifies the support desk that a user is waiting for a
// human agent. Failures are the caller's to log; they never fail the
// handoff request itself.
func (s *emailService) SendHandoffAlert(toEmail, sessionID, reason string, contact entity.HandoffContact) error {
	m := gomail.NewMessage()
	m.SetAddressHeader("From", s.senderEmail, s.senderName)
	m.SetHeader("To", toEmail)
	m.SetHeader("Subject", "Chat handoff requested")

	name := contact.UserName
	if name == "" {
		name = "An anonymous visitor"
	}

	body := fmt.Sprintf(`
		<div style="font-family: Arial, sans-serif; padding: 20px; color: #333;">
			<h2>Live agent requested</h2>
			<p>%s is waiting for a human agent on session <b>%s</b>.</p>
			<p>Reason: %s</p>
			<p>Mobile: %s<br/>Email: %s</p>
			<p>Open the agent console to join the conversation.</p>
		</div>
	`, name, sessionID, orDash(reason), orDash(contact.UserMobile), orDash(contact.UserEmail))

	m.SetBody("text/html", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("send handoff alert: %w", err)
	}
	return nil
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
