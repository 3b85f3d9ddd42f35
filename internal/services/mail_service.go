// internal/services/mail_service.go
package services

import (
	"fmt"
	"net/smtp"

	"github.com/sirupsen/logrus"

	"github.com/enescucu1/auto/internal/config"
)

// MailService sends plain SMTP notifications. All sends are best effort:
// failures are logged and never propagated to the caller.
type MailService struct {
	config *config.MailConfig
}

func NewMailService(cfg *config.MailConfig) *MailService {
	return &MailService{config: cfg}
}

// SendAutoCreated notifies about a newly created Auto.
func (s *MailService) SendAutoCreated(id uint, modellName string) {
	subject := fmt.Sprintf("Neues Auto %d", id)
	body := fmt.Sprintf("Das Auto mit dem Modell %s ist angelegt", modellName)

	if err := s.send(subject, body); err != nil {
		logrus.WithError(err).WithField("id", id).Warn("Failed to send creation mail")
	}
}

func (s *MailService) send(subject, body string) error {
	if !s.config.Enabled {
		logrus.WithField("subject", subject).Debug("Mail disabled, skipping send")
		return nil
	}

	addr := s.config.SMTPHost + ":" + s.config.SMTPPort
	msg := []byte("From: " + s.config.From + "\r\n" +
		"To: " + s.config.To + "\r\n" +
		"Subject: " + subject + "\r\n" +
		"\r\n" +
		body + "\r\n")

	if err := smtp.SendMail(addr, nil, s.config.From, []string{s.config.To}, msg); err != nil {
		return fmt.Errorf("failed to send mail: %w", err)
	}
	return nil
}
