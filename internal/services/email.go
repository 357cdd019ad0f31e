package services

import (
	"fmt"
	"log"
	"net/smtp"

	"github.com/kursgid/kursgid-api/internal/config"
)

// EmailService notifies the moderator about new pending submissions.
// All sends are best effort; a failing SMTP server never fails a submission.
type EmailService struct {
	smtpHost       string
	smtpPort       string
	smtpUsername   string
	smtpPassword   string
	fromEmail      string
	fromName       string
	moderatorEmail string
	appURL         string
}

func NewEmailService(cfg *config.Config) *EmailService {
	return &EmailService{
		smtpHost:       cfg.SMTPHost,
		smtpPort:       cfg.SMTPPort,
		smtpUsername:   cfg.SMTPUsername,
		smtpPassword:   cfg.SMTPPassword,
		fromEmail:      cfg.SMTPFromEmail,
		fromName:       cfg.SMTPFromName,
		moderatorEmail: cfg.ModeratorEmail,
		appURL:         cfg.AppURL,
	}
}

// SendEmail sends a plain-text email over SMTP.
func (s *EmailService) SendEmail(to, subject, body string) error {
	auth := smtp.PlainAuth("", s.smtpUsername, s.smtpPassword, s.smtpHost)

	msg := fmt.Sprintf("From: %s <%s>\r\nTo: %s\r\nSubject: %s\r\nContent-Type: text/plain; charset=UTF-8\r\n\r\n%s",
		s.fromName, s.fromEmail, to, subject, body)

	addr := s.smtpHost + ":" + s.smtpPort
	return smtp.SendMail(addr, auth, s.fromEmail, []string{to}, []byte(msg))
}

// NotifySubmission tells the moderator something new is waiting for review.
// kind is "course", "school" or "review".
func (s *EmailService) NotifySubmission(kind, title string) {
	if s.moderatorEmail == "" {
		return
	}

	subject := fmt.Sprintf("New %s submission pending moderation", kind)
	body := fmt.Sprintf("A new %s submission is waiting for review: %s\n\nModeration: %s/admin\n", kind, title, s.appURL)

	if err := s.SendEmail(s.moderatorEmail, subject, body); err != nil {
		log.Printf("Failed to send moderation notification: %v", err)
	}
}
