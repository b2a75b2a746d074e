// backend/src/services/email_service.go
package services

import (
	"fmt"
	"net/smtp"

	"github.com/username/divilog/backend/src/config"
	"github.com/username/divilog/backend/src/logger"
)

// smtpEmailService sends account lifecycle emails through the configured
// SMTP relay. With no SMTP server configured it logs and drops the message,
// which keeps local development working without a relay.
type smtpEmailService struct{}

func NewEmailService() EmailService {
	return &smtpEmailService{}
}

func (s *smtpEmailService) SendVerificationEmail(toEmail, username, token string) error {
	link := fmt.Sprintf("%s?token=%s", config.Cfg.VerificationEmailBaseURL, token)
	subject := "Verify your DiviLog account"
	body := fmt.Sprintf(
		"Hi %s,\r\n\r\nPlease confirm your email address by opening the link below:\r\n\r\n%s\r\n\r\nIf you did not create this account you can ignore this message.\r\n",
		username, link,
	)
	return s.send(toEmail, subject, body)
}

func (s *smtpEmailService) SendPasswordResetEmail(toEmail, username, token string) error {
	link := fmt.Sprintf("%s?token=%s", config.Cfg.PasswordResetBaseURL, token)
	subject := "Reset your DiviLog password"
	body := fmt.Sprintf(
		"Hi %s,\r\n\r\nA password reset was requested for your account. Open the link below to choose a new password:\r\n\r\n%s\r\n\r\nThe link expires in %s. If you did not request this, ignore this message.\r\n",
		username, link, config.Cfg.PasswordResetTokenExpiry,
	)
	return s.send(toEmail, subject, body)
}

func (s *smtpEmailService) send(toEmail, subject, body string) error {
	if config.Cfg.SMTPServer == "" {
		logger.L.Warn("SMTP server not configured, dropping email", "to", toEmail, "subject", subject)
		return nil
	}

	msg := fmt.Sprintf(
		"From: %s <%s>\r\nTo: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: text/plain; charset=utf-8\r\n\r\n%s",
		config.Cfg.SenderName, config.Cfg.SenderEmail, toEmail, subject, body,
	)

	addr := fmt.Sprintf("%s:%d", config.Cfg.SMTPServer, config.Cfg.SMTPPort)
	var auth smtp.Auth
	if config.Cfg.SMTPUser != "" {
		auth = smtp.PlainAuth("", config.Cfg.SMTPUser, config.Cfg.SMTPPassword, config.Cfg.SMTPServer)
	}

	if err := smtp.SendMail(addr, auth, config.Cfg.SenderEmail, []string{toEmail}, []byte(msg)); err != nil {
		return fmt.Errorf("sending email via %s: %w", addr, err)
	}

	logger.L.Info("Email sent", "to", toEmail, "subject", subject)
	return nil
}
