package services

import (
	"gopkg.in/gomail.v2"

	"github.com/gamehub-dev/gamehub/internal/config"
)

const (
	confirmationSubject = "GameHub: Email Confirmation"
	resetSubject        = "GameHub: Reset Password"

	confirmationBody = "<p>Hello %s,</p><p>Welcome to GameHub! You have successfully registered, the last thing to do is to confirm your email.</p><a href='%s/users/confirm/%s?token=%s'>Click to confirm email.</a><p>If you did not expect to receive this message, please ignore it.</p><p>GameHub.</p>"

	resetBody = "<p>Hello %s,</p><p>We received a request to reset the password associated with your account. To proceed, please click on the following link:</p><a href='%s/reset-password/%s?token=%s'>Click to reset password.</a><p>If you did not request this password reset, please ignore this message.</p><p>GameHub.</p>"
)

// EmailService dispatches transactional mail over SMTP.
type EmailService struct {
	cfg config.SMTPConfig
}

func NewEmailService(cfg config.SMTPConfig) *EmailService {
	return &EmailService{cfg: cfg}
}

func (s *EmailService) Send(to, subject, htmlBody string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.cfg.From)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", htmlBody)

	d := gomail.NewDialer(s.cfg.Host, s.cfg.Port, s.cfg.Username, s.cfg.Password)

	return d.DialAndSend(m)
}
