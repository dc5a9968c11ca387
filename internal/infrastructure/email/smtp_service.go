package email

import (
	"context"
	"fmt"
	"net/smtp"

	"bookcrossing-backend/internal/config"
)

// ConfirmationEmailData is everything the confirmation letter needs.
type ConfirmationEmailData struct {
	Email string
	Name  string
	Token string
}

type EmailService interface {
	SendConfirmationEmail(ctx context.Context, data ConfirmationEmailData) error
}

type smtpEmailService struct {
	addr            string
	from            string
	confirmationURL string
}

// NewSMTPEmailService talks plain SMTP. Local development points it at a
// MailHog-style catcher on port 1025.
func NewSMTPEmailService(cfg config.SMTPConfig, mail config.MailConfig) EmailService {
	return &smtpEmailService{
		addr:            cfg.Host + ":" + cfg.Port,
		from:            cfg.From,
		confirmationURL: mail.ConfirmationURL,
	}
}

func (s *smtpEmailService) SendConfirmationEmail(ctx context.Context, data ConfirmationEmailData) error {
	subject := "Подтверждение регистрации"
	body := fmt.Sprintf(`Здравствуйте, %s!

Для завершения регистрации перейдите по ссылке:
%s?token=%s

Если вы не регистрировались, просто проигнорируйте это письмо.`,
		data.Name, s.confirmationURL, data.Token)

	msg := []byte(fmt.Sprintf(
		"From: %s\r\nTo: %s\r\nSubject: %s\r\nContent-Type: text/plain; charset=utf-8\r\n\r\n%s",
		s.from, data.Email, subject, body))

	if err := smtp.SendMail(s.addr, nil, s.from, []string{data.Email}, msg); err != nil {
		return fmt.Errorf("failed to send confirmation email: %w", err)
	}
	return nil
}
