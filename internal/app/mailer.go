package app

import (
	"context"

	"github.com/nriproperty/portal/pkg/mail"
)

// NewMailer builds the configured mail provider. The disabled provider
// silently drops messages so the rest of the application never needs a nil
// check.
func NewMailer(cfg EmailConfig) (mail.Mailer, error) {
	switch cfg.Provider {
	case "smtp":
		return mail.NewSMTPMailer(mail.SMTPSettings{
			Enabled:  true,
			Host:     cfg.SMTP.Host,
			Port:     cfg.SMTP.Port,
			Username: cfg.SMTP.Username,
			Password: cfg.SMTP.Password,
			From:     cfg.From,
			UseTLS:   cfg.SMTP.UseTLS,
			Timeout:  cfg.SMTP.Timeout,
		})
	case "brevo":
		return mail.NewBrevoMailer(mail.BrevoSettings{
			Enabled:    true,
			APIKey:     cfg.Brevo.APIKey,
			SenderName: cfg.Brand,
			SenderMail: cfg.From,
			Endpoint:   cfg.Brevo.Endpoint,
			Timeout:    cfg.Brevo.Timeout,
		})
	default:
		return noopMailer{}, nil
	}
}

type noopMailer struct{}

func (noopMailer) Send(context.Context, mail.Message) error { return nil }
