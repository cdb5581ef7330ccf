package services

import (
	"context"
	"fmt"
	"time"

	"github.com/nriproperty/portal/pkg/mail"
)

// MailNotifier renders and sends the transactional emails the portal needs:
// login codes to clients, enquiry acknowledgements, and support alerts to the
// operations inbox.
type MailNotifier struct {
	mailer     mail.Mailer
	brand      string
	from       string
	adminEmail string
}

// NewMailNotifier builds a notifier on top of any Mailer implementation.
func NewMailNotifier(mailer mail.Mailer, brand, from, adminEmail string) *MailNotifier {
	if brand == "" {
		brand = "NRI Property"
	}
	return &MailNotifier{
		mailer:     mailer,
		brand:      brand,
		from:       from,
		adminEmail: adminEmail,
	}
}

// SendOTP delivers a login code. Satisfies auth.Notifier.
func (n *MailNotifier) SendOTP(ctx context.Context, email, name, code string, ttl time.Duration) error {
	body, err := mail.RenderOTPEmail(n.brand, name, code, ttl)
	if err != nil {
		return err
	}

	return n.mailer.Send(ctx, mail.Message{
		From:    n.from,
		To:      []string{email},
		Subject: fmt.Sprintf("Your %s login OTP", n.brand),
		HTML:    body,
	})
}

// SendEnquiryAck thanks a lead for their enquiry.
func (n *MailNotifier) SendEnquiryAck(ctx context.Context, email, name, service string) error {
	body, err := mail.RenderEnquiryAck(n.brand, name, service)
	if err != nil {
		return err
	}

	return n.mailer.Send(ctx, mail.Message{
		From:    n.from,
		To:      []string{email},
		Subject: fmt.Sprintf("We received your enquiry | %s", n.brand),
		HTML:    body,
	})
}

// SendSupportAlert notifies the operations inbox about a new support query.
func (n *MailNotifier) SendSupportAlert(ctx context.Context, name, phone, location, issue string) error {
	if n.adminEmail == "" {
		return nil
	}

	body, err := mail.RenderSupportAlert(name, phone, location, issue)
	if err != nil {
		return err
	}

	return n.mailer.Send(ctx, mail.Message{
		From:    n.from,
		To:      []string{n.adminEmail},
		Subject: "New support query received",
		HTML:    body,
	})
}
