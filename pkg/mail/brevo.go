package mail

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/mail"
	"strings"
	"time"
)

const defaultBrevoEndpoint = "https://api.brevo.com/v3/smtp/email"

// BrevoSettings configure the Brevo (Sendinblue) transactional email API client.
type BrevoSettings struct {
	Enabled    bool
	APIKey     string
	SenderName string
	SenderMail string
	Endpoint   string
	Timeout    time.Duration
}

type brevoMailer struct {
	cfg    BrevoSettings
	client *http.Client
}

type brevoAddress struct {
	Name  string `json:"name,omitempty"`
	Email string `json:"email"`
}

type brevoPayload struct {
	Sender      brevoAddress   `json:"sender"`
	To          []brevoAddress `json:"to"`
	Subject     string         `json:"subject"`
	HTMLContent string         `json:"htmlContent"`
}

// NewBrevoMailer builds a Mailer backed by the Brevo transactional email API.
func NewBrevoMailer(cfg BrevoSettings) (Mailer, error) {
	if cfg.Enabled {
		if strings.TrimSpace(cfg.APIKey) == "" {
			return nil, errors.New("brevo: api key is required when enabled")
		}
		if strings.TrimSpace(cfg.SenderMail) == "" {
			return nil, errors.New("brevo: sender address is required when enabled")
		}
	}
	if cfg.Endpoint == "" {
		cfg.Endpoint = defaultBrevoEndpoint
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	return &brevoMailer{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout},
	}, nil
}

func (m *brevoMailer) Send(ctx context.Context, msg Message) error {
	if !m.cfg.Enabled {
		return ErrDeliveryDisabled
	}

	recipients := uniqueAddresses(msg.To)
	if len(recipients) == 0 {
		return errors.New("brevo: at least one recipient is required")
	}

	to := make([]brevoAddress, 0, len(recipients))
	for _, rcpt := range recipients {
		if _, err := mail.ParseAddress(rcpt); err != nil {
			return fmt.Errorf("brevo: invalid recipient address %q: %w", rcpt, err)
		}
		to = append(to, brevoAddress{Email: rcpt})
	}

	payload := brevoPayload{
		Sender:      brevoAddress{Name: m.cfg.SenderName, Email: m.cfg.SenderMail},
		To:          to,
		Subject:     msg.Subject,
		HTMLContent: msg.HTML,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("brevo: encode payload: %w", err)
	}

	if ctx == nil {
		ctx = context.Background()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.cfg.Endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("brevo: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("api-key", m.cfg.APIKey)

	resp, err := m.client.Do(req)
	if err != nil {
		return fmt.Errorf("brevo: send email: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("brevo: unexpected status %d: %s", resp.StatusCode, strings.TrimSpace(string(detail)))
	}

	return nil
}
