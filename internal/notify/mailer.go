package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"calmtable/internal/pkg/config"
	"calmtable/internal/pkg/errs"
)

const sendGridEndpoint = "https://api.sendgrid.com/v3/mail/send"

var ErrMailerFailure = errs.New("mailer failure")

// Email is a fully rendered outbound message.
type Email struct {
	To       string `json:"to"`
	Subject  string `json:"subject"`
	HTMLBody string `json:"html_body"`
}

type Mailer interface {
	Send(ctx context.Context, email Email) error
}

// SendGridMailer delivers through the SendGrid v3 HTTP API.
type SendGridMailer struct {
	apiKey string
	from   string
	client *http.Client
}

func NewSendGridMailer(cfg config.MailConfig) *SendGridMailer {
	return &SendGridMailer{
		apiKey: cfg.SendGridAPIKey,
		from:   cfg.FromEmail,
		client: &http.Client{Timeout: 10 * time.Second},
	}
}

func (m *SendGridMailer) Send(ctx context.Context, email Email) error {
	payload := map[string]any{
		"personalizations": []map[string]any{
			{"to": []map[string]string{{"email": email.To}}},
		},
		"from":    map[string]string{"email": m.from},
		"subject": email.Subject,
		"content": []map[string]string{
			{"type": "text/html", "value": email.HTMLBody},
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return errs.Mark(err, ErrMailerFailure)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, sendGridEndpoint, bytes.NewReader(body))
	if err != nil {
		return errs.Mark(err, ErrMailerFailure)
	}
	req.Header.Set("Authorization", "Bearer "+m.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := m.client.Do(req)
	if err != nil {
		return errs.Mark(err, ErrMailerFailure)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return errs.Mark(errs.New("sendgrid returned status "+resp.Status), ErrMailerFailure)
	}
	return nil
}

// LogMailer writes messages to the log instead of sending them. Used when no
// API key is configured and in tests.
type LogMailer struct{}

func (LogMailer) Send(_ context.Context, email Email) error {
	slog.Info("email (log mailer)",
		"to", email.To,
		"subject", email.Subject,
	)
	return nil
}

func NewMailer(cfg config.MailConfig) Mailer {
	if cfg.SendGridAPIKey == "" {
		return LogMailer{}
	}
	return NewSendGridMailer(cfg)
}
