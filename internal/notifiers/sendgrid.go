package notifiers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/neonlabs/contact-backend/internal/config"
	"github.com/neonlabs/contact-backend/internal/domain/model"
	"github.com/rs/zerolog"
)

const (
	sendGridEndpoint = "https://api.sendgrid.com/v3/mail/send"
	sendGridTimeout  = 10 * time.Second

	// maxErrorBodyLen caps how much of a rejection body is kept for logs.
	maxErrorBodyLen = 200
)

// SendGridOption configures the behaviour of the SendGrid sender.
type SendGridOption func(*SendGridSender)

// WithSendGridEndpoint overrides the mail-send endpoint URL.
func WithSendGridEndpoint(url string) SendGridOption {
	return func(s *SendGridSender) {
		if url != "" {
			s.endpoint = url
		}
	}
}

// WithSendGridHTTPClient swaps the HTTP client used for submissions.
func WithSendGridHTTPClient(client *http.Client) SendGridOption {
	return func(s *SendGridSender) {
		if client != nil {
			s.client = client
		}
	}
}

// SendGridSender delivers email through the SendGrid v3 REST API.
type SendGridSender struct {
	apiKey   string
	from     string
	fromName string
	endpoint string
	client   *http.Client
	logger   zerolog.Logger
}

// NewSendGridSender creates a new instance of SendGridSender.
func NewSendGridSender(cfg *config.Config, logger *zerolog.Logger, opts ...SendGridOption) *SendGridSender {
	from := cfg.Email.From
	if from == "" {
		from = defaultFromAddress
	}
	fromName := cfg.Email.FromName
	if fromName == "" {
		fromName = defaultFromName
	}

	s := &SendGridSender{
		apiKey:   cfg.SendGrid.APIKey,
		from:     from,
		fromName: fromName,
		endpoint: sendGridEndpoint,
		client:   &http.Client{Timeout: sendGridTimeout},
		logger:   logger.With().Str("component", "sendgrid_sender").Logger(),
	}

	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}

	return s
}

// Name implements the Sender interface.
func (s *SendGridSender) Name() string { return "sendgrid" }

// Configured implements the Sender interface.
func (s *SendGridSender) Configured() bool { return s.apiKey != "" }

// Wire types for the SendGrid v3 mail/send payload.
type sendGridAddress struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}

type sendGridPersonalization struct {
	To []sendGridAddress `json:"to"`
}

type sendGridContent struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}

type sendGridPayload struct {
	Personalizations []sendGridPersonalization `json:"personalizations"`
	From             sendGridAddress           `json:"from"`
	Subject          string                    `json:"subject"`
	Content          []sendGridContent         `json:"content"`
}

// Send implements the Sender interface. Statuses 200 and 202 count as
// accepted; everything else, including transport-level failures, comes
// back as an error for the Dispatcher to narrow to a boolean.
func (s *SendGridSender) Send(ctx context.Context, msg *model.EmailMessage) error {
	if !s.Configured() {
		return ErrNotConfigured
	}

	payload := sendGridPayload{
		Personalizations: []sendGridPersonalization{
			{To: []sendGridAddress{{Email: msg.To}}},
		},
		From:    sendGridAddress{Email: s.from, Name: s.fromName},
		Subject: msg.Subject,
		Content: []sendGridContent{{Type: "text/html", Value: msg.HTMLBody}},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("sendgrid: marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("sendgrid: build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+s.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		s.logger.Error().Err(err).Msg("sendgrid request failed")
		return fmt.Errorf("sendgrid: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusOK || resp.StatusCode == http.StatusAccepted {
		s.logger.Info().Str("recipient", msg.To).Msg("sendgrid accepted message for delivery")
		return nil
	}

	detail, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyLen))
	s.logger.Warn().
		Int("status", resp.StatusCode).
		Str("body", string(detail)).
		Msg("sendgrid rejected message")
	return fmt.Errorf("sendgrid: unexpected status %d: %s", resp.StatusCode, detail)
}
