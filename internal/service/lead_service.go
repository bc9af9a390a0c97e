package service

import (
	"context"
	"errors"
	"fmt"
	"html"
	"strings"
	"unicode/utf8"

	"github.com/neonlabs/contact-backend/internal/config"
	"github.com/neonlabs/contact-backend/internal/domain/model"
	repo "github.com/neonlabs/contact-backend/internal/domain/repository"
	"github.com/rs/zerolog"
)

const (
	// maxCollectionListing bounds the diagnostics collection listing.
	maxCollectionListing = 10
	// maxProbeDetailLen caps the error detail shown by diagnostics.
	maxProbeDetailLen = 50

	testEmailSubject = "Test: Email configuration"
	testEmailHTML    = `<h2>Email Test</h2>
<p>If you're seeing this, your email provider is configured correctly.</p>
<p>Source: Backend test endpoint.</p>`
)

// Dispatcher reports whether any configured provider accepted the message.
type Dispatcher interface {
	Dispatch(ctx context.Context, msg *model.EmailMessage) bool
}

// LeadService encapsulates the business logic around contact leads:
// persisting submissions, notifying about them, and probing the store.
type LeadService struct {
	cfg        *config.Config
	repo       repo.LeadRepository
	probe      repo.StoreProbe
	dispatcher Dispatcher
	logger     zerolog.Logger
}

// NewLeadService creates a new instance of LeadService.
func NewLeadService(
	cfg *config.Config,
	leadRepo repo.LeadRepository,
	probe repo.StoreProbe,
	dispatcher Dispatcher,
	logger *zerolog.Logger,
) *LeadService {
	return &LeadService{
		cfg:        cfg,
		repo:       leadRepo,
		probe:      probe,
		dispatcher: dispatcher,
		logger:     logger.With().Str("layer", "service").Logger(),
	}
}

// SubmitLead persists a contact submission and triggers the notification.
// Persistence failures fail the whole operation; a lost notification does
// not, since the lead is already durable by then.
func (s *LeadService) SubmitLead(ctx context.Context, name, email, message, source string) (string, bool, error) {
	lead := model.NewLead(name, email, message, source)

	id, err := s.repo.Save(ctx, lead)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to persist lead")
		return "", false, err
	}
	s.logger.Info().Str("lead_id", id).Str("source", lead.Source).Msg("lead persisted")

	msg := &model.EmailMessage{
		To:       s.cfg.Email.To,
		Subject:  fmt.Sprintf("New Website Lead: %s", lead.Name),
		HTMLBody: leadNotificationHTML(lead, id),
	}

	sent := s.dispatcher.Dispatch(ctx, msg)
	if !sent {
		s.logger.Warn().Str("lead_id", id).Msg("lead notification was not delivered")
	}

	return id, sent, nil
}

// SendTestEmail sends a fixed diagnostic message, resolving the recipient
// to the configured fallback when no override is given. It returns the
// delivery outcome together with the resolved recipient.
func (s *LeadService) SendTestEmail(ctx context.Context, to string) (bool, string) {
	if to == "" {
		to = s.cfg.Email.To
	}

	ok := s.dispatcher.Dispatch(ctx, &model.EmailMessage{
		To:       to,
		Subject:  testEmailSubject,
		HTMLBody: testEmailHTML,
	})

	return ok, to
}

// CheckStore probes the document store and classifies the result. It
// never returns an error: every failure mode maps onto a status value.
func (s *LeadService) CheckStore(ctx context.Context) model.StoreDiagnostics {
	diag := model.StoreDiagnostics{DatabaseName: s.cfg.Database.Name}

	if s.cfg.Database.URL == "" {
		diag.Status = model.StoreUnconfigured
		return diag
	}

	names, err := s.probe.Collections(ctx, maxCollectionListing)
	if err != nil {
		if errors.Is(err, repo.ErrStoreNotConfigured) {
			diag.Status = model.StoreUnavailable
			return diag
		}
		diag.Status = model.StoreConnectedWithError
		diag.Detail = truncate(err.Error(), maxProbeDetailLen)
		return diag
	}

	diag.Status = model.StoreConnected
	diag.Collections = names
	return diag
}

// leadNotificationHTML renders the notification body. User-supplied
// fields are escaped; newlines in the message become line breaks.
func leadNotificationHTML(lead *model.Lead, id string) string {
	message := strings.ReplaceAll(html.EscapeString(lead.Message), "\n", "<br/>")

	var b strings.Builder
	b.WriteString("<h2>New Contact Lead</h2>")
	fmt.Fprintf(&b, "<p><strong>Name:</strong> %s</p>", html.EscapeString(lead.Name))
	fmt.Fprintf(&b, "<p><strong>Email:</strong> %s</p>", html.EscapeString(lead.Email))
	fmt.Fprintf(&b, "<p><strong>Message:</strong><br/>%s</p>", message)
	fmt.Fprintf(&b, "<p><strong>Source:</strong> %s</p>", html.EscapeString(lead.Source))
	fmt.Fprintf(&b, "<p><em>Lead ID:</em> %s</p>", id)
	return b.String()
}

// truncate cuts the string to at most max bytes without splitting a rune.
func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	for max > 0 && !utf8.RuneStart(s[max]) {
		max--
	}
	return s[:max]
}
