package notifiers

import (
	"context"

	"github.com/neonlabs/contact-backend/internal/config"
	"github.com/neonlabs/contact-backend/internal/domain/model"
	"github.com/rs/zerolog"
)

// Dispatcher tries a fixed priority order of senders and stops at the
// first success. Delivery is best-effort: at most one attempt per
// configured sender, no retries, no backoff, and the outcome is a plain
// boolean so a failed notification can never fail the primary operation.
type Dispatcher struct {
	senders []Sender
	missing []string
	logger  zerolog.Logger
}

// NewDispatcher creates a new Dispatcher. Senders are attempted in the
// order given.
func NewDispatcher(cfg *config.Config, logger *zerolog.Logger, senders ...Sender) *Dispatcher {
	return &Dispatcher{
		senders: senders,
		missing: cfg.MissingProviderEnv(),
		logger:  logger.With().Str("component", "dispatcher").Logger(),
	}
}

// Dispatch reports whether any sender accepted the message. A sender that
// is configured but fails falls through to the next one exactly like a
// sender that was never configured.
func (d *Dispatcher) Dispatch(ctx context.Context, msg *model.EmailMessage) bool {
	attempted := false

	for _, sender := range d.senders {
		if !sender.Configured() {
			d.logger.Debug().Str("sender", sender.Name()).Msg("sender not configured, skipping")
			continue
		}

		attempted = true
		if err := sender.Send(ctx, msg); err != nil {
			d.logger.Warn().Err(err).Str("sender", sender.Name()).Msg("send attempt failed")
			continue
		}

		d.logger.Info().
			Str("sender", sender.Name()).
			Str("recipient", msg.To).
			Msg("notification delivered")
		return true
	}

	if !attempted {
		d.logger.Warn().
			Strs("missing_env", d.missing).
			Msg("no email provider configured, notification dropped")
	}

	return false
}
