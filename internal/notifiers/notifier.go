package notifiers

import (
	"context"
	"errors"

	"github.com/neonlabs/contact-backend/internal/domain/model"
)

// ErrNotConfigured marks the normal, silent outcome of asking an
// unconfigured sender to deliver. It is logged but never surfaced to
// callers as a failure distinct from any other non-delivery.
var ErrNotConfigured = errors.New("sender is not configured")

// Sender defines the interface for a single outbound email channel.
// Implementations are fully self-contained: every transport failure is
// caught at this boundary and returned as an error value, never panicked
// or leaked past the Dispatcher.
type Sender interface {
	// Name identifies the sender in logs.
	Name() string

	// Configured reports whether the sender has all required settings.
	Configured() bool

	// Send delivers the message to its single recipient.
	Send(ctx context.Context, msg *model.EmailMessage) error
}

// Literal fallbacks for the sender identity when neither EMAIL_FROM nor
// (for SMTP) a username is available.
const (
	defaultFromAddress = "noreply@neonlabs.app"
	defaultFromName    = "Neon Labs"
)
