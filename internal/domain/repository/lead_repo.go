package repository

import (
	"context"
	"errors"

	"github.com/neonlabs/contact-backend/internal/domain/model"
)

// ErrStoreNotConfigured is returned when an operation requires the
// document store but no connection was configured.
var ErrStoreNotConfigured = errors.New("document store is not configured")

// LeadRepository defines the contract for lead persistence.
type LeadRepository interface {
	// Save persists a new lead and returns its opaque identifier.
	Save(ctx context.Context, lead *model.Lead) (string, error)
}

// StoreProbe defines the contract for the database diagnostics endpoint.
type StoreProbe interface {
	// Collections returns up to limit top-level collection names,
	// verifying live connectivity as a side effect.
	Collections(ctx context.Context, limit int) ([]string, error)
}
