package mongodb

import (
	"context"
	"fmt"

	"github.com/neonlabs/contact-backend/internal/domain/model"
	repo "github.com/neonlabs/contact-backend/internal/domain/repository"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// leadCollection is the collection contact leads are written to.
const leadCollection = "contactlead"

// Ensure LeadRepository implements the domain contracts.
var (
	_ repo.LeadRepository = (*LeadRepository)(nil)
	_ repo.StoreProbe     = (*LeadRepository)(nil)
)

// LeadRepository implements lead persistence on top of a MongoDB database.
// The database may be nil when the store is unconfigured; every operation
// then returns repository.ErrStoreNotConfigured.
type LeadRepository struct {
	db     *mongo.Database
	logger zerolog.Logger
}

// NewLeadRepository creates a new instance of the LeadRepository.
func NewLeadRepository(db *mongo.Database, logger *zerolog.Logger) *LeadRepository {
	return &LeadRepository{
		db:     db,
		logger: logger.With().Str("layer", "mongo_repository").Logger(),
	}
}

// Save inserts a single lead document and returns the store-assigned id.
func (r *LeadRepository) Save(ctx context.Context, lead *model.Lead) (string, error) {
	if r.db == nil {
		return "", repo.ErrStoreNotConfigured
	}

	res, err := r.db.Collection(leadCollection).InsertOne(ctx, toDocument(lead))
	if err != nil {
		r.logger.Err(err).Msg("cannot insert lead")
		return "", fmt.Errorf("mongodb: InsertOne failed: %w", err)
	}

	return formatInsertedID(res.InsertedID), nil
}

// Collections lists up to limit collection names, proving connectivity.
func (r *LeadRepository) Collections(ctx context.Context, limit int) ([]string, error) {
	if r.db == nil {
		return nil, repo.ErrStoreNotConfigured
	}

	names, err := r.db.ListCollectionNames(ctx, bson.D{})
	if err != nil {
		r.logger.Err(err).Msg("cannot list collections")
		return nil, fmt.Errorf("mongodb: ListCollectionNames failed: %w", err)
	}

	if limit > 0 && len(names) > limit {
		names = names[:limit]
	}
	return names, nil
}

// toDocument converts the domain model to its stored shape at the edge.
func toDocument(lead *model.Lead) bson.M {
	return bson.M{
		"name":       lead.Name,
		"email":      lead.Email,
		"message":    lead.Message,
		"source":     lead.Source,
		"created_at": lead.CreatedAt,
	}
}

// formatInsertedID renders the driver-assigned id as an opaque string.
func formatInsertedID(id interface{}) string {
	if oid, ok := id.(primitive.ObjectID); ok {
		return oid.Hex()
	}
	return fmt.Sprintf("%v", id)
}
