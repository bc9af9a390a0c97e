package mongodb

import (
	"context"
	"time"

	"github.com/neonlabs/contact-backend/internal/config"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// connectTimeout bounds the initial client handshake.
const connectTimeout = 10 * time.Second

// defaultDatabaseName is used when DATABASE_NAME is not set.
const defaultDatabaseName = "app"

// NewClient creates a MongoDB client from the configured connection string.
// A missing or invalid connection string yields a nil client rather than a
// startup failure: the application keeps serving and reports the store as
// unavailable through the diagnostics endpoint.
func NewClient(cfg *config.Config, logger *zerolog.Logger) *mongo.Client {
	log := logger.With().Str("component", "mongo_client").Logger()

	if cfg.Database.URL == "" {
		log.Warn().Msg("DATABASE_URL not set, document store disabled")
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.Database.URL))
	if err != nil {
		log.Error().Err(err).Msg("failed to create mongo client")
		return nil
	}

	log.Info().Msg("mongo client initialized")
	return client
}

// NewDatabase selects the configured database from the client.
// Nil-safe so that the repository can report the unconfigured state itself.
func NewDatabase(client *mongo.Client, cfg *config.Config) *mongo.Database {
	if client == nil {
		return nil
	}
	name := cfg.Database.Name
	if name == "" {
		name = defaultDatabaseName
	}
	return client.Database(name)
}
