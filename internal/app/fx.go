package app

import (
	"context"
	"net/http"

	"github.com/neonlabs/contact-backend/internal/config"
	deliveryHTTP "github.com/neonlabs/contact-backend/internal/delivery/http"
	"github.com/neonlabs/contact-backend/internal/logger"
	"github.com/neonlabs/contact-backend/internal/notifiers"
	"github.com/neonlabs/contact-backend/internal/service"
	"github.com/neonlabs/contact-backend/internal/storage/mongodb"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/fx"
)

// Module defines the Fx module for the API application.
var Module = fx.Options(
	fx.Provide(
		// Core components
		config.NewConfig,
		logger.NewLogger,

		// Storage Layer
		mongodb.NewClient,
		mongodb.NewDatabase,
		mongodb.NewLeadRepository,

		// Notification Layer - senders in strict priority order
		func(cfg *config.Config, log *zerolog.Logger) *notifiers.SendGridSender {
			return notifiers.NewSendGridSender(cfg, log)
		},
		func(cfg *config.Config, log *zerolog.Logger) *notifiers.SMTPSender {
			return notifiers.NewSMTPSender(cfg, log)
		},
		func(sg *notifiers.SendGridSender, sm *notifiers.SMTPSender, cfg *config.Config, log *zerolog.Logger) *notifiers.Dispatcher {
			return notifiers.NewDispatcher(cfg, log, sg, sm)
		},

		// Service Layer - the repository serves as both store and probe
		func(repo *mongodb.LeadRepository, d *notifiers.Dispatcher, cfg *config.Config, log *zerolog.Logger) *service.LeadService {
			return service.NewLeadService(cfg, repo, repo, d, log)
		},

		// Delivery Layer
		deliveryHTTP.NewHandlers,
		deliveryHTTP.NewServer,
	),

	fx.Invoke(registerServerHooks, registerMongoHooks),
)

// registerServerHooks starts the HTTP server on application start and
// shuts it down gracefully on stop.
func registerServerHooks(server *deliveryHTTP.Server, lc fx.Lifecycle) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					panic(err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return server.Shutdown(ctx)
		},
	})
}

// registerMongoHooks disconnects the document store client on shutdown.
// The client is nil when no DATABASE_URL was configured.
func registerMongoHooks(client *mongo.Client, lc fx.Lifecycle) {
	if client == nil {
		return
	}
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return client.Disconnect(ctx)
		},
	})
}
