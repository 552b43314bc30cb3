package repository

import (
	"context"
	"fmt"

	"toytopia/internal/config"
	"toytopia/internal/database"

	"go.uber.org/zap"
)

// Open creates the ToyRepository selected by cfg.Store.Backend and prepares
// its store (indexes for mongo, migrations for postgres).
//
// Supported backends:
//
//	"mongo"    - MongoDB collection (default)
//	"postgres" - PostgreSQL toys table
//	"memory"   - in-memory, lost on restart
func Open(ctx context.Context, cfg *config.Config, logger *zap.Logger) (ToyRepository, error) {
	switch cfg.Store.Backend {
	case config.BackendMongo, "":
		client, err := database.ConnectMongo(ctx, cfg.Mongo.URI, logger)
		if err != nil {
			return nil, err
		}
		collection := client.Database(cfg.Mongo.Database).Collection(cfg.Mongo.Collection)
		if err := database.EnsureMongoIndexes(ctx, collection, logger); err != nil {
			_ = client.Disconnect(context.Background())
			return nil, err
		}
		return NewMongoToyRepository(client, collection), nil

	case config.BackendPostgres:
		db, err := database.OpenPostgres(ctx, cfg.Database.DSN(), logger)
		if err != nil {
			return nil, err
		}
		if err := database.RunMigrations(db, logger); err != nil {
			db.Close()
			return nil, err
		}
		return NewPostgresToyRepository(db), nil

	case config.BackendMemory:
		logger.Warn("Using in-memory toy store, data will not survive a restart")
		return NewMemoryToyRepository(), nil

	default:
		return nil, fmt.Errorf("unknown store backend: %q (supported: mongo, postgres, memory)", cfg.Store.Backend)
	}
}
