package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/classmgmt/class-management-backend/internal/config"
)

// DB is the handle to whichever backend the process was configured with.
// Exactly one of Pool or Mongo is non-nil, matching Driver.
type DB struct {
	Driver config.DatabaseDriver
	Pool   *pgxpool.Pool
	Mongo  *mongo.Database

	mongoClient *mongo.Client
}

// Connect establishes the connection for the configured driver and verifies
// it with a ping. For MongoDB it also ensures the students collection
// schema and unique indexes exist.
func Connect(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*DB, error) {
	switch cfg.DatabaseDriver {
	case config.DriverPostgres:
		pool, err := NewPostgresPool(ctx, cfg, log)
		if err != nil {
			return nil, err
		}
		return &DB{Driver: config.DriverPostgres, Pool: pool}, nil

	case config.DriverMongo:
		client, db, err := NewMongoDatabase(ctx, cfg, log)
		if err != nil {
			return nil, err
		}
		return &DB{Driver: config.DriverMongo, Mongo: db, mongoClient: client}, nil

	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.DatabaseDriver)
	}
}

// Ping verifies the backend is still reachable.
func (db *DB) Ping(ctx context.Context) error {
	if db.Driver == config.DriverMongo {
		return db.mongoClient.Ping(ctx, nil)
	}
	return db.Pool.Ping(ctx)
}

// Close releases the underlying connections.
func (db *DB) Close() {
	if db.Pool != nil {
		db.Pool.Close()
	}
	if db.mongoClient != nil {
		_ = db.mongoClient.Disconnect(context.Background())
	}
}
