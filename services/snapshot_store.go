package services

import (
	"context"

	"crypto_stats_backend/config"
	"crypto_stats_backend/models"
)

// SnapshotStore is append-only persistence for coin snapshots.
// Writes come only from the ingestion job; reads never mutate.
type SnapshotStore interface {
	// Append writes one immutable snapshot. Snapshots violating the
	// schema invariants are rejected with a PersistenceError.
	Append(ctx context.Context, snapshot *models.CoinSnapshot) error

	// Recent returns up to limit snapshots for coinID ordered most
	// recent first. An empty history yields an empty slice, not an
	// error.
	Recent(ctx context.Context, coinID string, limit int) ([]models.CoinSnapshot, error)

	// Ping verifies the backend is reachable.
	Ping(ctx context.Context) error

	// Close releases the underlying connections.
	Close(ctx context.Context) error
}

// NewSnapshotStore selects a store backend from configuration:
// MongoDB when MONGODB_URI is set, the relational database otherwise
// (Postgres via DATABASE_URL, or a local SQLite file).
func NewSnapshotStore(cfg *config.Config) (SnapshotStore, error) {
	if cfg.MongoURI != "" {
		return NewMongoSnapshotStore(cfg.MongoURI)
	}

	db, err := config.InitDB()
	if err != nil {
		return nil, err
	}
	return NewGormSnapshotStore(db)
}
