package services

import (
	"context"
	"time"

	"crypto_stats_backend/models"

	"gorm.io/gorm"
)

// GormSnapshotStore persists coin snapshots through GORM, backed by
// Postgres or SQLite depending on configuration.
type GormSnapshotStore struct {
	db *gorm.DB
}

// NewGormSnapshotStore migrates the snapshot schema and returns the store.
func NewGormSnapshotStore(db *gorm.DB) (*GormSnapshotStore, error) {
	if err := models.MigrateSnapshotModels(db); err != nil {
		return nil, &PersistenceError{Op: "migrate", Err: err}
	}
	return &GormSnapshotStore{db: db}, nil
}

// Append inserts one snapshot after validating the schema invariants.
func (s *GormSnapshotStore) Append(ctx context.Context, snapshot *models.CoinSnapshot) error {
	if err := snapshot.Validate(); err != nil {
		return &PersistenceError{Op: "append", Err: err}
	}
	if snapshot.CreatedAt.IsZero() {
		snapshot.CreatedAt = time.Now().UTC()
	}

	if err := s.db.WithContext(ctx).Create(snapshot).Error; err != nil {
		return &PersistenceError{Op: "append", Err: err}
	}
	return nil
}

// Recent returns up to limit snapshots for coinID, newest first.
func (s *GormSnapshotStore) Recent(ctx context.Context, coinID string, limit int) ([]models.CoinSnapshot, error) {
	snapshots := []models.CoinSnapshot{}
	err := s.db.WithContext(ctx).
		Select("coin_id", "price", "created_at").
		Where("coin_id = ?", coinID).
		Order("created_at DESC").
		Limit(limit).
		Find(&snapshots).Error
	if err != nil {
		return nil, &PersistenceError{Op: "recent", Err: err}
	}
	return snapshots, nil
}

// Ping verifies the database connection.
func (s *GormSnapshotStore) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// Close closes the underlying database connection.
func (s *GormSnapshotStore) Close(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
