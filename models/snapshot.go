package models

import (
	"fmt"
	"time"

	"gorm.io/gorm"
)

// SupportedCoins is the fixed set of coin IDs the ingestion job
// collects and the deviation endpoint accepts. The IDs are CoinGecko
// coin identifiers.
var SupportedCoins = []string{"bitcoin", "matic-network", "ethereum"}

// IsSupportedCoin reports whether coinID belongs to SupportedCoins.
func IsSupportedCoin(coinID string) bool {
	for _, id := range SupportedCoins {
		if id == coinID {
			return true
		}
	}
	return false
}

// CoinSnapshot is one immutable recorded observation of a coin's
// price, market cap and 24h range. Snapshots are created by the
// ingestion job only and are never updated or deleted.
type CoinSnapshot struct {
	ID        uint      `gorm:"primaryKey" json:"id" bson:"-"`
	CoinID    string    `gorm:"index:idx_coin_created;not null" json:"coin_id" bson:"coin_id"`
	Price     float64   `gorm:"not null" json:"price" bson:"price"`
	MarketCap float64   `gorm:"not null" json:"market_cap" bson:"market_cap"`
	Change24h float64   `gorm:"not null" json:"change24h" bson:"change24h"`
	CreatedAt time.Time `gorm:"index:idx_coin_created" json:"created_at" bson:"created_at"`
}

// TableName keeps the storage name independent of the Go type name.
func (CoinSnapshot) TableName() string {
	return "coin_stats"
}

// Validate enforces the snapshot schema invariants: the coin ID must
// be in the supported set, price and market cap must not be negative.
// Change24h is deliberately unchecked; a negative 24h range is valid.
func (s *CoinSnapshot) Validate() error {
	if !IsSupportedCoin(s.CoinID) {
		return fmt.Errorf("unsupported coin id %q", s.CoinID)
	}
	if s.Price < 0 {
		return fmt.Errorf("negative price %v for %s", s.Price, s.CoinID)
	}
	if s.MarketCap < 0 {
		return fmt.Errorf("negative market cap %v for %s", s.MarketCap, s.CoinID)
	}
	return nil
}

// MigrateSnapshotModels runs database migrations for snapshot models
func MigrateSnapshotModels(db *gorm.DB) error {
	return db.AutoMigrate(&CoinSnapshot{})
}
