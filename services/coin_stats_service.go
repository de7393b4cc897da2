package services

import (
	"context"
	"log"
	"math"

	"crypto_stats_backend/models"

	"github.com/shopspring/decimal"
)

// DeviationWindow is how many of the most recent snapshots feed the
// deviation calculation.
const DeviationWindow = 100

// CoinStats is the live stats payload for one coin.
type CoinStats struct {
	Price     float64 `json:"price"`
	MarketCap float64 `json:"market_cap"`
	Change24h float64 `json:"24hChange"`
}

// CoinStatsService serves the live stats and deviation lookups.
type CoinStatsService struct {
	client MarketDataClient
	store  SnapshotStore
}

// NewCoinStatsService creates a new coin stats service
func NewCoinStatsService(client MarketDataClient, store SnapshotStore) *CoinStatsService {
	return &CoinStatsService{
		client: client,
		store:  store,
	}
}

// Stats returns current market data for coinID straight from the
// upstream provider. Stored history is never consulted; any coin ID
// the upstream recognizes is accepted.
func (s *CoinStatsService) Stats(ctx context.Context, coinID string) (*CoinStats, error) {
	data, err := s.client.Fetch(ctx, coinID)
	if err != nil {
		return nil, err
	}
	return &CoinStats{
		Price:     data.Price,
		MarketCap: data.MarketCap,
		Change24h: data.Change24h(),
	}, nil
}

// Deviation computes the population standard deviation of the prices
// in the most recent snapshots for coinID. The coin must belong to
// the supported set; a coin with no history yields ErrNoRecords.
func (s *CoinStatsService) Deviation(ctx context.Context, coinID string) (decimal.Decimal, error) {
	if !models.IsSupportedCoin(coinID) {
		return decimal.Zero, ErrInvalidCoin
	}

	snapshots, err := s.store.Recent(ctx, coinID, DeviationWindow)
	if err != nil {
		return decimal.Zero, err
	}
	if len(snapshots) == 0 {
		return decimal.Zero, ErrNoRecords
	}
	log.Printf("Fetched %d records for coin: %s", len(snapshots), coinID)

	prices := make([]float64, len(snapshots))
	for i, snap := range snapshots {
		prices[i] = snap.Price
	}
	return PriceDeviation(prices), nil
}

// PriceDeviation computes the population standard deviation of prices
// (variance divided by N, not N-1), rounded to two decimal places.
// A single price yields zero; the caller guarantees prices is non-empty.
func PriceDeviation(prices []float64) decimal.Decimal {
	n := float64(len(prices))

	var sum float64
	for _, p := range prices {
		sum += p
	}
	mean := sum / n

	var squaredDiffSum float64
	for _, p := range prices {
		diff := p - mean
		squaredDiffSum += diff * diff
	}
	variance := squaredDiffSum / n

	return decimal.NewFromFloat(math.Sqrt(variance)).Round(2)
}
