package datafetcher

import (
	"context"
	"log"
	"time"

	"crypto_stats_backend/models"
	"crypto_stats_backend/services"
)

// Outcome tags the result of one coin within an ingestion run.
type Outcome int

const (
	OutcomeSaved Outcome = iota
	OutcomeFetchFailed
	OutcomePersistFailed
)

func (o Outcome) String() string {
	switch o {
	case OutcomeSaved:
		return "saved"
	case OutcomeFetchFailed:
		return "fetch failed"
	case OutcomePersistFailed:
		return "persist failed"
	default:
		return "unknown"
	}
}

// RunSummary aggregates the per-coin outcomes of one ingestion run.
type RunSummary struct {
	StartedAt     time.Time
	Duration      time.Duration
	Saved         int
	FetchFailed   int
	PersistFailed int
	Outcomes      map[string]Outcome
}

// CoinFetcher runs the ingestion pass over the supported coin list,
// writing one snapshot per coin and run.
type CoinFetcher struct {
	client services.MarketDataClient
	store  services.SnapshotStore
}

// NewCoinFetcher creates a new coin fetcher
func NewCoinFetcher(client services.MarketDataClient, store services.SnapshotStore) *CoinFetcher {
	return &CoinFetcher{
		client: client,
		store:  store,
	}
}

// Run fetches and persists one snapshot for every supported coin.
// Coins are processed strictly in order, one at a time; a failure for
// one coin never aborts the rest of the run, and nothing is rolled
// back or retried within the run.
func (f *CoinFetcher) Run(ctx context.Context) RunSummary {
	log.Println("Job started: fetching data for all coins")

	summary := RunSummary{
		StartedAt: time.Now().UTC(),
		Outcomes:  make(map[string]Outcome, len(models.SupportedCoins)),
	}

	for _, coinID := range models.SupportedCoins {
		outcome := f.fetchCoin(ctx, coinID)
		summary.Outcomes[coinID] = outcome
		switch outcome {
		case OutcomeSaved:
			summary.Saved++
		case OutcomeFetchFailed:
			summary.FetchFailed++
		case OutcomePersistFailed:
			summary.PersistFailed++
		}
	}

	summary.Duration = time.Since(summary.StartedAt)
	log.Printf("Job completed: %d saved, %d fetch failures, %d persist failures in %v",
		summary.Saved, summary.FetchFailed, summary.PersistFailed, summary.Duration)
	return summary
}

// fetchCoin handles a single coin: fetch, map to a snapshot, append.
func (f *CoinFetcher) fetchCoin(ctx context.Context, coinID string) Outcome {
	log.Printf("Starting to fetch data for %s", coinID)

	data, err := f.client.Fetch(ctx, coinID)
	if err != nil {
		log.Printf("ERROR: Failed to fetch data for %s: %v", coinID, err)
		return OutcomeFetchFailed
	}

	snapshot := &models.CoinSnapshot{
		CoinID:    coinID,
		Price:     data.Price,
		MarketCap: data.MarketCap,
		Change24h: data.Change24h(),
		CreatedAt: time.Now().UTC(),
	}

	if err := f.store.Append(ctx, snapshot); err != nil {
		log.Printf("ERROR: Failed to save snapshot for %s: %v", coinID, err)
		return OutcomePersistFailed
	}

	log.Printf("Data for %s saved successfully", coinID)
	return OutcomeSaved
}
