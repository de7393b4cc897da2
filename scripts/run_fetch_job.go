//go:build ignore

package main

import (
	"context"
	"log"
	"os"

	"crypto_stats_backend/config"
	"crypto_stats_backend/services"
	"crypto_stats_backend/services/datafetcher"
)

// One-shot ingestion run for deployments that schedule the job with an
// external cron (e.g. a platform cron job every 2 hours) instead of
// the in-process scheduler.
//
// Usage: go run scripts/run_fetch_job.go
func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Printf("Warning: Config load issue: %v", err)
	}

	store, err := services.NewSnapshotStore(cfg)
	if err != nil {
		log.Printf("ERROR: Snapshot store initialization failed: %v", err)
		os.Exit(1)
	}

	ctx := context.Background()
	client := services.NewCoinGeckoClient(cfg.CoinGeckoBaseURL)
	fetcher := datafetcher.NewCoinFetcher(client, store)

	summary := fetcher.Run(ctx)
	for coinID, outcome := range summary.Outcomes {
		log.Printf("  %s: %s", coinID, outcome)
	}

	if err := store.Close(ctx); err != nil {
		log.Printf("Error closing snapshot store: %v", err)
	}
}
