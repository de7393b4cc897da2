package scheduler

import (
	"context"
	"log"
	"time"

	"crypto_stats_backend/services/datafetcher"

	"github.com/go-co-op/gocron"
)

// Scheduler manages scheduled jobs
type Scheduler struct {
	cron          *gocron.Scheduler
	fetcher       *datafetcher.CoinFetcher
	intervalHours int
}

// NewScheduler creates a new scheduler instance
func NewScheduler(fetcher *datafetcher.CoinFetcher, intervalHours int) *Scheduler {
	return &Scheduler{
		cron:          gocron.NewScheduler(time.UTC),
		fetcher:       fetcher,
		intervalHours: intervalHours,
	}
}

// Start starts all scheduled jobs
func (s *Scheduler) Start() {
	log.Println("Starting scheduler...")

	// Collect snapshots for all supported coins, first run immediately
	s.cron.Every(s.intervalHours).Hours().StartImmediately().Do(func() {
		s.fetcher.Run(context.Background())
	})

	s.cron.StartAsync()
	log.Printf("Scheduler started successfully, fetching every %d hours", s.intervalHours)
}

// Stop stops the scheduler
func (s *Scheduler) Stop() {
	s.cron.Stop()
	log.Println("Scheduler stopped")
}
