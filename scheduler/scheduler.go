package scheduler

// Package scheduler owns the periodic ingestion job for the crypto
// stats backend: one sequential fetch-and-persist pass over the
// supported coin list, every FETCH_INTERVAL_HOURS hours.
//
// The job itself lives in services/datafetcher; jobs.go wires it to
// gocron. scripts/run_fetch_job.go runs the same pass once for
// deployments that prefer an external cron trigger.
