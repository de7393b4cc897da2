package services

import (
	"errors"
	"fmt"
)

// ErrInvalidCoin is returned when a request carries no coin ID or one
// outside the supported set.
var ErrInvalidCoin = errors.New("invalid or missing coin parameter")

// ErrNoRecords is returned when an otherwise valid coin has no stored
// snapshots.
var ErrNoRecords = errors.New("no records found for the requested coin")

// FetchError reports a failed upstream market data request: a
// non-success status, a transport failure or an unparseable payload.
type FetchError struct {
	CoinID string
	Reason string
	Err    error
}

func (e *FetchError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("fetch %s: %s: %v", e.CoinID, e.Reason, e.Err)
	}
	return fmt.Sprintf("fetch %s: %s", e.CoinID, e.Reason)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// PersistenceError reports a snapshot store failure: an unreachable
// backend or a write rejected by the schema invariants.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("snapshot store %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}
