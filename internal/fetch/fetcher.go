// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package fetch is the concurrent ingestion core: it turns a list of PMIDs
// into a durable line-delimited dataset plus a failure log, tolerating
// partial failure. Fetching, scheduling, and persistence are separate
// pieces so each can be exercised against stubs.
package fetch

import (
	"context"
	"math"
	"time"

	"github.com/pdiddy/pubharvest/pkg/types"
)

// Source retrieves one normalized record per identifier. pubmed.Client
// implements it; tests substitute stubs returning controlled outcomes.
type Source interface {
	FetchRecord(ctx context.Context, pmid string) (*types.Record, error)
}

const (
	// DefaultRetries is the per-identifier attempt budget.
	DefaultRetries = 3

	// DefaultBackoffBase is the first retry delay; subsequent delays
	// triple: 1s, 3s, 9s.
	DefaultBackoffBase = 1 * time.Second
)

// Outcome is the single result of one fetch, produced exactly once per
// identifier regardless of how many attempts were consumed. A failure is
// data, not an error: nothing escapes the fetcher boundary.
type Outcome struct {
	Identifier string

	// Record is set on success, including successes the sink later
	// filters out as unusable.
	Record *types.Record

	// Err is the last error observed when all attempts failed.
	Err error

	// Attempts is the number of attempts consumed.
	Attempts int
}

// Failed reports whether the fetch exhausted its attempt budget.
func (o Outcome) Failed() bool { return o.Err != nil }

// Fetcher retrieves single records with a retry budget and exponential
// backoff between attempts.
type Fetcher struct {
	Source Source

	// Retries is the attempt budget (default DefaultRetries).
	Retries int

	// BackoffBase is the first retry delay (default DefaultBackoffBase).
	BackoffBase time.Duration

	// Sleep is the backoff hook; tests inject one to observe delays
	// without waiting. Defaults to time.Sleep.
	Sleep func(time.Duration)
}

// Fetch retrieves and normalizes the record for one identifier. On failure
// it waits BackoffBase * 3^i after attempt i, then retries; the sleep
// blocks only the calling worker. All errors are converted into the
// returned Outcome.
func (f *Fetcher) Fetch(ctx context.Context, identifier string) Outcome {
	retries := f.Retries
	if retries <= 0 {
		retries = DefaultRetries
	}
	base := f.BackoffBase
	if base <= 0 {
		base = DefaultBackoffBase
	}
	sleep := f.Sleep
	if sleep == nil {
		sleep = time.Sleep
	}

	var lastErr error
	for attempt := 0; attempt < retries; attempt++ {
		if attempt > 0 {
			sleep(time.Duration(math.Pow(3, float64(attempt-1))) * base)
		}

		record, err := f.Source.FetchRecord(ctx, identifier)
		if err == nil {
			return Outcome{Identifier: identifier, Record: record, Attempts: attempt + 1}
		}
		lastErr = err
	}

	return Outcome{Identifier: identifier, Err: lastErr, Attempts: retries}
}
