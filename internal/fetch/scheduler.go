// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package fetch

import (
	"context"
	"fmt"
	"io"

	"github.com/panjf2000/ants/v2"
)

// DefaultConcurrency is the worker pool size. The pool size is the
// admission control on concurrent outbound requests; NCBI sees at most
// this many requests in flight.
const DefaultConcurrency = 5

// DefaultUnitSize dispatches one identifier per work unit. Larger units
// coarsen failure reporting without changing fetch semantics.
const DefaultUnitSize = 1

// Stats summarizes a scheduler run.
type Stats struct {
	Units       int `json:"units" yaml:"units"`
	Identifiers int `json:"identifiers" yaml:"identifiers"`
	Stored      int `json:"stored" yaml:"stored"`
	Filtered    int `json:"filtered" yaml:"filtered"`
	FailedUnits int `json:"failed_units" yaml:"failed_units"`
	FailedIDs   int `json:"failed_ids" yaml:"failed_ids"`
	SinkErrors  int `json:"sink_errors" yaml:"sink_errors"`
}

// Scheduler fans a list of identifiers out across a bounded worker pool
// and routes each outcome to the sink or the failure tracker. Unit
// failures never abort sibling units; the scheduler itself fails only on
// setup errors.
type Scheduler struct {
	Fetcher  *Fetcher
	Sink     *Sink
	Failures *Failures

	// Concurrency is the pool size (default DefaultConcurrency).
	Concurrency int

	// UnitSize groups contiguous identifiers into one work unit
	// (default DefaultUnitSize). A unit is the granularity of failure
	// reporting: when any identifier in a unit fails, the whole unit is
	// recorded as failed, while its successes still reach the sink.
	UnitSize int

	// Progress, when set, receives advisory per-unit status lines.
	Progress io.Writer
}

// unitResult is the per-unit completion report collected by Run.
type unitResult struct {
	unit     []string
	stored   int
	filtered int
	failed   bool
	sinkErrs []error
}

// Run processes all identifiers to completion and reports totals. Outcomes
// are consumed as units complete, not in submission order; dataset append
// order is completion order. The context bounds individual fetch attempts
// (a caller may layer a deadline over the whole run); mid-run cancellation
// is not part of the contract.
func (s *Scheduler) Run(ctx context.Context, identifiers []string) (Stats, error) {
	concurrency := s.Concurrency
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}
	unitSize := s.UnitSize
	if unitSize <= 0 {
		unitSize = DefaultUnitSize
	}
	w := s.Progress
	if w == nil {
		w = io.Discard
	}

	units := partition(identifiers, unitSize)
	stats := Stats{Units: len(units), Identifiers: len(identifiers)}
	if len(units) == 0 {
		return stats, nil
	}

	pool, err := ants.NewPool(concurrency)
	if err != nil {
		return stats, fmt.Errorf("creating worker pool: %w", err)
	}
	defer pool.Release()

	results := make(chan unitResult, len(units))
	for _, unit := range units {
		unit := unit
		if err := pool.Submit(func() {
			results <- s.processUnit(ctx, unit)
		}); err != nil {
			// Pool is released only after Run returns, so Submit can
			// fail only on a nil task; report the unit as failed rather
			// than lose it.
			results <- unitResult{unit: unit, failed: true}
		}
	}

	for done := 0; done < len(units); done++ {
		res := <-results

		stats.Stored += res.stored
		stats.Filtered += res.filtered
		for _, sinkErr := range res.sinkErrs {
			stats.SinkErrors++
			fmt.Fprintf(w, "warning: dataset write failed: %v\n", sinkErr)
		}
		if res.failed {
			stats.FailedUnits++
			stats.FailedIDs += len(res.unit)
			s.Failures.Record(res.unit)
			fmt.Fprintf(w, "failed:  %v\n", res.unit)
		}

		fmt.Fprintf(w, "progress: %d/%d units\n", done+1, len(units))
	}

	fmt.Fprintf(w, "\nHarvest summary: %d stored, %d filtered, %d failed unit(s) (total: %d units)\n",
		stats.Stored, stats.Filtered, stats.FailedUnits, stats.Units)
	return stats, nil
}

// processUnit fetches every identifier in one unit. Successful records go
// to the sink immediately; a persistence error is recorded but does not
// fail the unit or its siblings.
func (s *Scheduler) processUnit(ctx context.Context, unit []string) unitResult {
	res := unitResult{unit: unit}
	for _, id := range unit {
		outcome := s.Fetcher.Fetch(ctx, id)
		if outcome.Failed() {
			res.failed = true
			continue
		}

		stored, err := s.Sink.Accept(outcome.Record)
		switch {
		case err != nil:
			res.sinkErrs = append(res.sinkErrs, err)
		case stored:
			res.stored++
		default:
			res.filtered++
		}
	}
	return res
}

// partition splits identifiers into contiguous units of at most size.
func partition(identifiers []string, size int) [][]string {
	var units [][]string
	for start := 0; start < len(identifiers); start += size {
		end := start + size
		if end > len(identifiers) {
			end = len(identifiers)
		}
		units = append(units, identifiers[start:end])
	}
	return units
}
