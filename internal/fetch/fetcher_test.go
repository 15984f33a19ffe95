// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package fetch

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/pdiddy/pubharvest/pkg/types"
)

// stubSource returns scripted outcomes per identifier and counts attempts.
type stubSource struct {
	mu       sync.Mutex
	attempts map[string]int

	// failuresBefore is the number of attempts that fail before a
	// success; -1 fails forever.
	failuresBefore map[string]int

	// records overrides the returned record (default: usable record).
	records map[string]*types.Record
}

func newStubSource() *stubSource {
	return &stubSource{
		attempts:       make(map[string]int),
		failuresBefore: make(map[string]int),
		records:        make(map[string]*types.Record),
	}
}

func usableRecord(pmid string) *types.Record {
	return &types.Record{
		PMID:     pmid,
		DOI:      "10.1000/" + pmid,
		Abstract: "An abstract for " + pmid + ".",
		Title:    "Record " + pmid,
	}
}

func (s *stubSource) FetchRecord(_ context.Context, pmid string) (*types.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	attempt := s.attempts[pmid]
	s.attempts[pmid] = attempt + 1

	failures := s.failuresBefore[pmid]
	if failures == -1 || attempt < failures {
		return nil, fmt.Errorf("transient error for %s (attempt %d)", pmid, attempt)
	}
	if r, ok := s.records[pmid]; ok {
		return r, nil
	}
	return usableRecord(pmid), nil
}

func (s *stubSource) attemptCount(pmid string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.attempts[pmid]
}

func TestFetchSucceedsFirstAttempt(t *testing.T) {
	src := newStubSource()
	f := &Fetcher{Source: src, Sleep: func(time.Duration) {}}

	out := f.Fetch(context.Background(), "100")
	if out.Failed() {
		t.Fatalf("Fetch failed: %v", out.Err)
	}
	if out.Attempts != 1 {
		t.Errorf("Attempts = %d, want 1", out.Attempts)
	}
	if out.Record.PMID != "100" {
		t.Errorf("Record.PMID = %q", out.Record.PMID)
	}
}

func TestFetchRetriesThenSucceeds(t *testing.T) {
	src := newStubSource()
	src.failuresBefore["100"] = 2 // attempts 0 and 1 fail, attempt 2 succeeds

	var delays []time.Duration
	f := &Fetcher{
		Source:      src,
		BackoffBase: 1 * time.Millisecond,
		Sleep:       func(d time.Duration) { delays = append(delays, d) },
	}

	out := f.Fetch(context.Background(), "100")
	if out.Failed() {
		t.Fatalf("Fetch failed: %v", out.Err)
	}
	if out.Attempts != 3 {
		t.Errorf("Attempts = %d, want 3", out.Attempts)
	}
	if src.attemptCount("100") != 3 {
		t.Errorf("source saw %d attempts, want 3", src.attemptCount("100"))
	}

	// Backoff delays before attempts 2 and 3 are 1 and 3 base units.
	want := []time.Duration{1 * time.Millisecond, 3 * time.Millisecond}
	if len(delays) != len(want) {
		t.Fatalf("delays = %v, want %v", delays, want)
	}
	for i := range want {
		if delays[i] != want[i] {
			t.Errorf("delays[%d] = %v, want %v", i, delays[i], want[i])
		}
	}
}

func TestFetchExhaustsBudget(t *testing.T) {
	src := newStubSource()
	src.failuresBefore["100"] = -1

	var delays []time.Duration
	f := &Fetcher{
		Source:      src,
		Retries:     3,
		BackoffBase: 1 * time.Millisecond,
		Sleep:       func(d time.Duration) { delays = append(delays, d) },
	}

	out := f.Fetch(context.Background(), "100")
	if !out.Failed() {
		t.Fatal("Fetch should fail after exhausting retries")
	}
	if out.Attempts != 3 {
		t.Errorf("Attempts = %d, want exactly the budget of 3", out.Attempts)
	}
	if out.Identifier != "100" {
		t.Errorf("Identifier = %q, want %q", out.Identifier, "100")
	}
	if out.Err == nil || out.Record != nil {
		t.Errorf("failure outcome = %+v, want Err set and no Record", out)
	}
	// Only two sleeps: no backoff after the final attempt.
	if len(delays) != 2 {
		t.Errorf("len(delays) = %d, want 2", len(delays))
	}
}

func TestFetchUnusableRecordIsStillSuccess(t *testing.T) {
	src := newStubSource()
	src.records["100"] = &types.Record{PMID: "100", Title: "No abstract"}

	f := &Fetcher{Source: src, Sleep: func(time.Duration) {}}
	out := f.Fetch(context.Background(), "100")

	if out.Failed() {
		t.Fatalf("unusable record must not be a fetch failure: %v", out.Err)
	}
	if out.Record.Usable() {
		t.Error("record should be unusable")
	}
}
