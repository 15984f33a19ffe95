// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package fetch

import (
	"fmt"
	"path/filepath"
	"sync"
	"testing"

	"github.com/pdiddy/pubharvest/pkg/types"
)

func TestSinkFiltersUnusableRecords(t *testing.T) {
	path := filepath.Join(t.TempDir(), "records.jsonl")
	sink, err := NewSink(path)
	if err != nil {
		t.Fatalf("NewSink: %v", err)
	}
	defer sink.Close()

	tests := []struct {
		name   string
		record *types.Record
		want   bool
	}{
		{"usable", usableRecord("1"), true},
		{"missing abstract", &types.Record{PMID: "2", DOI: "10.1/x"}, false},
		{"missing doi", &types.Record{PMID: "3", Abstract: "text"}, false},
		{"missing both", &types.Record{PMID: "4"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stored, err := sink.Accept(tt.record)
			if err != nil {
				t.Fatalf("Accept: %v", err)
			}
			if stored != tt.want {
				t.Errorf("Accept = %v, want %v", stored, tt.want)
			}
		})
	}

	if sink.Stored() != 1 {
		t.Errorf("Stored = %d, want 1", sink.Stored())
	}
}

func TestSinkConcurrentAppends(t *testing.T) {
	const n = 50
	path := filepath.Join(t.TempDir(), "records.jsonl")
	sink, err := NewSink(path)
	if err != nil {
		t.Fatalf("NewSink: %v", err)
	}

	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if _, err := sink.Accept(usableRecord(fmt.Sprintf("%d", i))); err != nil {
				t.Errorf("Accept: %v", err)
			}
		}(i)
	}
	wg.Wait()
	if err := sink.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	// Every record present exactly once, every line independently parseable.
	records, err := ReadDataset(path)
	if err != nil {
		t.Fatalf("ReadDataset: %v", err)
	}
	if len(records) != n {
		t.Fatalf("len(records) = %d, want %d", len(records), n)
	}
	seen := make(map[string]bool, n)
	for _, r := range records {
		if seen[r.PMID] {
			t.Errorf("PMID %s appears more than once", r.PMID)
		}
		seen[r.PMID] = true
		if r.DOI != "10.1000/"+r.PMID {
			t.Errorf("record %s corrupted: DOI = %q", r.PMID, r.DOI)
		}
	}
}

func TestReadDatasetErrors(t *testing.T) {
	if _, err := ReadDataset(filepath.Join(t.TempDir(), "absent.jsonl")); err == nil {
		t.Error("missing dataset should fail")
	}
}
