// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package fetch

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/pdiddy/pubharvest/pkg/types"
)

// Sink appends usable records to a line-delimited JSON dataset as workers
// complete, in completion order. Each accepted record is written as one
// complete line in a single Write call under a mutex, so concurrent
// workers never interleave and an interrupted run leaves a valid,
// truncatable prefix.
type Sink struct {
	mu     sync.Mutex
	file   *os.File
	stored int
}

// NewSink creates (or truncates) the dataset file at path.
func NewSink(path string) (*Sink, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("creating dataset %s: %w", path, err)
	}
	return &Sink{file: f}, nil
}

// Accept applies the usability filter and appends the record. It returns
// true only when the record was stored. Records without an abstract or a
// DOI are dropped silently: a filtered record is neither stored nor a
// failure.
func (s *Sink) Accept(record *types.Record) (bool, error) {
	if !record.Usable() {
		return false, nil
	}

	line, err := json.Marshal(record)
	if err != nil {
		return false, fmt.Errorf("encoding record %s: %w", record.PMID, err)
	}
	line = append(line, '\n')

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.file.Write(line); err != nil {
		return false, fmt.Errorf("writing record %s: %w", record.PMID, err)
	}
	s.stored++
	return true, nil
}

// Stored returns the number of records accepted so far.
func (s *Sink) Stored() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stored
}

// Close releases the dataset file.
func (s *Sink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.file.Close()
}

// ReadDataset loads a line-delimited dataset back into memory. Blank lines
// are skipped so a file with a trailing newline round-trips cleanly.
func ReadDataset(path string) ([]types.Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening dataset %s: %w", path, err)
	}
	defer f.Close()

	var records []types.Record
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var r types.Record
		if err := json.Unmarshal(line, &r); err != nil {
			return nil, fmt.Errorf("parsing dataset line %d: %w", len(records)+1, err)
		}
		records = append(records, r)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading dataset %s: %w", path, err)
	}
	return records, nil
}
