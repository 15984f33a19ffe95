// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package fetch

import (
	"fmt"
	"os"
	"strings"
	"sync"
)

// Failures accumulates the identifiers of failed units. Accumulation is
// concurrent-safe; a unit's identifiers are recorded together. No dedup:
// an identifier recorded twice legitimately appears twice.
type Failures struct {
	mu  sync.Mutex
	ids []string
}

// Record appends one failed unit's identifiers.
func (f *Failures) Record(unit []string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ids = append(f.ids, unit...)
}

// IDs returns the accumulated identifiers as a flat ordered list.
func (f *Failures) IDs() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.ids))
	copy(out, f.ids)
	return out
}

// Empty reports whether no failures were recorded.
func (f *Failures) Empty() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.ids) == 0
}

// WriteFile writes the failed identifiers one per line. Nothing is written
// when no failures were recorded.
func (f *Failures) WriteFile(path string) error {
	ids := f.IDs()
	if len(ids) == 0 {
		return nil
	}
	data := strings.Join(ids, "\n") + "\n"
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		return fmt.Errorf("writing failure log %s: %w", path, err)
	}
	return nil
}
