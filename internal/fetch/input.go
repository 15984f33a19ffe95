// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package fetch

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// ReadIdentifiers reads one identifier per line, trimming whitespace and
// skipping blank lines. Order is preserved; duplicates are kept, a
// duplicate legitimately re-fetches.
func ReadIdentifiers(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening identifier list %s: %w", path, err)
	}
	defer f.Close()

	var ids []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		if line := strings.TrimSpace(scanner.Text()); line != "" {
			ids = append(ids, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading identifier list %s: %w", path, err)
	}
	return ids, nil
}
