// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package fetch

import (
	"fmt"
	"os"
	"time"

	"go.yaml.in/yaml/v3"
)

// Manifest is the on-disk summary of one harvest run. It records what the
// run did, not the data itself, so an operator can audit a run without
// re-reading the dataset.
type Manifest struct {
	Input     string        `yaml:"input"`
	Dataset   string        `yaml:"dataset"`
	Stats     Stats         `yaml:"stats"`
	Duration  time.Duration `yaml:"duration"`
	Timestamp time.Time     `yaml:"timestamp"`
}

// WriteManifest saves the run summary as YAML.
func WriteManifest(path string, m Manifest) error {
	data, err := yaml.Marshal(&m)
	if err != nil {
		return fmt.Errorf("marshaling manifest: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// ReadManifest loads a previously written run summary.
func ReadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading manifest %s: %w", path, err)
	}
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parsing manifest %s: %w", path, err)
	}
	return &m, nil
}
