// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/pubharvest/internal/fetch"
	"github.com/pdiddy/pubharvest/internal/pubmed"
	"github.com/pdiddy/pubharvest/pkg/types"
)

const (
	datasetFile  = "records.jsonl"
	failuresFile = "failed_ids.txt"
	manifestFile = "harvest.yaml"
)

var harvestCmd = &cobra.Command{
	Use:   "harvest [pmids-file]",
	Short: "Fetch and normalize records for a list of PMIDs",
	Long: `Harvest reads PMIDs one per line (default pmids.txt), fetches each record
from PubMed across a bounded worker pool with per-identifier retries, and
appends usable records to records.jsonl as they complete. Identifiers that
exhaust their retries are written to failed_ids.txt. When the fetch phase
finishes, the export stage partitions and renders the dataset; an export
failure leaves the fetch artifacts intact.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runHarvest,
}

func init() {
	harvestCmd.Flags().Int("concurrency", 0, "worker pool size (default 5)")
	harvestCmd.Flags().Int("unit-size", 0, "identifiers per work unit (default 1)")
	harvestCmd.Flags().Int("retries", 0, "fetch attempts per identifier (default 3)")
	harvestCmd.Flags().Duration("backoff", 0, "base retry delay, tripling per attempt (default 1s)")
	harvestCmd.Flags().String("output-dir", "", "directory for pipeline artifacts (default output)")
	harvestCmd.Flags().Bool("skip-export", false, "stop after the fetch phase")

	rootCmd.AddCommand(harvestCmd)
}

// harvestConfig resolves fetch-stage settings from flags and config.
func harvestConfig(cmd *cobra.Command) types.HarvestConfig {
	cfg := types.HarvestConfig{EntrezConfig: entrezConfig(cmd)}

	cfg.Concurrency, _ = cmd.Flags().GetInt("concurrency")
	if cfg.Concurrency == 0 {
		cfg.Concurrency = viper.GetInt("harvest.concurrency")
	}
	cfg.UnitSize, _ = cmd.Flags().GetInt("unit-size")
	if cfg.UnitSize == 0 {
		cfg.UnitSize = viper.GetInt("harvest.unit_size")
	}
	cfg.Retries, _ = cmd.Flags().GetInt("retries")
	if cfg.Retries == 0 {
		cfg.Retries = viper.GetInt("harvest.retries")
	}
	cfg.BackoffBase, _ = cmd.Flags().GetDuration("backoff")

	cfg.OutputDir, _ = cmd.Flags().GetString("output-dir")
	if cfg.OutputDir == "" {
		cfg.OutputDir = viper.GetString("harvest.output_dir")
	}
	if cfg.OutputDir == "" {
		cfg.OutputDir = "output"
	}
	return cfg
}

func runHarvest(cmd *cobra.Command, args []string) error {
	input := "pmids.txt"
	if len(args) > 0 {
		input = args[0]
	}

	// An unreadable identifier list terminates the run before any
	// partial work.
	ids, err := fetch.ReadIdentifiers(input)
	if err != nil {
		return err
	}
	if len(ids) == 0 {
		return fmt.Errorf("identifier list %s is empty", input)
	}

	cfg := harvestConfig(cmd)
	if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
		return fmt.Errorf("creating output directory %s: %w", cfg.OutputDir, err)
	}

	datasetPath := filepath.Join(cfg.OutputDir, datasetFile)
	sink, err := fetch.NewSink(datasetPath)
	if err != nil {
		return err
	}

	failures := &fetch.Failures{}
	scheduler := &fetch.Scheduler{
		Fetcher: &fetch.Fetcher{
			Source:      pubmed.NewClient(cfg.EntrezConfig),
			Retries:     cfg.Retries,
			BackoffBase: cfg.BackoffBase,
		},
		Sink:        sink,
		Failures:    failures,
		Concurrency: cfg.Concurrency,
		UnitSize:    cfg.UnitSize,
		Progress:    os.Stdout,
	}

	fmt.Printf("Harvesting %d PMID(s)...\n", len(ids))
	start := time.Now()
	stats, err := scheduler.Run(cmd.Context(), ids)
	if closeErr := sink.Close(); closeErr != nil {
		fmt.Fprintf(os.Stderr, "warning: closing dataset: %v\n", closeErr)
	}
	if err != nil {
		return err
	}

	// The failure log and manifest are best-effort: a write error is
	// reported, never hidden, and does not abort the run.
	if err := failures.WriteFile(filepath.Join(cfg.OutputDir, failuresFile)); err != nil {
		fmt.Fprintf(os.Stderr, "warning: %v\n", err)
	}
	manifest := fetch.Manifest{
		Input:     input,
		Dataset:   datasetPath,
		Stats:     stats,
		Duration:  time.Since(start).Round(time.Millisecond),
		Timestamp: time.Now().UTC(),
	}
	if err := fetch.WriteManifest(filepath.Join(cfg.OutputDir, manifestFile), manifest); err != nil {
		fmt.Fprintf(os.Stderr, "warning: %v\n", err)
	}

	if skip, _ := cmd.Flags().GetBool("skip-export"); skip {
		return nil
	}

	// Export errors are reported distinctly; the dataset and failure
	// log written above are never rolled back.
	if err := runExportStage(cfg.OutputDir, datasetPath); err != nil {
		return fmt.Errorf("export stage (fetch artifacts preserved): %w", err)
	}
	return nil
}
