package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/pdiddy/pubharvest/internal/archive"
	"github.com/pdiddy/pubharvest/internal/fetch"
	"github.com/pdiddy/pubharvest/pkg/types"
)

var indexCmd = &cobra.Command{
	Use:   "index [records-file]",
	Short: "Load a harvested dataset into the SQLite archive",
	Long: `Index upserts a dataset (default output/records.jsonl) into a SQLite
archive keyed by PMID, so repeated harvests accumulate into one store.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runIndex,
}

func init() {
	indexCmd.Flags().String("archive-dir", "archive", "directory for the archive database")
	indexCmd.Flags().String("output-dir", "output", "directory the dataset was harvested into")

	rootCmd.AddCommand(indexCmd)
}

func runIndex(cmd *cobra.Command, args []string) error {
	outDir, _ := cmd.Flags().GetString("output-dir")
	datasetPath := filepath.Join(outDir, datasetFile)
	if len(args) > 0 {
		datasetPath = args[0]
	}

	records, err := fetch.ReadDataset(datasetPath)
	if err != nil {
		return err
	}

	archiveDir, _ := cmd.Flags().GetString("archive-dir")
	store, err := archive.NewStore(types.ArchiveConfig{ArchiveDir: archiveDir})
	if err != nil {
		return err
	}
	defer store.Close()

	summary, err := store.Ingest(cmd.Context(), records, cmd.OutOrStdout())
	if err != nil {
		return err
	}
	if summary.Failed > 0 {
		return fmt.Errorf("%d record(s) failed archiving", summary.Failed)
	}

	total, withPMC, err := store.Counts(cmd.Context())
	if err != nil {
		return err
	}
	fmt.Printf("Archive now holds %d record(s), %d with a PMC ID\n", total, withPMC)
	return nil
}
