package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/pubharvest/internal/pubmed"
)

var searchCmd = &cobra.Command{
	Use:   "search",
	Short: "Discover PMIDs matching keywords and a date range",
	Long: `Search queries PubMed's ESearch API for each keyword within the given
publication date range, deduplicates the results across keywords, and
writes one PMID per line for the harvest stage.`,
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().StringSlice("keyword", nil, "search keyword (repeatable)")
	searchCmd.Flags().String("mindate", "", "publication date range start (YYYY/MM/DD, YYYY/MM, or YYYY)")
	searchCmd.Flags().String("maxdate", "", "publication date range end")
	searchCmd.Flags().Int("retmax", 0, "ESearch page size (default 10000)")
	searchCmd.Flags().String("out", "pmids.txt", "output file for discovered PMIDs")

	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	keywords, _ := cmd.Flags().GetStringSlice("keyword")
	if len(keywords) == 0 {
		keywords = viper.GetStringSlice("search.keywords")
	}
	if len(keywords) == 0 {
		return fmt.Errorf("provide at least one --keyword or configure search.keywords")
	}

	minDate, _ := cmd.Flags().GetString("mindate")
	if minDate == "" {
		minDate = viper.GetString("search.mindate")
	}
	maxDate, _ := cmd.Flags().GetString("maxdate")
	if maxDate == "" {
		maxDate = viper.GetString("search.maxdate")
	}
	if minDate == "" || maxDate == "" {
		return fmt.Errorf("both --mindate and --maxdate are required (YYYY/MM/DD, YYYY/MM, or YYYY)")
	}

	retMax, _ := cmd.Flags().GetInt("retmax")
	outPath, _ := cmd.Flags().GetString("out")

	cfg := entrezConfig(cmd)
	client := pubmed.NewClient(cfg)

	// NCBI politeness: one keyword per request-per-second slot.
	maxKeywords := 3
	if cfg.APIKey != "" {
		maxKeywords = 10
	}
	if len(keywords) > maxKeywords {
		fmt.Fprintf(os.Stderr, "warning: %d keywords exceeds the polite limit of %d for this key tier\n",
			len(keywords), maxKeywords)
	}

	var all []string
	for _, kw := range keywords {
		ids, err := client.Search(cmd.Context(), kw, pubmed.SearchOptions{
			MinDate: minDate,
			MaxDate: maxDate,
			RetMax:  retMax,
		})
		if err != nil {
			return fmt.Errorf("searching %q: %w", kw, err)
		}
		fmt.Printf("keyword %q: %d PMID(s)\n", kw, len(ids))
		all = append(all, ids...)
	}

	unique := dedupe(all)
	content := ""
	if len(unique) > 0 {
		content = strings.Join(unique, "\n") + "\n"
	}
	if err := os.WriteFile(outPath, []byte(content), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", outPath, err)
	}

	fmt.Printf("\nTotal: %d, unique: %d, written to %s\n", len(all), len(unique), outPath)
	return nil
}

// dedupe removes duplicate PMIDs while preserving first-seen order.
func dedupe(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	var out []string
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}
