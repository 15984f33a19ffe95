// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package export partitions a completed dataset into categorized views and
// renders them into markdown, HTML, and line-delimited JSON artifacts.
// It only ever reads the dataset; a failed export never invalidates the
// fetch stage's files.
package export

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pdiddy/pubharvest/pkg/types"
)

// repoTokens is the vocabulary for the code-repository heuristic. The
// case-sensitive substring match is deliberately loose: "ithub" catches
// GitHub/github, "avaliable" catches a misspelling that is common in
// abstracts announcing code. Known noisy in both directions.
var repoTokens = []string{"ithub", "avaliable"}

// MentionsRepository reports whether an abstract appears to mention a
// linked code repository.
func MentionsRepository(abstract string) bool {
	for _, token := range repoTokens {
		if strings.Contains(abstract, token) {
			return true
		}
	}
	return false
}

// Views holds the derived partitions of a dataset. Each record lands in
// exactly one of {PMCIDs, NoPMC} and exactly one of {Matched, Unmatched}.
type Views struct {
	// PMCIDs lists the PMC identifiers of records deposited in PubMed
	// Central.
	PMCIDs []string

	// NoPMC holds the records lacking a PMC identifier.
	NoPMC []types.Record

	// Matched holds records whose abstract passes MentionsRepository.
	Matched []types.Record

	// Unmatched holds the rest.
	Unmatched []types.Record
}

// Partition computes the classified views of a dataset. It is a pure
// function of its input: the dataset is not modified and two calls on the
// same dataset yield identical views.
func Partition(records []types.Record) Views {
	var v Views
	for _, r := range records {
		if r.PMCID != "" {
			v.PMCIDs = append(v.PMCIDs, r.PMCID)
		} else {
			v.NoPMC = append(v.NoPMC, r)
		}

		if MentionsRepository(r.Abstract) {
			v.Matched = append(v.Matched, r)
		} else {
			v.Unmatched = append(v.Unmatched, r)
		}
	}
	return v
}

// Artifact file names written by WriteAll.
const (
	PMCIDsFile    = "pmcids.txt"
	NoPMCFile     = "no_pmcids.jsonl"
	AllMarkdown   = "records.md"
	AllHTML       = "records.html"
	MatchedBase   = "matched"
	UnmatchedBase = "unmatched"
)

// WriteAll materializes every export artifact into dir: the PMC ID list,
// the no-PMC subset, the full rendered document, and the matched/unmatched
// subsets each as jsonl, markdown, and HTML.
func WriteAll(dir string, records []types.Record, v Views) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating export directory %s: %w", dir, err)
	}

	if err := writeLines(filepath.Join(dir, PMCIDsFile), v.PMCIDs); err != nil {
		return err
	}
	if err := writeJSONL(filepath.Join(dir, NoPMCFile), v.NoPMC); err != nil {
		return err
	}

	allMD := RenderAll(records)
	if err := os.WriteFile(filepath.Join(dir, AllMarkdown), []byte(allMD), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", AllMarkdown, err)
	}
	if err := os.WriteFile(filepath.Join(dir, AllHTML), HTMLDocument(allMD), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", AllHTML, err)
	}

	for _, subset := range []struct {
		base    string
		records []types.Record
	}{
		{MatchedBase, v.Matched},
		{UnmatchedBase, v.Unmatched},
	} {
		if err := writeJSONL(filepath.Join(dir, subset.base+".jsonl"), subset.records); err != nil {
			return err
		}
		md := RenderAll(subset.records)
		if err := os.WriteFile(filepath.Join(dir, subset.base+".md"), []byte(md), 0o644); err != nil {
			return fmt.Errorf("writing %s.md: %w", subset.base, err)
		}
		if err := os.WriteFile(filepath.Join(dir, subset.base+".html"), HTMLDocument(md), 0o644); err != nil {
			return fmt.Errorf("writing %s.html: %w", subset.base, err)
		}
	}

	return nil
}

// writeLines writes one string per line.
func writeLines(path string, lines []string) error {
	content := ""
	if len(lines) > 0 {
		content = strings.Join(lines, "\n") + "\n"
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// writeJSONL writes records one JSON object per line, the same format the
// fetch stage's dataset uses.
func writeJSONL(path string, records []types.Record) error {
	var b strings.Builder
	enc := json.NewEncoder(&b)
	for i := range records {
		if err := enc.Encode(&records[i]); err != nil {
			return fmt.Errorf("encoding record %s: %w", records[i].PMID, err)
		}
	}
	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
