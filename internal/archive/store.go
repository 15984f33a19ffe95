// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package archive mirrors a harvested dataset into a SQLite database so
// repeated harvests accumulate into one durable store. It offers storage
// and counts only; it is not a query layer over the dataset.
package archive

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/pubharvest/pkg/types"
)

const dbFile = "harvest.db"

// Store manages the archive SQLite database.
type Store struct {
	db *sql.DB
}

// NewStore opens or creates the archive database at dir/harvest.db and
// creates the schema when missing.
func NewStore(cfg types.ArchiveConfig) (*Store, error) {
	dir := cfg.ArchiveDir
	if dir == "" {
		dir = "archive"
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating archive directory: %w", err)
	}

	dbPath := filepath.Join(dir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{db: db}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS records (
			pmid TEXT PRIMARY KEY,
			doi TEXT,
			pmc_id TEXT,
			title TEXT,
			abstract TEXT,
			keywords TEXT,
			authors TEXT,
			journal TEXT,
			pub_date TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_records_pmc ON records(pmc_id)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// IngestSummary holds counts from one archive load.
type IngestSummary struct {
	Inserted int
	Updated  int
	Failed   int
}

// Total returns the number of records processed.
func (s IngestSummary) Total() int {
	return s.Inserted + s.Updated + s.Failed
}

// Ingest upserts records into the archive by PMID inside one transaction,
// printing per-record status. A re-harvested PMID replaces its previous
// row.
func (s *Store) Ingest(ctx context.Context, records []types.Record, w io.Writer) (IngestSummary, error) {
	var summary IngestSummary

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return summary, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO records (pmid, doi, pmc_id, title, abstract, keywords, authors, journal, pub_date)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(pmid) DO UPDATE SET
			doi=excluded.doi, pmc_id=excluded.pmc_id, title=excluded.title,
			abstract=excluded.abstract, keywords=excluded.keywords,
			authors=excluded.authors, journal=excluded.journal,
			pub_date=excluded.pub_date`)
	if err != nil {
		return summary, fmt.Errorf("preparing upsert: %w", err)
	}
	defer stmt.Close()

	for i := range records {
		r := &records[i]

		var exists int
		if err := tx.QueryRowContext(ctx,
			`SELECT count(*) FROM records WHERE pmid = ?`, r.PMID,
		).Scan(&exists); err != nil {
			return summary, fmt.Errorf("checking record %s: %w", r.PMID, err)
		}

		keywordsJSON, _ := json.Marshal(r.Keywords)
		authorsJSON, _ := json.Marshal(r.Authors)
		if _, err := stmt.ExecContext(ctx,
			r.PMID, r.DOI, r.PMCID, r.Title, r.Abstract,
			string(keywordsJSON), string(authorsJSON), r.Journal, r.PubDate,
		); err != nil {
			fmt.Fprintf(w, "failed  %s: %v\n", r.PMID, err)
			summary.Failed++
			continue
		}

		if exists > 0 {
			fmt.Fprintf(w, "updated  %s\n", r.PMID)
			summary.Updated++
		} else {
			fmt.Fprintf(w, "archived %s\n", r.PMID)
			summary.Inserted++
		}
	}

	if err := tx.Commit(); err != nil {
		return summary, fmt.Errorf("committing archive load: %w", err)
	}

	fmt.Fprintf(w, "\narchived: %d, updated: %d, failed: %d\n",
		summary.Inserted, summary.Updated, summary.Failed)
	return summary, nil
}

// Counts reports the archive size and how many records carry a PMC ID.
func (s *Store) Counts(ctx context.Context) (total, withPMC int, err error) {
	if err = s.db.QueryRowContext(ctx, `SELECT count(*) FROM records`).Scan(&total); err != nil {
		return 0, 0, fmt.Errorf("counting records: %w", err)
	}
	if err = s.db.QueryRowContext(ctx,
		`SELECT count(*) FROM records WHERE pmc_id != ''`).Scan(&withPMC); err != nil {
		return 0, 0, fmt.Errorf("counting PMC records: %w", err)
	}
	return total, withPMC, nil
}
