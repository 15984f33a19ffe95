// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package archive

import (
	"context"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/pubharvest/pkg/types"
)

func testRecords() []types.Record {
	return []types.Record{
		{PMID: "100", DOI: "10.1/a", PMCID: "PMC100", Title: "First", Abstract: "A."},
		{PMID: "200", DOI: "10.1/b", Title: "Second", Abstract: "B.",
			Keywords: []string{"k1"}, Authors: []types.Author{{Name: "Alice Smith"}}},
	}
}

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(types.ArchiveConfig{ArchiveDir: t.TempDir()})
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestIngestAndCounts(t *testing.T) {
	store := newTestStore(t)

	summary, err := store.Ingest(context.Background(), testRecords(), io.Discard)
	require.NoError(t, err)
	assert.Equal(t, 2, summary.Inserted)
	assert.Equal(t, 0, summary.Updated)
	assert.Equal(t, 2, summary.Total())

	total, withPMC, err := store.Counts(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	assert.Equal(t, 1, withPMC)
}

func TestIngestUpsertsByPMID(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	_, err := store.Ingest(ctx, testRecords(), io.Discard)
	require.NoError(t, err)

	// Re-ingesting the same PMIDs updates rather than duplicates.
	updated := testRecords()
	updated[0].Title = "First, revised"
	summary, err := store.Ingest(ctx, updated, io.Discard)
	require.NoError(t, err)
	assert.Equal(t, 0, summary.Inserted)
	assert.Equal(t, 2, summary.Updated)

	total, _, err := store.Counts(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, total)

	var title string
	require.NoError(t, store.db.QueryRow(
		`SELECT title FROM records WHERE pmid = ?`, "100").Scan(&title))
	assert.Equal(t, "First, revised", title)
}

func TestIngestEmptyDataset(t *testing.T) {
	store := newTestStore(t)
	summary, err := store.Ingest(context.Background(), nil, io.Discard)
	require.NoError(t, err)
	assert.Equal(t, 0, summary.Total())
}
