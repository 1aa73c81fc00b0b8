package database

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/vocabdiary/internal/storage"
	"github.com/example/vocabdiary/internal/tabular"
)

func setupTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(DriverSQLite, filepath.Join(t.TempDir(), "data", "vocab.db"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func sampleTable() *tabular.Table {
	t := tabular.NewTable(tabular.VocabColumns...)
	t.Append(tabular.Row{tabular.ColumnWordClass: "Verb", tabular.ColumnEnglish: "to go", tabular.ColumnGerman: "gehen", tabular.ColumnPast: "ging"})
	t.Append(tabular.Row{tabular.ColumnWordClass: "Noun", tabular.ColumnEnglish: "bridge", tabular.ColumnGerman: "Brücke"})
	return t
}

func TestStore_ReadCreatesMissingTable(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	table, err := store.ReadTable(ctx, storage.TableDiary, tabular.VocabColumns)
	require.NoError(t, err)
	assert.Equal(t, tabular.VocabColumns, table.Columns)
	assert.Empty(t, table.Rows)

	ok, err := store.Exists(ctx, storage.TableDiary)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestStore_WriteReadRoundTrip(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()
	want := sampleTable()

	require.NoError(t, store.WriteTable(ctx, storage.TableDiary, want))
	got, err := store.ReadTable(ctx, storage.TableDiary, tabular.VocabColumns)

	require.NoError(t, err)
	assert.Equal(t, want.Records(), got.Records())

	// Overwrite replaces previous rows
	shorter := tabular.NewTable(tabular.VocabColumns...)
	shorter.Append(want.Rows[1])
	require.NoError(t, store.WriteTable(ctx, storage.TableDiary, shorter))

	got, err = store.ReadTable(ctx, storage.TableDiary, nil)
	require.NoError(t, err)
	assert.Equal(t, shorter.Records(), got.Records())
}

func TestStore_BackfillsRequestedColumns(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	legacy := tabular.NewTable("english", "german")
	legacy.Append(tabular.Row{"english": "house", "german": "Haus"})
	require.NoError(t, store.WriteTable(ctx, "animals", legacy))

	got, err := store.ReadTable(ctx, "animals", tabular.VocabColumns)

	require.NoError(t, err)
	assert.True(t, got.HasColumn(tabular.ColumnPerfect))
	assert.Equal(t, "", got.Rows[0][tabular.ColumnPerfect])
}

func TestStore_CopyTable(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()
	require.NoError(t, store.WriteTable(ctx, storage.TableDiary, sampleTable()))
	require.NoError(t, store.WriteTable(ctx, storage.TableDiaryBackup, tabular.NewTable("stale")))

	require.NoError(t, store.CopyTable(ctx, storage.TableDiary, storage.TableDiaryBackup))

	backup, err := store.ReadTable(ctx, storage.TableDiaryBackup, nil)
	require.NoError(t, err)
	assert.Equal(t, sampleTable().Records(), backup.Records())

	assert.ErrorIs(t, store.CopyTable(ctx, "missing", "other"), storage.ErrTableNotFound)
}

func TestStore_ListSources(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()
	for _, name := range []string{"verbs", storage.TableScoreHistory, storage.TableDiary, storage.TableDiaryBackup} {
		require.NoError(t, store.WriteTable(ctx, name, tabular.NewTable(tabular.VocabColumns...)))
	}

	sources, err := store.ListSources(ctx)

	require.NoError(t, err)
	assert.Equal(t, []storage.Source{{Name: storage.TableDiary, Editable: true}, {Name: "verbs"}}, sources)
}

func TestConnect_UnsupportedDriver(t *testing.T) {
	_, err := Connect("mysql", "whatever")
	assert.Error(t, err)
}
