package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/vocabdiary/internal/tabular"
)

func setupFileStore(t *testing.T) (*FileStore, string) {
	t.Helper()
	dir := filepath.Join(t.TempDir(), "vocab_data")
	store, err := NewFileStore(dir, nil)
	require.NoError(t, err)
	return store, dir
}

func TestFileStore_ReadCreatesMissingTable(t *testing.T) {
	store, dir := setupFileStore(t)
	ctx := context.Background()

	ok, err := store.Exists(ctx, TableDiary)
	require.NoError(t, err)
	assert.False(t, ok)

	table, err := store.ReadTable(ctx, TableDiary, tabular.VocabColumns)
	require.NoError(t, err)
	assert.Empty(t, table.Rows)
	assert.FileExists(t, filepath.Join(dir, "diary.csv"))

	ok, err = store.Exists(ctx, TableDiary)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestFileStore_CopyTable(t *testing.T) {
	store, _ := setupFileStore(t)
	ctx := context.Background()

	table := tabular.NewTable("english", "german")
	table.Append(tabular.Row{"english": "house", "german": "Haus"})
	require.NoError(t, store.WriteTable(ctx, TableDiary, table))

	require.NoError(t, store.CopyTable(ctx, TableDiary, TableDiaryBackup))

	backup, err := store.ReadTable(ctx, TableDiaryBackup, nil)
	require.NoError(t, err)
	assert.Equal(t, table.Records(), backup.Records())

	err = store.CopyTable(ctx, "missing", TableDiaryBackup)
	assert.ErrorIs(t, err, ErrTableNotFound)
}

func TestFileStore_CopyTableKeepsMalformedRows(t *testing.T) {
	store, dir := setupFileStore(t)
	ctx := context.Background()
	content := "word_class,english_word,german_word,past_tense,perfect_tense\n" +
		"Noun,house,Haus,,\n" +
		"Noun,broken\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "diary.csv"), []byte(content), 0644))

	require.NoError(t, store.CopyTable(ctx, TableDiary, TableDiaryBackup))

	backup, err := os.ReadFile(filepath.Join(dir, TableDiaryBackup+".csv"))
	require.NoError(t, err)
	assert.Equal(t, content, string(backup))
}

func TestFileStore_ListSources(t *testing.T) {
	store, dir := setupFileStore(t)
	ctx := context.Background()

	for _, name := range []string{"verbs", TableDiaryBackup, TableScoreHistory, TableAchievements, "animals", TableDiary} {
		require.NoError(t, store.WriteTable(ctx, name, tabular.NewTable(tabular.VocabColumns...)))
	}
	require.NoError(t, tabular.WriteXLSX(tabular.NewTable(tabular.VocabColumns...), filepath.Join(dir, "goethe.xlsx"), ""))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0644))

	sources, err := store.ListSources(ctx)

	require.NoError(t, err)
	assert.Equal(t, []Source{
		{Name: TableDiary, Editable: true},
		{Name: "animals"},
		{Name: "goethe.xlsx"},
		{Name: "verbs"},
	}, sources)
}

func TestFileStore_ExcelSourcesAreReadOnly(t *testing.T) {
	store, dir := setupFileStore(t)
	ctx := context.Background()

	sheet := tabular.NewTable(tabular.VocabColumns...)
	sheet.Append(tabular.Row{tabular.ColumnEnglish: "to go", tabular.ColumnGerman: "gehen", tabular.ColumnWordClass: "Verb"})
	require.NoError(t, tabular.WriteXLSX(sheet, filepath.Join(dir, "goethe.xlsx"), ""))

	table, err := store.ReadTable(ctx, "goethe.xlsx", tabular.VocabColumns)
	require.NoError(t, err)
	require.Len(t, table.Rows, 1)
	assert.Equal(t, "gehen", table.Rows[0][tabular.ColumnGerman])

	err = store.WriteTable(ctx, "goethe.xlsx", table)
	assert.ErrorIs(t, err, ErrReadOnly)
}

func TestFileStore_RejectsPathNames(t *testing.T) {
	store, _ := setupFileStore(t)

	_, err := store.ReadTable(context.Background(), "../diary", nil)
	assert.ErrorIs(t, err, ErrInvalidName)
}
