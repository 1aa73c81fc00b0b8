package tabular

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func TestReadCSV_MissingFileIsCreated(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data", "diary.csv")

	table, err := ReadCSV(path, VocabColumns, nil)

	require.NoError(t, err)
	assert.Equal(t, VocabColumns, table.Columns)
	assert.Empty(t, table.Rows)

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "word_class,english,german,past_tense,perfect_tense\n", string(content))
}

func TestReadCSV_SkipsMalformedRows(t *testing.T) {
	path := filepath.Join(t.TempDir(), "list.csv")
	writeFile(t, path, "word_class,english,german\n"+
		"Noun,house,Haus\n"+
		"Noun,too,many,fields\n"+
		"Verb,to go,gehen\n")

	table, err := ReadCSV(path, nil, nil)

	require.NoError(t, err)
	require.Len(t, table.Rows, 2)
	assert.Equal(t, "house", table.Rows[0][ColumnEnglish])
	assert.Equal(t, "to go", table.Rows[1][ColumnEnglish])
}

func TestReadCSV_BackfillsMissingColumns(t *testing.T) {
	path := filepath.Join(t.TempDir(), "list.csv")
	writeFile(t, path, "english,german\nhouse,Haus\n")

	table, err := ReadCSV(path, VocabColumns, nil)

	require.NoError(t, err)
	assert.Equal(t, []string{"english", "german", "word_class", "past_tense", "perfect_tense"}, table.Columns)
	require.Len(t, table.Rows, 1)
	assert.Equal(t, "", table.Rows[0][ColumnPast])
	assert.Equal(t, "Haus", table.Rows[0][ColumnGerman])
}

func TestWriteCSV_RoundTripIsStable(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "list.csv")
	writeFile(t, path, "english,german\n\"a, b\",\"c \"\"d\"\"\"\nÜber,über\n")

	first, err := ReadCSV(path, VocabColumns, nil)
	require.NoError(t, err)
	require.NoError(t, WriteCSV(first, path))
	afterFirst, err := os.ReadFile(path)
	require.NoError(t, err)

	second, err := ReadCSV(path, VocabColumns, nil)
	require.NoError(t, err)
	require.NoError(t, WriteCSV(second, path))
	afterSecond, err := os.ReadFile(path)
	require.NoError(t, err)

	assert.Equal(t, string(afterFirst), string(afterSecond))
	assert.Equal(t, "a, b", second.Rows[0]["english"])
	assert.Equal(t, `c "d"`, second.Rows[0]["german"])

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temporary files must not be left behind")
}

func TestTable_CloneIsIndependent(t *testing.T) {
	table := NewTable("english")
	table.Append(Row{"english": "house", "ignored": "x"})

	clone := table.Clone()
	clone.Rows[0]["english"] = "home"

	assert.Equal(t, "house", table.Rows[0]["english"])
	_, ok := table.Rows[0]["ignored"]
	assert.False(t, ok)
}
