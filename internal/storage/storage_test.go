package storage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"tagcalc/internal/tag"
)

func sampleTags() []tag.Tag {
	return []tag.Tag{
		{ID: "1", Name: "Total Revenue", Category: "finance", Value: tag.Number(12.5)},
		{ID: "2", Name: "Cost", Category: "finance, ops", Value: tag.String("abc")},
		{ID: "3", Name: "Head count", Category: "", Value: tag.Number(-4)},
	}
}

func TestCSVRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tags.csv")
	require.NoError(t, SaveCSV(sampleTags(), path))

	got, err := LoadCSV(path)
	require.NoError(t, err)
	require.Equal(t, sampleTags(), got)
}

func TestLoadCSV_ColumnOrderAndMissingColumns(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tags.csv")
	data := "Name,ID\nRevenue,r1\nCost,c1\n"
	require.NoError(t, os.WriteFile(path, []byte(data), 0o600))

	got, err := LoadCSV(path)
	require.NoError(t, err)
	require.Len(t, got, 2)
	require.Equal(t, "r1", got[0].ID)
	require.Equal(t, "Revenue", got[0].Name)
	require.Equal(t, "0", got[0].Value.Expr())
}

func TestLoadCSV_Errors(t *testing.T) {
	dir := t.TempDir()

	_, err := LoadCSV(filepath.Join(dir, "missing.csv"))
	require.Error(t, err)

	noID := filepath.Join(dir, "noid.csv")
	require.NoError(t, os.WriteFile(noID, []byte("name,value\nx,1\n"), 0o600))
	_, err = LoadCSV(noID)
	require.ErrorContains(t, err, "missing id column")

	blankID := filepath.Join(dir, "blank.csv")
	require.NoError(t, os.WriteFile(blankID, []byte("id,name\n,x\n"), 0o600))
	_, err = LoadCSV(blankID)
	require.ErrorContains(t, err, "row 2 has no id")

	empty := filepath.Join(dir, "empty.csv")
	require.NoError(t, os.WriteFile(empty, nil, 0o600))
	got, err := LoadCSV(empty)
	require.NoError(t, err)
	require.Empty(t, got)
}

func TestSQLiteStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tags.db")

	s, err := OpenSQLite(path)
	require.NoError(t, err)

	got, err := s.Tags()
	require.NoError(t, err)
	require.Empty(t, got)

	require.NoError(t, s.Replace(sampleTags()))
	got, err = s.Tags()
	require.NoError(t, err)
	require.Equal(t, sampleTags(), got)

	// a second Replace swaps the whole catalog
	require.NoError(t, s.Replace(sampleTags()[:1]))
	got, err = s.Tags()
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.NoError(t, s.Close())

	// reopening keeps the data and accepts the schema version
	got, err = LoadSQLite(path)
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.True(t, got[0].Value.IsNumber())
}

func TestSQLiteSaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "export.db")
	require.NoError(t, SaveSQLite(sampleTags(), path))
	got, err := LoadSQLite(path)
	require.NoError(t, err)
	require.Equal(t, sampleTags(), got)
}

func TestSQLiteRejectsUnknownSchema(t *testing.T) {
	path := filepath.Join(t.TempDir(), "old.db")
	s, err := OpenSQLite(path)
	require.NoError(t, err)
	_, err = s.db.Exec("UPDATE metadata SET value = '99' WHERE key = 'schema_version'")
	require.NoError(t, err)
	require.NoError(t, s.Close())

	_, err = OpenSQLite(path)
	require.ErrorContains(t, err, "unsupported schema version")
}
