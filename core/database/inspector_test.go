package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetTableColumns(t *testing.T) {
	db, err := Connect(Config{Driver: "sqlite", Name: ":memory:"})
	require.NoError(t, err)

	// Legacy-shaped table.
	err = db.Exec("CREATE TABLE moz_classifier (id INTEGER PRIMARY KEY, domain BLOB, partial_data BLOB, chunk_id INTEGER, table_id INTEGER)").Error
	require.NoError(t, err)

	columns, err := GetTableColumns(db, "moz_classifier")
	assert.NoError(t, err)
	assert.Len(t, columns, 5)

	colMap := make(map[string]string)
	for _, col := range columns {
		colMap[col.Field] = col.Type
	}
	assert.Equal(t, "blob", colMap["domain"])
	assert.Equal(t, "integer", colMap["chunk_id"])

	// PRAGMA table_info returns an empty result for a missing table.
	cols, err := GetTableColumns(db, "non_existent")
	assert.NoError(t, err)
	assert.Empty(t, cols)
}

func TestHasColumns(t *testing.T) {
	db, err := Connect(Config{Driver: "sqlite", Name: ":memory:"})
	require.NoError(t, err)

	err = db.Exec("CREATE TABLE moz_tables (id INTEGER PRIMARY KEY, name TEXT)").Error
	require.NoError(t, err)

	missing, err := HasColumns(db, "moz_tables", []string{"id", "name"})
	assert.NoError(t, err)
	assert.Empty(t, missing)

	missing, err = HasColumns(db, "moz_tables", []string{"name", "version"})
	assert.NoError(t, err)
	assert.Equal(t, []string{"version"}, missing)
}
