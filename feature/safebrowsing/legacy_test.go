package safebrowsing

import (
	"context"
	"encoding/binary"
	"testing"

	"sb-verify/core/database"
	"sb-verify/feature/safebrowsing/models"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func prefixBytes(v uint32) []byte {
	b := make([]byte, 4)
	binary.LittleEndian.PutUint32(b, v)
	return b
}

func openLegacyFixture(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := database.Connect(database.Config{Driver: "sqlite", Name: ":memory:"})
	require.NoError(t, err)

	stmts := []string{
		"CREATE TABLE moz_tables (id INTEGER PRIMARY KEY, name TEXT)",
		"CREATE TABLE moz_classifier (id INTEGER PRIMARY KEY, domain BLOB, partial_data BLOB, chunk_id INTEGER, table_id INTEGER)",
		"CREATE TABLE moz_subs (id INTEGER PRIMARY KEY, domain BLOB, partial_data BLOB, chunk_id INTEGER, add_chunk_id INTEGER, table_id INTEGER)",
	}
	for _, stmt := range stmts {
		require.NoError(t, db.Exec(stmt).Error)
	}
	return db
}

func TestLoadLegacyLists(t *testing.T) {
	db := openLegacyFixture(t)

	require.NoError(t, db.Exec("INSERT INTO moz_tables (id, name) VALUES (1, 'goog-malware-shavar'), (2, 'goog-phish-shavar')").Error)

	// Add prefix carried in partial_data.
	require.NoError(t, db.Exec("INSERT INTO moz_classifier (chunk_id, table_id, domain, partial_data) VALUES (10, 1, ?, ?)",
		prefixBytes(0x11111111), prefixBytes(0xcafe0001)).Error)
	// Older row without partial_data: the prefix falls back to the domain
	// hash bytes.
	require.NoError(t, db.Exec("INSERT INTO moz_classifier (chunk_id, table_id, domain, partial_data) VALUES (11, 1, ?, ?)",
		prefixBytes(0xcafe0002), []byte{}).Error)
	// Row belonging to the other list.
	require.NoError(t, db.Exec("INSERT INTO moz_classifier (chunk_id, table_id, domain, partial_data) VALUES (5, 2, ?, ?)",
		prefixBytes(0x22222222), prefixBytes(0xbeef0001)).Error)

	require.NoError(t, db.Exec("INSERT INTO moz_subs (chunk_id, add_chunk_id, table_id, domain, partial_data) VALUES (7, 10, 1, ?, ?)",
		prefixBytes(0x33333333), prefixBytes(0xcafe0003)).Error)

	lists, err := LoadLegacyLists(context.Background(), db, DefaultLegacySchema(), zap.NewNop())
	require.NoError(t, err)
	require.Len(t, lists, 2)

	malware := lists["goog-malware-shavar"]
	require.NotNil(t, malware)
	require.Len(t, malware.AddPrefixes, 2)
	assert.ElementsMatch(t,
		[]uint32{0xcafe0001, 0xcafe0002},
		[]uint32{malware.AddPrefixes[0].Prefix, malware.AddPrefixes[1].Prefix})
	assert.Contains(t, malware.AddChunks, uint32(10))
	assert.Contains(t, malware.AddChunks, uint32(11))

	require.Len(t, malware.SubPrefixes, 1)
	assert.Equal(t, uint32(0xcafe0003), malware.SubPrefixes[0].Prefix)
	assert.Equal(t, uint32(7), malware.SubPrefixes[0].SubChunk)
	assert.Equal(t, uint32(10), malware.SubPrefixes[0].AddChunk)
	assert.Contains(t, malware.SubChunks, uint32(7))

	phish := lists["goog-phish-shavar"]
	require.NotNil(t, phish)
	require.Len(t, phish.AddPrefixes, 1)
	assert.Equal(t, uint32(0xbeef0001), phish.AddPrefixes[0].Prefix)
}

func TestLoadLegacyLists_EmptyStore(t *testing.T) {
	db := openLegacyFixture(t)

	lists, err := LoadLegacyLists(context.Background(), db, DefaultLegacySchema(), zap.NewNop())
	require.NoError(t, err)
	assert.Empty(t, lists)
}

func TestLoadLegacyLists_ShortBlob(t *testing.T) {
	db := openLegacyFixture(t)

	require.NoError(t, db.Exec("INSERT INTO moz_tables (id, name) VALUES (1, 'bad-list')").Error)
	require.NoError(t, db.Exec("INSERT INTO moz_classifier (chunk_id, table_id, domain, partial_data) VALUES (1, 1, ?, ?)",
		[]byte{0x01}, []byte{}).Error)

	_, err := LoadLegacyLists(context.Background(), db, DefaultLegacySchema(), zap.NewNop())
	assert.ErrorContains(t, err, "prefix blob too short")
}

func TestLoadLegacyLists_MySQL(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer sqlDB.Close()

	db, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      sqlDB,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)

	mock.ExpectQuery("SELECT name, id FROM moz_tables").
		WillReturnRows(sqlmock.NewRows([]string{"name", "id"}).AddRow("goog-malware-shavar", 1))
	mock.ExpectQuery("SELECT domain, partial_data, chunk_id FROM moz_classifier").
		WithArgs(1).
		WillReturnRows(sqlmock.NewRows([]string{"domain", "partial_data", "chunk_id"}).
			AddRow(prefixBytes(0x44444444), prefixBytes(0xcafe0004), int64(12)))
	mock.ExpectQuery("SELECT domain, partial_data, chunk_id, add_chunk_id FROM moz_subs").
		WithArgs(1).
		WillReturnRows(sqlmock.NewRows([]string{"domain", "partial_data", "chunk_id", "add_chunk_id"}))

	lists, err := LoadLegacyLists(context.Background(), db, DefaultLegacySchema(), zap.NewNop())
	require.NoError(t, err)
	require.Len(t, lists, 1)

	set := lists["goog-malware-shavar"]
	require.Len(t, set.AddPrefixes, 1)
	assert.Equal(t, models.NewAddPrefix(0xcafe0004, 12), set.AddPrefixes[0])

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLegacyPrefix(t *testing.T) {
	tests := []struct {
		name        string
		domain      []byte
		partialData []byte
		want        uint32
		wantErr     bool
	}{
		{"PartialData", prefixBytes(1), prefixBytes(0xaabbccdd), 0xaabbccdd, false},
		{"DomainFallback", prefixBytes(0x01020304), nil, 0x01020304, false},
		{"LongerBlobTruncates", []byte{0x78, 0x56, 0x34, 0x12, 0xff}, nil, 0x12345678, false},
		{"TooShort", []byte{0x01, 0x02}, nil, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := legacyPrefix(tt.domain, tt.partialData)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
