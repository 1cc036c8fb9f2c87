package safebrowsing

import (
	"context"
	"encoding/binary"
	"fmt"

	"sb-verify/core/utils"
	"sb-verify/feature/safebrowsing/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// prefixSize is the length of a partial hash in bytes.
const prefixSize = 4

// legacyPrefix derives the 4-byte prefix for a legacy row. Rows normally
// carry it in partial_data; older rows leave that empty and the prefix is
// the domain hash itself, reinterpreted as a little-endian uint32.
func legacyPrefix(domain, partialData []byte) (uint32, error) {
	blob := partialData
	if len(blob) == 0 {
		blob = domain
	}
	if len(blob) < prefixSize {
		return 0, fmt.Errorf("prefix blob too short: %d bytes", len(blob))
	}
	return binary.LittleEndian.Uint32(blob[:prefixSize]), nil
}

// LoadLegacyLists reads every safebrowsing list out of the legacy
// relational store and maps the rows into the canonical ListRecordSet
// shape. Chunk sets are populated from the row chunk ids; the legacy store
// has no separate chunk table.
func LoadLegacyLists(ctx context.Context, db *gorm.DB, schema LegacySchema, log *zap.Logger) (map[string]*models.ListRecordSet, error) {
	tableIDs, err := loadLegacyTables(ctx, db, schema)
	if err != nil {
		return nil, err
	}

	lists := make(map[string]*models.ListRecordSet, len(tableIDs))
	for name, tableID := range tableIDs {
		set := models.NewListRecordSet(name)

		if err := loadLegacyAddPrefixes(ctx, db, schema, tableID, set); err != nil {
			return nil, fmt.Errorf("list %s: %w", name, err)
		}
		if err := loadLegacySubPrefixes(ctx, db, schema, tableID, set); err != nil {
			return nil, fmt.Errorf("list %s: %w", name, err)
		}

		set.SortAll()
		lists[name] = set

		log.Info("Loaded legacy list",
			zap.String("list", name),
			zap.Int("add_chunks", len(set.AddChunks)),
			zap.Int("sub_chunks", len(set.SubChunks)),
			zap.Int("add_prefixes", len(set.AddPrefixes)),
			zap.Int("sub_prefixes", len(set.SubPrefixes)),
		)
	}

	return lists, nil
}

// loadLegacyTables returns the list name to table id mapping.
func loadLegacyTables(ctx context.Context, db *gorm.DB, schema LegacySchema) (map[string]int, error) {
	rows, err := db.WithContext(ctx).Raw(fmt.Sprintf("SELECT name, id FROM %s", schema.TablesTable)).Rows()
	if err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", schema.TablesTable, err)
	}
	defer rows.Close()

	tables := make(map[string]int)
	for rows.Next() {
		var name string
		var id int
		if err := rows.Scan(&name, &id); err != nil {
			return nil, fmt.Errorf("failed to scan %s row: %w", schema.TablesTable, err)
		}
		tables[name] = id
	}
	return tables, rows.Err()
}

func loadLegacyAddPrefixes(ctx context.Context, db *gorm.DB, schema LegacySchema, tableID int, set *models.ListRecordSet) error {
	query := fmt.Sprintf("SELECT domain, partial_data, chunk_id FROM %s WHERE table_id = ?", schema.ClassifierTable)
	rows, err := db.WithContext(ctx).Raw(query, tableID).Rows()
	if err != nil {
		return fmt.Errorf("failed to query %s: %w", schema.ClassifierTable, err)
	}
	defer rows.Close()

	for rows.Next() {
		var domain, partialData []byte
		// chunk_id is dynamically typed in old sqlite files, scan loosely.
		var chunkRaw any
		if err := rows.Scan(&domain, &partialData, &chunkRaw); err != nil {
			return fmt.Errorf("failed to scan %s row: %w", schema.ClassifierTable, err)
		}

		prefix, err := legacyPrefix(domain, partialData)
		if err != nil {
			return fmt.Errorf("add prefix row: %w", err)
		}

		addChunk := uint32(utils.ToInt(chunkRaw))
		set.AddPrefixes = append(set.AddPrefixes, models.NewAddPrefix(prefix, addChunk))
		set.AddAddChunk(addChunk)
	}
	return rows.Err()
}

func loadLegacySubPrefixes(ctx context.Context, db *gorm.DB, schema LegacySchema, tableID int, set *models.ListRecordSet) error {
	query := fmt.Sprintf("SELECT domain, partial_data, chunk_id, add_chunk_id FROM %s WHERE table_id = ?", schema.SubsTable)
	rows, err := db.WithContext(ctx).Raw(query, tableID).Rows()
	if err != nil {
		return fmt.Errorf("failed to query %s: %w", schema.SubsTable, err)
	}
	defer rows.Close()

	for rows.Next() {
		var domain, partialData []byte
		var subChunkRaw, addChunkRaw any
		if err := rows.Scan(&domain, &partialData, &subChunkRaw, &addChunkRaw); err != nil {
			return fmt.Errorf("failed to scan %s row: %w", schema.SubsTable, err)
		}

		prefix, err := legacyPrefix(domain, partialData)
		if err != nil {
			return fmt.Errorf("sub prefix row: %w", err)
		}

		subChunk := uint32(utils.ToInt(subChunkRaw))
		addChunk := uint32(utils.ToInt(addChunkRaw))
		set.SubPrefixes = append(set.SubPrefixes, models.NewSubPrefix(prefix, addChunk, subChunk))
		set.AddSubChunk(subChunk)
	}
	return rows.Err()
}
