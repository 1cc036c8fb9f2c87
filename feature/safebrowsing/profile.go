package safebrowsing

// LegacySchema maps the logical legacy-store entities onto concrete table
// and column names, so tests and schema variants can override them without
// touching the row-mapping logic.
type LegacySchema struct {
	// DatabaseFile is the sqlite filename inside a legacy profile directory.
	DatabaseFile string

	// TablesTable lists the known safebrowsing lists (name, id).
	TablesTable string

	// ClassifierTable holds add-prefix rows (domain, partial_data, chunk_id).
	ClassifierTable string

	// SubsTable holds sub-prefix rows (domain, partial_data, chunk_id,
	// add_chunk_id).
	SubsTable string
}

// DefaultLegacySchema returns the urlclassifier3 schema used by the
// reference legacy store.
func DefaultLegacySchema() LegacySchema {
	return LegacySchema{
		DatabaseFile:    "urlclassifier3.sqlite",
		TablesTable:     "moz_tables",
		ClassifierTable: "moz_classifier",
		SubsTable:       "moz_subs",
	}
}
