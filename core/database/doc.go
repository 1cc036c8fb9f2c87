// Package database opens the legacy reputation store and inspects its
// schema.
//
// It wraps GORM with a dialect switch: the legacy urlclassifier cache is a
// sqlite file inside the profile directory, while fleet-wide checks run
// against mysql mirrors of the same tables. Connection establishment is
// identical for both; only the DSN differs.
//
// # Schema Inspection
//
// GetTableColumns and HasColumns let callers verify that the expected
// urlclassifier tables and columns exist before issuing row queries, which
// turns a subtly wrong profile into an immediate, explainable failure.
//
// # Usage
//
//	db, err := database.Connect(cfg.Database)
//	if err != nil {
//	    log.Fatal("Database connection failed", zap.Error(err))
//	}
//
//	missing, err := database.HasColumns(db, "moz_classifier", []string{"domain", "partial_data", "chunk_id"})
package database
