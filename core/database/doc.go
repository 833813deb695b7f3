// Package database handles database connections and schema inspection.
//
// It provides a wrapper around GORM to configure MySQL or SQLite connections
// from the application's configuration. Databases are one of the places a
// source or target snapshot can live (locations of the form db://table).
//
// # Connect
//
// Connect opens the configured driver, applies pool settings and pings the
// server within the configured timeout.
//
// # Schema Inspection
//
// GetTableColumns lists a table's columns in order. The dataset loader uses
// it to learn a snapshot table's schema before reading any rows, so schema
// mismatches are caught before reconciliation starts.
//
// # Usage
//
//	db, err := database.Connect(cfg.Database)
//	if err != nil {
//	    return err
//	}
//
//	columns, err := database.GetTableColumns(db, "source_clients")
package database
