package store

import (
	"database/sql"
	"fmt"
)

// SchemaVersion is the current database schema version.
const SchemaVersion = 1

// CreateSchema creates the database schema if it doesn't exist.
func CreateSchema(db *sql.DB) error {
	if err := createSchemaVersionTable(db); err != nil {
		return fmt.Errorf("creating schema_version table: %w", err)
	}

	if err := createFilesTable(db); err != nil {
		return fmt.Errorf("creating files table: %w", err)
	}

	if err := createHitsTable(db); err != nil {
		return fmt.Errorf("creating hits table: %w", err)
	}

	return nil
}

func createSchemaVersionTable(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_version (
			version INTEGER NOT NULL
		)
	`)
	if err != nil {
		return err
	}

	var count int
	err = db.QueryRow("SELECT COUNT(*) FROM schema_version").Scan(&count)
	if err != nil {
		return err
	}

	if count == 0 {
		_, err = db.Exec("INSERT INTO schema_version (version) VALUES (?)", SchemaVersion)
		return err
	}

	var version int
	if err := db.QueryRow("SELECT version FROM schema_version").Scan(&version); err != nil {
		return err
	}
	if version != SchemaVersion {
		return fmt.Errorf("unsupported schema version %d (want %d)", version, SchemaVersion)
	}
	return nil
}

func createFilesTable(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS files (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			blob_id TEXT NOT NULL,
			digest TEXT NOT NULL,
			kind TEXT NOT NULL,
			path TEXT NOT NULL,
			member TEXT NOT NULL DEFAULT '',
			size INTEGER NOT NULL,
			identified INTEGER NOT NULL,
			UNIQUE(blob_id, digest, kind, path, member)
		)
	`)
	if err != nil {
		return err
	}

	_, err = db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_files_blob ON files(blob_id, digest)
	`)
	return err
}

func createHitsTable(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS hits (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			blob_id TEXT NOT NULL,
			digest TEXT NOT NULL,
			driver TEXT NOT NULL,
			driver_index INTEGER NOT NULL,
			signature INTEGER NOT NULL,
			hit_offset INTEGER NOT NULL,
			snippet_before BLOB,
			snippet_matching BLOB,
			snippet_after BLOB,
			UNIQUE(blob_id, digest, driver)
		)
	`)
	return err
}
