package storage

import (
	"database/sql"
	"fmt"
)

const createScansTable = `
CREATE TABLE IF NOT EXISTS scans (
	id TEXT PRIMARY KEY,
	root TEXT NOT NULL,
	created_at TIMESTAMP NOT NULL
)`

const createFilesTable = `
CREATE TABLE IF NOT EXISTS files (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	scan_id TEXT NOT NULL REFERENCES scans(id) ON DELETE CASCADE,
	path TEXT NOT NULL,
	kind TEXT NOT NULL
)`

const createModelsTable = `
CREATE TABLE IF NOT EXISTS models (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	file_id INTEGER NOT NULL REFERENCES files(id) ON DELETE CASCADE,
	name TEXT NOT NULL,
	line INTEGER NOT NULL
)`

const createFieldsTable = `
CREATE TABLE IF NOT EXISTS fields (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	model_id INTEGER NOT NULL REFERENCES models(id) ON DELETE CASCADE,
	name TEXT NOT NULL,
	field_type TEXT NOT NULL,
	line INTEGER NOT NULL,
	is_property INTEGER NOT NULL DEFAULT 0
)`

const createURLsTable = `
CREATE TABLE IF NOT EXISTS urls (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	file_id INTEGER NOT NULL REFERENCES files(id) ON DELETE CASCADE,
	pattern TEXT NOT NULL,
	view_name TEXT NOT NULL,
	line INTEGER NOT NULL
)`

const createAdminsTable = `
CREATE TABLE IF NOT EXISTS admins (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	file_id INTEGER NOT NULL REFERENCES files(id) ON DELETE CASCADE,
	class_name TEXT NOT NULL,
	model_name TEXT NOT NULL DEFAULT '',
	line INTEGER NOT NULL
)`

const createSettingsTable = `
CREATE TABLE IF NOT EXISTS settings (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	file_id INTEGER NOT NULL REFERENCES files(id) ON DELETE CASCADE,
	key TEXT NOT NULL,
	value TEXT NOT NULL,
	line INTEGER NOT NULL
)`

// CreateSchema creates all tables and indexes for the snapshot store.
// Uses a transaction for atomicity - all schema creation succeeds or fails
// together. Must be called with SQLite PRAGMA foreign_keys = ON.
func CreateSchema(db *sql.DB) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin schema transaction: %w", err)
	}
	defer tx.Rollback() // Safe to call even after commit

	if _, err := tx.Exec("PRAGMA foreign_keys = ON"); err != nil {
		return fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	tables := []struct {
		name string
		ddl  string
	}{
		{"scans", createScansTable},
		{"files", createFilesTable},
		{"models", createModelsTable},
		{"fields", createFieldsTable},
		{"urls", createURLsTable},
		{"admins", createAdminsTable},
		{"settings", createSettingsTable},
	}

	for _, table := range tables {
		if _, err := tx.Exec(table.ddl); err != nil {
			return fmt.Errorf("failed to create %s table: %w", table.name, err)
		}
	}

	indexes := []string{
		"CREATE INDEX IF NOT EXISTS idx_files_scan ON files(scan_id)",
		"CREATE INDEX IF NOT EXISTS idx_models_file ON models(file_id)",
		"CREATE INDEX IF NOT EXISTS idx_fields_model ON fields(model_id)",
		"CREATE INDEX IF NOT EXISTS idx_urls_file ON urls(file_id)",
		"CREATE INDEX IF NOT EXISTS idx_admins_file ON admins(file_id)",
		"CREATE INDEX IF NOT EXISTS idx_settings_file ON settings(file_id)",
		"CREATE INDEX IF NOT EXISTS idx_models_name ON models(name)",
	}
	for i, idx := range indexes {
		if _, err := tx.Exec(idx); err != nil {
			return fmt.Errorf("failed to create index %d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit schema transaction: %w", err)
	}
	return nil
}
