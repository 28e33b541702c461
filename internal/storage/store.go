// Package storage persists whole-project scan snapshots to SQLite so IDE
// shells can reload the last known structure without rescanning.
package storage

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/djangolens/djangolens/internal/project"
)

// Store is a snapshot database handle.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) a snapshot database at path and ensures the
// schema exists. Use ":memory:" for an ephemeral store.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path+"?_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("failed to open snapshot db: %w", err)
	}
	// A single connection keeps ":memory:" stores coherent and sidesteps
	// SQLITE_BUSY on concurrent writes.
	db.SetMaxOpenConns(1)
	if err := CreateSchema(db); err != nil {
		db.Close()
		return nil, err
	}
	return &Store{db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// SaveSnapshot writes a snapshot and all its entities in one transaction,
// returning the generated scan ID.
func (s *Store) SaveSnapshot(snap *project.Snapshot) (string, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return "", fmt.Errorf("failed to begin snapshot transaction: %w", err)
	}
	defer tx.Rollback()

	scanID := uuid.NewString()
	if _, err := tx.Exec(
		"INSERT INTO scans (id, root, created_at) VALUES (?, ?, ?)",
		scanID, snap.Root, snap.GeneratedAt,
	); err != nil {
		return "", fmt.Errorf("failed to insert scan: %w", err)
	}

	for _, fr := range snap.Files {
		res, err := tx.Exec(
			"INSERT INTO files (scan_id, path, kind) VALUES (?, ?, ?)",
			scanID, fr.Path, string(fr.Kind),
		)
		if err != nil {
			return "", fmt.Errorf("failed to insert file %s: %w", fr.Path, err)
		}
		fileID, err := res.LastInsertId()
		if err != nil {
			return "", err
		}
		if err := insertEntities(tx, fileID, fr); err != nil {
			return "", err
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("failed to commit snapshot: %w", err)
	}
	return scanID, nil
}

func insertEntities(tx *sql.Tx, fileID int64, fr project.FileResult) error {
	for _, m := range fr.Models {
		res, err := tx.Exec(
			"INSERT INTO models (file_id, name, line) VALUES (?, ?, ?)",
			fileID, m.Name, m.Line,
		)
		if err != nil {
			return fmt.Errorf("failed to insert model %s: %w", m.Name, err)
		}
		modelID, err := res.LastInsertId()
		if err != nil {
			return err
		}
		for _, f := range m.Fields {
			if _, err := tx.Exec(
				"INSERT INTO fields (model_id, name, field_type, line, is_property) VALUES (?, ?, ?, ?, ?)",
				modelID, f.Name, f.FieldType, f.Line, f.IsProperty,
			); err != nil {
				return fmt.Errorf("failed to insert field %s.%s: %w", m.Name, f.Name, err)
			}
		}
	}
	for _, u := range fr.URLs {
		if _, err := tx.Exec(
			"INSERT INTO urls (file_id, pattern, view_name, line) VALUES (?, ?, ?, ?)",
			fileID, u.Pattern, u.ViewName, u.Line,
		); err != nil {
			return fmt.Errorf("failed to insert url %s: %w", u.Pattern, err)
		}
	}
	for _, a := range fr.Admins {
		if _, err := tx.Exec(
			"INSERT INTO admins (file_id, class_name, model_name, line) VALUES (?, ?, ?, ?)",
			fileID, a.ClassName, a.ModelName, a.Line,
		); err != nil {
			return fmt.Errorf("failed to insert admin %s: %w", a.ClassName, err)
		}
	}
	for _, st := range fr.Settings {
		if _, err := tx.Exec(
			"INSERT INTO settings (file_id, key, value, line) VALUES (?, ?, ?, ?)",
			fileID, st.Key, st.Value, st.Line,
		); err != nil {
			return fmt.Errorf("failed to insert setting %s: %w", st.Key, err)
		}
	}
	return nil
}

// ScanRecord describes one stored scan.
type ScanRecord struct {
	ID        string
	Root      string
	CreatedAt time.Time
}

// LatestScan returns the most recent scan record, or sql.ErrNoRows when
// the store is empty.
func (s *Store) LatestScan() (*ScanRecord, error) {
	row := s.db.QueryRow(
		"SELECT id, root, created_at FROM scans ORDER BY created_at DESC, id LIMIT 1",
	)
	var rec ScanRecord
	if err := row.Scan(&rec.ID, &rec.Root, &rec.CreatedAt); err != nil {
		return nil, err
	}
	return &rec, nil
}

// ModelsForScan loads every stored model (with fields) for a scan, ordered
// by file path and declaration line.
func (s *Store) ModelsForScan(scanID string) (map[string][]StoredModel, error) {
	rows, err := s.db.Query(`
		SELECT f.path, m.id, m.name, m.line
		FROM models m JOIN files f ON m.file_id = f.id
		WHERE f.scan_id = ?
		ORDER BY f.path, m.line`, scanID)
	if err != nil {
		return nil, fmt.Errorf("failed to query models: %w", err)
	}
	defer rows.Close()

	type modelRow struct {
		path  string
		id    int64
		model StoredModel
	}
	var loaded []modelRow
	for rows.Next() {
		var r modelRow
		if err := rows.Scan(&r.path, &r.id, &r.model.Name, &r.model.Line); err != nil {
			return nil, err
		}
		loaded = append(loaded, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	byPath := map[string][]StoredModel{}
	for _, r := range loaded {
		fields, err := s.fieldsForModel(r.id)
		if err != nil {
			return nil, err
		}
		r.model.Fields = fields
		byPath[r.path] = append(byPath[r.path], r.model)
	}
	return byPath, nil
}

// StoredModel is a model row with its fields, as read back from the store.
type StoredModel struct {
	Name   string
	Line   int
	Fields []StoredField
}

// StoredField is a field row as read back from the store.
type StoredField struct {
	Name       string
	FieldType  string
	Line       int
	IsProperty bool
}

func (s *Store) fieldsForModel(modelID int64) ([]StoredField, error) {
	rows, err := s.db.Query(
		"SELECT name, field_type, line, is_property FROM fields WHERE model_id = ? ORDER BY line",
		modelID)
	if err != nil {
		return nil, fmt.Errorf("failed to query fields: %w", err)
	}
	defer rows.Close()

	var fields []StoredField
	for rows.Next() {
		var f StoredField
		if err := rows.Scan(&f.Name, &f.FieldType, &f.Line, &f.IsProperty); err != nil {
			return nil, err
		}
		fields = append(fields, f)
	}
	return fields, rows.Err()
}
