// Package storage persists tag catalogs as CSV files or sqlite databases.
package storage

import (
	"database/sql"
	"fmt"
	"strconv"
	"sync"

	_ "modernc.org/sqlite"

	"tagcalc/internal/tag"
)

// SchemaVersion is the current sqlite schema version.
const SchemaVersion = "1"

// SQLite is a sqlite-backed catalog store.
type SQLite struct {
	mu sync.Mutex
	db *sql.DB
}

// OpenSQLite opens (and if needed creates) a catalog database at path.
func OpenSQLite(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS tags (
			position INTEGER PRIMARY KEY,
			id TEXT NOT NULL,
			name TEXT NOT NULL,
			category TEXT NOT NULL DEFAULT '',
			value TEXT NOT NULL DEFAULT '',
			is_number INTEGER NOT NULL DEFAULT 0
		);
		CREATE TABLE IF NOT EXISTS metadata (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);
	`)
	if err != nil {
		db.Close()
		return nil, err
	}

	s := &SQLite{db: db}

	var version string
	err = db.QueryRow("SELECT value FROM metadata WHERE key = 'schema_version'").Scan(&version)
	switch {
	case err == sql.ErrNoRows:
		if _, err := db.Exec("INSERT INTO metadata (key, value) VALUES ('schema_version', ?)", SchemaVersion); err != nil {
			db.Close()
			return nil, err
		}
	case err != nil:
		db.Close()
		return nil, err
	case version != SchemaVersion:
		db.Close()
		return nil, fmt.Errorf("unsupported schema version: %s (expected %s)", version, SchemaVersion)
	}

	return s, nil
}

// Tags returns every stored tag in catalog order.
func (s *SQLite) Tags() ([]tag.Tag, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.db.Query("SELECT id, name, category, value, is_number FROM tags ORDER BY position")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tags []tag.Tag
	for rows.Next() {
		var (
			t        tag.Tag
			value    string
			isNumber bool
		)
		if err := rows.Scan(&t.ID, &t.Name, &t.Category, &value, &isNumber); err != nil {
			return nil, err
		}
		t.Value = tag.String(value)
		if isNumber {
			f, err := strconv.ParseFloat(value, 64)
			if err != nil {
				return nil, fmt.Errorf("tag %s: bad numeric value %q: %w", t.ID, value, err)
			}
			t.Value = tag.Number(f)
		}
		tags = append(tags, t)
	}
	return tags, rows.Err()
}

// Replace swaps the stored catalog for tags in a single transaction.
func (s *SQLite) Replace(tags []tag.Tag) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM tags"); err != nil {
		return err
	}
	stmt, err := tx.Prepare("INSERT INTO tags (position, id, name, category, value, is_number) VALUES (?, ?, ?, ?, ?, ?)")
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i, t := range tags {
		if _, err := stmt.Exec(i, t.ID, t.Name, t.Category, t.Value.String(), t.Value.IsNumber()); err != nil {
			return fmt.Errorf("insert tag %s: %w", t.ID, err)
		}
	}
	return tx.Commit()
}

// Close releases the database.
func (s *SQLite) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.db.Close()
}

// LoadSQLite reads a catalog from the database at path.
func LoadSQLite(path string) ([]tag.Tag, error) {
	s, err := OpenSQLite(path)
	if err != nil {
		return nil, err
	}
	defer s.Close()
	return s.Tags()
}

// SaveSQLite writes tags to the database at path, replacing its contents.
func SaveSQLite(tags []tag.Tag, path string) error {
	s, err := OpenSQLite(path)
	if err != nil {
		return err
	}
	defer s.Close()
	return s.Replace(tags)
}
