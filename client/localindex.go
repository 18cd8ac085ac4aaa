package client

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"
)

// savedBooksSlot names the single slot the saved-books feature uses; the
// schema allows others so unrelated features can share the file.
const savedBooksSlot = "saved_books"

// IndexStore persists the local id index in a SQLite database so a device
// remembers its last confirmed saved list across sessions, including
// sessions that start unauthenticated.
type IndexStore struct {
	db *sql.DB
}

// OpenIndexStore opens (or creates) the index database at dbPath and
// applies the schema.
func OpenIndexStore(dbPath string) (*IndexStore, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create index dir: %w", err)
		}
	}
	dsn := fmt.Sprintf("file:%s?_busy_timeout=5000", dbPath)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	const schema = `CREATE TABLE IF NOT EXISTS saved_ids (
		slot    TEXT NOT NULL,
		book_id TEXT NOT NULL,
		PRIMARY KEY (slot, book_id)
	)`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return &IndexStore{db: db}, nil
}

func (s *IndexStore) Close() error {
	return s.db.Close()
}

// LoadIDs returns the persisted id set for the saved-books slot.
func (s *IndexStore) LoadIDs() (map[string]struct{}, error) {
	rows, err := s.db.Query(`SELECT book_id FROM saved_ids WHERE slot = ?`, savedBooksSlot)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	ids := make(map[string]struct{})
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids[id] = struct{}{}
	}
	return ids, rows.Err()
}

// SaveIDs replaces the slot's contents with ids in one transaction, so a
// crash mid-write never leaves a half-updated index behind.
func (s *IndexStore) SaveIDs(ids map[string]struct{}) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()
	if _, err := tx.Exec(`DELETE FROM saved_ids WHERE slot = ?`, savedBooksSlot); err != nil {
		return err
	}
	stmt, err := tx.Prepare(`INSERT INTO saved_ids (slot, book_id) VALUES (?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()
	for id := range ids {
		if _, err := stmt.Exec(savedBooksSlot, id); err != nil {
			return err
		}
	}
	return tx.Commit()
}
