// Package history provides SQLite-backed storage of visited documents and
// exposes the history as a browsable result sequence.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/hyperjump/kensaku/internal/models"
)

// Store persists history entries in SQLite.
type Store struct {
	db *sql.DB
}

// NewStore opens or creates a SQLite database at dbPath and initializes the
// schema. Parent directories are created if they do not exist.
func NewStore(dbPath string) (*Store, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable WAL: %w", err)
	}

	if err := initSchema(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return &Store{db: db}, nil
}

func initSchema(db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS history (
		id TEXT PRIMARY KEY,
		doc_id TEXT NOT NULL,
		path TEXT,
		title TEXT,
		mime_type TEXT,
		visited_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_history_visited_at ON history(visited_at);
	CREATE INDEX IF NOT EXISTS idx_history_doc_id ON history(doc_id);
	`
	_, err := db.Exec(schema)
	return err
}

// Add records a visit to doc.
func (s *Store) Add(ctx context.Context, doc *models.Document) (*models.HistoryEntry, error) {
	entry := &models.HistoryEntry{
		ID:        uuid.NewString(),
		DocID:     doc.ID,
		Path:      doc.Path,
		Title:     doc.Title,
		MimeType:  doc.MimeType,
		VisitedAt: time.Now(),
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO history (id, doc_id, path, title, mime_type, visited_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		entry.ID, entry.DocID, entry.Path, entry.Title, entry.MimeType, entry.VisitedAt,
	)
	if err != nil {
		return nil, err
	}
	return entry, nil
}

// List returns up to limit entries, most recent first.
func (s *Store) List(ctx context.Context, limit int) ([]*models.HistoryEntry, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, doc_id, path, title, mime_type, visited_at
		 FROM history ORDER BY visited_at DESC, rowid DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []*models.HistoryEntry
	for rows.Next() {
		var e models.HistoryEntry
		if err := rows.Scan(&e.ID, &e.DocID, &e.Path, &e.Title, &e.MimeType, &e.VisitedAt); err != nil {
			return nil, err
		}
		entries = append(entries, &e)
	}
	return entries, rows.Err()
}

// Count returns the number of history entries.
func (s *Store) Count(ctx context.Context) (int64, error) {
	var n int64
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM history`).Scan(&n)
	return n, err
}

// Clear removes all history entries.
func (s *Store) Clear(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM history`)
	return err
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}
