// Package history keeps a local audit log of packaged submissions so
// operators can answer what was handed off, and when, without opening the
// archives again.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"stockroom/internal/config"
	"stockroom/internal/submission"
)

// Entry is one recorded packaging call.
type Entry struct {
	SubmissionID string
	CreatedAt    time.Time
	Backend      string
	Filename     string
	SuggestedKey string
	Products     int
	Images       int
	Bytes        int64
}

// Store manages submission history persistence backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// Open initializes or connects to the history database inside the data
// directory and applies the schema.
func Open(cfg *config.Config) (*Store, error) {
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("ensure directories: %w", err)
	}

	dbPath := filepath.Join(cfg.Paths.DataDir, "submissions.db")
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: dbPath}
	if err := store.applySchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *Store) applySchema(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `
        CREATE TABLE IF NOT EXISTS submissions (
            submission_id TEXT PRIMARY KEY,
            created_at    TEXT NOT NULL,
            backend       TEXT NOT NULL,
            filename      TEXT NOT NULL,
            suggested_key TEXT NOT NULL,
            products      INTEGER NOT NULL,
            images        INTEGER NOT NULL,
            bytes         INTEGER NOT NULL
        )`)
	if err != nil {
		return fmt.Errorf("apply history schema: %w", err)
	}
	return nil
}

// Record stores one packaging result.
func (s *Store) Record(ctx context.Context, manifest *submission.Manifest, backend string) error {
	_, err := s.db.ExecContext(
		ctx,
		`INSERT INTO submissions (
            submission_id, created_at, backend, filename,
            suggested_key, products, images, bytes
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		manifest.SubmissionID,
		manifest.CreatedAt,
		backend,
		manifest.Filename(),
		manifest.SuggestedKey,
		manifest.Totals.Products,
		manifest.Totals.Images,
		manifest.Totals.Bytes,
	)
	if err != nil {
		return fmt.Errorf("record submission: %w", err)
	}
	return nil
}

// List returns recorded submissions, newest first.
func (s *Store) List(ctx context.Context) ([]Entry, error) {
	rows, err := s.db.QueryContext(ctx, `
        SELECT submission_id, created_at, backend, filename,
               suggested_key, products, images, bytes
        FROM submissions
        ORDER BY created_at DESC, submission_id DESC`)
	if err != nil {
		return nil, fmt.Errorf("list submissions: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var entry Entry
		var createdAt string
		if err := rows.Scan(
			&entry.SubmissionID,
			&createdAt,
			&entry.Backend,
			&entry.Filename,
			&entry.SuggestedKey,
			&entry.Products,
			&entry.Images,
			&entry.Bytes,
		); err != nil {
			return nil, fmt.Errorf("scan submission: %w", err)
		}
		if parsed, parseErr := time.Parse(time.RFC3339, createdAt); parseErr == nil {
			entry.CreatedAt = parsed
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate submissions: %w", err)
	}
	return entries, nil
}
