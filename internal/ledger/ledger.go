package ledger

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"curator/internal/config"
)

// Store manages the publish ledger backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// Entry describes a single recorded upload.
type Entry struct {
	Kind       string    `json:"kind"`
	ItemKey    string    `json:"item_key"`
	Repo       string    `json:"repo"`
	UploadedAt time.Time `json:"uploaded_at"`
}

// Open initializes or connects to the ledger database and applies migrations.
func Open(cfg *config.Config) (*Store, error) {
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("ensure directories: %w", err)
	}

	dbPath := filepath.Join(cfg.Paths.DataDir, "publish.db")
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: dbPath}
	if err := store.applyMigrations(context.Background()); err != nil {
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

// Path returns the ledger database file location.
func (s *Store) Path() string {
	return s.path
}

// MarkPublished records a completed upload. Re-recording the same item
// refreshes its upload timestamp rather than failing.
func (s *Store) MarkPublished(ctx context.Context, kind, itemKey, repo string) error {
	now := time.Now().UTC().Format(time.RFC3339Nano)
	_, err := s.db.ExecContext(
		ctx,
		`INSERT INTO published_items (kind, item_key, repo, uploaded_at)
         VALUES (?, ?, ?, ?)
         ON CONFLICT (kind, item_key, repo) DO UPDATE SET uploaded_at = excluded.uploaded_at`,
		kind,
		itemKey,
		repo,
		now,
	)
	if err != nil {
		return fmt.Errorf("record published item: %w", err)
	}
	return nil
}

// IsPublished reports whether an item was previously uploaded to the repo.
func (s *Store) IsPublished(ctx context.Context, kind, itemKey, repo string) (bool, error) {
	var count int
	row := s.db.QueryRowContext(
		ctx,
		"SELECT COUNT(1) FROM published_items WHERE kind = ? AND item_key = ? AND repo = ?",
		kind,
		itemKey,
		repo,
	)
	if err := row.Scan(&count); err != nil {
		return false, fmt.Errorf("query published item: %w", err)
	}
	return count > 0, nil
}

// Recent returns the most recently recorded uploads, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(
		ctx,
		"SELECT kind, item_key, repo, uploaded_at FROM published_items ORDER BY uploaded_at DESC, id DESC LIMIT ?",
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query recent uploads: %w", err)
	}
	defer rows.Close()

	entries := make([]Entry, 0, limit)
	for rows.Next() {
		var entry Entry
		var uploadedAt string
		if err := rows.Scan(&entry.Kind, &entry.ItemKey, &entry.Repo, &uploadedAt); err != nil {
			return nil, fmt.Errorf("scan ledger entry: %w", err)
		}
		if parsed, parseErr := time.Parse(time.RFC3339Nano, uploadedAt); parseErr == nil {
			entry.UploadedAt = parsed
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate ledger entries: %w", err)
	}
	return entries, nil
}
