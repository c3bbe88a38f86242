// Package history records which links were resolved, in a local SQLite
// database. Stream URLs expire quickly and are never stored; only the link,
// its title and the requested quality are kept so a link can be resolved again.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"ytresolve/internal/media"
)

const schema = `
CREATE TABLE IF NOT EXISTS resolves (
	link        TEXT PRIMARY KEY,
	title       TEXT NOT NULL DEFAULT '',
	quality     TEXT NOT NULL DEFAULT '',
	split       INTEGER NOT NULL DEFAULT 0,
	resolved_at INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS resolves_resolved_at ON resolves (resolved_at DESC);
`

// Store is a handle on the history database.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the database at path.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("creating history dir: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening history: %w", err)
	}
	// A single connection serializes writers, which SQLite requires anyway.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("initializing history schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close releases the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Save inserts the entry or updates the existing row for its link.
func (s *Store) Save(ctx context.Context, e media.HistoryEntry) error {
	if e.ResolvedAt.IsZero() {
		e.ResolvedAt = time.Now()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO resolves (link, title, quality, split, resolved_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(link) DO UPDATE SET
			title = CASE WHEN excluded.title != '' THEN excluded.title ELSE resolves.title END,
			quality = excluded.quality,
			split = excluded.split,
			resolved_at = excluded.resolved_at`,
		e.Link, e.Title, e.Quality, e.Split, e.ResolvedAt.UnixNano(),
	)
	if err != nil {
		return fmt.Errorf("saving history entry: %w", err)
	}
	return nil
}

// List returns up to limit entries, newest first. A limit <= 0 returns all.
func (s *Store) List(ctx context.Context, limit int) ([]media.HistoryEntry, error) {
	if limit <= 0 {
		limit = -1
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT link, title, quality, split, resolved_at
		FROM resolves
		ORDER BY resolved_at DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying history: %w", err)
	}
	defer rows.Close()

	var entries []media.HistoryEntry
	for rows.Next() {
		var (
			e  media.HistoryEntry
			ts int64
		)
		if err := rows.Scan(&e.Link, &e.Title, &e.Quality, &e.Split, &ts); err != nil {
			return nil, fmt.Errorf("reading history row: %w", err)
		}
		e.ResolvedAt = time.Unix(0, ts)
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading history: %w", err)
	}

	return entries, nil
}

// Remove deletes the entry for link. Removing an unknown link is not an error.
func (s *Store) Remove(ctx context.Context, link string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM resolves WHERE link = ?`, link); err != nil {
		return fmt.Errorf("removing history entry: %w", err)
	}
	return nil
}

// FormatForDisplay creates display strings for fzf selection from history entries.
func FormatForDisplay(entries []media.HistoryEntry) []string {
	items := make([]string, 0, len(entries))
	for _, e := range entries {
		display := e.Link
		if e.Title != "" {
			display = fmt.Sprintf("%s (%s)", e.Title, e.Link)
		}
		if e.Quality != "" {
			display += " [" + e.Quality + "]"
		}
		items = append(items, display)
	}
	return items
}
