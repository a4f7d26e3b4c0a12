// Package storage provides SQLite-based persistence for the creative
// inventory served by the simulated ad network.
// Uses the pure-Go modernc.org/sqlite driver to avoid CGO dependencies.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/vovakirdan/rewarded-arcade/internal/adnet"
)

// Store manages the SQLite database connection.
type Store struct {
	db *sql.DB
}

// CreativeEntry is a stored creative.
type CreativeEntry struct {
	ID         int64
	Advertiser string
	Title      string
	Duration   time.Duration
	Weight     int
	CreatedAt  time.Time
}

// Open creates or opens a SQLite database at the given path.
// It creates the parent directories if needed, runs migrations and seeds
// the demo creatives into an empty inventory.
func Open(dbPath string) (*Store, error) {
	// Expand ~ to home directory
	if dbPath != "" && dbPath[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("storage: cannot expand home directory: %w", err)
		}
		dbPath = filepath.Join(home, dbPath[1:])
	}

	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot connect to database: %w", err)
	}

	store := &Store{db: db}

	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migration failed: %w", err)
	}

	if err := store.seed(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: seeding failed: %w", err)
	}

	return store, nil
}

// migrate creates the database schema if it doesn't exist.
func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS creatives (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			advertiser TEXT NOT NULL,
			title TEXT NOT NULL,
			duration_ms INTEGER NOT NULL,
			weight INTEGER NOT NULL DEFAULT 1,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_creatives_advertiser ON creatives(advertiser);
	`

	_, err := s.db.Exec(schema)
	return err
}

// seed inserts adnet.DefaultCreatives when the inventory is empty.
func (s *Store) seed() error {
	var count int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM creatives").Scan(&count); err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	for _, c := range adnet.DefaultCreatives {
		if _, err := s.AddCreative(c.Advertiser, c.Title, c.Duration, c.Weight); err != nil {
			return err
		}
	}
	return nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// AddCreative stores a new creative and returns its ID.
func (s *Store) AddCreative(advertiser, title string, duration time.Duration, weight int) (int64, error) {
	advertiser = strings.TrimSpace(advertiser)
	title = strings.TrimSpace(title)
	if advertiser == "" || title == "" {
		return 0, fmt.Errorf("storage: advertiser and title are required")
	}
	if duration <= 0 {
		return 0, fmt.Errorf("storage: duration must be positive, got %s", duration)
	}
	if weight < 1 {
		weight = 1
	}

	result, err := s.db.Exec(
		"INSERT INTO creatives (advertiser, title, duration_ms, weight) VALUES (?, ?, ?, ?)",
		advertiser, title, duration.Milliseconds(), weight,
	)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot save creative: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot get inserted ID: %w", err)
	}

	return id, nil
}

// RemoveCreative deletes a creative. It reports whether a row was removed.
func (s *Store) RemoveCreative(id int64) (bool, error) {
	result, err := s.db.Exec("DELETE FROM creatives WHERE id = ?", id)
	if err != nil {
		return false, fmt.Errorf("storage: cannot remove creative: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("storage: cannot count removed rows: %w", err)
	}
	return n > 0, nil
}

// ListCreatives returns all creatives ordered by ID.
func (s *Store) ListCreatives(ctx context.Context) ([]CreativeEntry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, advertiser, title, duration_ms, weight, created_at
		 FROM creatives
		 ORDER BY id`,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query creatives: %w", err)
	}
	defer rows.Close()

	var entries []CreativeEntry
	for rows.Next() {
		var e CreativeEntry
		var durationMS int64
		var createdAt any
		if err := rows.Scan(&e.ID, &e.Advertiser, &e.Title, &durationMS, &e.Weight, &createdAt); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		e.Duration = time.Duration(durationMS) * time.Millisecond

		// Parse the datetime - handle both time.Time and string
		switch v := createdAt.(type) {
		case time.Time:
			e.CreatedAt = v
		case string:
			if parsed, err := time.Parse("2006-01-02 15:04:05", v); err == nil {
				e.CreatedAt = parsed
			}
		}
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return entries, nil
}

// Creatives implements adnet.Inventory.
func (s *Store) Creatives(ctx context.Context) ([]adnet.Creative, error) {
	entries, err := s.ListCreatives(ctx)
	if err != nil {
		return nil, err
	}
	creatives := make([]adnet.Creative, len(entries))
	for i, e := range entries {
		creatives[i] = adnet.Creative{
			ID:         e.ID,
			Advertiser: e.Advertiser,
			Title:      e.Title,
			Duration:   e.Duration,
			Weight:     e.Weight,
		}
	}
	return creatives, nil
}

// Ensure Store implements Inventory
var _ adnet.Inventory = (*Store)(nil)
