// Package storage persists favorite locations and the connection history in
// a local SQLite database.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/yllada/adguardvpn-desktop/common"
)

// History events.
const (
	EventConnected    = "connected"
	EventDisconnected = "disconnected"
)

// HistoryEntry is one recorded connection transition.
type HistoryEntry struct {
	ID      string
	Event   string
	City    string
	Country string
	Mode    string
	At      time.Time
}

// Store is the SQLite-backed persistence layer. It is safe for concurrent use.
type Store struct {
	mu     sync.RWMutex
	db     *sql.DB
	closed bool
}

// Open opens (creating if needed) the database at path and migrates it.
func Open(ctx context.Context, path string) (*Store, error) {
	if err := common.EnsureDir(filepath.Dir(path)); err != nil {
		return nil, fmt.Errorf("creating database directory: %w", err)
	}

	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	if err := migrate(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	common.LogDebug("storage: opened %s", path)
	return &Store{db: db}, nil
}

// Close closes the database. Further calls return ErrStorageClosed.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	return s.db.Close()
}

func (s *Store) check() error {
	if s.closed {
		return common.ErrStorageClosed
	}
	return nil
}

// Favorites returns the favorite cities in the order they were added.
func (s *Store) Favorites(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.check(); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `SELECT city FROM favorites ORDER BY added_at, city`)
	if err != nil {
		return nil, fmt.Errorf("listing favorites: %w", err)
	}
	defer func() { _ = rows.Close() }()

	cities := make([]string, 0)
	for rows.Next() {
		var city string
		if err := rows.Scan(&city); err != nil {
			return nil, fmt.Errorf("scanning favorite: %w", err)
		}
		cities = append(cities, city)
	}
	return cities, rows.Err()
}

// AddFavorite marks city as favorite. Adding an existing favorite is a no-op.
func (s *Store) AddFavorite(ctx context.Context, city string) error {
	city = strings.TrimSpace(city)
	if city == "" {
		return common.ErrLocationNotFound
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.check(); err != nil {
		return err
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO favorites (city, added_at) VALUES (?, ?)`,
		city, time.Now().UnixNano())
	if err != nil {
		return fmt.Errorf("adding favorite %q: %w", city, err)
	}
	return nil
}

// RemoveFavorite unmarks city. Removing a city that is not a favorite is a no-op.
func (s *Store) RemoveFavorite(ctx context.Context, city string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.check(); err != nil {
		return err
	}

	if _, err := s.db.ExecContext(ctx, `DELETE FROM favorites WHERE city = ?`, strings.TrimSpace(city)); err != nil {
		return fmt.Errorf("removing favorite %q: %w", city, err)
	}
	return nil
}

// Record appends an entry to the connection history. ID and At are filled
// in when empty.
func (s *Store) Record(ctx context.Context, entry HistoryEntry) error {
	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	if entry.At.IsZero() {
		entry.At = time.Now()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.check(); err != nil {
		return err
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO history (id, event, city, country, mode, at) VALUES (?, ?, ?, ?, ?, ?)`,
		entry.ID, entry.Event, entry.City, entry.Country, entry.Mode, entry.At.UnixNano())
	if err != nil {
		return fmt.Errorf("recording history: %w", err)
	}
	return nil
}

// History returns the most recent entries, newest first. A non-positive
// limit returns everything.
func (s *Store) History(ctx context.Context, limit int) ([]HistoryEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.check(); err != nil {
		return nil, err
	}

	if limit <= 0 {
		limit = -1
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, event, city, country, mode, at FROM history ORDER BY at DESC, rowid DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("listing history: %w", err)
	}
	defer func() { _ = rows.Close() }()

	entries := make([]HistoryEntry, 0)
	for rows.Next() {
		var e HistoryEntry
		var at int64
		if err := rows.Scan(&e.ID, &e.Event, &e.City, &e.Country, &e.Mode, &at); err != nil {
			return nil, fmt.Errorf("scanning history: %w", err)
		}
		e.At = time.Unix(0, at)
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	return entries, nil
}
