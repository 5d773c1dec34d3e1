// Package store persists finalized transcription text to a local SQLite
// database. Saves are fire-and-forget from the pipeline's point of view:
// a failed save is reported to the caller but never affects in-memory
// transcription state.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	_ "modernc.org/sqlite"

	"audio-transcriber/internal/observability/metrics"
)

const schema = `
CREATE TABLE IF NOT EXISTS transcriptions (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	result TEXT NOT NULL,
	created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);`

// Store wraps a SQLite database holding transcription results.
type Store struct {
	db      *sql.DB
	metrics *metrics.Metrics
	logger  zerolog.Logger
}

// Open opens (creating if needed) the database at path and ensures the
// transcriptions table exists. Use ":memory:" for an ephemeral store.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("store: open %s: %w", path, err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: create schema: %w", err)
	}
	return &Store{
		db:      db,
		metrics: metrics.DefaultMetrics,
		logger:  log.With().Str("component", "store").Logger(),
	}, nil
}

// Save inserts one transcription result. Blank text is a no-op, not an
// error.
func (s *Store) Save(ctx context.Context, text string) error {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	_, err := s.db.ExecContext(ctx, "INSERT INTO transcriptions (result) VALUES (?)", text)
	s.metrics.RecordStoreSave(err)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to save transcription")
		return fmt.Errorf("store: save transcription: %w", err)
	}
	return nil
}

// Count returns the number of saved transcriptions.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM transcriptions").Scan(&n); err != nil {
		return 0, fmt.Errorf("store: count transcriptions: %w", err)
	}
	return n, nil
}

// Recent returns up to limit transcription texts, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT result FROM transcriptions ORDER BY id DESC LIMIT ?", limit)
	if err != nil {
		return nil, fmt.Errorf("store: query transcriptions: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var text string
		if err := rows.Scan(&text); err != nil {
			return nil, fmt.Errorf("store: scan transcription: %w", err)
		}
		out = append(out, text)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("store: iterate transcriptions: %w", err)
	}
	return out, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}
