package database

import (
	"context"
	"database/sql"
	"fmt"
	"tg-info-bot/internal/database/models"
	"time"

	_ "modernc.org/sqlite"
)

const sqliteSchema = `CREATE TABLE IF NOT EXISTS users (
	id INTEGER PRIMARY KEY,
	first_name TEXT NOT NULL DEFAULT '',
	last_name TEXT NOT NULL DEFAULT '',
	username TEXT NOT NULL DEFAULT '',
	interaction_count INTEGER NOT NULL DEFAULT 0,
	first_seen INTEGER NOT NULL,
	last_seen INTEGER NOT NULL
);`

// SQLiteUserStore implements UserStore on an embedded SQLite database.
// Each sighting is a single-row upsert.
type SQLiteUserStore struct {
	db *sql.DB
}

// NewSQLiteUserStore opens (or creates) the database at path and ensures the schema exists.
func NewSQLiteUserStore(ctx context.Context, path string) (*SQLiteUserStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database %s: %w", path, err)
	}
	// modernc's driver serializes writes poorly across connections.
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create users table: %w", err)
	}
	return &SQLiteUserStore{db: db}, nil
}

// Load reads every row of the users table.
func (s *SQLiteUserStore) Load(ctx context.Context) (map[int64]models.UserRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, first_name, last_name, username, interaction_count, first_seen, last_seen FROM users`)
	if err != nil {
		return nil, fmt.Errorf("failed to query users: %w", err)
	}
	defer rows.Close()

	users := make(map[int64]models.UserRecord)
	for rows.Next() {
		var rec models.UserRecord
		var firstSeen, lastSeen int64
		if err := rows.Scan(&rec.ID, &rec.FirstName, &rec.LastName, &rec.Username,
			&rec.InteractionCount, &firstSeen, &lastSeen); err != nil {
			return nil, fmt.Errorf("failed to scan user row: %w", err)
		}
		rec.FirstSeen = time.UnixMilli(firstSeen)
		rec.LastSeen = time.UnixMilli(lastSeen)
		users[rec.ID] = rec
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate users: %w", err)
	}
	return users, nil
}

// Upsert inserts the record or updates the existing row, keeping first_seen.
func (s *SQLiteUserStore) Upsert(ctx context.Context, rec models.UserRecord) error {
	firstSeen := rec.FirstSeen
	if firstSeen.IsZero() {
		firstSeen = rec.LastSeen
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO users (id, first_name, last_name, username, interaction_count, first_seen, last_seen)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			first_name = excluded.first_name,
			last_name = excluded.last_name,
			username = excluded.username,
			interaction_count = excluded.interaction_count,
			last_seen = excluded.last_seen`,
		rec.ID, rec.FirstName, rec.LastName, rec.Username, rec.InteractionCount,
		firstSeen.UnixMilli(), rec.LastSeen.UnixMilli())
	if err != nil {
		return fmt.Errorf("failed to upsert user %d: %w", rec.ID, err)
	}
	return nil
}

// Close closes the database handle.
func (s *SQLiteUserStore) Close(_ context.Context) error {
	return s.db.Close()
}
