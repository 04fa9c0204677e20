// Package store provides the durable persistence layer: sessions keyed by
// id with a secondary update-time index, and an open settings map.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	_ "github.com/mattn/go-sqlite3"

	"github.com/user/privai/internal/types"
)

// schemaVersion is stored in PRAGMA user_version. Bump it whenever the
// record shape changes so old databases take the migration path instead of
// being silently misread.
const schemaVersion = 1

// ErrNotFound is returned when a session or setting does not exist.
var ErrNotFound = errors.New("not found")

// SQLiteStore implements types.Store on a local SQLite database. Sessions
// are whole JSON documents; writes are record-level last-writer-wins.
type SQLiteStore struct {
	db *sql.DB
}

var _ types.Store = (*SQLiteStore)(nil)

// NewSQLiteStore opens (or creates) the database at dsn and migrates it.
func NewSQLiteStore(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	// In-memory SQLite gives every connection its own database; pin to a
	// single connection so the schema survives across goroutines.
	if dsn == ":memory:" || strings.Contains(dsn, "mode=memory") {
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)
	}

	s := &SQLiteStore{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate database: %w", err)
	}
	return s, nil
}

func (s *SQLiteStore) migrate() error {
	var version int
	if err := s.db.QueryRow("PRAGMA user_version").Scan(&version); err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}
	if version > schemaVersion {
		return fmt.Errorf("database schema version %d is newer than supported %d", version, schemaVersion)
	}

	migrations := []string{
		`CREATE TABLE IF NOT EXISTS sessions (
			id TEXT PRIMARY KEY,
			updated_at INTEGER NOT NULL,
			doc TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_sessions_updated ON sessions(updated_at)`,
		`CREATE TABLE IF NOT EXISTS settings (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		)`,
	}
	for _, m := range migrations {
		if _, err := s.db.Exec(m); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}

	if version < schemaVersion {
		if _, err := s.db.Exec(fmt.Sprintf("PRAGMA user_version = %d", schemaVersion)); err != nil {
			return fmt.Errorf("set schema version: %w", err)
		}
	}
	return nil
}

// SaveSession upserts the full session document.
func (s *SQLiteStore) SaveSession(ctx context.Context, session *types.ChatSession) error {
	doc, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO sessions (id, updated_at, doc) VALUES (?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET updated_at = excluded.updated_at, doc = excluded.doc`,
		string(session.ID), session.UpdatedAt.UnixMilli(), string(doc))
	if err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

// GetSessions returns all sessions ordered newest-updated first, using the
// update-time index rather than a full sort of decoded documents.
func (s *SQLiteStore) GetSessions(ctx context.Context) ([]*types.ChatSession, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT doc FROM sessions ORDER BY updated_at DESC")
	if err != nil {
		return nil, fmt.Errorf("query sessions: %w", err)
	}
	defer rows.Close()

	var sessions []*types.ChatSession
	for rows.Next() {
		var doc string
		if err := rows.Scan(&doc); err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		var session types.ChatSession
		if err := json.Unmarshal([]byte(doc), &session); err != nil {
			return nil, fmt.Errorf("unmarshal session: %w", err)
		}
		sessions = append(sessions, &session)
	}
	return sessions, rows.Err()
}

// GetSession returns the session with the given id, or ErrNotFound.
func (s *SQLiteStore) GetSession(ctx context.Context, id types.SessionID) (*types.ChatSession, error) {
	var doc string
	err := s.db.QueryRowContext(ctx,
		"SELECT doc FROM sessions WHERE id = ?", string(id)).Scan(&doc)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("session %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("query session: %w", err)
	}
	var session types.ChatSession
	if err := json.Unmarshal([]byte(doc), &session); err != nil {
		return nil, fmt.Errorf("unmarshal session: %w", err)
	}
	return &session, nil
}

// DeleteSession removes the session. Deleting an absent id is a no-op.
func (s *SQLiteStore) DeleteSession(ctx context.Context, id types.SessionID) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM sessions WHERE id = ?", string(id)); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// SaveSetting upserts a single setting as a JSON value.
func (s *SQLiteStore) SaveSetting(ctx context.Context, key string, value any) error {
	encoded, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshal setting %s: %w", key, err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO settings (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		key, string(encoded))
	if err != nil {
		return fmt.Errorf("save setting %s: %w", key, err)
	}
	return nil
}

// GetSetting decodes the setting into out, or returns ErrNotFound.
func (s *SQLiteStore) GetSetting(ctx context.Context, key string, out any) error {
	var value string
	err := s.db.QueryRowContext(ctx,
		"SELECT value FROM settings WHERE key = ?", key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("setting %s: %w", key, ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("query setting %s: %w", key, err)
	}
	if err := json.Unmarshal([]byte(value), out); err != nil {
		return fmt.Errorf("unmarshal setting %s: %w", key, err)
	}
	return nil
}

// GetAllSettings reconstructs the full settings map from the key collection.
func (s *SQLiteStore) GetAllSettings(ctx context.Context) (map[string]json.RawMessage, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT key, value FROM settings")
	if err != nil {
		return nil, fmt.Errorf("query settings: %w", err)
	}
	defer rows.Close()

	settings := make(map[string]json.RawMessage)
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, fmt.Errorf("scan setting: %w", err)
		}
		settings[key] = json.RawMessage(value)
	}
	return settings, rows.Err()
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
