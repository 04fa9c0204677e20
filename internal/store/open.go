package store

import (
	"log/slog"
	"os"
	"path/filepath"

	"github.com/user/privai/internal/types"
)

// Open returns a SQLite store under dataDir, falling back to a NullStore
// when the directory or database cannot be set up. Construction never
// fails: on a non-interactive or read-only host the application still
// starts, it just loses durability.
func Open(dataDir string) types.Store {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		slog.Warn("data dir unavailable, persistence disabled", "dir", dataDir, "error", err)
		return NewNullStore()
	}
	s, err := NewSQLiteStore(filepath.Join(dataDir, "privai.db"))
	if err != nil {
		slog.Warn("database unavailable, persistence disabled", "error", err)
		return NewNullStore()
	}
	return s
}
