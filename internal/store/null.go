package store

import (
	"context"
	"encoding/json"

	"github.com/user/privai/internal/types"
)

// NullStore is the safe stand-in used when no persistent storage is
// available (for example a read-only data directory). Every operation
// succeeds without durability, so the application runs instead of
// refusing to start.
type NullStore struct{}

var _ types.Store = (*NullStore)(nil)

func NewNullStore() *NullStore { return &NullStore{} }

func (*NullStore) SaveSession(context.Context, *types.ChatSession) error { return nil }

func (*NullStore) GetSessions(context.Context) ([]*types.ChatSession, error) { return nil, nil }

func (*NullStore) GetSession(_ context.Context, id types.SessionID) (*types.ChatSession, error) {
	return nil, ErrNotFound
}

func (*NullStore) DeleteSession(context.Context, types.SessionID) error { return nil }

func (*NullStore) SaveSetting(context.Context, string, any) error { return nil }

func (*NullStore) GetSetting(_ context.Context, key string, _ any) error { return ErrNotFound }

func (*NullStore) GetAllSettings(context.Context) (map[string]json.RawMessage, error) {
	return map[string]json.RawMessage{}, nil
}

func (*NullStore) Close() error { return nil }
