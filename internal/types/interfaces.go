// internal/types/interfaces.go
package types

import (
	"context"
	"encoding/json"
)

// Store is the durable persistence layer. Sessions are saved as whole
// documents (last writer wins); settings are an open key/value map.
// Callers sequence dependent operations themselves; the store provides
// no cross-call transaction.
type Store interface {
	SaveSession(ctx context.Context, session *ChatSession) error
	GetSessions(ctx context.Context) ([]*ChatSession, error)
	GetSession(ctx context.Context, id SessionID) (*ChatSession, error)
	DeleteSession(ctx context.Context, id SessionID) error

	SaveSetting(ctx context.Context, key string, value any) error
	GetSetting(ctx context.Context, key string, out any) error
	GetAllSettings(ctx context.Context) (map[string]json.RawMessage, error)

	Close() error
}
