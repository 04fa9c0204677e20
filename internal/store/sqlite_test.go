package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/user/privai/internal/types"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := NewSQLiteStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func testSession(title string, updatedAt time.Time) *types.ChatSession {
	s := types.NewChatSession(title, types.ModelConfig{Provider: "openai", ModelID: "gpt-4o"})
	s.UpdatedAt = updatedAt
	return s
}

func TestSessionRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	session := testSession("First chat", time.Now())
	session.Messages = append(session.Messages, types.Message{
		ID:        types.NewMessageID(),
		Role:      types.RoleUser,
		Content:   "hello",
		Timestamp: time.Now(),
	})
	require.NoError(t, s.SaveSession(ctx, session))

	got, err := s.GetSession(ctx, session.ID)
	require.NoError(t, err)
	assert.Equal(t, session.Title, got.Title)
	require.Len(t, got.Messages, 1)
	assert.Equal(t, "hello", got.Messages[0].Content)
	assert.Equal(t, "gpt-4o", got.ModelConfig.ModelID)
}

func TestSaveSessionIsFullOverwrite(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	session := testSession("Chat", time.Now())
	session.Messages = []types.Message{{ID: "m1", Role: types.RoleUser, Content: "one"}}
	require.NoError(t, s.SaveSession(ctx, session))

	session.Messages = nil
	session.Title = "Renamed"
	require.NoError(t, s.SaveSession(ctx, session))

	got, err := s.GetSession(ctx, session.ID)
	require.NoError(t, err)
	assert.Equal(t, "Renamed", got.Title)
	assert.Empty(t, got.Messages, "upsert must replace the whole document, not patch")
}

func TestGetSessionsNewestUpdatedFirst(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	base := time.Now()
	old := testSession("old", base.Add(-2*time.Hour))
	mid := testSession("mid", base.Add(-1*time.Hour))
	recent := testSession("recent", base)
	for _, sess := range []*types.ChatSession{mid, recent, old} {
		require.NoError(t, s.SaveSession(ctx, sess))
	}

	got, err := s.GetSessions(ctx)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, "recent", got[0].Title)
	assert.Equal(t, "mid", got[1].Title)
	assert.Equal(t, "old", got[2].Title)
}

func TestDeleteSession(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	session := testSession("doomed", time.Now())
	require.NoError(t, s.SaveSession(ctx, session))
	require.NoError(t, s.DeleteSession(ctx, session.ID))

	_, err := s.GetSession(ctx, session.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	// Deleting an absent id is a no-op.
	assert.NoError(t, s.DeleteSession(ctx, session.ID))
}

func TestSettingsRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	require.NoError(t, s.SaveSetting(ctx, "theme", "oled"))
	require.NoError(t, s.SaveSetting(ctx, "apiKeys", map[string]string{"openai": "sk-test"}))

	var theme string
	require.NoError(t, s.GetSetting(ctx, "theme", &theme))
	assert.Equal(t, "oled", theme)

	all, err := s.GetAllSettings(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)
	assert.JSONEq(t, `"oled"`, string(all["theme"]))

	var missing string
	assert.ErrorIs(t, s.GetSetting(ctx, "nope", &missing), ErrNotFound)
}

func TestSettingOverwrite(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	require.NoError(t, s.SaveSetting(ctx, "textSize", "medium"))
	require.NoError(t, s.SaveSetting(ctx, "textSize", "large"))

	var size string
	require.NoError(t, s.GetSetting(ctx, "textSize", &size))
	assert.Equal(t, "large", size)
}

func TestSchemaVersionGuard(t *testing.T) {
	dir := t.TempDir()
	s, err := NewSQLiteStore(dir + "/privai.db")
	require.NoError(t, err)

	var version int
	require.NoError(t, s.db.QueryRow("PRAGMA user_version").Scan(&version))
	assert.Equal(t, schemaVersion, version)

	// A database from a future schema must be refused, not misread.
	_, err = s.db.Exec("PRAGMA user_version = 99")
	require.NoError(t, err)
	require.NoError(t, s.Close())

	_, err = NewSQLiteStore(dir + "/privai.db")
	assert.Error(t, err)
}

func TestNullStoreIsSafe(t *testing.T) {
	ctx := context.Background()
	var s types.Store = NewNullStore()

	assert.NoError(t, s.SaveSession(ctx, testSession("x", time.Now())))
	sessions, err := s.GetSessions(ctx)
	assert.NoError(t, err)
	assert.Empty(t, sessions)

	all, err := s.GetAllSettings(ctx)
	assert.NoError(t, err)
	assert.Empty(t, all)
	assert.NoError(t, s.Close())
}
