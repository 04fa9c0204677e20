package app

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/user/privai/internal/orchestrator"
	"github.com/user/privai/internal/store"
	"github.com/user/privai/internal/types"
)

// fakeStore is an in-memory types.Store that counts session writes so
// tests can observe debounce coalescing.
type fakeStore struct {
	mu           sync.Mutex
	sessions     map[types.SessionID]*types.ChatSession
	settings     map[string]json.RawMessage
	sessionSaves int
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		sessions: map[types.SessionID]*types.ChatSession{},
		settings: map[string]json.RawMessage{},
	}
}

func (f *fakeStore) SaveSession(_ context.Context, s *types.ChatSession) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sessions[s.ID] = s.Clone()
	f.sessionSaves++
	return nil
}

func (f *fakeStore) GetSessions(context.Context) ([]*types.ChatSession, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]*types.ChatSession, 0, len(f.sessions))
	for _, s := range f.sessions {
		out = append(out, s.Clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UpdatedAt.After(out[j].UpdatedAt) })
	return out, nil
}

func (f *fakeStore) GetSession(_ context.Context, id types.SessionID) (*types.ChatSession, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.sessions[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return s.Clone(), nil
}

func (f *fakeStore) DeleteSession(_ context.Context, id types.SessionID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.sessions, id)
	return nil
}

func (f *fakeStore) SaveSetting(_ context.Context, key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.settings[key] = raw
	return nil
}

func (f *fakeStore) GetSetting(_ context.Context, key string, out any) error {
	f.mu.Lock()
	raw, ok := f.settings[key]
	f.mu.Unlock()
	if !ok {
		return store.ErrNotFound
	}
	return json.Unmarshal(raw, out)
}

func (f *fakeStore) GetAllSettings(context.Context) (map[string]json.RawMessage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make(map[string]json.RawMessage, len(f.settings))
	for k, v := range f.settings {
		out[k] = v
	}
	return out, nil
}

func (f *fakeStore) Close() error { return nil }

func (f *fakeStore) saveCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.sessionSaves
}

func (f *fakeStore) stored(id types.SessionID) *types.ChatSession {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.sessions[id]
}

func (f *fakeStore) setting(key string) json.RawMessage {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.settings[key]
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestApp(t *testing.T, fs *fakeStore, orch *orchestrator.Orchestrator) *App {
	t.Helper()
	if orch == nil {
		orch = orchestrator.New()
	}
	a, err := New(fs, orch, Options{
		Logger:         quietLogger(),
		DebounceWindow: 40 * time.Millisecond,
	})
	require.NoError(t, err)
	require.NoError(t, a.Hydrate(context.Background()))
	t.Cleanup(a.Close)
	return a
}

func TestHydrateLoadsPersistedState(t *testing.T) {
	fs := newFakeStore()
	sess := types.NewChatSession("Restored", types.ModelConfig{Provider: types.ProviderGroq, ModelID: "llama-3.1-8b-instant"})
	require.NoError(t, fs.SaveSession(context.Background(), sess))
	require.NoError(t, fs.SaveSetting(context.Background(), settingTheme, ThemeOLED))
	require.NoError(t, fs.SaveSetting(context.Background(), settingAPIKeys, map[string]string{types.ProviderOpenAI: "sk-stored"}))

	a, err := New(fs, orchestrator.New(), Options{
		Logger:     quietLogger(),
		EnvAPIKeys: map[string]string{types.ProviderGroq: "gsk-env"},
	})
	require.NoError(t, err)

	assert.Equal(t, PhaseUninitialized, a.Phase())
	require.NoError(t, a.Hydrate(context.Background()))
	assert.Equal(t, PhaseReady, a.Phase())

	state := a.State()
	require.Len(t, state.Sessions, 1)
	assert.Equal(t, "Restored", state.Sessions[0].Title)
	assert.Equal(t, ThemeOLED, state.Theme)
	assert.Equal(t, "sk-stored", state.APIKeys[types.ProviderOpenAI])
	assert.Equal(t, "gsk-env", state.APIKeys[types.ProviderGroq])
	// Defaults survive keys the store never held.
	assert.Equal(t, "medium", state.TextSize)
}

func TestDispatchDroppedBeforeHydration(t *testing.T) {
	a, err := New(newFakeStore(), orchestrator.New(), Options{Logger: quietLogger()})
	require.NoError(t, err)

	a.Dispatch(SetTheme{Theme: ThemeLight})
	assert.Equal(t, ThemeDark, a.State().Theme)

	require.NoError(t, a.Hydrate(context.Background()))
	a.Dispatch(SetTheme{Theme: ThemeLight})
	assert.Equal(t, ThemeLight, a.State().Theme)
}

func TestDebounceCoalescesSessionWrites(t *testing.T) {
	fs := newFakeStore()
	a := newTestApp(t, fs, nil)

	sess := types.NewChatSession("Burst", types.ModelConfig{Provider: types.ProviderOpenAI, ModelID: "gpt-4o"})
	a.Dispatch(CreateSession{Session: sess})
	for i := 0; i < 5; i++ {
		a.Dispatch(AddMessage{SessionID: sess.ID, Message: types.Message{
			ID:        types.NewMessageID(),
			Role:      types.RoleUser,
			Content:   "tick",
			Timestamp: time.Now(),
		}})
	}
	assert.Equal(t, 0, fs.saveCount(), "writes must wait out the debounce window")

	time.Sleep(120 * time.Millisecond)
	assert.Equal(t, 1, fs.saveCount(), "a burst coalesces into one write")
	stored := fs.stored(sess.ID)
	require.NotNil(t, stored)
	assert.Len(t, stored.Messages, 5)
}

func TestHideFlushesPendingWrite(t *testing.T) {
	fs := newFakeStore()
	a := newTestApp(t, fs, nil)

	sess := types.NewChatSession("Flush", types.ModelConfig{Provider: types.ProviderOpenAI, ModelID: "gpt-4o"})
	a.Dispatch(CreateSession{Session: sess})
	a.Hide()

	assert.Equal(t, 1, fs.saveCount(), "hide must write without waiting")
	require.NotNil(t, fs.stored(sess.ID))

	time.Sleep(120 * time.Millisecond)
	assert.Equal(t, 1, fs.saveCount(), "the armed timer must not fire again")
}

func TestDeleteSessionCancelsPendingSave(t *testing.T) {
	fs := newFakeStore()
	a := newTestApp(t, fs, nil)

	sess := types.NewChatSession("Doomed", types.ModelConfig{Provider: types.ProviderOpenAI, ModelID: "gpt-4o"})
	a.Dispatch(CreateSession{Session: sess})
	a.Dispatch(DeleteSession{ID: sess.ID})

	state := a.State()
	assert.Empty(t, state.Sessions)
	assert.Empty(t, state.CurrentSessionID, "deleting the current session clears the selection")

	time.Sleep(120 * time.Millisecond)
	assert.Nil(t, fs.stored(sess.ID), "a trailing debounce write must not resurrect the row")
	assert.Equal(t, 0, fs.saveCount())
}

func TestSettingsWritesAreImmediate(t *testing.T) {
	fs := newFakeStore()
	a := newTestApp(t, fs, nil)

	a.Dispatch(SetTheme{Theme: ThemeLight})
	assert.JSONEq(t, `"light"`, string(fs.setting(settingTheme)))

	a.Dispatch(SetAPIKey{Provider: types.ProviderAnthropic, Key: "sk-ant-test"})
	var keys map[string]string
	require.NoError(t, json.Unmarshal(fs.setting(settingAPIKeys), &keys))
	assert.Equal(t, "sk-ant-test", keys[types.ProviderAnthropic])
}

func TestSelectSessionIgnoresUnknownID(t *testing.T) {
	a := newTestApp(t, newFakeStore(), nil)
	sess := types.NewChatSession("Only", types.ModelConfig{Provider: types.ProviderOpenAI, ModelID: "gpt-4o"})
	a.Dispatch(CreateSession{Session: sess})

	a.Dispatch(SelectSession{ID: types.NewSessionID()})
	assert.Equal(t, sess.ID, a.State().CurrentSessionID)
}

func TestSubscribeSeesCommittedSnapshots(t *testing.T) {
	a := newTestApp(t, newFakeStore(), nil)
	ch, cancel := a.Subscribe()
	defer cancel()

	a.Dispatch(ToggleSidebar{})

	select {
	case snap := <-ch:
		assert.False(t, snap.IsSidebarOpen)
	case <-time.After(time.Second):
		t.Fatal("no snapshot delivered")
	}
}

func TestResolveTheme(t *testing.T) {
	assert.Equal(t, ThemeOLED, ResolveTheme(ThemeOLED, true))
	assert.Equal(t, ThemeDark, ResolveTheme(ThemeSystem, true))
	assert.Equal(t, ThemeLight, ResolveTheme(ThemeSystem, false))
	assert.Equal(t, ThemeLight, ResolveTheme(ThemeLight, true))
}

func TestReducerDoesNotMutateInput(t *testing.T) {
	prev := initialState()
	sess := types.NewChatSession("Aliased", types.ModelConfig{Provider: types.ProviderOpenAI, ModelID: "gpt-4o"})
	prev.Sessions = []*types.ChatSession{sess}
	prev.CurrentSessionID = sess.ID

	next, _ := reduce(prev, AddMessage{SessionID: sess.ID, Message: types.Message{
		ID:      types.NewMessageID(),
		Role:    types.RoleUser,
		Content: "changed",
	}})

	assert.Empty(t, prev.Sessions[0].Messages, "input state must stay untouched")
	assert.Len(t, next.Sessions[0].Messages, 1)
}
