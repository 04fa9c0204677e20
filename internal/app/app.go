package app

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/user/privai/internal/history"
	"github.com/user/privai/internal/orchestrator"
	"github.com/user/privai/internal/types"
)

// Options tune an App. Zero values fall back to sensible defaults.
type Options struct {
	Logger         *slog.Logger
	DebounceWindow time.Duration     // trailing session-save window, default 1s
	HistoryWindow  int               // messages sent per completion, default 10
	EnvAPIKeys     map[string]string // credentials from the environment, overlay stored ones
}

// App owns the application state and drives persistence for it. All
// reads go through State snapshots; all writes go through Dispatch.
type App struct {
	store types.Store
	orch  *orchestrator.Orchestrator
	hist  *history.Engine
	log   *slog.Logger

	envKeys map[string]string
	online  atomic.Bool

	mu    sync.RWMutex
	phase Phase
	state AppState

	debounce *debouncer

	subMu   sync.Mutex
	subs    map[int]chan AppState
	nextSub int

	sendMu sync.Mutex
	live   *streamSlot
}

// New builds an App over the given store and provider orchestrator. The
// returned App is uninitialized; call Hydrate before dispatching.
func New(store types.Store, orch *orchestrator.Orchestrator, opts Options) (*App, error) {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.DebounceWindow <= 0 {
		opts.DebounceWindow = time.Second
	}
	a := &App{
		store:   store,
		orch:    orch,
		hist:    history.New(opts.HistoryWindow),
		log:     opts.Logger,
		envKeys: opts.EnvAPIKeys,
		state:   initialState(),
		subs:    map[int]chan AppState{},
	}
	a.online.Store(true)
	a.debounce = newDebouncer(opts.DebounceWindow, a.saveSession)
	return a, nil
}

// Phase reports the hydration lifecycle stage.
func (a *App) Phase() Phase {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.phase
}

// State returns a deep snapshot of the current state.
func (a *App) State() AppState {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.state.clone()
}

// Hydrate loads persisted sessions and settings in parallel and commits
// them as one bulk transition, then marks the App ready. Load failures
// are logged and the App comes up on defaults rather than refusing to
// start.
func (a *App) Hydrate(ctx context.Context) error {
	a.mu.Lock()
	if a.phase != PhaseUninitialized {
		a.mu.Unlock()
		return nil
	}
	a.phase = PhaseHydrating
	a.mu.Unlock()

	var (
		sessions []*types.ChatSession
		settings map[string]json.RawMessage
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		sessions, err = a.store.GetSessions(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		settings, err = a.store.GetAllSettings(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		a.log.Error("hydration load failed, starting on defaults", "error", err)
	}

	load := BulkLoad{Sessions: sessions}
	if raw, ok := settings[settingAPIKeys]; ok {
		if err := json.Unmarshal(raw, &load.APIKeys); err != nil {
			a.log.Warn("stored api keys unreadable", "error", err)
		}
	}
	if raw, ok := settings[settingTheme]; ok {
		json.Unmarshal(raw, &load.Theme)
	}
	if raw, ok := settings[settingTextSize]; ok {
		json.Unmarshal(raw, &load.TextSize)
	}
	if raw, ok := settings[settingDefaultModelConfig]; ok {
		var cfg types.ModelConfig
		if err := json.Unmarshal(raw, &cfg); err == nil {
			load.DefaultModelConfig = &cfg
		}
	}
	// Environment credentials win over stored ones.
	if len(a.envKeys) > 0 {
		if load.APIKeys == nil {
			load.APIKeys = map[string]string{}
		}
		for k, v := range a.envKeys {
			load.APIKeys[k] = v
		}
	}

	a.mu.Lock()
	a.state, _ = reduce(a.state, load)
	a.phase = PhaseReady
	snap := a.state.clone()
	a.mu.Unlock()

	a.notify(snap)
	a.log.Info("state hydrated", "sessions", len(snap.Sessions))
	return nil
}

// Dispatch applies an action and executes its effects. Actions arriving
// before hydration completes are dropped: the only transition out of a
// non-ready phase is the hydration bulk load itself.
func (a *App) Dispatch(action Action) {
	a.mu.Lock()
	if a.phase != PhaseReady {
		a.mu.Unlock()
		a.log.Warn("action dropped before hydration", "action", actionName(action))
		return
	}
	next, effects := reduce(a.state, action)
	a.state = next
	snap := next.clone()
	a.mu.Unlock()

	for _, eff := range effects {
		a.runEffect(eff)
	}
	a.notify(snap)
}

func (a *App) runEffect(eff Effect) {
	switch e := eff.(type) {
	case saveSettingEffect:
		if err := a.store.SaveSetting(context.Background(), e.key, e.value); err != nil {
			a.log.Error("setting save failed", "key", e.key, "error", err)
		}
	case scheduleSaveEffect:
		a.debounce.Schedule(e.id)
	case deleteSessionEffect:
		a.debounce.Cancel(e.id)
		if err := a.store.DeleteSession(context.Background(), e.id); err != nil {
			a.log.Error("session delete failed", "session", e.id, "error", err)
		}
	}
}

// saveSession is the debouncer's write path: snapshot the session as it
// stands now and persist the whole document.
func (a *App) saveSession(id types.SessionID) {
	a.mu.RLock()
	sess := a.state.session(id)
	if sess != nil {
		sess = sess.Clone()
	}
	a.mu.RUnlock()
	if sess == nil {
		return
	}
	if err := a.store.SaveSession(context.Background(), sess); err != nil {
		a.log.Error("session save failed", "session", id, "error", err)
	}
}

// Hide flushes any pending session write immediately. The UI calls this
// when the page is hidden so a backgrounded tab never loses the trailing
// debounce window.
func (a *App) Hide() {
	a.debounce.Flush()
}

// SetOnline records network reachability as reported by the client.
func (a *App) SetOnline(online bool) {
	a.online.Store(online)
}

// Online reports the last known network reachability.
func (a *App) Online() bool {
	return a.online.Load()
}

// Close stops any live stream and flushes pending writes. The store
// itself is closed by whoever opened it.
func (a *App) Close() {
	a.StopStream()
	a.debounce.Flush()
}

// Subscribe registers a state observer. Every committed transition sends
// a snapshot; slow observers see the newest snapshot rather than a
// backlog. The returned func unsubscribes.
func (a *App) Subscribe() (<-chan AppState, func()) {
	a.subMu.Lock()
	id := a.nextSub
	a.nextSub++
	ch := make(chan AppState, 1)
	a.subs[id] = ch
	a.subMu.Unlock()

	cancel := func() {
		a.subMu.Lock()
		if _, ok := a.subs[id]; ok {
			delete(a.subs, id)
			close(ch)
		}
		a.subMu.Unlock()
	}
	return ch, cancel
}

func (a *App) notify(snap AppState) {
	a.subMu.Lock()
	defer a.subMu.Unlock()
	for _, ch := range a.subs {
		select {
		case ch <- snap:
		default:
			// Replace the stale snapshot with the fresh one.
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- snap:
			default:
			}
		}
	}
}

func actionName(a Action) string {
	switch a.(type) {
	case SetAPIKey:
		return "set-api-key"
	case CreateSession:
		return "create-session"
	case DeleteSession:
		return "delete-session"
	case SelectSession:
		return "select-session"
	case AddMessage:
		return "add-message"
	case UpdateMessageContent:
		return "update-message-content"
	case ToggleSidebar:
		return "toggle-sidebar"
	case ToggleSettings:
		return "toggle-settings"
	case SetTheme:
		return "set-theme"
	case SetTextSize:
		return "set-text-size"
	case SetDefaultModel:
		return "set-default-model"
	case BulkLoad:
		return "bulk-load"
	}
	return "unknown"
}
