// Package app is the in-memory source of truth for UI state. All
// mutation flows through a closed action vocabulary applied by a pure
// reducer; persistence runs as effects driven outside the reducer.
package app

import "github.com/user/privai/internal/types"

// Phase is the startup lifecycle of the synchronizer.
type Phase int

const (
	PhaseUninitialized Phase = iota
	PhaseHydrating
	PhaseReady
)

// Theme settings. ThemeSystem resolves to the OS preference at apply time.
const (
	ThemeDark   = "dark"
	ThemeLight  = "light"
	ThemeOLED   = "oled"
	ThemeSystem = "system"
)

// Settings store keys.
const (
	settingAPIKeys            = "apiKeys"
	settingTheme              = "theme"
	settingTextSize           = "textSize"
	settingDefaultModelConfig = "defaultModelConfig"
)

// AppState is the process-wide UI state. Values handed to observers are
// snapshots; the reducer never mutates a previously returned state.
type AppState struct {
	Sessions           []*types.ChatSession `json:"sessions"`
	CurrentSessionID   types.SessionID      `json:"currentSessionId"`
	APIKeys            map[string]string    `json:"apiKeys"`
	Theme              string               `json:"theme"`
	TextSize           string               `json:"textSize"`
	IsSidebarOpen      bool                 `json:"isSidebarOpen"`
	IsSettingsOpen     bool                 `json:"isSettingsOpen"`
	DefaultModelConfig types.ModelConfig    `json:"defaultModelConfig"`
}

func defaultTemperature() *float32 {
	t := float32(0.7)
	return &t
}

// initialState mirrors the pre-hydration defaults.
func initialState() AppState {
	return AppState{
		Sessions:      []*types.ChatSession{},
		APIKeys:       map[string]string{},
		Theme:         ThemeDark,
		TextSize:      "medium",
		IsSidebarOpen: true,
		DefaultModelConfig: types.ModelConfig{
			Provider:    types.ProviderOpenAI,
			ModelID:     "gpt-4o",
			Temperature: defaultTemperature(),
		},
	}
}

// clone deep-copies the state so observers never alias reducer output.
func (s AppState) clone() AppState {
	out := s
	out.Sessions = make([]*types.ChatSession, len(s.Sessions))
	for i, sess := range s.Sessions {
		out.Sessions[i] = sess.Clone()
	}
	out.APIKeys = make(map[string]string, len(s.APIKeys))
	for k, v := range s.APIKeys {
		out.APIKeys[k] = v
	}
	return out
}

// session returns the session with the given id, or nil.
func (s AppState) session(id types.SessionID) *types.ChatSession {
	for _, sess := range s.Sessions {
		if sess.ID == id {
			return sess
		}
	}
	return nil
}

// CurrentSession returns the selected session, or nil.
func (s AppState) CurrentSession() *types.ChatSession {
	if s.CurrentSessionID == "" {
		return nil
	}
	return s.session(s.CurrentSessionID)
}

// ResolveTheme maps a theme setting to a concrete scheme. The system
// setting follows the OS color-scheme preference; callers re-resolve when
// that preference changes.
func ResolveTheme(setting string, prefersDark bool) string {
	if setting == ThemeSystem {
		if prefersDark {
			return ThemeDark
		}
		return ThemeLight
	}
	return setting
}
