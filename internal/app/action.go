package app

import "github.com/user/privai/internal/types"

// Action is the closed set of state mutations. Anything not expressible
// here does not change state.
type Action interface {
	isAction()
}

// SetAPIKey stores or clears a provider credential.
type SetAPIKey struct {
	Provider string
	Key      string
}

// CreateSession adds a session and selects it.
type CreateSession struct {
	Session *types.ChatSession
}

// DeleteSession removes a session. Deleting the current session leaves
// no selection.
type DeleteSession struct {
	ID types.SessionID
}

// SelectSession changes the current session.
type SelectSession struct {
	ID types.SessionID
}

// AddMessage appends a message to a session and bumps its updated time.
type AddMessage struct {
	SessionID types.SessionID
	Message   types.Message
}

// UpdateMessageContent replaces a message's content wholesale. Streaming
// deltas arrive as ever-longer cumulative strings, so replacement is
// idempotent under replays.
type UpdateMessageContent struct {
	SessionID types.SessionID
	MessageID types.MessageID
	Content   string
}

// ToggleSidebar flips the sidebar.
type ToggleSidebar struct{}

// ToggleSettings flips the settings panel.
type ToggleSettings struct{}

// SetTheme records the theme setting (one of the Theme constants).
type SetTheme struct {
	Theme string
}

// SetTextSize records the text size setting.
type SetTextSize struct {
	Size string
}

// SetDefaultModel replaces the default model configuration used for new
// sessions. Existing sessions keep the config they were created with.
type SetDefaultModel struct {
	Config types.ModelConfig
}

// BulkLoad replaces persisted slices of state in one step during
// hydration. Nil or empty fields leave the corresponding defaults alone.
type BulkLoad struct {
	Sessions           []*types.ChatSession
	APIKeys            map[string]string
	Theme              string
	TextSize           string
	DefaultModelConfig *types.ModelConfig
}

func (SetAPIKey) isAction()            {}
func (CreateSession) isAction()        {}
func (DeleteSession) isAction()        {}
func (SelectSession) isAction()        {}
func (AddMessage) isAction()           {}
func (UpdateMessageContent) isAction() {}
func (ToggleSidebar) isAction()        {}
func (ToggleSettings) isAction()       {}
func (SetTheme) isAction()             {}
func (SetTextSize) isAction()          {}
func (SetDefaultModel) isAction()      {}
func (BulkLoad) isAction()             {}
