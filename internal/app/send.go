package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/user/privai/internal/catalog"
	"github.com/user/privai/internal/types"
	"github.com/user/privai/pkg/llm"
)

// offlineNotice is rendered as the assistant turn when a send is
// intercepted because the client reported no connectivity.
const offlineNotice = "⚠️ **You are offline.** Your message is saved, but AI cannot reply until you are connected."

// ErrNoSession reports a send with no session selected.
var ErrNoSession = errors.New("no session selected")

// Send runs one conversational turn against the current session: append
// the user's message, then stream the assistant's reply into a placeholder
// message, replacing its content with the cumulative text on every frame.
//
// The user message is committed before anything can fail, so it survives
// offline sends, missing credentials, and provider errors alike. Send
// blocks until the stream finishes; a concurrent Send or StopStream
// cancels it. Returns the assistant message id.
func (a *App) Send(ctx context.Context, content string, attachments []types.Attachment) (types.MessageID, error) {
	state := a.State()
	sess := state.CurrentSession()
	if sess == nil {
		return "", ErrNoSession
	}
	cfg := sess.ModelConfig

	userMsg := types.Message{
		ID:          types.NewMessageID(),
		Role:        types.RoleUser,
		Content:     content,
		Timestamp:   time.Now(),
		Attachments: attachments,
	}
	a.Dispatch(AddMessage{SessionID: sess.ID, Message: userMsg})

	if !a.Online() {
		noticeID := types.NewMessageID()
		a.Dispatch(AddMessage{SessionID: sess.ID, Message: types.Message{
			ID:        noticeID,
			Role:      types.RoleAssistant,
			Content:   offlineNotice,
			Timestamp: time.Now(),
			Model:     "system",
		}})
		return noticeID, nil
	}

	apiKey := cfg.APIKey
	if apiKey == "" {
		apiKey = state.APIKeys[cfg.Provider]
	}
	if apiKey == "" {
		// Steer the user to the settings panel instead of leaving a
		// dangling empty assistant turn.
		if !state.IsSettingsOpen {
			a.Dispatch(ToggleSettings{})
		}
		return "", &llm.CredentialError{Provider: cfg.Provider}
	}

	// Outbound history is windowed; the full transcript stays local.
	contextWindow := 0
	if def, ok := catalog.ByID(cfg.ModelID); ok {
		contextWindow = def.ContextWindow
	}
	history := a.historyFor(sess.ID, contextWindow)

	assistantID := types.NewMessageID()
	a.Dispatch(AddMessage{SessionID: sess.ID, Message: types.Message{
		ID:        assistantID,
		Role:      types.RoleAssistant,
		Content:   "",
		Timestamp: time.Now(),
		Model:     cfg.ModelID,
	}})

	streamCtx, slot := a.claimStream(ctx)
	defer a.releaseStream(slot)

	_, err := a.orch.StreamChat(streamCtx, history, llm.Config{
		Provider:    cfg.Provider,
		Model:       cfg.ModelID,
		Temperature: cfg.Temperature,
		BaseURL:     cfg.BaseURL,
	}, apiKey, func(total string) {
		a.Dispatch(UpdateMessageContent{SessionID: sess.ID, MessageID: assistantID, Content: total})
	})
	if err != nil {
		// A stop that lands before the stream opens surfaces as a wrapped
		// context.Canceled from the adapter's HTTP call. That is the user
		// stopping, not a failure: no error turn, no error return.
		if errors.Is(err, context.Canceled) || streamCtx.Err() != nil {
			return assistantID, nil
		}
		a.log.Error("completion failed", "provider", cfg.Provider, "model", cfg.ModelID, "error", err)
		a.Dispatch(UpdateMessageContent{
			SessionID: sess.ID,
			MessageID: assistantID,
			Content:   fmt.Sprintf("**Error**: %s", err),
		})
		return assistantID, err
	}
	return assistantID, nil
}

// historyFor re-reads the session after the user message committed and
// maps its tail to outbound messages.
func (a *App) historyFor(id types.SessionID, contextWindow int) []llm.Message {
	a.mu.RLock()
	defer a.mu.RUnlock()
	sess := a.state.session(id)
	if sess == nil {
		return nil
	}
	return a.hist.Window(sess.Messages, contextWindow)
}

// streamSlot identifies one occupancy of the live-stream slot, so a
// finishing Send only vacates the slot if it still owns it.
type streamSlot struct {
	cancel context.CancelFunc
}

// claimStream cancels any live stream and installs this one as the sole
// occupant of the streaming slot.
func (a *App) claimStream(ctx context.Context) (context.Context, *streamSlot) {
	a.sendMu.Lock()
	defer a.sendMu.Unlock()
	if a.live != nil {
		a.live.cancel()
	}
	streamCtx, cancel := context.WithCancel(ctx)
	a.live = &streamSlot{cancel: cancel}
	return streamCtx, a.live
}

func (a *App) releaseStream(slot *streamSlot) {
	a.sendMu.Lock()
	defer a.sendMu.Unlock()
	slot.cancel()
	if a.live == slot {
		a.live = nil
	}
}

// StopStream cancels the live completion, if any. The text streamed so
// far stays in the assistant message.
func (a *App) StopStream() {
	a.sendMu.Lock()
	defer a.sendMu.Unlock()
	if a.live != nil {
		a.live.cancel()
		a.live = nil
	}
}
