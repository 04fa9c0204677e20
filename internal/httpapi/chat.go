package httpapi

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/user/privai/internal/app"
	"github.com/user/privai/internal/types"
)

// Chat runs one conversational turn and streams the assistant's reply as
// server-sent events. Each frame carries the cumulative text so far, so
// the client always replaces rather than appends; the stream closes with
// a [DONE] sentinel.
// POST /api/chat
func (h *Handler) Chat(c echo.Context) error {
	var req struct {
		Content     string             `json:"content"`
		Attachments []types.Attachment `json:"attachments"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid body"})
	}
	if req.Content == "" && len(req.Attachments) == 0 {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "empty message"})
	}

	state := h.app.State()
	sess := state.CurrentSession()
	if sess == nil {
		return c.JSON(http.StatusConflict, map[string]string{"error": "no session selected"})
	}
	sessID := sess.ID

	w := c.Response()
	w.Header().Set(echo.HeaderContentType, "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	sub, cancelSub := h.app.Subscribe()
	defer cancelSub()

	type sendResult struct {
		id  types.MessageID
		err error
	}
	done := make(chan sendResult, 1)
	go func() {
		id, err := h.app.Send(c.Request().Context(), req.Content, req.Attachments)
		done <- sendResult{id, err}
	}()

	last := ""
	emit := func(payload any) {
		raw, err := json.Marshal(payload)
		if err != nil {
			return
		}
		fmt.Fprintf(w, "data: %s\n\n", raw)
		w.Flush()
	}
	emitReply := func(snap app.AppState, id types.MessageID) {
		content, ok := messageContent(snap, sessID, id)
		if ok && content != last {
			last = content
			emit(map[string]string{"content": content})
		}
	}

	for {
		select {
		case snap := <-sub:
			// The reply is always the newest assistant message; its id is
			// only known to the caller once Send returns.
			if id, ok := latestAssistantID(snap, sessID); ok {
				emitReply(snap, id)
			}
		case res := <-done:
			if res.id != "" {
				emitReply(h.app.State(), res.id)
			} else if res.err != nil {
				emit(map[string]string{"error": res.err.Error()})
			}
			fmt.Fprint(w, "data: [DONE]\n\n")
			w.Flush()
			return nil
		case <-c.Request().Context().Done():
			// Client went away; stop the upstream stream and let Send
			// finish committing what arrived.
			h.app.StopStream()
			<-done
			return nil
		}
	}
}

// StopChat cancels the live completion, keeping the partial text.
// POST /api/chat/stop
func (h *Handler) StopChat(c echo.Context) error {
	h.app.StopStream()
	return c.NoContent(http.StatusNoContent)
}

func sessionByID(snap app.AppState, id types.SessionID) *types.ChatSession {
	for _, sess := range snap.Sessions {
		if sess.ID == id {
			return sess
		}
	}
	return nil
}

func latestAssistantID(snap app.AppState, sessID types.SessionID) (types.MessageID, bool) {
	sess := sessionByID(snap, sessID)
	if sess == nil || len(sess.Messages) == 0 {
		return "", false
	}
	msg := sess.Messages[len(sess.Messages)-1]
	if msg.Role != types.RoleAssistant {
		return "", false
	}
	return msg.ID, true
}

func messageContent(snap app.AppState, sessID types.SessionID, id types.MessageID) (string, bool) {
	sess := sessionByID(snap, sessID)
	if sess == nil {
		return "", false
	}
	for i := range sess.Messages {
		if sess.Messages[i].ID == id {
			return sess.Messages[i].Content, true
		}
	}
	return "", false
}
