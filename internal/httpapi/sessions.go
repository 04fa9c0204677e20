package httpapi

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/user/privai/internal/app"
	"github.com/user/privai/internal/catalog"
	"github.com/user/privai/internal/types"
)

// ListSessions returns every session, newest first, plus the selection.
// GET /api/sessions
func (h *Handler) ListSessions(c echo.Context) error {
	state := h.app.State()
	return c.JSON(http.StatusOK, map[string]any{
		"sessions":         state.Sessions,
		"currentSessionId": state.CurrentSessionID,
	})
}

// CreateSession creates a session and selects it. The model config is a
// value copy of the default, or of the requested model when one is named.
// POST /api/sessions
func (h *Handler) CreateSession(c echo.Context) error {
	var req struct {
		Title   string `json:"title"`
		ModelID string `json:"modelId"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid body"})
	}
	if req.Title == "" {
		req.Title = "New Chat"
	}

	state := h.app.State()
	cfg := state.DefaultModelConfig
	if req.ModelID != "" {
		def, ok := catalog.ByID(req.ModelID)
		if !ok {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "unknown model"})
		}
		temp := float32(0.7)
		if cfg.Temperature != nil {
			temp = *cfg.Temperature
		}
		cfg = catalog.NewModelConfig(def, temp)
	}

	sess := types.NewChatSession(req.Title, cfg)
	h.app.Dispatch(app.CreateSession{Session: sess})
	return c.JSON(http.StatusCreated, sess)
}

// GetSession returns one session.
// GET /api/sessions/:id
func (h *Handler) GetSession(c echo.Context) error {
	id := types.SessionID(c.Param("id"))
	for _, sess := range h.app.State().Sessions {
		if sess.ID == id {
			return c.JSON(http.StatusOK, sess)
		}
	}
	return c.JSON(http.StatusNotFound, map[string]string{"error": "session not found"})
}

// DeleteSession removes a session.
// DELETE /api/sessions/:id
func (h *Handler) DeleteSession(c echo.Context) error {
	h.app.Dispatch(app.DeleteSession{ID: types.SessionID(c.Param("id"))})
	return c.NoContent(http.StatusNoContent)
}

// SelectSession changes the current session.
// POST /api/sessions/:id/select
func (h *Handler) SelectSession(c echo.Context) error {
	id := types.SessionID(c.Param("id"))
	h.app.Dispatch(app.SelectSession{ID: id})
	if h.app.State().CurrentSessionID != id {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "session not found"})
	}
	return c.NoContent(http.StatusNoContent)
}
