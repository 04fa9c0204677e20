// Package httpapi exposes the application state and chat pipeline to the
// local UI over HTTP. The server binds loopback only; the browser client
// is the sole intended consumer.
package httpapi

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"github.com/user/privai/internal/app"
	"github.com/user/privai/internal/attach"
)

// Handler handles HTTP requests.
type Handler struct {
	app      *app.App
	log      *slog.Logger
	importer *attach.Importer
	upgrader websocket.Upgrader
}

// NewHandler creates a new handler over the application state.
func NewHandler(a *app.App, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		app:      a,
		log:      logger,
		importer: attach.NewImporter(),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// Loopback-only server; the UI is served from the same host.
			CheckOrigin: func(*http.Request) bool { return true },
		},
	}
}

// RegisterRoutes registers routes with the echo server.
func (h *Handler) RegisterRoutes(e *echo.Echo) {
	e.GET("/health", h.Health)

	e.GET("/api/sessions", h.ListSessions)
	e.POST("/api/sessions", h.CreateSession)
	e.GET("/api/sessions/:id", h.GetSession)
	e.DELETE("/api/sessions/:id", h.DeleteSession)
	e.POST("/api/sessions/:id/select", h.SelectSession)

	e.GET("/api/settings", h.GetSettings)
	e.PUT("/api/settings", h.UpdateSettings)
	e.GET("/api/models", h.ListModels)

	e.POST("/api/attachments", h.UploadAttachment)
	e.POST("/api/attachments/url", h.ImportURL)

	e.POST("/api/chat", h.Chat)
	e.POST("/api/chat/stop", h.StopChat)
	e.POST("/api/hide", h.Hide)
	e.POST("/api/online", h.SetOnline)

	e.GET("/ws", h.Watch)
}

// Health returns health status and the hydration phase, so the UI can
// show a loading affordance until the state is ready.
func (h *Handler) Health(c echo.Context) error {
	phase := "uninitialized"
	switch h.app.Phase() {
	case app.PhaseHydrating:
		phase = "hydrating"
	case app.PhaseReady:
		phase = "ready"
	}
	return c.JSON(http.StatusOK, map[string]string{
		"status": "healthy",
		"phase":  phase,
	})
}

// Hide flushes pending writes; the UI calls it from visibilitychange.
func (h *Handler) Hide(c echo.Context) error {
	h.app.Hide()
	return c.NoContent(http.StatusNoContent)
}

// SetOnline records the client's reported connectivity.
// POST /api/online
func (h *Handler) SetOnline(c echo.Context) error {
	var req struct {
		Online bool `json:"online"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid body"})
	}
	h.app.SetOnline(req.Online)
	return c.NoContent(http.StatusNoContent)
}
