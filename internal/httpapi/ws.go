package httpapi

import (
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
)

const (
	wsWriteTimeout = 10 * time.Second
	wsPingInterval = 30 * time.Second
)

// Watch upgrades to a WebSocket and pushes a full state snapshot on every
// committed transition, starting with the current one. Slow readers see
// the newest snapshot; intermediate ones may be skipped.
// GET /ws
func (h *Handler) Watch(c echo.Context) error {
	ws, err := h.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		h.log.Error("websocket upgrade failed", "error", err)
		return err
	}
	defer ws.Close()

	sub, cancel := h.app.Subscribe()
	defer cancel()

	// Discard inbound frames; the socket is push-only. Reading keeps
	// close and pong handling alive.
	readerDone := make(chan struct{})
	go func() {
		defer close(readerDone)
		for {
			if _, _, err := ws.ReadMessage(); err != nil {
				return
			}
		}
	}()

	write := func(v any) error {
		ws.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
		return ws.WriteJSON(v)
	}
	if err := write(h.app.State()); err != nil {
		return nil
	}

	ping := time.NewTicker(wsPingInterval)
	defer ping.Stop()

	for {
		select {
		case snap, ok := <-sub:
			if !ok {
				return nil
			}
			if err := write(snap); err != nil {
				return nil
			}
		case <-ping.C:
			ws.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
			if err := ws.WriteMessage(websocket.PingMessage, nil); err != nil {
				return nil
			}
		case <-readerDone:
			return nil
		case <-c.Request().Context().Done():
			return nil
		}
	}
}
