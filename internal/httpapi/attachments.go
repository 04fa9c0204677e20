package httpapi

import (
	"io"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/user/privai/internal/attach"
)

// maxUploadBytes caps attachment uploads; payloads are stored inline in
// the session document, so huge files would bloat every save.
const maxUploadBytes = 10 << 20

// UploadAttachment builds an attachment from an uploaded file. The
// payload is returned base64-encoded for the client to include in its
// next send.
// POST /api/attachments
func (h *Handler) UploadAttachment(c echo.Context) error {
	fh, err := c.FormFile("file")
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "missing file field"})
	}
	if fh.Size > maxUploadBytes {
		return c.JSON(http.StatusRequestEntityTooLarge, map[string]string{"error": "file too large"})
	}

	f, err := fh.Open()
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "unreadable file"})
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, maxUploadBytes))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "unreadable file"})
	}

	mimeType := fh.Header.Get("Content-Type")
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}
	return c.JSON(http.StatusCreated, attach.FromBytes(fh.Filename, mimeType, data))
}

// ImportURL fetches a web page and attaches it as markdown.
// POST /api/attachments/url
func (h *Handler) ImportURL(c echo.Context) error {
	var req struct {
		URL string `json:"url"`
	}
	if err := c.Bind(&req); err != nil || req.URL == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "url required"})
	}

	att, err := h.importer.FromURL(c.Request().Context(), req.URL)
	if err != nil {
		h.log.Warn("url import failed", "url", req.URL, "error", err)
		return c.JSON(http.StatusBadGateway, map[string]string{"error": err.Error()})
	}
	return c.JSON(http.StatusCreated, att)
}
