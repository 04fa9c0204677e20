package httpapi

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/user/privai/internal/app"
	"github.com/user/privai/internal/catalog"
	"github.com/user/privai/internal/types"
)

// GetSettings returns the settings slice of state.
// GET /api/settings
func (h *Handler) GetSettings(c echo.Context) error {
	state := h.app.State()
	return c.JSON(http.StatusOK, map[string]any{
		"theme":              state.Theme,
		"textSize":           state.TextSize,
		"apiKeys":            state.APIKeys,
		"defaultModelConfig": state.DefaultModelConfig,
	})
}

// UpdateSettings applies a partial settings update. Absent fields are
// left alone; api keys are merged per provider, empty string clears one.
// PUT /api/settings
func (h *Handler) UpdateSettings(c echo.Context) error {
	var req struct {
		Theme              *string            `json:"theme"`
		TextSize           *string            `json:"textSize"`
		APIKeys            map[string]string  `json:"apiKeys"`
		DefaultModelConfig *types.ModelConfig `json:"defaultModelConfig"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid body"})
	}

	if req.Theme != nil {
		h.app.Dispatch(app.SetTheme{Theme: *req.Theme})
	}
	if req.TextSize != nil {
		h.app.Dispatch(app.SetTextSize{Size: *req.TextSize})
	}
	for provider, key := range req.APIKeys {
		h.app.Dispatch(app.SetAPIKey{Provider: provider, Key: key})
	}
	if req.DefaultModelConfig != nil {
		h.app.Dispatch(app.SetDefaultModel{Config: *req.DefaultModelConfig})
	}
	return h.GetSettings(c)
}

// ListModels returns the models offerable with the stored credentials.
// GET /api/models
func (h *Handler) ListModels(c echo.Context) error {
	state := h.app.State()
	return c.JSON(http.StatusOK, map[string]any{
		"models": catalog.Available(state.APIKeys),
	})
}
