// Package gemini implements the llm.Provider interface for the Google
// Gemini generateContent API.
package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/user/privai/pkg/llm"
)

const defaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"

// Client implements llm.Provider for Gemini.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New creates a Gemini client.
func New() *Client {
	return &Client{
		baseURL: defaultBaseURL,
		httpClient: &http.Client{
			Timeout: 5 * time.Minute,
		},
	}
}

type content struct {
	Role  string `json:"role"`
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type chatRequest struct {
	Contents         []content        `json:"contents"`
	GenerationConfig generationConfig `json:"generationConfig"`
}

type generationConfig struct {
	Temperature *float32 `json:"temperature,omitempty"`
}

// frame is the relevant slice of a streaming response chunk.
type frame struct {
	Candidates []struct {
		Content struct {
			Parts []part `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

// Chat sends a streaming generateContent request. Gemini addresses the
// model in the URL path and authenticates with a key query parameter;
// roles are remapped (assistant becomes model, everything else user) and
// each message's text is wrapped in a single content part.
func (c *Client) Chat(ctx context.Context, messages []llm.Message, cfg llm.Config, apiKey string) (llm.Stream, error) {
	if apiKey == "" {
		return nil, &llm.CredentialError{Provider: "Gemini"}
	}

	contents := make([]content, len(messages))
	for i, m := range messages {
		role := "user"
		if m.Role == llm.RoleAssistant {
			role = "model"
		}
		contents[i] = content{Role: role, Parts: []part{{Text: m.Content}}}
	}

	body, err := json.Marshal(chatRequest{
		Contents:         contents,
		GenerationConfig: generationConfig{Temperature: cfg.Temperature},
	})
	if err != nil {
		return nil, fmt.Errorf("marshaling request: %w", err)
	}

	baseURL := c.baseURL
	if cfg.BaseURL != "" {
		baseURL = cfg.BaseURL
	}
	endpoint := fmt.Sprintf("%s/models/%s:streamGenerateContent?key=%s&alt=sse",
		baseURL, cfg.Model, url.QueryEscape(apiKey))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("sending request: %w", err)
	}
	if err := llm.CheckResponse("Gemini", resp); err != nil {
		return nil, err
	}

	return llm.NewSSEStream(resp, extract), nil
}

// extract yields candidates[0].content.parts[0].text. Gemini sends no
// [DONE] marker; the stream ends when the connection closes.
func extract(payload []byte) (string, bool) {
	var f frame
	if err := json.Unmarshal(payload, &f); err != nil {
		return "", false
	}
	if len(f.Candidates) == 0 || len(f.Candidates[0].Content.Parts) == 0 {
		return "", false
	}
	return f.Candidates[0].Content.Parts[0].Text, false
}
