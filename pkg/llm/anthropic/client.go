// Package anthropic implements the llm.Provider interface for the
// Anthropic messages API.
package anthropic

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/user/privai/pkg/llm"
)

const (
	defaultBaseURL = "https://api.anthropic.com/v1"
	apiVersion     = "2023-06-01"
	maxTokens      = 4096
)

// Client implements llm.Provider for Anthropic.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New creates an Anthropic client.
func New() *Client {
	return &Client{
		baseURL: defaultBaseURL,
		httpClient: &http.Client{
			Timeout: 5 * time.Minute,
		},
	}
}

type chatRequest struct {
	Model       string        `json:"model"`
	MaxTokens   int           `json:"max_tokens"`
	Messages    []llm.Message `json:"messages"`
	System      string        `json:"system,omitempty"`
	Temperature *float32      `json:"temperature,omitempty"`
	Stream      bool          `json:"stream"`
}

// frame is the relevant slice of a streaming event.
type frame struct {
	Type  string `json:"type"`
	Delta struct {
		Text string `json:"text"`
	} `json:"delta"`
}

// Chat sends a streaming messages request. Anthropic has no inline system
// turn: any system-role message is hoisted into the top-level system field
// and excluded from the turn list.
func (c *Client) Chat(ctx context.Context, messages []llm.Message, cfg llm.Config, apiKey string) (llm.Stream, error) {
	if apiKey == "" {
		return nil, &llm.CredentialError{Provider: "Anthropic"}
	}

	var system string
	turns := make([]llm.Message, 0, len(messages))
	for _, m := range messages {
		if m.Role == llm.RoleSystem {
			if system == "" {
				system = m.Content
			}
			continue
		}
		role := llm.RoleUser
		if m.Role == llm.RoleAssistant {
			role = llm.RoleAssistant
		}
		turns = append(turns, llm.Message{Role: role, Content: m.Content})
	}

	reqBody := chatRequest{
		Model:       cfg.Model,
		MaxTokens:   maxTokens,
		Messages:    turns,
		System:      system,
		Temperature: cfg.Temperature,
		Stream:      true,
	}
	body, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("marshaling request: %w", err)
	}

	baseURL := c.baseURL
	if cfg.BaseURL != "" {
		baseURL = cfg.BaseURL
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, baseURL+"/messages", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", apiKey)
	req.Header.Set("anthropic-version", apiVersion)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("sending request: %w", err)
	}
	if err := llm.CheckResponse("Anthropic", resp); err != nil {
		return nil, err
	}

	return llm.NewSSEStream(resp, extract), nil
}

// extract yields delta.text from content_block_delta frames only. Other
// event types (message_start, ping, content_block_stop) carry no text.
func extract(payload []byte) (string, bool) {
	var f frame
	if err := json.Unmarshal(payload, &f); err != nil {
		return "", false
	}
	if f.Type != "content_block_delta" {
		return "", false
	}
	return f.Delta.Text, false
}
