// Package openai implements the llm.Provider interface for the OpenAI
// chat completions API and the compatible endpoints exposed by other
// vendors (Groq, DeepSeek).
package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/user/privai/pkg/llm"
)

const defaultBaseURL = "https://api.openai.com/v1"

// Client implements llm.Provider for OpenAI-compatible APIs.
type Client struct {
	name       string
	baseURL    string
	httpClient *http.Client

	// reasoningGuard suppresses the temperature parameter for reasoning
	// model ids (o1/o3 prefixes), which reject it.
	reasoningGuard bool
}

// New creates a client for the OpenAI API.
func New() *Client {
	return NewCompat("OpenAI", defaultBaseURL, true)
}

// NewCompat creates a client for an OpenAI-compatible endpoint under a
// different vendor name and base URL.
func NewCompat(name, baseURL string, reasoningGuard bool) *Client {
	return &Client{
		name:           name,
		baseURL:        baseURL,
		reasoningGuard: reasoningGuard,
		httpClient: &http.Client{
			Timeout: 5 * time.Minute,
		},
	}
}

// chatRequest is the chat completions request body.
type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []llm.Message `json:"messages"`
	Temperature *float32      `json:"temperature,omitempty"`
	Stream      bool          `json:"stream"`
}

// chunk is the relevant slice of a streaming completion frame.
type chunk struct {
	Choices []struct {
		Delta struct {
			Content string `json:"content"`
		} `json:"delta"`
	} `json:"choices"`
}

func isReasoningModel(modelID string) bool {
	return strings.HasPrefix(modelID, "o1") || strings.HasPrefix(modelID, "o3")
}

// Chat sends a streaming completion request and returns the token stream.
func (c *Client) Chat(ctx context.Context, messages []llm.Message, cfg llm.Config, apiKey string) (llm.Stream, error) {
	if apiKey == "" {
		return nil, &llm.CredentialError{Provider: c.name}
	}

	reqBody := chatRequest{
		Model:    cfg.Model,
		Messages: messages,
		Stream:   true,
	}
	if !(c.reasoningGuard && isReasoningModel(cfg.Model)) {
		reqBody.Temperature = cfg.Temperature
	}

	body, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("marshaling request: %w", err)
	}

	baseURL := c.baseURL
	if cfg.BaseURL != "" {
		baseURL = cfg.BaseURL
	}
	url := baseURL + "/chat/completions"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("sending request: %w", err)
	}
	if err := llm.CheckResponse(c.name, resp); err != nil {
		return nil, err
	}

	return llm.NewSSEStream(resp, extract), nil
}

// extract pulls choices[0].delta.content out of one frame. `[DONE]`
// terminates the stream; unparseable frames are skipped.
func extract(payload []byte) (string, bool) {
	if bytes.Equal(payload, []byte("[DONE]")) {
		return "", true
	}
	var ch chunk
	if err := json.Unmarshal(payload, &ch); err != nil {
		return "", false
	}
	if len(ch.Choices) == 0 {
		return "", false
	}
	return ch.Choices[0].Delta.Content, false
}
