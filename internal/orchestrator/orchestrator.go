// Package orchestrator selects the provider adapter for a request and
// drives its token stream to completion.
package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/user/privai/internal/types"
	"github.com/user/privai/pkg/llm"
	"github.com/user/privai/pkg/llm/anthropic"
	"github.com/user/privai/pkg/llm/deepseek"
	"github.com/user/privai/pkg/llm/gemini"
	"github.com/user/privai/pkg/llm/groq"
	"github.com/user/privai/pkg/llm/openai"
)

// ErrUnknownProvider reports a provider id with no registered adapter.
// This is a programming error, not a user-facing retry case.
var ErrUnknownProvider = errors.New("provider not implemented")

// Orchestrator dispatches completion requests to provider adapters.
type Orchestrator struct {
	adapters map[string]llm.Provider
}

// New creates an Orchestrator with all five vendor adapters registered.
func New() *Orchestrator {
	return &Orchestrator{
		adapters: map[string]llm.Provider{
			types.ProviderOpenAI:    openai.New(),
			types.ProviderGroq:      groq.New(),
			types.ProviderDeepSeek:  deepseek.New(),
			types.ProviderAnthropic: anthropic.New(),
			types.ProviderGemini:    gemini.New(),
		},
	}
}

// Register adds or replaces the adapter for a provider id. Adding a vendor
// is one Register call; the streaming loop never changes.
func (o *Orchestrator) Register(id string, p llm.Provider) {
	o.adapters[id] = p
}

// Adapter returns the adapter for the given provider id.
func (o *Orchestrator) Adapter(id string) (llm.Provider, error) {
	p, ok := o.adapters[id]
	if !ok {
		return nil, fmt.Errorf("provider %q: %w", id, ErrUnknownProvider)
	}
	return p, nil
}

// StreamChat drives a completion to its end, concatenating every increment
// onto a running total and invoking onUpdate with the cumulative text after
// each, so callers can always replace-in-place. Cancelling ctx stops
// consumption cleanly: the accumulated text so far is returned with a nil
// error and no further callbacks fire. Adapter errors propagate unwrapped.
func (o *Orchestrator) StreamChat(ctx context.Context, messages []llm.Message, cfg llm.Config, apiKey string, onUpdate func(string)) (string, error) {
	adapter, err := o.Adapter(cfg.Provider)
	if err != nil {
		return "", err
	}

	stream, err := adapter.Chat(ctx, messages, cfg, apiKey)
	if err != nil {
		return "", err
	}
	defer stream.Close()

	var full string
	for {
		if ctx.Err() != nil {
			return full, nil
		}
		text, err := stream.Recv()
		if err == io.EOF {
			return full, nil
		}
		if err != nil {
			if errors.Is(err, context.Canceled) || ctx.Err() != nil {
				return full, nil
			}
			return full, err
		}
		full += text
		onUpdate(full)
	}
}
