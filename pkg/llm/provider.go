package llm

import "context"

// Provider defines the interface for streaming chat completions from an
// LLM backend. Implementations handle vendor-specific request formatting,
// authentication, and response decoding.
type Provider interface {
	// Chat sends a streaming chat completion request. The returned Stream
	// yields text increments in network-arrival order. Cancelling ctx
	// aborts the underlying network call.
	Chat(ctx context.Context, messages []Message, cfg Config, apiKey string) (Stream, error)
}

// Stream is a lazy sequence of text increments from one completion call.
// Recv returns io.EOF once the sequence is exhausted; a Stream is not
// restartable after exhaustion.
type Stream interface {
	Recv() (string, error)
	Close() error
}
