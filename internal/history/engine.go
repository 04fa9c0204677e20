// Package history decides which part of a conversation is sent to the
// provider on each turn.
package history

import (
	"log/slog"

	"github.com/pkoukk/tiktoken-go"

	"github.com/user/privai/internal/types"
	"github.com/user/privai/pkg/llm"
)

// outputReserve is the number of tokens held back for the model's reply
// when trimming against a context window.
const outputReserve = 4096

// Engine applies the outbound history policy: a fixed-count tail of the
// conversation, further trimmed by a token estimate when the model's
// context window would otherwise overflow.
type Engine struct {
	tokenizer *tiktoken.Tiktoken
	window    int
}

// New creates an engine keeping at most window trailing messages. The
// tokenizer vocabulary may need a one-time download; when it cannot be
// loaded (offline first run) the engine falls back to a byte-length
// estimate instead of blocking startup.
func New(window int) *Engine {
	if window <= 0 {
		window = 10
	}
	enc, err := tiktoken.GetEncoding("cl100k_base")
	if err != nil {
		slog.Warn("tokenizer unavailable, using byte-length token estimate", "error", err)
	}
	return &Engine{tokenizer: enc, window: window}
}

// countTokens uses the tokenizer when available, else the conventional
// 4-bytes-per-token estimate.
func (e *Engine) countTokens(text string) int {
	if e.tokenizer == nil {
		return len(text)/4 + 1
	}
	return len(e.tokenizer.Encode(text, nil, nil))
}

// Window maps the session tail to outbound messages. contextWindow is the
// model's context size in tokens; zero disables the token guard.
// Attachment payloads never leave the device.
func (e *Engine) Window(messages []types.Message, contextWindow int) []llm.Message {
	start := 0
	if len(messages) > e.window {
		start = len(messages) - e.window
	}
	tail := messages[start:]

	out := make([]llm.Message, len(tail))
	for i, m := range tail {
		out[i] = llm.Message{Role: string(m.Role), Content: m.Content}
	}

	if contextWindow <= 0 {
		return out
	}
	budget := contextWindow - outputReserve
	if budget <= 0 {
		return out
	}

	// Drop oldest-first until the estimate fits. The newest message is
	// always kept so the user's turn is never trimmed away.
	total := 0
	for _, m := range out {
		total += e.countTokens(m.Content)
	}
	for len(out) > 1 && total > budget {
		total -= e.countTokens(out[0].Content)
		out = out[1:]
	}
	return out
}
