// Package groq provides the Groq adapter. Groq exposes an
// OpenAI-compatible endpoint, so the client is a thin wrapper.
package groq

import "github.com/user/privai/pkg/llm/openai"

const defaultBaseURL = "https://api.groq.com/openai/v1"

// New creates a Groq client. Groq hosts no reasoning-tier models, so the
// temperature parameter is always passed through.
func New() *openai.Client {
	return openai.NewCompat("Groq", defaultBaseURL, false)
}
