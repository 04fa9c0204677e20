// Package deepseek provides the DeepSeek adapter over the
// OpenAI-compatible client.
package deepseek

import "github.com/user/privai/pkg/llm/openai"

const defaultBaseURL = "https://api.deepseek.com"

// New creates a DeepSeek client with the reasoning-model temperature
// guard enabled.
func New() *openai.Client {
	return openai.NewCompat("DeepSeek", defaultBaseURL, true)
}
