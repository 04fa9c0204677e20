// Package catalog holds the static table of selectable models and the
// credential-based availability policy.
package catalog

import "github.com/user/privai/internal/types"

// ModelDefinition describes one selectable model.
type ModelDefinition struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	ProviderID    string `json:"providerId"`
	IsFree        bool   `json:"isFree"`
	ContextWindow int    `json:"contextWindow,omitempty"`
	Description   string `json:"description,omitempty"`
}

// AvailableModels is the master list of models the client can offer.
var AvailableModels = []ModelDefinition{
	// Free models (Groq - requires free API key from console.groq.com)
	{ID: "llama-3.3-70b-versatile", Name: "Llama 3.3 70B", ProviderID: types.ProviderGroq, IsFree: true, ContextWindow: 128000, Description: "Meta's latest, most capable open model"},
	{ID: "llama-3.1-8b-instant", Name: "Llama 3.1 8B", ProviderID: types.ProviderGroq, IsFree: true, ContextWindow: 128000, Description: "Fast, lightweight model for quick tasks"},
	{ID: "mixtral-8x7b-32768", Name: "Mixtral 8x7B", ProviderID: types.ProviderGroq, IsFree: true, ContextWindow: 32768, Description: "Mistral's powerful MoE model"},
	{ID: "gemma2-9b-it", Name: "Gemma 2 9B", ProviderID: types.ProviderGroq, IsFree: true, ContextWindow: 8192, Description: "Google's efficient open model"},

	// OpenAI
	{ID: "gpt-4o", Name: "GPT-4o", ProviderID: types.ProviderOpenAI, IsFree: false, ContextWindow: 128000, Description: "OpenAI's flagship multimodal model"},
	{ID: "gpt-4o-mini", Name: "GPT-4o Mini", ProviderID: types.ProviderOpenAI, IsFree: false, ContextWindow: 128000, Description: "Fast and affordable"},
	{ID: "gpt-4-turbo", Name: "GPT-4 Turbo", ProviderID: types.ProviderOpenAI, IsFree: false, ContextWindow: 128000, Description: "High intelligence model"},
	{ID: "gpt-3.5-turbo", Name: "GPT-3.5 Turbo", ProviderID: types.ProviderOpenAI, IsFree: false, ContextWindow: 16385, Description: "Fast and cost-effective"},
	{ID: "o3-mini", Name: "OpenAI o3-mini", ProviderID: types.ProviderOpenAI, IsFree: false, ContextWindow: 128000, Description: "OpenAI's latest reasoning model"},

	// Anthropic
	{ID: "claude-3-5-sonnet-20241022", Name: "Claude 3.5 Sonnet", ProviderID: types.ProviderAnthropic, IsFree: false, ContextWindow: 200000, Description: "Anthropic's balanced flagship"},
	{ID: "claude-3-opus-20240229", Name: "Claude 3 Opus", ProviderID: types.ProviderAnthropic, IsFree: false, ContextWindow: 200000, Description: "Most capable Claude model"},
	{ID: "claude-3-haiku-20240307", Name: "Claude 3 Haiku", ProviderID: types.ProviderAnthropic, IsFree: false, ContextWindow: 200000, Description: "Fast and compact"},

	// DeepSeek
	{ID: "deepseek-chat", Name: "DeepSeek V3", ProviderID: types.ProviderDeepSeek, IsFree: false, ContextWindow: 64000, Description: "DeepSeek's flagship chat model"},
	{ID: "deepseek-reasoner", Name: "DeepSeek R1", ProviderID: types.ProviderDeepSeek, IsFree: false, ContextWindow: 64000, Description: "Advanced reasoning model"},

	// Gemini
	{ID: "gemini-3-pro-exp", Name: "Gemini 3 Pro (Exp)", ProviderID: types.ProviderGemini, IsFree: false, ContextWindow: 10000000, Description: "Experimental release"},
}

// Available returns the models offerable given the stored credentials.
// Free models are always listed (the Groq key check happens at call time
// in the adapter); paid models require that provider's key.
func Available(apiKeys map[string]string) []ModelDefinition {
	out := make([]ModelDefinition, 0, len(AvailableModels))
	for _, m := range AvailableModels {
		if m.IsFree || apiKeys[m.ProviderID] != "" {
			out = append(out, m)
		}
	}
	return out
}

// ByID returns the model definition for the given id.
func ByID(modelID string) (ModelDefinition, bool) {
	for _, m := range AvailableModels {
		if m.ID == modelID {
			return m, true
		}
	}
	return ModelDefinition{}, false
}

// NewModelConfig builds a ModelConfig value copy for the given model.
func NewModelConfig(m ModelDefinition, temperature float32) types.ModelConfig {
	return types.ModelConfig{
		Provider:    m.ProviderID,
		ModelID:     m.ID,
		Temperature: &temperature,
	}
}
