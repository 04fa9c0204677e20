package llm

// Message is a single chat turn in the canonical format shared by all
// provider adapters. Adapters remap roles to vendor conventions.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Config holds the per-request model configuration.
type Config struct {
	Provider    string
	Model       string
	Temperature *float32
	BaseURL     string
}

// Message roles understood by the adapters.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleSystem    = "system"
)
