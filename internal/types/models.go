// internal/types/models.go
package types

import "time"

// Role identifies the author of a message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
)

// Provider identifiers for the supported LLM vendors.
const (
	ProviderOpenAI    = "openai"
	ProviderGroq      = "groq"
	ProviderDeepSeek  = "deepseek"
	ProviderAnthropic = "anthropic"
	ProviderGemini    = "gemini"
)

// AttachmentType classifies an attachment payload.
type AttachmentType string

const (
	AttachmentImage AttachmentType = "image"
	AttachmentFile  AttachmentType = "file"
)

// Attachment is a payload attached to a message at compose time.
// Data holds the base64-encoded content.
type Attachment struct {
	ID       AttachmentID   `json:"id"`
	Type     AttachmentType `json:"type"`
	Name     string         `json:"name"`
	Data     string         `json:"data"`
	MimeType string         `json:"mimeType"`
}

// Message is a single turn in a conversation. Content is the only mutable
// field; streaming updates replace it wholesale with the accumulated text.
type Message struct {
	ID          MessageID    `json:"id"`
	Role        Role         `json:"role"`
	Content     string       `json:"content"`
	Timestamp   time.Time    `json:"timestamp"`
	Model       string       `json:"model,omitempty"`
	Attachments []Attachment `json:"attachments,omitempty"`
}

// ModelConfig selects a provider and model for completions. Sessions hold
// a value copy taken at creation time, so later default changes do not
// alter past sessions.
type ModelConfig struct {
	Provider    string   `json:"provider"`
	ModelID     string   `json:"modelId"`
	Temperature *float32 `json:"temperature,omitempty"`
	APIKey      string   `json:"apiKey,omitempty"`
	BaseURL     string   `json:"baseUrl,omitempty"`
}

// ChatSession is one conversation. Messages are in chronological append
// order; UpdatedAt must be refreshed on every message mutation.
type ChatSession struct {
	ID          SessionID   `json:"id"`
	Title       string      `json:"title"`
	Messages    []Message   `json:"messages"`
	CreatedAt   time.Time   `json:"createdAt"`
	UpdatedAt   time.Time   `json:"updatedAt"`
	ModelConfig ModelConfig `json:"modelConfig"`
}

// NewChatSession creates an empty session using a value copy of cfg.
func NewChatSession(title string, cfg ModelConfig) *ChatSession {
	now := time.Now()
	return &ChatSession{
		ID:          NewSessionID(),
		Title:       title,
		Messages:    []Message{},
		CreatedAt:   now,
		UpdatedAt:   now,
		ModelConfig: cfg,
	}
}

// Clone returns a deep copy. The reducer returns fresh state values, so
// mutations are never visible through previously handed-out snapshots.
func (s *ChatSession) Clone() *ChatSession {
	out := *s
	out.Messages = make([]Message, len(s.Messages))
	for i, m := range s.Messages {
		out.Messages[i] = m
		if len(m.Attachments) > 0 {
			out.Messages[i].Attachments = append([]Attachment(nil), m.Attachments...)
		}
	}
	return &out
}
