package deepseek

import (
	"context"
	"errors"
	"testing"

	"github.com/user/privai/pkg/llm"
)

func TestDeepSeekCredentialError(t *testing.T) {
	_, err := New().Chat(context.Background(), nil, llm.Config{Model: "deepseek-chat"}, "")
	var credErr *llm.CredentialError
	if !errors.As(err, &credErr) || credErr.Provider != "DeepSeek" {
		t.Fatalf("expected DeepSeek CredentialError, got %v", err)
	}
}
