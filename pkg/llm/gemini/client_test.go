package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/user/privai/pkg/llm"
)

func candidateFrame(text string) string {
	b, _ := json.Marshal(map[string]any{
		"candidates": []map[string]any{
			{"content": map[string]any{"parts": []map[string]any{{"text": text}}}},
		},
	})
	return fmt.Sprintf("data: %s\n\n", b)
}

func TestChatRoleMappingAndURL(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/models/gemini-3-pro-exp:streamGenerateContent") {
			t.Errorf("model missing from URL path: %q", r.URL.Path)
		}
		if r.URL.Query().Get("key") != "test-key" {
			t.Error("expected key query parameter")
		}
		if r.URL.Query().Get("alt") != "sse" {
			t.Error("expected alt=sse query parameter")
		}

		var reqBody struct {
			Contents []struct {
				Role  string `json:"role"`
				Parts []struct {
					Text string `json:"text"`
				} `json:"parts"`
			} `json:"contents"`
		}
		json.NewDecoder(r.Body).Decode(&reqBody)

		wantRoles := []string{"user", "user", "model"}
		if len(reqBody.Contents) != len(wantRoles) {
			t.Fatalf("expected %d contents, got %d", len(wantRoles), len(reqBody.Contents))
		}
		for i, want := range wantRoles {
			if reqBody.Contents[i].Role != want {
				t.Errorf("content %d: expected role %q, got %q", i, want, reqBody.Contents[i].Role)
			}
			if len(reqBody.Contents[i].Parts) != 1 {
				t.Errorf("content %d: expected a single part", i)
			}
		}

		fmt.Fprint(w, candidateFrame("streamed"))
		fmt.Fprint(w, candidateFrame(" reply"))
	}))
	defer server.Close()

	client := New()
	stream, err := client.Chat(context.Background(), []llm.Message{
		{Role: "system", Content: "be helpful"},
		{Role: "user", Content: "hi"},
		{Role: "assistant", Content: "hey"},
	}, llm.Config{Model: "gemini-3-pro-exp", BaseURL: server.URL}, "test-key")
	if err != nil {
		t.Fatal(err)
	}
	defer stream.Close()

	var got string
	for {
		text, err := stream.Recv()
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatal(err)
		}
		got += text
	}
	if got != "streamed reply" {
		t.Errorf("expected %q, got %q", "streamed reply", got)
	}
}

func TestChatCredentialError(t *testing.T) {
	_, err := New().Chat(context.Background(), nil, llm.Config{Model: "gemini-3-pro-exp"}, "")
	var credErr *llm.CredentialError
	if !errors.As(err, &credErr) || credErr.Provider != "Gemini" {
		t.Fatalf("expected Gemini CredentialError, got %v", err)
	}
}
