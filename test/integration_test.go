//go:build integration

package test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/user/privai/internal/app"
	"github.com/user/privai/internal/orchestrator"
	"github.com/user/privai/internal/store"
	"github.com/user/privai/internal/types"
	"github.com/user/privai/pkg/llm"
)

type scriptStream struct {
	frames []string
	i      int
}

func (s *scriptStream) Recv() (string, error) {
	if s.i >= len(s.frames) {
		return "", io.EOF
	}
	f := s.frames[s.i]
	s.i++
	return f, nil
}

func (s *scriptStream) Close() error { return nil }

type scriptProvider struct{ frames []string }

func (p *scriptProvider) Chat(context.Context, []llm.Message, llm.Config, string) (llm.Stream, error) {
	return &scriptStream{frames: p.frames}, nil
}

func newApp(t *testing.T, dir string) (*app.App, types.Store) {
	t.Helper()
	orch := orchestrator.New()
	orch.Register(types.ProviderOpenAI, &scriptProvider{frames: []string{"Hi", " there"}})

	st := store.Open(dir)
	a, err := app.New(st, orch, app.Options{
		Logger:         slog.New(slog.NewTextHandler(io.Discard, nil)),
		DebounceWindow: 20 * time.Millisecond,
	})
	if err != nil {
		t.Fatal(err)
	}
	if err := a.Hydrate(context.Background()); err != nil {
		t.Fatal(err)
	}
	return a, st
}

// TestEndToEnd drives a full turn through the real store and checks the
// conversation survives a process restart.
func TestEndToEnd(t *testing.T) {
	dir := t.TempDir()

	a, ast := newApp(t, dir)
	a.Dispatch(app.SetAPIKey{Provider: types.ProviderOpenAI, Key: "sk-test"})
	sess := types.NewChatSession("Integration", types.ModelConfig{Provider: types.ProviderOpenAI, ModelID: "gpt-4o"})
	a.Dispatch(app.CreateSession{Session: sess})

	if _, err := a.Send(context.Background(), "Hello", nil); err != nil {
		t.Fatal(err)
	}
	a.Hide()
	a.Close()
	ast.Close()

	// Restart over the same data dir.
	b, bst := newApp(t, dir)
	defer bst.Close()
	defer b.Close()

	state := b.State()
	if len(state.Sessions) != 1 {
		t.Fatalf("expected 1 session after restart, got %d", len(state.Sessions))
	}
	got := state.Sessions[0]
	if len(got.Messages) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(got.Messages))
	}
	if got.Messages[1].Content != "Hi there" {
		t.Fatalf("unexpected reply %q", got.Messages[1].Content)
	}
	if state.APIKeys[types.ProviderOpenAI] != "sk-test" {
		t.Fatal("credential did not survive restart")
	}
}
