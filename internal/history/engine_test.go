package history

import (
	"fmt"
	"strings"
	"testing"

	"github.com/user/privai/internal/types"
)

func messages(n int) []types.Message {
	out := make([]types.Message, n)
	for i := range out {
		out[i] = types.Message{
			ID:      types.MessageID(fmt.Sprintf("m%d", i)),
			Role:    types.RoleUser,
			Content: fmt.Sprintf("message %d", i),
		}
	}
	return out
}

func TestWindowKeepsTail(t *testing.T) {
	e := New(10)

	out := e.Window(messages(25), 0)
	if len(out) != 10 {
		t.Fatalf("expected 10 messages, got %d", len(out))
	}
	if out[0].Content != "message 15" {
		t.Errorf("expected tail to start at message 15, got %q", out[0].Content)
	}
	if out[9].Content != "message 24" {
		t.Errorf("expected tail to end at message 24, got %q", out[9].Content)
	}
}

func TestWindowShortHistoryUnchanged(t *testing.T) {
	e := New(10)
	out := e.Window(messages(3), 0)
	if len(out) != 3 {
		t.Errorf("expected all 3 messages, got %d", len(out))
	}
}

func TestWindowTokenGuardDropsOldest(t *testing.T) {
	e := New(10)

	big := strings.Repeat("lorem ipsum dolor sit amet ", 400)
	msgs := []types.Message{
		{ID: "m0", Role: types.RoleUser, Content: big},
		{ID: "m1", Role: types.RoleAssistant, Content: big},
		{ID: "m2", Role: types.RoleUser, Content: "latest"},
	}

	// Context window barely above the reserve forces trimming, but the
	// newest message must survive.
	out := e.Window(msgs, outputReserve+50)
	if len(out) != 1 {
		t.Fatalf("expected trim to 1 message, got %d", len(out))
	}
	if out[0].Content != "latest" {
		t.Errorf("newest message trimmed away: %q", out[0].Content)
	}
}

func TestWindowConfigurableCount(t *testing.T) {
	e := New(2)
	out := e.Window(messages(5), 0)
	if len(out) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(out))
	}
	if out[0].Content != "message 3" {
		t.Errorf("expected message 3 first, got %q", out[0].Content)
	}
}

func TestWindowWithoutTokenizer(t *testing.T) {
	// The vocabulary download can fail on an offline first run; the
	// engine must still window and trim with the byte-length estimate.
	e := &Engine{window: 10}

	big := strings.Repeat("lorem ipsum dolor sit amet ", 400)
	msgs := []types.Message{
		{ID: "m0", Role: types.RoleUser, Content: big},
		{ID: "m1", Role: types.RoleAssistant, Content: big},
		{ID: "m2", Role: types.RoleUser, Content: "latest"},
	}

	out := e.Window(msgs, outputReserve+50)
	if len(out) != 1 {
		t.Fatalf("expected trim to 1 message, got %d", len(out))
	}
	if out[0].Content != "latest" {
		t.Errorf("newest message trimmed away: %q", out[0].Content)
	}

	if got := e.Window(messages(25), 0); len(got) != 10 {
		t.Fatalf("expected 10 messages, got %d", len(got))
	}
}
