package chat

import (
	"context"
	"errors"
	"testing"

	"portfolio-server/internal/llm"
	"portfolio-server/internal/prompt"
)

type fakeLLM struct {
	reply string
	err   error
	got   []llm.Message
}

func (f *fakeLLM) Generate(ctx context.Context, messages []llm.Message) (llm.Response, error) {
	f.got = messages
	if f.err != nil {
		return llm.Response{}, f.err
	}
	return llm.Response{Content: f.reply}, nil
}

type staticSource struct{ text string }

func (s staticSource) Instructions(ctx context.Context) (string, error) { return s.text, nil }

func newCache(text string) *prompt.Cache {
	return prompt.NewCache(staticSource{text: text})
}

func TestReplyPrependsSystemPrompt(t *testing.T) {
	f := &fakeLLM{reply: "hello there"}
	g := New(f, newCache("Be concise."))

	out, err := g.Reply(context.Background(), []llm.Message{{Role: "user", Content: "hi"}}, "")
	if err != nil {
		t.Fatalf("reply: %v", err)
	}
	if out != "hello there" {
		t.Fatalf("unexpected reply: %q", out)
	}
	if len(f.got) != 2 {
		t.Fatalf("expected system + user, got %d messages", len(f.got))
	}
	if f.got[0].Role != "system" || f.got[0].Content != "Be concise." {
		t.Fatalf("unexpected system message: %+v", f.got[0])
	}
	if f.got[1].Role != "user" || f.got[1].Content != "hi" {
		t.Fatalf("unexpected user message: %+v", f.got[1])
	}
}

func TestReplySimulatedWithoutClient(t *testing.T) {
	g := New(nil, newCache("whatever"))

	out, err := g.Reply(context.Background(), []llm.Message{{Role: "user", Content: "hi"}}, "")
	if err != nil {
		t.Fatalf("simulated path must not fail: %v", err)
	}
	if out != SimulatedReply {
		t.Fatalf("unexpected reply: %q", out)
	}
}

func TestReplyRejectsBadHistory(t *testing.T) {
	g := New(&fakeLLM{}, newCache(""))

	if _, err := g.Reply(context.Background(), nil, ""); err == nil {
		t.Fatalf("empty history must be rejected")
	}
	bad := []llm.Message{{Role: "system", Content: "sneaky"}}
	if _, err := g.Reply(context.Background(), bad, ""); err == nil {
		t.Fatalf("non user/assistant role must be rejected")
	}
}

func TestReplyWrapsCompletionFailure(t *testing.T) {
	f := &fakeLLM{err: errors.New("429 too many requests")}
	g := New(f, newCache("x"))

	_, err := g.Reply(context.Background(), []llm.Message{{Role: "user", Content: "hi"}}, "")
	if !errors.Is(err, ErrCompletionFailed) {
		t.Fatalf("expected ErrCompletionFailed, got %v", err)
	}
}

func TestReplyOverrideReachesModel(t *testing.T) {
	f := &fakeLLM{reply: "ok"}
	g := New(f, newCache("from store"))

	if _, err := g.Reply(context.Background(), []llm.Message{{Role: "user", Content: "hi"}}, "override wins"); err != nil {
		t.Fatalf("reply: %v", err)
	}
	if f.got[0].Content != "override wins" {
		t.Fatalf("override not used as system prompt: %q", f.got[0].Content)
	}
}
