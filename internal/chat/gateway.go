package chat

import (
	"context"
	"errors"
	"fmt"
	"log"

	"portfolio-server/internal/llm"
	"portfolio-server/internal/prompt"
)

// ErrCompletionFailed wraps any failure of the completion provider. The
// gateway does not retry; the caller decides how to surface it.
var ErrCompletionFailed = errors.New("chat completion failed")

// SimulatedReply is returned when no completion credential is configured.
// Deliberately distinguishable so operators notice the unconfigured integration.
const SimulatedReply = "This is a simulated response because no AI provider API key is configured. " +
	"Add your API key to use the real assistant."

type Gateway struct {
	client llm.Client
	cache  *prompt.Cache
}

// New builds a gateway. A nil client is valid and enables the simulated-reply
// degrade path.
func New(client llm.Client, cache *prompt.Cache) *Gateway {
	return &Gateway{client: client, cache: cache}
}

// Reply produces the assistant reply for a conversation. The override, when
// non-empty, replaces the cached instructions for this and subsequent turns.
func (g *Gateway) Reply(ctx context.Context, history []llm.Message, override string) (string, error) {
	if len(history) == 0 {
		return "", fmt.Errorf("conversation history is empty")
	}
	for i, m := range history {
		if m.Role != llm.RoleUser && m.Role != llm.RoleAssistant {
			return "", fmt.Errorf("message %d has invalid role %q", i, m.Role)
		}
	}

	system := g.cache.Resolve(ctx, override)

	if g.client == nil {
		log.Printf("⚠️ no LLM client configured, returning simulated reply")
		return SimulatedReply, nil
	}

	msgs := make([]llm.Message, 0, len(history)+1)
	msgs = append(msgs, llm.Message{Role: llm.RoleSystem, Content: system})
	msgs = append(msgs, history...)

	resp, err := g.client.Generate(ctx, msgs)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrCompletionFailed, err)
	}
	return resp.Content, nil
}
