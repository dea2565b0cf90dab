// Package llm provides LLM clients and the day digest built on them.
package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

// Chat roles understood by every provider.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ErrNoChoices is returned when a provider answers without any completion.
var ErrNoChoices = errors.New("no response choices returned")

// Message is one chat turn.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Client is a chat-completion provider.
type Client interface {
	// Chat returns the reply text.
	Chat(ctx context.Context, messages []Message) (string, error)
	// ChatJSON decodes the reply into result.
	ChatJSON(ctx context.Context, messages []Message, result any) error
}

// prompt builds the system + user exchange used by the digest.
func prompt(system, user string) []Message {
	return []Message{
		{Role: RoleSystem, Content: system},
		{Role: RoleUser, Content: user},
	}
}

// decodeJSON decodes the JSON document found in a model reply.
func decodeJSON(reply string, result any) error {
	if err := json.Unmarshal([]byte(extractJSON(reply)), result); err != nil {
		return fmt.Errorf("parsing JSON response: %w (content: %s)", err, reply)
	}
	return nil
}
