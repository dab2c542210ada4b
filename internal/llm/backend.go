// Package llm abstracts the generation backend behind a small interface so
// the interview core can be exercised against a fake server in tests.
package llm

import "context"

// Message is one prior turn sent to the backend. Role must be "user" or
// "assistant"; anything else is coerced to "user".
type Message struct {
	Role    string
	Content string
}

// Backend produces a completion for a system instruction plus conversation
// history. Implementations own transport concerns (timeouts, base URL);
// the core treats any returned error as a signal to fall back.
type Backend interface {
	Complete(ctx context.Context, system string, history []Message, temperature float32, maxTokens int) (string, error)
}
