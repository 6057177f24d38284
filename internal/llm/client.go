// Package llm abstracts the language model calls the content roles depend
// on, so the workflow can run against the OpenAI API, a compatible
// endpoint, or a scripted stand-in.
package llm

import "context"

// Client is implemented by every model backend.
type Client interface {
	Complete(ctx context.Context, prompt Prompt) (string, error)
}

// Prompt is the message set sent to a model for a single completion.
type Prompt struct {
	System  string
	User    string
	History []Message
}

// Message carries optional prior conversation turns.
type Message struct {
	Role    string
	Content string
}

// Settings holds the per-role tunables a backend needs.
type Settings struct {
	Provider    string
	Model       string
	APIKey      string
	BaseURL     string
	Temperature float64
	MaxTokens   int
}
