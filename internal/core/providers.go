package core

import "context"

// TextGenerator is the generative oracle: one stateless operation that
// may be slow, fail, or return empty text. Callers decide how to
// degrade; implementations never retain state between calls.
type TextGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

type Model struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	ContextLength int    `json:"context_length,omitempty"`
}
