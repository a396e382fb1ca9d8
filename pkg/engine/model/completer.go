package model

import "context"

// Options are the sampling parameters for a single completion call. Zero
// fields fall back to the engine's configured defaults.
type Options struct {
	Temperature   float64 `json:"temperature,omitempty"`
	MaxTokens     int     `json:"maxTokens,omitempty"`
	TopP          float64 `json:"topP,omitempty"`
	TopK          int     `json:"topK,omitempty"`
	RepeatPenalty float64 `json:"repeatPenalty,omitempty"`
}

// Completer is the narrow contract over the external text-completion
// capability. The engine owns exactly one and never exposes it.
type Completer interface {
	Complete(ctx context.Context, prompt string, opts Options) (string, error)
	// Stream delivers tokens to fn as they arrive. Returning an error from fn
	// stops the stream; ctx cancellation does the same between tokens.
	Stream(ctx context.Context, prompt string, opts Options, fn func(token string) error) error
}
