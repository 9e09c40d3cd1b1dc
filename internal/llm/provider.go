// Package llm abstracts the hosted text-generation backend behind a
// small provider interface so the rest of the assistant never touches
// vendor SDK types.
package llm

import "context"

// GenerationConfig bounds a single completion request.
type GenerationConfig struct {
	Temperature   float64
	TopP          float64
	MaxTokens     int
	StopSequences []string
}

// DefaultConfig mirrors the assistant's long-standing generation
// settings.
func DefaultConfig() GenerationConfig {
	return GenerationConfig{
		Temperature:   0.9,
		TopP:          0.95,
		MaxTokens:     1024,
		StopSequences: []string{"."},
	}
}

// Provider is one hosted generative backend.
type Provider interface {
	// Generate returns a completion for the prompt.
	Generate(ctx context.Context, prompt string, cfg GenerationConfig) (string, error)
	// Describe answers a question about an image on disk.
	Describe(ctx context.Context, imagePath, prompt string) (string, error)
	// Name identifies the backend in logs.
	Name() string
}
