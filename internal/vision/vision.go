// Package vision answers questions about captured images by handing
// them to the configured generative backend.
package vision

import (
	"context"
	"fmt"

	"vani/internal/llm"
)

type Analyzer struct {
	provider llm.Provider
}

func New(provider llm.Provider) *Analyzer {
	return &Analyzer{provider: provider}
}

func (a *Analyzer) Describe(ctx context.Context, imagePath, prompt string) (string, error) {
	if a.provider == nil {
		return "", fmt.Errorf("no vision provider configured")
	}
	desc, err := a.provider.Describe(ctx, imagePath, prompt)
	if err != nil {
		return "", fmt.Errorf("describe %s: %w", imagePath, err)
	}
	return desc, nil
}
