package services

import (
	"context"
	"fmt"
)

// TextGenerator is a language model that completes a single prompt.
type TextGenerator interface {
	Name() string
	Generate(ctx context.Context, prompt string) (string, error)
}

// Embedder turns texts into dense vectors, one per input.
type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float64, error)
}

// DisabledGenerator always fails so callers take their fallback path.
type DisabledGenerator struct{}

func (DisabledGenerator) Name() string { return "none" }

func (DisabledGenerator) Generate(context.Context, string) (string, error) {
	return "", fmt.Errorf("language model disabled")
}
