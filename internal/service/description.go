package service

import (
	"context"
	"fmt"
	"strings"
)

// DescriptionGenerator produces the sensory description shown on a drink's
// detail card. Implementations must return within a bounded time; callers
// substitute FallbackDescription on any failure instead of propagating it.
type DescriptionGenerator interface {
	Generate(ctx context.Context, name string, ingredients []string) (string, error)
}

// FallbackDescription is the deterministic template used whenever
// generation is unavailable or fails.
func FallbackDescription(name string, ingredients []string) string {
	return fmt.Sprintf("A delicious blend of %s with the unique sensory notes of %s.",
		strings.Join(ingredients, ", "), name)
}

// TemplateGenerator always answers with the fallback template. It is the
// generator of last resort, used when no API key is configured.
type TemplateGenerator struct{}

func (TemplateGenerator) Generate(_ context.Context, name string, ingredients []string) (string, error) {
	return FallbackDescription(name, ingredients), nil
}
