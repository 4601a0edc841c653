package insight

import "context"

// Generator defines the interface for producing a financial analysis from
// a prepared prompt. Implemented by the OpenAI-compatible client in the
// infrastructure layer.
type Generator interface {
	Generate(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}
