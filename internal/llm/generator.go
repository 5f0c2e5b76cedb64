// Package llm wraps the generative text model behind a narrow interface so
// callers can swap in a fake during tests.
package llm

import (
	"context"
	"encoding/json"

	"github.com/google/generative-ai-go/genai"
)

// Generator produces a JSON document for a prompt. The schema describes the
// expected shape and may be nil. Failures are returned as *ModelError.
type Generator interface {
	GenerateJSON(ctx context.Context, prompt string, schema *genai.Schema) (json.RawMessage, error)
}
