package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

const DefaultModel = "gemini-2.5-flash"

type GeminiClient struct {
	client      *genai.Client
	modelName   string
	temperature float32
}

func NewGeminiClient(ctx context.Context, apiKey, modelName string, temperature float32) (*GeminiClient, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	if modelName == "" {
		modelName = DefaultModel
	}

	return &GeminiClient{
		client:      client,
		modelName:   modelName,
		temperature: temperature,
	}, nil
}

func (g *GeminiClient) Close() {
	g.client.Close()
}

// GenerateJSON asks the model for a JSON response. A fresh GenerativeModel is
// built per call because the response schema differs between callers.
func (g *GeminiClient) GenerateJSON(ctx context.Context, prompt string, schema *genai.Schema) (json.RawMessage, error) {
	model := g.client.GenerativeModel(g.modelName)
	model.SetTemperature(g.temperature)
	model.SetTopP(0.95)
	model.ResponseMIMEType = "application/json"
	model.ResponseSchema = schema

	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return nil, wrapGeminiError(err)
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return nil, &ModelError{Op: "generate content", Message: "no content generated"}
	}

	var builder strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			builder.WriteString(string(text))
		}
	}

	raw := cleanJSON(builder.String())
	if !json.Valid([]byte(raw)) {
		return nil, &ModelError{Op: "parse response", Message: "response is not valid JSON"}
	}

	return json.RawMessage(raw), nil
}

func wrapGeminiError(err error) error {
	merr := &ModelError{Op: "generate content", Message: err.Error(), Err: err}

	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		merr.StatusCode = gerr.Code
	}
	return merr
}

// cleanJSON strips the markdown fence the model sometimes adds despite being
// told not to.
func cleanJSON(text string) string {
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")
	return strings.TrimSpace(text)
}
