package extractor

import (
	"context"
	"fmt"

	"google.golang.org/genai"

	"jt-go/internal/jt"
)

// GenAIExtractor asks a Gemini model for a JSON object matching the schema.
type GenAIExtractor struct {
	client *genai.Client
	model  string
}

var _ jt.Extractor = (*GenAIExtractor)(nil)

// NewGenAIExtractor creates a Gemini-backed extractor.
func NewGenAIExtractor(ctx context.Context, apiKey, model string) (*GenAIExtractor, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("GenAI API key is required")
	}
	if model == "" {
		model = DefaultModel
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}
	return &GenAIExtractor{client: client, model: model}, nil
}

func (e *GenAIExtractor) Name() string { return "genai:" + e.model }

// Extract sends one GenerateContent request in JSON mode.
func (e *GenAIExtractor) Extract(ctx context.Context, text string, schema jt.Schema) (jt.Payload, error) {
	resp, err := e.client.Models.GenerateContent(ctx,
		e.model,
		genai.Text(BuildPrompt(text, schema)),
		&genai.GenerateContentConfig{
			ResponseMIMEType: "application/json",
			Temperature:      genai.Ptr[float32](0),
		},
	)
	if err != nil {
		return nil, fmt.Errorf("GenAI generate failed: %w", err)
	}
	return ParsePayload(resp.Text())
}
