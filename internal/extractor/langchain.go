package extractor

import (
	"context"
	"fmt"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/googleai"

	"jt-go/internal/jt"
)

// LangChainExtractor drives any langchaingo model; the factory wires the
// Google AI provider.
type LangChainExtractor struct {
	client llms.Model
	name   string
}

var _ jt.Extractor = (*LangChainExtractor)(nil)

// NewLangChainExtractor creates an extractor backed by langchaingo's googleai provider.
func NewLangChainExtractor(ctx context.Context, apiKey, model string) (*LangChainExtractor, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("langchain googleai API key is required")
	}
	if model == "" {
		model = DefaultModel
	}

	llm, err := googleai.New(ctx,
		googleai.WithAPIKey(apiKey),
		googleai.WithDefaultModel(model),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create googleai client: %w", err)
	}
	return NewLangChainExtractorFromModel(llm, "langchain:"+model), nil
}

// NewLangChainExtractorFromModel wraps an already constructed model.
func NewLangChainExtractorFromModel(model llms.Model, name string) *LangChainExtractor {
	return &LangChainExtractor{client: model, name: name}
}

func (e *LangChainExtractor) Name() string { return e.name }

func (e *LangChainExtractor) Extract(ctx context.Context, text string, schema jt.Schema) (jt.Payload, error) {
	resp, err := llms.GenerateFromSinglePrompt(ctx, e.client, BuildPrompt(text, schema),
		llms.WithJSONMode(),
		llms.WithTemperature(0),
	)
	if err != nil {
		return nil, fmt.Errorf("langchain generate failed: %w", err)
	}
	return ParsePayload(resp)
}
