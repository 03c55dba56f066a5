package extractor

import (
	"context"
	"fmt"
	"os"

	"jt-go/internal/config"
	"jt-go/internal/jt"
)

const (
	// DefaultModel is used by the LLM backends when the config names none.
	DefaultModel = "gemini-2.5-flash"
	// DefaultAPIKeyEnv is read when the config names no key variable.
	DefaultAPIKeyEnv = "GEMINI_API_KEY"
)

// NewExtractorFromConfig creates an Extractor based on the configuration type.
func NewExtractorFromConfig(ctx context.Context, cfg config.ExtractorConfig) (jt.Extractor, error) {
	switch cfg.Type {
	case "heuristic", "":
		return NewHeuristicExtractor(), nil
	case "genai":
		return NewGenAIExtractor(ctx, apiKey(cfg), cfg.Model)
	case "langchain":
		return NewLangChainExtractor(ctx, apiKey(cfg), cfg.Model)
	default:
		return nil, fmt.Errorf("unknown extractor type: %q", cfg.Type)
	}
}

func apiKey(cfg config.ExtractorConfig) string {
	env := cfg.APIKeyEnv
	if env == "" {
		env = DefaultAPIKeyEnv
	}
	return os.Getenv(env)
}
