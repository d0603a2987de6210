package generation

import (
	"fmt"

	"github.com/sitepilot/engine/pkg/config"
)

// NewModel builds the backend selected by GENERATION_PROVIDER.
func NewModel(cfg *config.Config) (Model, error) {
	switch cfg.GenerationProvider {
	case "gemini":
		return NewGeminiModel(cfg.GeminiAPIKey, cfg.GeminiModel)
	case "openai":
		return NewOpenAIModel(cfg.OpenAIBaseURL, cfg.OpenAIAPIKey, cfg.OpenAIModel)
	default:
		return nil, fmt.Errorf("unknown generation provider %q", cfg.GenerationProvider)
	}
}
