package llm

import (
	"fmt"
	"strings"

	"github.com/edgarwatch/edgarwatch/internal/model"
)

// NewProvider creates a provider from configuration. An empty provider name
// returns (nil, nil): classification runs guards-only with the conservative
// BOILERPLATE default in place of the model.
func NewProvider(config Config) (Provider, error) {
	switch strings.ToLower(config.Provider) {
	case "openai":
		return NewOpenAIProvider(config)

	case "anthropic", "claude":
		return NewAnthropicProvider(config)

	case "ollama":
		return NewOllamaProvider(config)

	case "":
		return nil, nil

	default:
		return nil, fmt.Errorf("unknown LLM provider: %s (supported: openai, anthropic, ollama)", config.Provider)
	}
}

// ConfigFromModel converts model.LLMConfig to llm.Config.
func ConfigFromModel(mc model.LLMConfig) Config {
	return Config{
		Provider:        mc.Provider,
		Model:           mc.Model,
		APIKey:          mc.APIKey,
		BaseURL:         mc.BaseURL,
		Timeout:         mc.Timeout,
		MaxExcerptChars: mc.MaxExcerptChars,
	}
}
