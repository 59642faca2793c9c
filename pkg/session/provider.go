package session

import (
	"fmt"
	"strings"

	"github.com/entrhq/surf/pkg/config"
	"github.com/entrhq/surf/pkg/llm"
	"github.com/entrhq/surf/pkg/llm/openai"
)

// Base URLs for known OpenAI-compatible services, used when the
// configuration names a provider without an explicit base URL.
var providerBaseURLs = map[string]string{
	"openrouter": "https://openrouter.ai/api/v1",
	"groq":       "https://api.groq.com/openai/v1",
}

// newProvider builds the LLM provider for the configured service. All
// supported providers speak the OpenAI chat completions protocol; they
// differ only in endpoint.
func newProvider(cfg *config.Config) (llm.Provider, error) {
	name := strings.ToLower(cfg.Provider)
	baseURL := cfg.BaseURL

	switch name {
	case "", "openai":
	case "openrouter", "groq":
		if baseURL == "" {
			baseURL = providerBaseURLs[name]
		}
	default:
		return nil, fmt.Errorf("unsupported model provider %q", cfg.Provider)
	}

	return openai.NewProvider(cfg.APIKey,
		openai.WithModel(cfg.Model),
		openai.WithBaseURL(baseURL),
		openai.WithTemperature(cfg.Temperature),
		openai.WithMaxTokens(cfg.MaxTokens),
	)
}
