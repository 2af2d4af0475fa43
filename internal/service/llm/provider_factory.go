package llm

import (
	"context"
	"fmt"

	"github.com/haowjy/meridian-llm-go/providers/anthropic"
	"github.com/haowjy/meridian-llm-go/providers/lorem"

	"tripmitra/internal/config"
	domainllm "tripmitra/internal/domain/services/llm"
	"tripmitra/internal/service/llm/adapters"
)

// ProviderFactory creates model provider adapters from configuration
type ProviderFactory struct {
	config *config.Config
}

// NewProviderFactory creates a new provider factory
func NewProviderFactory(cfg *config.Config) *ProviderFactory {
	return &ProviderFactory{
		config: cfg,
	}
}

// GetProvider returns a provider adapter for the given provider name
//
// Supported providers:
//   - "gemini" - Google Gemini models (GOOGLE_API_KEY)
//   - "openai" - any OpenAI-compatible endpoint (OPENAI_API_KEY, OPENAI_BASE_URL)
//   - "anthropic" - Claude models via Anthropic API
//   - "lorem" - Mock provider for testing (no API key required)
func (f *ProviderFactory) GetProvider(ctx context.Context, providerName string) (domainllm.ModelProvider, error) {
	switch providerName {
	case "gemini":
		return f.createGeminiProvider(ctx)
	case "openai":
		return f.createOpenAIProvider()
	case "anthropic":
		return f.createAnthropicProvider()
	case "lorem":
		return f.createLoremProvider()
	default:
		return nil, fmt.Errorf("unsupported provider: %s (supported: gemini, openai, anthropic, lorem)", providerName)
	}
}

func (f *ProviderFactory) createGeminiProvider(ctx context.Context) (domainllm.ModelProvider, error) {
	if f.config.GoogleAPIKey == "" {
		return nil, fmt.Errorf("GOOGLE_API_KEY environment variable not set")
	}
	return adapters.NewGeminiAdapter(ctx, f.config.GoogleAPIKey)
}

func (f *ProviderFactory) createOpenAIProvider() (domainllm.ModelProvider, error) {
	// Local OpenAI-compatible servers accept any key
	if f.config.OpenAIAPIKey == "" && f.config.OpenAIBaseURL == "" {
		return nil, fmt.Errorf("OPENAI_API_KEY environment variable not set")
	}
	return adapters.NewOpenAIAdapter(f.config.OpenAIAPIKey, f.config.OpenAIBaseURL), nil
}

func (f *ProviderFactory) createAnthropicProvider() (domainllm.ModelProvider, error) {
	if f.config.AnthropicAPIKey == "" {
		return nil, fmt.Errorf("ANTHROPIC_API_KEY environment variable not set")
	}

	provider, err := anthropic.NewProvider(f.config.AnthropicAPIKey)
	if err != nil {
		return nil, fmt.Errorf("failed to create Anthropic provider: %w", err)
	}

	return adapters.NewLibraryAdapter(provider), nil
}

// createLoremProvider creates a Lorem mock provider instance
// Lorem requires no API key - it's a testing provider that generates lorem ipsum text
func (f *ProviderFactory) createLoremProvider() (domainllm.ModelProvider, error) {
	return adapters.NewLibraryAdapter(lorem.NewProvider()), nil
}
