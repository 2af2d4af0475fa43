package llm

import (
	"fmt"
	"strings"
)

// ModelInfo contains parsed provider and model information
type ModelInfo struct {
	Provider string // "gemini", "openai", "anthropic", "lorem"
	Model    string // Model identifier for that provider
}

// ParseModel extracts provider information from a model string
//
// Supported formats:
//   - "gemini-2.0-flash" → {Provider: "gemini", Model: "gemini-2.0-flash"}
//   - "openai/gpt-4o-mini" → {Provider: "openai", Model: "gpt-4o-mini"}
//   - "openai/meta-llama/llama-3-70b" → {Provider: "openai", Model: "meta-llama/llama-3-70b"}
//
// Rules:
//   - If model contains "/" → split on first "/" to extract provider
//   - Else → infer provider from model prefix
func ParseModel(modelStr string) (*ModelInfo, error) {
	if modelStr == "" {
		return nil, fmt.Errorf("model string cannot be empty")
	}

	if strings.Contains(modelStr, "/") {
		provider, model, _ := strings.Cut(modelStr, "/")
		if provider == "" {
			return nil, fmt.Errorf("provider cannot be empty in model string: %s", modelStr)
		}
		if model == "" {
			return nil, fmt.Errorf("model cannot be empty in model string: %s", modelStr)
		}
		return &ModelInfo{Provider: provider, Model: model}, nil
	}

	provider := inferProvider(modelStr)
	if provider == "" {
		return nil, fmt.Errorf("unable to infer provider from model: %s", modelStr)
	}

	return &ModelInfo{
		Provider: provider,
		Model:    modelStr,
	}, nil
}

// ResolveModel picks the provider and model for an agent. An explicit
// override wins over the agent default; a configured provider wins over
// prefix inference for bare model names.
func ResolveModel(provider, override, agentDefault string) (*ModelInfo, error) {
	model := override
	if model == "" {
		model = agentDefault
	}

	if provider != "" && !strings.Contains(model, "/") {
		if model == "" {
			return nil, fmt.Errorf("model cannot be empty")
		}
		return &ModelInfo{Provider: provider, Model: model}, nil
	}

	return ParseModel(model)
}

// inferProvider infers the provider from model name prefix
func inferProvider(model string) string {
	modelLower := strings.ToLower(model)

	switch {
	case strings.HasPrefix(modelLower, "gemini-"):
		return "gemini"
	case strings.HasPrefix(modelLower, "gpt-"), strings.HasPrefix(modelLower, "o1-"):
		return "openai"
	case strings.HasPrefix(modelLower, "claude-"):
		return "anthropic"
	case strings.HasPrefix(modelLower, "lorem-"):
		// Lorem mock provider (for testing)
		return "lorem"
	}

	return ""
}
