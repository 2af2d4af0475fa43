package llm

import (
	"context"
	"fmt"
	"iter"
	"log/slog"

	"tripmitra/internal/agents"
	"tripmitra/internal/config"
	domainllm "tripmitra/internal/domain/services/llm"
	"tripmitra/internal/service/llm/conversation"
	"tripmitra/internal/service/llm/session"
)

// SetupProviders initializes the provider factory and registry.
func SetupProviders(cfg *config.Config, logger *slog.Logger) (*ProviderRegistry, error) {
	registry := NewProviderRegistry(NewProviderFactory(cfg))

	if err := registry.Validate(); err != nil {
		return nil, fmt.Errorf("provider registry validation failed: %w", err)
	}

	if cfg.GoogleAPIKey == "" {
		logger.Warn("GOOGLE_API_KEY not set - Gemini provider not available")
	}
	if cfg.OpenAIAPIKey != "" || cfg.OpenAIBaseURL != "" {
		logger.Info("provider available", "name", "openai", "base_url", cfg.OpenAIBaseURL)
	}
	if cfg.AnthropicAPIKey != "" {
		logger.Info("provider available", "name", "anthropic", "models", "claude-*")
	}

	return registry, nil
}

// Services holds the agent runtime
type Services struct {
	Sessions  domainllm.SessionService
	Runner    domainllm.Runner
	Generator *ResponseGenerator
}

// SetupServices wires the trip agent: definition, model, sessions, runner
// and response generator. A provider that cannot be created does not stop
// startup; every dispatch then fails and callers get ErrorMessage.
func SetupServices(
	ctx context.Context,
	cfg *config.Config,
	providers *ProviderRegistry,
	summaries conversation.SummaryProvider,
	logger *slog.Logger,
) (*Services, error) {
	agentRegistry, err := agents.NewRegistry()
	if err != nil {
		return nil, fmt.Errorf("load agents: %w", err)
	}
	agent, err := agentRegistry.Get(agents.TripMitraAgent)
	if err != nil {
		return nil, err
	}

	model, err := ResolveModel(cfg.AgentProvider, cfg.AgentModel, agent.Model)
	if err != nil {
		return nil, fmt.Errorf("resolve agent model: %w", err)
	}

	provider, err := providers.GetProvider(ctx, model.Provider)
	if err != nil {
		logger.Error("agent provider unavailable",
			"provider", model.Provider,
			"error", err,
		)
		provider = &unavailableProvider{name: model.Provider, err: err}
	}

	sessions := session.NewService(cfg.SessionTTL, cfg.SessionMaxTurns, logger)
	runner := NewAgentRunner(AppName, agent, model.Model, provider, sessions, logger)
	enricher := conversation.NewQueryEnricher(summaries, logger)
	generator := NewResponseGenerator(enricher, sessions, runner, cfg.AgentTimeout, logger)

	logger.Info("agent ready",
		"agent", agent.Name,
		"provider", model.Provider,
		"model", model.Model,
		"timeout", cfg.AgentTimeout,
		"session_ttl", cfg.SessionTTL,
		"session_max_turns", cfg.SessionMaxTurns,
	)

	return &Services{
		Sessions:  sessions,
		Runner:    runner,
		Generator: generator,
	}, nil
}

// unavailableProvider fails every request with the error that prevented
// the real provider from being created.
type unavailableProvider struct {
	name string
	err  error
}

func (p *unavailableProvider) Name() string { return p.name }

func (p *unavailableProvider) StreamResponse(context.Context, *domainllm.GenerateRequest) iter.Seq2[*domainllm.Chunk, error] {
	return func(yield func(*domainllm.Chunk, error) bool) {
		yield(nil, p.err)
	}
}
