package cmd

import (
	"context"
	"log/slog"

	"github.com/andrelmaraujo/mandacaru/core/config"
	coreerrors "github.com/andrelmaraujo/mandacaru/core/errors"
	"github.com/andrelmaraujo/mandacaru/core/orchestrator"
	"github.com/andrelmaraujo/mandacaru/core/providers"
)

// app is everything a command needs to run turns.
type app struct {
	registry     *providers.Registry
	orchestrator *orchestrator.Orchestrator
}

func (a *app) Close() error {
	return a.registry.Close()
}

// newApp builds the configured provider, wraps it as a generator and wires
// the orchestrator on top of it.
func newApp(ctx context.Context, c *config.Config, logger *slog.Logger) (*app, error) {
	registry, err := newRegistry(ctx, c.LLM)
	if err != nil {
		return nil, err
	}
	provider, err := registry.Default()
	if err != nil {
		_ = registry.Close()
		return nil, err
	}

	temperature := c.LLM.Temperature
	var gen providers.Generator = providers.NewGenerator(provider, providers.GeneratorConfig{
		Model:       c.LLM.Model,
		MaxTokens:   c.LLM.MaxTokens,
		Temperature: &temperature,
		Timeout:     c.LLM.Timeout,
		Logger:      logger,
	})
	if c.LLM.BreakerFailures > 0 {
		gen = providers.NewBreakerGenerator(gen, provider.Name(), coreerrors.CircuitBreakerConfig{
			ConsecutiveFailures: c.LLM.BreakerFailures,
			CooldownDuration:    c.LLM.BreakerCooldown,
		}, logger)
	}

	orch := orchestrator.NewFromGenerator(gen, orchestrator.Config{
		Logger:         logger,
		HistoryWindow:  c.Router.HistoryWindow,
		RouteCacheSize: c.Router.CacheSize,
		RouteCacheTTL:  c.Router.CacheTTL,
	})

	logger.Debug("app ready",
		"provider", provider.Name(),
		"model", firstNonEmpty(c.LLM.Model, provider.DefaultModel()))
	return &app{registry: registry, orchestrator: orch}, nil
}

// newRegistry registers only the selected provider, so credentials for the
// others are never required.
func newRegistry(ctx context.Context, llm config.LLMConfig) (*providers.Registry, error) {
	providerType, err := providers.ParseProviderType(llm.Provider)
	if err != nil {
		return nil, err
	}

	b := providers.NewRegistryBuilder(ctx)
	switch providerType {
	case providers.ProviderTypeOpenAI:
		pc := providers.DefaultOpenAIConfig()
		applyBase(&pc.BaseConfig, llm, llm.OpenAI.APIKey)
		pc.BaseURL = llm.OpenAI.BaseURL
		pc.Organization = llm.OpenAI.Organization
		pc.Project = llm.OpenAI.Project
		b.WithOpenAI(pc)
	case providers.ProviderTypeAnthropic:
		pc := providers.DefaultAnthropicConfig()
		applyBase(&pc.BaseConfig, llm, llm.Anthropic.APIKey)
		pc.BaseURL = llm.Anthropic.BaseURL
		b.WithAnthropic(pc)
	case providers.ProviderTypeGoogle:
		pc := providers.DefaultGoogleConfig()
		applyBase(&pc.BaseConfig, llm, llm.Google.APIKey)
		pc.ProjectID = llm.Google.ProjectID
		pc.UseVertexAI = llm.Google.UseVertexAI
		if llm.Google.Location != "" {
			pc.Location = llm.Google.Location
		}
		b.WithGoogle(pc)
	}

	return b.WithDefault(providerType).Build()
}

func applyBase(dst *providers.BaseConfig, llm config.LLMConfig, apiKey string) {
	dst.APIKey = apiKey
	if llm.Model != "" {
		dst.Model = llm.Model
	}
	if llm.MaxTokens > 0 {
		dst.MaxTokens = llm.MaxTokens
	}
	dst.Temperature = llm.Temperature
	if llm.Timeout > 0 {
		dst.Timeout = llm.Timeout
	}
	dst.MaxRetries = llm.MaxRetries
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
