package providers

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	coreerrors "github.com/andrelmaraujo/mandacaru/core/errors"
)

// =============================================================================
// Generator
// =============================================================================
//
// Generator is the only capability the agents need from a language model:
// an ordered list of role-tagged entries in, one string out. Implementations
// must be safe for concurrent use; every call is an independent request.

type Generator interface {
	Generate(ctx context.Context, messages []Message) (string, error)
}

// GeneratorFunc adapts a plain function to the Generator interface.
type GeneratorFunc func(ctx context.Context, messages []Message) (string, error)

func (f GeneratorFunc) Generate(ctx context.Context, messages []Message) (string, error) {
	return f(ctx, messages)
}

// GenerationError reports a failed call to the generation service. The
// wrapped error keeps its tier.
type GenerationError struct {
	Provider string
	Err      error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("generation service (%s): %v", e.Provider, e.Err)
}

func (e *GenerationError) Unwrap() error {
	return e.Err
}

// GeneratorConfig tunes a ProviderGenerator.
type GeneratorConfig struct {
	Model       string        // Optional, provider default if empty
	MaxTokens   int           // Optional, provider default if 0
	Temperature *float64      // Optional, provider default if nil
	Timeout     time.Duration // Optional, no deadline if 0
	Logger      *slog.Logger  // Optional, uses slog.Default() if nil
}

// ProviderGenerator serves Generate calls from a Provider, bounding every
// call with the configured timeout.
type ProviderGenerator struct {
	provider Provider
	config   GeneratorConfig
	logger   *slog.Logger
}

// NewGenerator wraps provider as a Generator.
func NewGenerator(provider Provider, cfg GeneratorConfig) *ProviderGenerator {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &ProviderGenerator{
		provider: provider,
		config:   cfg,
		logger:   cfg.Logger.With("provider", provider.Name()),
	}
}

func (g *ProviderGenerator) Generate(ctx context.Context, messages []Message) (string, error) {
	if g.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.config.Timeout)
		defer cancel()
	}

	start := time.Now()
	resp, err := g.provider.Generate(ctx, &Request{
		Messages:    messages,
		Model:       g.config.Model,
		MaxTokens:   g.config.MaxTokens,
		Temperature: g.config.Temperature,
	})
	elapsed := time.Since(start)

	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			err = coreerrors.Timeout(g.config.Timeout, err)
		}
		g.logger.Warn("generation failed",
			"elapsed", elapsed,
			"tier", coreerrors.GetTier(err).String(),
			"error", err)
		return "", &GenerationError{Provider: g.provider.Name(), Err: err}
	}

	g.logger.Debug("generation complete",
		"model", resp.Model,
		"stop_reason", resp.StopReason,
		"input_tokens", resp.Usage.InputTokens,
		"output_tokens", resp.Usage.OutputTokens,
		"elapsed", elapsed)

	return resp.Content, nil
}
