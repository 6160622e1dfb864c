// Package router decides which persona answers the next turn.
package router

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/andrelmaraujo/mandacaru/agents/persona"
	"github.com/andrelmaraujo/mandacaru/core/conversation"
	"github.com/andrelmaraujo/mandacaru/core/providers"
)

// Router selects exactly one persona for the next turn.
type Router interface {
	Route(ctx context.Context, history conversation.History) (persona.ID, error)
}

// RouterFunc adapts a function to the Router interface.
type RouterFunc func(ctx context.Context, history conversation.History) (persona.ID, error)

func (f RouterFunc) Route(ctx context.Context, history conversation.History) (persona.ID, error) {
	return f(ctx, history)
}

// DefaultHistoryWindow is how many trailing messages the router reads.
// It is also the largest window the router accepts.
const DefaultHistoryWindow = 5

// clampWindow bounds a configured window to (0, DefaultHistoryWindow].
func clampWindow(n int) int {
	if n <= 0 || n > DefaultHistoryWindow {
		return DefaultHistoryWindow
	}
	return n
}

// Config holds configuration for the LLM router
type Config struct {
	HistoryWindow int          // Optional, 1..5; 0 or anything larger uses DefaultHistoryWindow
	Logger        *slog.Logger // Optional, uses slog.Default() if nil
}

// LLMRouter classifies the recent transcript with one generation call.
// Before that, a conversation in which no persona has spoken yet goes to
// the Motivator without consulting the model.
type LLMRouter struct {
	generator providers.Generator
	window    int
	logger    *slog.Logger
}

// NewLLMRouter creates a router backed by generator.
func NewLLMRouter(generator providers.Generator, cfg Config) *LLMRouter {
	cfg.HistoryWindow = clampWindow(cfg.HistoryWindow)
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &LLMRouter{
		generator: generator,
		window:    cfg.HistoryWindow,
		logger:    cfg.Logger,
	}
}

func (r *LLMRouter) Route(ctx context.Context, history conversation.History) (persona.ID, error) {
	if !history.HasAgentTurn() {
		r.logger.Debug("route decided", "persona", persona.Motivator, "method", "conversation_start")
		return persona.Motivator, nil
	}

	prompt := fmt.Sprintf(routingPrompt, Transcript(history.Last(r.window)))
	answer, err := r.generator.Generate(ctx, []providers.Message{
		{Role: providers.RoleUser, Content: prompt},
	})
	if err != nil {
		return "", fmt.Errorf("route: %w", err)
	}

	id, ok := persona.Parse(answer)
	if !ok {
		r.logger.Info("unrecognized route, falling back",
			"answer", answer,
			"persona", persona.Fallback)
		return persona.Fallback, nil
	}

	r.logger.Debug("route decided", "persona", id, "method", "llm")
	return id, nil
}

// Transcript renders messages as "role: content" lines.
func Transcript(history conversation.History) string {
	lines := make([]string, len(history))
	for i, m := range history {
		lines[i] = string(m.Role) + ": " + m.Content
	}
	return strings.Join(lines, "\n")
}

// Static always routes to the same persona. It is useful for pinning a
// persona in tests and from the command line.
func Static(id persona.ID) Router {
	return RouterFunc(func(context.Context, conversation.History) (persona.ID, error) {
		return id, nil
	})
}
