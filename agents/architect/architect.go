// Package architect implements the persona that turns an informal
// conversation into business artifacts (missions and canvases).
package architect

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/andrelmaraujo/mandacaru/agents/persona"
	"github.com/andrelmaraujo/mandacaru/core/conversation"
	"github.com/andrelmaraujo/mandacaru/core/providers"
)

// Preamble introduces an artifact in the conversation.
const Preamble = "Analisei aqui e preparei algo para você:"

// Executor runs the Architect persona and interprets its reply.
type Executor struct {
	persona   persona.Persona
	generator providers.Generator
	logger    *slog.Logger
}

// Config holds configuration for the Architect executor
type Config struct {
	SystemInstruction string       // Optional, uses persona.ArchitectInstruction if empty
	Logger            *slog.Logger // Optional, uses slog.Default() if nil
}

// New creates an Architect executor backed by generator.
func New(generator providers.Generator, cfg Config) *Executor {
	p := persona.MustLookup(persona.Architect)
	if cfg.SystemInstruction != "" {
		p.SystemInstruction = cfg.SystemInstruction
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &Executor{
		persona:   p,
		generator: generator,
		logger:    cfg.Logger.With("persona", p.ID.String()),
	}
}

// Execute returns either a preamble followed by the artifact message, or a
// single text message holding the reply exactly as generated.
func (e *Executor) Execute(ctx context.Context, history conversation.History) ([]conversation.Message, error) {
	reply, err := e.generator.Generate(ctx, persona.BuildContext(e.persona.SystemInstruction, history))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", e.persona.ID, err)
	}

	in, err := Interpret(reply)
	if err != nil {
		return nil, fmt.Errorf("%s: interpret reply: %w", e.persona.ID, err)
	}

	if in.Artifact == nil {
		e.logger.Debug("reply kept as text", "strategy", in.Strategy, "reason", in.Failure)
		return []conversation.Message{conversation.AgentText(e.persona.DisplayName, reply)}, nil
	}

	e.logger.Info("artifact produced", "type", in.Artifact.Type, "strategy", in.Strategy)
	return []conversation.Message{
		conversation.AgentText(e.persona.DisplayName, Preamble),
		conversation.AgentArtifact(in.Artifact.Type, in.Artifact.Data),
	}, nil
}

var _ persona.Executor = (*Executor)(nil)
