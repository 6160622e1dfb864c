package persona

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/andrelmaraujo/mandacaru/core/conversation"
	"github.com/andrelmaraujo/mandacaru/core/providers"
)

// Executor lets one persona speak: it reads the full history and returns
// the messages to append to it.
type Executor interface {
	Execute(ctx context.Context, history conversation.History) ([]conversation.Message, error)
}

// BuildContext projects a history into generation input: the instruction
// first, then one entry per message. Only content is forwarded; agent names,
// message types and artifact payloads never reach the model.
func BuildContext(instruction string, history conversation.History) []providers.Message {
	msgs := make([]providers.Message, 0, len(history)+1)
	msgs = append(msgs, providers.Message{Role: providers.RoleSystem, Content: instruction})

	for _, m := range history {
		switch m.Role {
		case conversation.RoleUser:
			msgs = append(msgs, providers.Message{Role: providers.RoleUser, Content: m.Content})
		case conversation.RoleAgent:
			msgs = append(msgs, providers.Message{Role: providers.RoleAssistant, Content: m.Content})
		}
	}
	return msgs
}

// TextExecutor returns the model output verbatim as a single text message.
// The Motivator and the Skeptic are text executors.
type TextExecutor struct {
	persona   Persona
	generator providers.Generator
	logger    *slog.Logger
}

// NewTextExecutor binds a persona to a generator.
func NewTextExecutor(p Persona, generator providers.Generator, logger *slog.Logger) *TextExecutor {
	if logger == nil {
		logger = slog.Default()
	}
	return &TextExecutor{
		persona:   p,
		generator: generator,
		logger:    logger.With("persona", p.ID.String()),
	}
}

func (e *TextExecutor) Execute(ctx context.Context, history conversation.History) ([]conversation.Message, error) {
	reply, err := e.generator.Generate(ctx, BuildContext(e.persona.SystemInstruction, history))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", e.persona.ID, err)
	}

	e.logger.Debug("persona replied", "chars", len(reply))
	return []conversation.Message{conversation.AgentText(e.persona.DisplayName, reply)}, nil
}

// Persona reports who this executor speaks for.
func (e *TextExecutor) Persona() Persona {
	return e.persona
}
