// Package orchestrator runs one conversational turn: route to a persona,
// let it speak, return what it said.
package orchestrator

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/andrelmaraujo/mandacaru/agents/architect"
	"github.com/andrelmaraujo/mandacaru/agents/persona"
	"github.com/andrelmaraujo/mandacaru/agents/router"
	"github.com/andrelmaraujo/mandacaru/core/conversation"
	"github.com/andrelmaraujo/mandacaru/core/providers"
	"github.com/google/uuid"
)

// Orchestrator is safe for concurrent use. Turns for different
// conversations share only the router and the executors.
type Orchestrator struct {
	router    router.Router
	executors map[persona.ID]persona.Executor
	logger    *slog.Logger

	mu    sync.Mutex
	stats Stats
}

// New creates an Orchestrator over an explicit router and executor set.
func New(r router.Router, executors map[persona.ID]persona.Executor, cfg Config) *Orchestrator {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	execs := make(map[persona.ID]persona.Executor, len(executors))
	for id, e := range executors {
		execs[id] = e
	}

	return &Orchestrator{
		router:    r,
		executors: execs,
		logger:    cfg.Logger,
		stats:     Stats{ByPersona: make(map[string]int64)},
	}
}

// NewFromGenerator wires the LLM router and the three built-in personas to
// a single generator.
func NewFromGenerator(gen providers.Generator, cfg Config) *Orchestrator {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	var r router.Router = router.NewLLMRouter(gen, router.Config{
		HistoryWindow: cfg.HistoryWindow,
		Logger:        logger,
	})
	if cfg.RouteCacheSize > 0 {
		r = router.NewCachedRouter(r, router.CacheConfig{
			Size:          cfg.RouteCacheSize,
			TTL:           cfg.RouteCacheTTL,
			HistoryWindow: cfg.HistoryWindow,
			Logger:        logger,
		})
	}

	executors := map[persona.ID]persona.Executor{
		persona.Motivator: persona.NewTextExecutor(persona.MustLookup(persona.Motivator), gen, logger),
		persona.Skeptic:   persona.NewTextExecutor(persona.MustLookup(persona.Skeptic), gen, logger),
		persona.Architect: architect.New(gen, architect.Config{Logger: logger}),
	}

	return New(r, executors, cfg)
}

// Turn consumes the full history and returns only the messages produced by
// this turn. On any failure it returns a nil slice and the error; partial
// results are never returned. history is not modified.
func (o *Orchestrator) Turn(ctx context.Context, history conversation.History) ([]conversation.Message, error) {
	start := time.Now()
	logger := o.logger.With("turn_id", uuid.NewString())

	logger.Debug("turn phase", "phase", PhaseRouting, "history", len(history))
	id, err := o.router.Route(ctx, history.Clone())
	if err != nil {
		return o.fail(logger, PhaseRouting, fmt.Errorf("routing: %w", err))
	}

	exec, ok := o.executors[id]
	if !ok {
		return o.fail(logger, PhaseRouting, fmt.Errorf("%w: %q", ErrUnknownPersona, id))
	}

	logger.Debug("turn phase", "phase", PhaseExecuting, "persona", id)
	msgs, err := exec.Execute(ctx, history.Clone())
	if err != nil {
		return o.fail(logger, PhaseExecuting, err)
	}
	if len(msgs) == 0 {
		return o.fail(logger, PhaseExecuting, fmt.Errorf("%w: persona %q", ErrEmptyTurn, id))
	}

	o.record(id, nil)
	logger.Debug("turn phase",
		"phase", PhaseDone,
		"persona", id,
		"messages", len(msgs),
		"duration", time.Since(start))
	return msgs, nil
}

func (o *Orchestrator) fail(logger *slog.Logger, phase Phase, err error) ([]conversation.Message, error) {
	o.record("", err)
	logger.Warn("turn failed", "phase", phase, "error", err)
	return nil, err
}

func (o *Orchestrator) record(id persona.ID, err error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	o.stats.Turns++
	if err != nil {
		o.stats.Failed++
		return
	}
	o.stats.ByPersona[id.String()]++
}

// Stats returns a snapshot of the turn counters.
func (o *Orchestrator) Stats() Stats {
	o.mu.Lock()
	defer o.mu.Unlock()

	byPersona := make(map[string]int64, len(o.stats.ByPersona))
	for k, v := range o.stats.ByPersona {
		byPersona[k] = v
	}
	return Stats{
		Turns:     o.stats.Turns,
		Failed:    o.stats.Failed,
		ByPersona: byPersona,
	}
}
