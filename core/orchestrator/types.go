package orchestrator

import (
	"fmt"
	"log/slog"
	"time"

	coreerrors "github.com/andrelmaraujo/mandacaru/core/errors"
)

// =============================================================================
// Turn Orchestrator Types
// =============================================================================
//
// A turn is a depth-1 state machine: Routing, then Executing the chosen
// persona, then Done. Nothing is retained between turns; the caller owns
// the history.

var (
	// ErrUnknownPersona is returned when the router names a persona that has
	// no executor.
	ErrUnknownPersona = fmt.Errorf("unknown persona: %w", coreerrors.ErrInvariant)

	// ErrEmptyTurn is returned when an executor produces no messages.
	ErrEmptyTurn = fmt.Errorf("turn produced no messages: %w", coreerrors.ErrInvariant)
)

// =============================================================================
// Configuration Types
// =============================================================================

// Config configures the Orchestrator
type Config struct {
	Logger *slog.Logger // Optional, uses slog.Default() if nil

	// Routing. Only read by NewFromGenerator.
	HistoryWindow  int           // Default: 5
	RouteCacheSize int           // Default: 0 (no cache)
	RouteCacheTTL  time.Duration // Default: 10 minutes when the cache is on
}

// =============================================================================
// State Types
// =============================================================================

// Phase is a state of the turn machine.
type Phase string

const (
	PhaseRouting   Phase = "routing"
	PhaseExecuting Phase = "executing"
	PhaseDone      Phase = "done"
)

// Stats tracks orchestrator statistics
type Stats struct {
	Turns     int64            `json:"turns"`
	Failed    int64            `json:"failed"`
	ByPersona map[string]int64 `json:"by_persona"`
}
