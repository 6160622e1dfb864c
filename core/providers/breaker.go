package providers

import (
	"context"
	"errors"
	"log/slog"

	coreerrors "github.com/andrelmaraujo/mandacaru/core/errors"
)

// BreakerGenerator fails fast while the upstream is unhealthy. Only
// failures that say something about the upstream (timeouts, rate limits,
// 5xx) count toward tripping; bad credentials and caller cancellations do
// not.
type BreakerGenerator struct {
	next    Generator
	breaker *coreerrors.CircuitBreaker
	logger  *slog.Logger
}

// NewBreakerGenerator guards next with a circuit breaker named resource.
func NewBreakerGenerator(next Generator, resource string, cfg coreerrors.CircuitBreakerConfig, logger *slog.Logger) *BreakerGenerator {
	if logger == nil {
		logger = slog.Default()
	}
	return &BreakerGenerator{
		next:    next,
		breaker: coreerrors.NewCircuitBreaker(resource, cfg),
		logger:  logger.With("breaker", resource),
	}
}

func (g *BreakerGenerator) Generate(ctx context.Context, messages []Message) (string, error) {
	if !g.breaker.Allow() {
		return "", &GenerationError{Provider: g.breaker.ResourceID(), Err: coreerrors.ErrServiceUnavailable}
	}

	out, err := g.next.Generate(ctx, messages)
	switch {
	case err == nil:
		g.breaker.RecordResult(true)
	case errors.Is(err, context.Canceled):
		g.breaker.Release()
	case coreerrors.IsRetryable(err):
		before := g.breaker.State()
		g.breaker.RecordResult(false)
		if after := g.breaker.State(); after != before {
			g.logger.Warn("circuit state changed", "from", before.String(), "to", after.String())
		}
	default:
		g.breaker.Release()
	}
	return out, err
}

// State reports the breaker state.
func (g *BreakerGenerator) State() coreerrors.CircuitState {
	return g.breaker.State()
}
