package errors

import (
	"sync"
	"time"
)

// CircuitState represents the state of a circuit breaker.
type CircuitState int

const (
	// CircuitClosed allows requests to proceed normally.
	CircuitClosed CircuitState = iota

	// CircuitOpen blocks all requests during cooldown.
	CircuitOpen

	// CircuitHalfOpen lets a single probe through to test recovery.
	CircuitHalfOpen
)

var circuitStateNames = map[CircuitState]string{
	CircuitClosed:   "closed",
	CircuitOpen:     "open",
	CircuitHalfOpen: "half_open",
}

func (s CircuitState) String() string {
	if name, ok := circuitStateNames[s]; ok {
		return name
	}
	return "unknown"
}

// CircuitBreakerConfig configures circuit breaker behavior.
type CircuitBreakerConfig struct {
	// ConsecutiveFailures trips the breaker. Zero disables it.
	ConsecutiveFailures int `yaml:"consecutive_failures"`

	// CooldownDuration is the time before transitioning to half-open.
	CooldownDuration time.Duration `yaml:"cooldown_duration"`
}

// DefaultCircuitBreakerConfig returns the default configuration.
func DefaultCircuitBreakerConfig() CircuitBreakerConfig {
	return CircuitBreakerConfig{
		ConsecutiveFailures: 5,
		CooldownDuration:    30 * time.Second,
	}
}

// CircuitBreaker stops calls to a failing upstream for a cooldown period.
type CircuitBreaker struct {
	mu              sync.Mutex
	state           CircuitState
	failures        int
	probing         bool
	lastStateChange time.Time
	config          CircuitBreakerConfig
	resourceID      string
	now             func() time.Time
}

// NewCircuitBreaker creates a new circuit breaker for a resource.
func NewCircuitBreaker(resourceID string, config CircuitBreakerConfig) *CircuitBreaker {
	return newCircuitBreaker(resourceID, config, time.Now)
}

func newCircuitBreaker(resourceID string, config CircuitBreakerConfig, now func() time.Time) *CircuitBreaker {
	return &CircuitBreaker{
		state:           CircuitClosed,
		config:          config,
		resourceID:      resourceID,
		lastStateChange: now(),
		now:             now,
	}
}

// Allow reports whether a call may proceed. In half-open state only one
// probe is admitted until its result is recorded.
func (cb *CircuitBreaker) Allow() bool {
	if cb.config.ConsecutiveFailures <= 0 {
		return true
	}

	cb.mu.Lock()
	defer cb.mu.Unlock()

	switch cb.state {
	case CircuitOpen:
		if cb.now().Sub(cb.lastStateChange) < cb.config.CooldownDuration {
			return false
		}
		cb.transitionTo(CircuitHalfOpen)
		cb.probing = true
		return true
	case CircuitHalfOpen:
		if cb.probing {
			return false
		}
		cb.probing = true
		return true
	default:
		return true
	}
}

// RecordResult tracks the outcome of an admitted call.
func (cb *CircuitBreaker) RecordResult(success bool) {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	cb.probing = false
	if success {
		cb.failures = 0
		if cb.state != CircuitClosed {
			cb.transitionTo(CircuitClosed)
		}
		return
	}

	cb.failures++
	switch {
	case cb.state == CircuitHalfOpen:
		cb.transitionTo(CircuitOpen)
	case cb.state == CircuitClosed && cb.config.ConsecutiveFailures > 0 && cb.failures >= cb.config.ConsecutiveFailures:
		cb.transitionTo(CircuitOpen)
	}
}

// Release returns an admitted call that ended without telling anything
// about upstream health, such as a caller cancellation.
func (cb *CircuitBreaker) Release() {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	cb.probing = false
}

func (cb *CircuitBreaker) transitionTo(state CircuitState) {
	cb.state = state
	cb.lastStateChange = cb.now()
	if state == CircuitClosed {
		cb.failures = 0
	}
}

// ForceReset manually resets the circuit breaker to closed state.
func (cb *CircuitBreaker) ForceReset() {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	cb.probing = false
	cb.transitionTo(CircuitClosed)
}

// State returns the current circuit state.
func (cb *CircuitBreaker) State() CircuitState {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.state
}

// ResourceID returns the resource identifier.
func (cb *CircuitBreaker) ResourceID() string {
	return cb.resourceID
}

// Failures returns the current consecutive failure count.
func (cb *CircuitBreaker) Failures() int {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.failures
}
