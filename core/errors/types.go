// Package errors implements the tiered error taxonomy used to report
// generation service failures and orchestration invariant violations.
package errors

import (
	"errors"
	"fmt"
	"net/http"
	"time"
)

// ErrorTier represents the classification tier for errors.
type ErrorTier int

const (
	// TierTransient indicates temporary errors such as network timeouts.
	TierTransient ErrorTier = iota

	// TierPermanent indicates errors that will not resolve with retry.
	// Examples: invalid input, authentication failure, broken invariants.
	TierPermanent

	// TierUserFixable indicates errors that require operator intervention.
	// Examples: missing API key, unknown provider.
	TierUserFixable

	// TierExternalRateLimit indicates rate limiting or quota exhaustion.
	TierExternalRateLimit

	// TierExternalDegrading indicates 5xx responses from the provider.
	TierExternalDegrading
)

var tierNames = map[ErrorTier]string{
	TierTransient:         "transient",
	TierPermanent:         "permanent",
	TierUserFixable:       "user_fixable",
	TierExternalRateLimit: "external_rate_limit",
	TierExternalDegrading: "external_degrading",
}

func (t ErrorTier) String() string {
	if name, ok := tierNames[t]; ok {
		return name
	}
	return "unknown"
}

// Retryable reports whether a caller may reissue the failed turn.
func (t ErrorTier) Retryable() bool {
	switch t {
	case TierTransient, TierExternalRateLimit, TierExternalDegrading:
		return true
	default:
		return false
	}
}

// TieredError wraps an error with tier classification.
type TieredError struct {
	Tier       ErrorTier
	Message    string
	Underlying error
	StatusCode int
	RetryAfter time.Duration
	Context    map[string]string
}

// Error implements the error interface.
func (e *TieredError) Error() string {
	if e.Underlying != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Tier, e.Message, e.Underlying)
	}
	return fmt.Sprintf("[%s] %s", e.Tier, e.Message)
}

// Unwrap returns the underlying error for errors.Is/As support.
func (e *TieredError) Unwrap() error {
	return e.Underlying
}

// Is matches sentinels by tier and message so that wrapped instances of
// ErrTimeout still satisfy errors.Is(err, ErrTimeout).
func (e *TieredError) Is(target error) bool {
	var te *TieredError
	if !errors.As(target, &te) {
		return false
	}
	return e.Tier == te.Tier && e.Message == te.Message
}

// NewTieredError creates a new TieredError with the given tier and message.
func NewTieredError(tier ErrorTier, message string, underlying error) *TieredError {
	return &TieredError{
		Tier:       tier,
		Message:    message,
		Underlying: underlying,
		Context:    make(map[string]string),
	}
}

// WithStatusCode adds an upstream HTTP status code to the error.
func (e *TieredError) WithStatusCode(code int) *TieredError {
	e.StatusCode = code
	return e
}

// WithRetryAfter adds a retry-after duration to the error.
func (e *TieredError) WithRetryAfter(d time.Duration) *TieredError {
	e.RetryAfter = d
	return e
}

// WithContext adds context key-value pairs to the error.
func (e *TieredError) WithContext(key, value string) *TieredError {
	e.Context[key] = value
	return e
}

// GetTier extracts the ErrorTier from an error, defaulting to Permanent.
func GetTier(err error) ErrorTier {
	var te *TieredError
	if errors.As(err, &te) {
		return te.Tier
	}
	return TierPermanent
}

// IsRetryable checks if an error should be retried based on its tier.
func IsRetryable(err error) bool {
	return GetTier(err).Retryable()
}

// Common sentinel errors for each tier.
var (
	ErrTimeout          = NewTieredError(TierTransient, "operation timed out", nil)
	ErrTemporaryFailure = NewTieredError(TierTransient, "temporary failure", nil)

	ErrInvalidInput = NewTieredError(TierPermanent, "invalid input", nil)
	ErrUnauthorized = NewTieredError(TierPermanent, "unauthorized", nil)
	ErrInvariant    = NewTieredError(TierPermanent, "invariant violated", nil)

	ErrMissingConfig = NewTieredError(TierUserFixable, "missing configuration", nil)
	ErrMissingAPIKey = NewTieredError(TierUserFixable, "missing API key", nil)

	ErrRateLimited   = NewTieredError(TierExternalRateLimit, "rate limited", nil).WithStatusCode(http.StatusTooManyRequests)
	ErrQuotaExceeded = NewTieredError(TierExternalRateLimit, "quota exceeded", nil)

	ErrServiceUnavailable = NewTieredError(TierExternalDegrading, "service unavailable", nil).WithStatusCode(http.StatusServiceUnavailable)
)

// WrapWithTier wraps an error with a tier classification. An error that is
// already tiered keeps its tier.
func WrapWithTier(tier ErrorTier, message string, err error) error {
	if err == nil {
		return nil
	}

	var te *TieredError
	if errors.As(err, &te) {
		return &TieredError{
			Tier:       te.Tier,
			Message:    message,
			Underlying: err,
			StatusCode: te.StatusCode,
			RetryAfter: te.RetryAfter,
			Context:    te.Context,
		}
	}

	return NewTieredError(tier, message, err)
}

// HTTPStatus maps an error to the status a transport should answer with.
func HTTPStatus(err error) int {
	if err == nil {
		return http.StatusOK
	}
	if errors.Is(err, ErrInvalidInput) {
		return http.StatusBadRequest
	}
	switch GetTier(err) {
	case TierTransient:
		return http.StatusGatewayTimeout
	case TierExternalRateLimit:
		return http.StatusTooManyRequests
	case TierExternalDegrading:
		return http.StatusBadGateway
	case TierUserFixable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
