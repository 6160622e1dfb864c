package errors

import (
	"context"
	"errors"
	"net"
	"net/http"
	"strings"
	"time"
)

// ErrorClassifier assigns tiers to raw errors coming back from a
// generation service.
type ErrorClassifier struct {
	rateLimitCodes   map[int]struct{}
	degradingCodes   map[int]struct{}
	userFixableCodes map[int]struct{}
}

func NewErrorClassifier() *ErrorClassifier {
	return &ErrorClassifier{
		rateLimitCodes: map[int]struct{}{
			http.StatusTooManyRequests: {},
		},
		degradingCodes: map[int]struct{}{
			http.StatusInternalServerError: {},
			http.StatusBadGateway:          {},
			http.StatusServiceUnavailable:  {},
			http.StatusGatewayTimeout:      {},
			529:                            {}, // anthropic overloaded
		},
		userFixableCodes: map[int]struct{}{
			http.StatusUnauthorized: {},
			http.StatusForbidden:    {},
		},
	}
}

var defaultClassifier = NewErrorClassifier()

// Classify returns the tier of err using the default classifier.
func Classify(err error) ErrorTier {
	return defaultClassifier.Classify(err)
}

// FromStatus wraps an upstream failure that carried an HTTP status.
func FromStatus(status int, message string, err error) *TieredError {
	return defaultClassifier.FromStatus(status, message, err)
}

// Wrap classifies err and wraps it, returning nil for a nil error.
func Wrap(message string, err error) error {
	if err == nil {
		return nil
	}
	return WrapWithTier(Classify(err), message, err)
}

func (c *ErrorClassifier) Classify(err error) ErrorTier {
	if err == nil {
		return TierPermanent
	}

	var te *TieredError
	if errors.As(err, &te) {
		return te.Tier
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return TierTransient
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return TierTransient
	}

	return c.classifyByContent(err.Error())
}

func (c *ErrorClassifier) FromStatus(status int, message string, err error) *TieredError {
	return NewTieredError(c.TierForStatus(status), message, err).WithStatusCode(status)
}

// TierForStatus maps an upstream HTTP status to a tier.
func (c *ErrorClassifier) TierForStatus(status int) ErrorTier {
	if _, ok := c.rateLimitCodes[status]; ok {
		return TierExternalRateLimit
	}
	if _, ok := c.degradingCodes[status]; ok {
		return TierExternalDegrading
	}
	if _, ok := c.userFixableCodes[status]; ok {
		return TierUserFixable
	}
	if status == http.StatusRequestTimeout {
		return TierTransient
	}
	return TierPermanent
}

func (c *ErrorClassifier) classifyByContent(errStr string) ErrorTier {
	lower := strings.ToLower(errStr)
	if strings.Contains(lower, "rate limit") || strings.Contains(lower, "too many requests") {
		return TierExternalRateLimit
	}
	if strings.Contains(lower, "quota") {
		return TierExternalRateLimit
	}
	for _, kw := range transientKeywords {
		if strings.Contains(lower, kw) {
			return TierTransient
		}
	}
	return TierPermanent
}

var transientKeywords = []string{
	"timeout",
	"timed out",
	"temporary",
	"connection reset",
	"connection refused",
	"eof",
	"broken pipe",
	"network unreachable",
}

// Timeout builds the error reported when a generation call exceeds its
// deadline.
func Timeout(after time.Duration, err error) error {
	te := NewTieredError(TierTransient, ErrTimeout.Message, err)
	te.WithContext("after", after.String())
	return te
}
