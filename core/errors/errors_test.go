package errors

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"
)

func TestErrorTierString(t *testing.T) {
	tests := []struct {
		tier     ErrorTier
		expected string
	}{
		{TierTransient, "transient"},
		{TierPermanent, "permanent"},
		{TierUserFixable, "user_fixable"},
		{TierExternalRateLimit, "external_rate_limit"},
		{TierExternalDegrading, "external_degrading"},
		{ErrorTier(999), "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			if got := tt.tier.String(); got != tt.expected {
				t.Errorf("ErrorTier.String() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestTieredErrorError(t *testing.T) {
	t.Run("with underlying error", func(t *testing.T) {
		underlying := errors.New("base error")
		err := NewTieredError(TierTransient, "wrapped", underlying)
		expected := "[transient] wrapped: base error"
		if err.Error() != expected {
			t.Errorf("Error() = %v, want %v", err.Error(), expected)
		}
	})

	t.Run("without underlying error", func(t *testing.T) {
		err := NewTieredError(TierPermanent, "simple error", nil)
		expected := "[permanent] simple error"
		if err.Error() != expected {
			t.Errorf("Error() = %v, want %v", err.Error(), expected)
		}
	})
}

func TestWrapWithTierPreservesTier(t *testing.T) {
	inner := FromStatus(http.StatusTooManyRequests, "openai generate", errors.New("slow down"))
	outer := WrapWithTier(TierPermanent, "route turn", inner)

	if GetTier(outer) != TierExternalRateLimit {
		t.Errorf("GetTier() = %v, want %v", GetTier(outer), TierExternalRateLimit)
	}
	if !IsRetryable(outer) {
		t.Error("rate limited error should be retryable")
	}
	if WrapWithTier(TierPermanent, "nothing", nil) != nil {
		t.Error("wrapping nil should return nil")
	}
}

func TestSentinelMatching(t *testing.T) {
	err := fmt.Errorf("generate: %w", Timeout(time.Second, context.DeadlineExceeded))

	if !errors.Is(err, ErrTimeout) {
		t.Error("timeout error should match ErrTimeout")
	}
	if errors.Is(err, ErrTemporaryFailure) {
		t.Error("timeout error should not match ErrTemporaryFailure")
	}
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Error("timeout error should unwrap to context.DeadlineExceeded")
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ErrorTier
	}{
		{"nil", nil, TierPermanent},
		{"deadline", fmt.Errorf("call: %w", context.DeadlineExceeded), TierTransient},
		{"rate limit text", errors.New("Rate limit reached for gpt-4o"), TierExternalRateLimit},
		{"quota text", errors.New("insufficient_quota"), TierExternalRateLimit},
		{"connection reset", errors.New("read tcp: connection reset by peer"), TierTransient},
		{"tiered", ErrMissingAPIKey, TierUserFixable},
		{"opaque", errors.New("invalid model"), TierPermanent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify(tt.err); got != tt.want {
				t.Errorf("Classify() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestTierForStatus(t *testing.T) {
	c := NewErrorClassifier()
	tests := []struct {
		status int
		want   ErrorTier
	}{
		{http.StatusTooManyRequests, TierExternalRateLimit},
		{http.StatusBadGateway, TierExternalDegrading},
		{529, TierExternalDegrading},
		{http.StatusUnauthorized, TierUserFixable},
		{http.StatusRequestTimeout, TierTransient},
		{http.StatusBadRequest, TierPermanent},
	}

	for _, tt := range tests {
		if got := c.TierForStatus(tt.status); got != tt.want {
			t.Errorf("TierForStatus(%d) = %v, want %v", tt.status, got, tt.want)
		}
	}
}

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, http.StatusOK},
		{"invalid input", WrapWithTier(TierPermanent, "decode", ErrInvalidInput), http.StatusBadRequest},
		{"timeout", Timeout(time.Minute, nil), http.StatusGatewayTimeout},
		{"rate limit", ErrRateLimited, http.StatusTooManyRequests},
		{"degrading", ErrServiceUnavailable, http.StatusBadGateway},
		{"missing key", ErrMissingAPIKey, http.StatusServiceUnavailable},
		{"plain", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := HTTPStatus(tt.err); got != tt.want {
				t.Errorf("HTTPStatus() = %d, want %d", got, tt.want)
			}
		})
	}
}
