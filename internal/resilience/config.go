package resilience

import (
	"time"

	"github.com/rendetalje/lead-cli/internal/config"
)

// FromConfig converts the retry section into a RetryConfig and the
// CircuitBreakerConfig used for per-record detail fetches.
func FromConfig(c config.RetryConfig) (RetryConfig, CircuitBreakerConfig) {
	rc := DefaultRetryConfig()
	if c.MaxAttempts > 0 {
		rc.MaxAttempts = c.MaxAttempts
	}
	if c.InitialBackoffMs > 0 {
		rc.InitialBackoff = time.Duration(c.InitialBackoffMs) * time.Millisecond
	}
	if c.MaxBackoffMs > 0 {
		rc.MaxBackoff = time.Duration(c.MaxBackoffMs) * time.Millisecond
	}
	if c.Multiplier > 0 {
		rc.Multiplier = c.Multiplier
	}
	if c.JitterFraction >= 0 {
		rc.JitterFraction = c.JitterFraction
	}
	if c.AttemptTimeoutSecs > 0 {
		rc.AttemptTimeout = time.Duration(c.AttemptTimeoutSecs) * time.Second
	}

	cb := DefaultCircuitBreakerConfig()
	if c.BreakerThreshold > 0 {
		cb.FailureThreshold = c.BreakerThreshold
	}
	return rc, cb
}
