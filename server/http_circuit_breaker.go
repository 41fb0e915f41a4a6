package server

import (
	"sync"
	"time"
)

// HTTPCircuitBreakerState is the circuit breaker state for HTTP clients.
type HTTPCircuitBreakerState int

const (
	HTTPStateClosed   HTTPCircuitBreakerState = iota // normal operation
	HTTPStateOpen                                    // requests are blocked
	HTTPStateHalfOpen                                // probing for recovery
)

// HTTPCircuitBreaker protects outbound HTTP clients from cascading failures.
type HTTPCircuitBreaker struct {
	mu               sync.Mutex
	state            HTTPCircuitBreakerState
	failureCount     int
	successCount     int
	failureThreshold int
	successThreshold int
	timeout          time.Duration
	lastFailureTime  time.Time
}

// NewHTTPCircuitBreaker creates a circuit breaker that opens after 5
// consecutive failures and probes again after 30 seconds.
func NewHTTPCircuitBreaker() *HTTPCircuitBreaker {
	return &HTTPCircuitBreaker{
		state:            HTTPStateClosed,
		failureThreshold: 5,
		successThreshold: 2,
		timeout:          30 * time.Second,
	}
}

// CanProceed reports whether a request may be attempted. When the breaker
// is open and the timeout has passed it transitions to half-open and
// permits a probe request.
func (cb *HTTPCircuitBreaker) CanProceed() bool {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	switch cb.state {
	case HTTPStateClosed:
		return true

	case HTTPStateOpen:
		if time.Since(cb.lastFailureTime) > cb.timeout {
			cb.state = HTTPStateHalfOpen
			cb.successCount = 0
			return true
		}
		return false

	case HTTPStateHalfOpen:
		return true

	default:
		return false
	}
}

// RecordSuccess registers a successful request.
func (cb *HTTPCircuitBreaker) RecordSuccess() {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	switch cb.state {
	case HTTPStateClosed:
		cb.failureCount = 0

	case HTTPStateHalfOpen:
		cb.successCount++
		if cb.successCount >= cb.successThreshold {
			cb.state = HTTPStateClosed
			cb.failureCount = 0
			cb.successCount = 0
		}
	}
}

// RecordFailure registers a failed request.
func (cb *HTTPCircuitBreaker) RecordFailure() {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	cb.lastFailureTime = time.Now()

	switch cb.state {
	case HTTPStateClosed:
		cb.failureCount++
		if cb.failureCount >= cb.failureThreshold {
			cb.state = HTTPStateOpen
		}

	case HTTPStateHalfOpen:
		cb.state = HTTPStateOpen
		cb.failureCount = cb.failureThreshold
		cb.successCount = 0
	}
}

// GetState returns the current state name for logging.
func (cb *HTTPCircuitBreaker) GetState() string {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	switch cb.state {
	case HTTPStateClosed:
		return "closed"
	case HTTPStateOpen:
		return "open"
	case HTTPStateHalfOpen:
		return "half-open"
	default:
		return "unknown"
	}
}
