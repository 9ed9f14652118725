package ocr

import (
	"sync"
	"sync/atomic"
	"time"
)

// CircuitState represents the state of the circuit breaker
type CircuitState int32

const (
	// CircuitClosed lets recognition requests through
	CircuitClosed CircuitState = iota
	// CircuitOpen skips recognition entirely
	CircuitOpen
	// CircuitHalfOpen allows a probe request
	CircuitHalfOpen
)

// String returns string representation of circuit state
func (s CircuitState) String() string {
	switch s {
	case CircuitClosed:
		return "closed"
	case CircuitOpen:
		return "open"
	case CircuitHalfOpen:
		return "half-open"
	default:
		return "unknown"
	}
}

// MarshalText renders the state by name in JSON status payloads
func (s CircuitState) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// CircuitBreaker stops calling a failing OCR backend until resetTimeout has passed
type CircuitBreaker struct {
	maxFailures      int
	resetTimeout     time.Duration
	halfOpenRequests int

	state            int32 // atomic CircuitState
	failures         int
	successCount     int
	lastFailTime     time.Time
	halfOpenAttempts int

	mu            sync.RWMutex
	now           func() time.Time
	onStateChange func(from, to CircuitState)
}

// NewCircuitBreaker creates a new circuit breaker
func NewCircuitBreaker(maxFailures int, resetTimeout time.Duration) *CircuitBreaker {
	if maxFailures < 1 {
		maxFailures = 1
	}
	return &CircuitBreaker{
		maxFailures:      maxFailures,
		resetTimeout:     resetTimeout,
		halfOpenRequests: 1,
		state:            int32(CircuitClosed),
		now:              time.Now,
	}
}

// SetStateChangeHandler sets a callback for state changes. The callback runs
// on its own goroutine.
func (cb *CircuitBreaker) SetStateChangeHandler(handler func(from, to CircuitState)) {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	cb.onStateChange = handler
}

// Call executes fn if the circuit allows it
func (cb *CircuitBreaker) Call(fn func() error) error {
	if !cb.CanAttempt() {
		return ErrCircuitOpen
	}

	err := fn()
	cb.RecordResult(err)
	return err
}

// CanAttempt returns whether a request can be attempted
func (cb *CircuitBreaker) CanAttempt() bool {
	state := CircuitState(atomic.LoadInt32(&cb.state))

	switch state {
	case CircuitClosed:
		return true

	case CircuitOpen:
		cb.mu.RLock()
		shouldReset := cb.now().Sub(cb.lastFailTime) > cb.resetTimeout
		cb.mu.RUnlock()

		if !shouldReset {
			return false
		}
		cb.transitionTo(CircuitHalfOpen)
		return cb.takeHalfOpenSlot()

	case CircuitHalfOpen:
		return cb.takeHalfOpenSlot()

	default:
		return false
	}
}

func (cb *CircuitBreaker) takeHalfOpenSlot() bool {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	if cb.halfOpenAttempts < cb.halfOpenRequests {
		cb.halfOpenAttempts++
		return true
	}
	return false
}

// RecordResult records the result of an attempt
func (cb *CircuitBreaker) RecordResult(err error) {
	state := CircuitState(atomic.LoadInt32(&cb.state))

	if err != nil {
		cb.recordFailure(state)
	} else {
		cb.recordSuccess(state)
	}
}

func (cb *CircuitBreaker) recordFailure(currentState CircuitState) {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	cb.failures++
	cb.lastFailTime = cb.now()

	switch currentState {
	case CircuitClosed:
		if cb.failures >= cb.maxFailures {
			cb.transitionToLocked(CircuitOpen)
		}

	case CircuitHalfOpen:
		// a failed probe reopens immediately
		cb.transitionToLocked(CircuitOpen)
		cb.halfOpenAttempts = 0
	}
}

func (cb *CircuitBreaker) recordSuccess(currentState CircuitState) {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	switch currentState {
	case CircuitHalfOpen:
		cb.successCount++
		if cb.successCount >= cb.halfOpenRequests {
			cb.failures = 0
			cb.successCount = 0
			cb.halfOpenAttempts = 0
			cb.transitionToLocked(CircuitClosed)
		}

	case CircuitClosed:
		cb.failures = 0
	}
}

func (cb *CircuitBreaker) transitionTo(newState CircuitState) {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	cb.transitionToLocked(newState)
}

// transitionToLocked must be called with cb.mu held
func (cb *CircuitBreaker) transitionToLocked(newState CircuitState) {
	oldState := CircuitState(atomic.LoadInt32(&cb.state))
	if oldState == newState {
		return
	}

	atomic.StoreInt32(&cb.state, int32(newState))

	if newState == CircuitHalfOpen {
		cb.halfOpenAttempts = 0
		cb.successCount = 0
	}

	if cb.onStateChange != nil {
		go cb.onStateChange(oldState, newState)
	}
}

// GetState returns the current state of the circuit breaker
func (cb *CircuitBreaker) GetState() CircuitState {
	return CircuitState(atomic.LoadInt32(&cb.state))
}

// GetStats returns current statistics
func (cb *CircuitBreaker) GetStats() CircuitBreakerStats {
	cb.mu.RLock()
	defer cb.mu.RUnlock()

	return CircuitBreakerStats{
		State:            CircuitState(atomic.LoadInt32(&cb.state)),
		Failures:         cb.failures,
		SuccessCount:     cb.successCount,
		LastFailTime:     cb.lastFailTime,
		HalfOpenAttempts: cb.halfOpenAttempts,
	}
}

// CircuitBreakerStats contains circuit breaker statistics
type CircuitBreakerStats struct {
	State            CircuitState `json:"state"`
	Failures         int          `json:"failures"`
	SuccessCount     int          `json:"success_count"`
	LastFailTime     time.Time    `json:"last_fail_time"`
	HalfOpenAttempts int          `json:"half_open_attempts"`
}
