package store

import (
	"context"
	"errors"
	"sync"
	"time"

	"file-categorizer/internal/logging"
)

// RetryPolicy retries an operation on retryable errors with exponential
// backoff. A zero MaxRetries disables retrying entirely.
type RetryPolicy struct {
	MaxRetries    int
	Delay         time.Duration
	BackoffFactor float64
}

// DefaultRetryPolicy mirrors the bounded-retry contract: three retries
// starting at one second, doubling each attempt.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxRetries:    3,
		Delay:         time.Second,
		BackoffFactor: 2.0,
	}
}

// Do runs op, retrying on retryable errors until the attempt budget is
// exhausted. Non-retryable errors propagate immediately.
func (p RetryPolicy) Do(op string, fn func() error) error {
	delay := p.Delay
	var err error
	for attempt := 0; attempt <= p.MaxRetries; attempt++ {
		err = fn()
		if err == nil {
			return nil
		}
		if !IsRetryable(err) {
			return err
		}
		if attempt == p.MaxRetries {
			logging.Error("%s failed after %d retries: %v", op, p.MaxRetries, err)
			return err
		}
		logging.Warn("%s failed (attempt %d/%d): %v", op, attempt+1, p.MaxRetries+1, err)
		time.Sleep(delay)
		delay = time.Duration(float64(delay) * p.BackoffFactor)
	}
	return err
}

// breakerState tracks the circuit breaker's three positions.
type breakerState int

const (
	breakerClosed breakerState = iota
	breakerOpen
	breakerHalfOpen
)

// Breaker is a circuit breaker around store operations. After
// FailureThreshold consecutive failures it opens and fails fast until
// RecoveryTimeout has elapsed, then allows a single trial call through.
type Breaker struct {
	FailureThreshold int
	RecoveryTimeout  time.Duration

	mu          sync.Mutex
	failures    int
	lastFailure time.Time
	state       breakerState
}

// NewBreaker creates a circuit breaker with the given thresholds.
func NewBreaker(failureThreshold int, recoveryTimeout time.Duration) *Breaker {
	return &Breaker{
		FailureThreshold: failureThreshold,
		RecoveryTimeout:  recoveryTimeout,
	}
}

// Call runs fn through the breaker. While open it returns ErrCircuitOpen
// without invoking fn.
func (b *Breaker) Call(fn func() error) error {
	b.mu.Lock()
	if b.state == breakerOpen {
		if time.Since(b.lastFailure) >= b.RecoveryTimeout {
			b.state = breakerHalfOpen
		} else {
			b.mu.Unlock()
			return ErrCircuitOpen
		}
	}
	b.mu.Unlock()

	err := fn()

	b.mu.Lock()
	defer b.mu.Unlock()
	if err != nil {
		// Cancellations are not store faults and must not trip the
		// breaker.
		if errors.Is(err, context.Canceled) {
			return err
		}
		b.failures++
		b.lastFailure = time.Now()
		if b.failures >= b.FailureThreshold || b.state == breakerHalfOpen {
			if b.state != breakerOpen {
				logging.Warn("circuit breaker opened after %d consecutive failures", b.failures)
			}
			b.state = breakerOpen
		}
		return err
	}
	b.failures = 0
	b.state = breakerClosed
	return nil
}

// State returns a label for the breaker's current position.
func (b *Breaker) State() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	switch b.state {
	case breakerOpen:
		return "open"
	case breakerHalfOpen:
		return "half-open"
	default:
		return "closed"
	}
}
