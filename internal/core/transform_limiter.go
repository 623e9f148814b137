package core

// transform_limiter.go implements concurrency control for workbook
// transformations.
//
// The limiter uses a semaphore pattern to restrict parallel transforms
// to a configurable maximum, preventing memory exhaustion when several
// large workbooks arrive at once. When all slots are occupied, new
// requests wait up to maxWait before failing with ErrTooManyTransforms.
//
// WaitForDrain supports graceful shutdown: it blocks until all active
// transformations complete.

import (
	"context"
	"errors"
	"sync"
	"time"
)

// ErrTooManyTransforms is returned when all transformation slots are
// occupied and the wait timeout expires. Clients should retry shortly.
var ErrTooManyTransforms = errors.New("too many concurrent transformations, please try again later")

// DefaultMaxConcurrentTransforms is the default parallel transform limit.
const DefaultMaxConcurrentTransforms = 5

// DefaultMaxWaitTime is how long to wait for a slot before rejecting.
const DefaultMaxWaitTime = 30 * time.Second

// TransformLimiter controls concurrent transformation processing.
type TransformLimiter struct {
	semaphore chan struct{}
	maxWait   time.Duration

	mu     sync.RWMutex
	active int
}

// NewTransformLimiter creates a limiter allowing at most maxConcurrent
// simultaneous transformations. Requests that cannot acquire a slot
// within maxWait receive ErrTooManyTransforms.
func NewTransformLimiter(maxConcurrent int, maxWait time.Duration) *TransformLimiter {
	if maxConcurrent <= 0 {
		maxConcurrent = DefaultMaxConcurrentTransforms
	}
	if maxWait <= 0 {
		maxWait = DefaultMaxWaitTime
	}

	return &TransformLimiter{
		semaphore: make(chan struct{}, maxConcurrent),
		maxWait:   maxWait,
	}
}

// Acquire attempts to acquire a transformation slot.
// Returns nil on success, ErrTooManyTransforms if the timeout expires.
// The caller MUST call Release() when done (use defer).
func (l *TransformLimiter) Acquire(ctx context.Context) error {
	waitCtx, cancel := context.WithTimeout(ctx, l.maxWait)
	defer cancel()

	select {
	case l.semaphore <- struct{}{}:
		l.mu.Lock()
		l.active++
		l.mu.Unlock()
		return nil

	case <-waitCtx.Done():
		// Distinguish caller cancellation from slot timeout.
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return ErrTooManyTransforms

	case <-ctx.Done():
		return ctx.Err()
	}
}

// Release releases a previously acquired slot.
// Must be called exactly once for each successful Acquire.
func (l *TransformLimiter) Release() {
	l.mu.Lock()
	l.active--
	l.mu.Unlock()

	<-l.semaphore
}

// ActiveCount returns the number of in-flight transformations.
func (l *TransformLimiter) ActiveCount() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.active
}

// WaitForDrain blocks until all active transformations complete or the
// context is cancelled. Used for graceful shutdown.
func (l *TransformLimiter) WaitForDrain(ctx context.Context) error {
	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if l.ActiveCount() == 0 {
				return nil
			}
		}
	}
}

// LimiterStatus is a snapshot of the limiter's current state.
type LimiterStatus struct {
	Active        int `json:"active"`
	Available     int `json:"available"`
	MaxConcurrent int `json:"max_concurrent"`
}

// Status returns the current limiter state for monitoring.
func (l *TransformLimiter) Status() LimiterStatus {
	l.mu.RLock()
	active := l.active
	l.mu.RUnlock()

	return LimiterStatus{
		Active:        active,
		Available:     cap(l.semaphore) - len(l.semaphore),
		MaxConcurrent: cap(l.semaphore),
	}
}
