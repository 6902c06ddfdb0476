package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"math/rand/v2"
	"strings"
	"sync"
	"time"

	"google.golang.org/genai"
)

// ErrCircuitOpen is returned while too many consecutive calls have failed.
var ErrCircuitOpen = errors.New("circuit breaker open")

// statusCoder is implemented by provider errors that carry an HTTP status.
type statusCoder interface {
	StatusCode() int
}

// retryPolicy retries transient provider failures with exponential backoff and
// trips a circuit breaker after circuitBreakerMax consecutive failed calls. The
// breaker lets one call through again once cooldown has passed since the last failure.
type retryPolicy struct {
	MaxRetries        int
	BaseDelay         time.Duration
	MaxDelay          time.Duration
	RequestTimeout    time.Duration
	circuitBreakerMax int
	cooldown          time.Duration

	mu                sync.Mutex
	consecutiveErrors int
	lastFailure       time.Time
}

func newRetryPolicy(maxRetries int, requestTimeout time.Duration) *retryPolicy {
	return &retryPolicy{
		MaxRetries:        maxRetries,
		BaseDelay:         time.Second,
		MaxDelay:          90 * time.Second,
		RequestTimeout:    requestTimeout,
		circuitBreakerMax: 5,
		cooldown:          time.Minute,
	}
}

func (p *retryPolicy) do(ctx context.Context, name string, op func(ctx context.Context) error) error {
	if errs, open := p.Status(); open {
		return fmt.Errorf("%w: too many consecutive errors (%d)", ErrCircuitOpen, errs)
	}

	timeoutCtx := ctx
	if p.RequestTimeout > 0 {
		var cancel context.CancelFunc
		timeoutCtx, cancel = context.WithTimeout(ctx, p.RequestTimeout)
		defer cancel()
	}

	var lastErr error
	for attempt := 0; attempt <= p.MaxRetries; attempt++ {
		if attempt > 0 {
			delay := p.calculateBackoff(attempt)
			log.Printf("Retry attempt %d/%d for %s after %v", attempt, p.MaxRetries, name, delay)

			select {
			case <-time.After(delay):
			case <-timeoutCtx.Done():
				return fmt.Errorf("context timeout during retry: %w", timeoutCtx.Err())
			}
		}

		err := op(timeoutCtx)
		if err == nil {
			p.recordSuccess()
			return nil
		}
		lastErr = err

		if !isRetryableError(err) {
			log.Printf("Non-retryable error from %s: %v", name, err)
			p.recordFailure()
			return fmt.Errorf("%s failed: %w", name, err)
		}

		log.Printf("Retryable error from %s on attempt %d: %v", name, attempt+1, err)
	}

	p.recordFailure()
	return fmt.Errorf("max retries (%d) exceeded for %s: %w", p.MaxRetries, name, lastErr)
}

func (p *retryPolicy) calculateBackoff(attempt int) time.Duration {
	delay := p.BaseDelay * time.Duration(math.Pow(2, float64(attempt-1)))

	if delay > p.MaxDelay {
		delay = p.MaxDelay
	}

	// +/- 12.5%
	jitter := int64(float64(delay) * 0.25)
	if jitter > 0 {
		delay += time.Duration(rand.Int64N(jitter+1) - jitter/2)
	}
	return min(delay, p.MaxDelay)
}

func (p *retryPolicy) recordSuccess() {
	p.mu.Lock()
	p.consecutiveErrors = 0
	p.mu.Unlock()
}

func (p *retryPolicy) recordFailure() {
	p.mu.Lock()
	p.consecutiveErrors++
	p.lastFailure = time.Now()
	if p.consecutiveErrors == p.circuitBreakerMax {
		log.Printf("Circuit breaker opened after %d consecutive errors", p.consecutiveErrors)
	}
	p.mu.Unlock()
}

// Status returns the number of consecutive failures and whether the breaker is open.
func (p *retryPolicy) Status() (consecutiveErrors int, isOpen bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	open := p.consecutiveErrors >= p.circuitBreakerMax && time.Since(p.lastFailure) < p.cooldown
	return p.consecutiveErrors, open
}

func isRetryableError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	code := 0
	var apiErr *genai.APIError
	var sc statusCoder
	switch {
	case errors.As(err, &apiErr):
		code = apiErr.Code
	case errors.As(err, &sc):
		code = sc.StatusCode()
	}
	switch code {
	case 429, 500, 502, 503, 504:
		return true
	case 400, 401, 403, 404:
		return false
	}

	errMsg := err.Error()
	if strings.Contains(errMsg, "connection refused") ||
		strings.Contains(errMsg, "connection reset") ||
		strings.Contains(errMsg, "timeout") ||
		strings.Contains(errMsg, "temporary failure") ||
		strings.Contains(errMsg, "EOF") {
		return true
	}

	return false
}
