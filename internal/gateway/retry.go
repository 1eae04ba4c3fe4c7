package gateway

import (
	"context"
	"errors"
	"math/rand"
	"time"

	"github.com/felixgeelhaar/planweave/internal/log"
)

// RetryConfig tunes the retry decorator
type RetryConfig struct {
	MaxAttempts    int
	InitialDelay   time.Duration
	MaxDelay       time.Duration
	AttemptTimeout time.Duration
}

// DefaultRetryConfig returns sensible retry defaults
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts:    3,
		InitialDelay:   time.Second,
		MaxDelay:       30 * time.Second,
		AttemptTimeout: 2 * time.Minute,
	}
}

// Retrying wraps a Gateway with bounded exponential-backoff retries.
// Only retryable failures trigger another attempt; cancellation and
// client errors surface immediately.
type Retrying struct {
	inner  Gateway
	config RetryConfig
	logger *log.Logger
}

// WithRetry decorates a gateway with retry behavior
func WithRetry(inner Gateway, config RetryConfig, logger *log.Logger) *Retrying {
	if config.MaxAttempts <= 0 {
		config.MaxAttempts = 1
	}
	if config.InitialDelay <= 0 {
		config.InitialDelay = time.Second
	}
	if config.MaxDelay <= 0 {
		config.MaxDelay = 30 * time.Second
	}
	if logger == nil {
		logger = log.DefaultLogger()
	}
	return &Retrying{inner: inner, config: config, logger: logger}
}

// Submit implements Gateway.Submit
func (r *Retrying) Submit(ctx context.Context, req *Request) (string, error) {
	var lastErr error

	for attempt := 1; attempt <= r.config.MaxAttempts; attempt++ {
		text, err := r.submitOnce(ctx, req)
		if err == nil {
			return text, nil
		}
		lastErr = err

		if IsCancelled(err) || !IsRetryable(err) {
			return "", err
		}
		if attempt == r.config.MaxAttempts {
			break
		}

		delay := r.backoff(attempt, err)
		r.logger.Warn("gateway attempt failed, retrying",
			"attempt", attempt,
			"max_attempts", r.config.MaxAttempts,
			"delay", delay.String(),
			"error", err.Error(),
		)

		select {
		case <-ctx.Done():
			if errors.Is(ctx.Err(), context.DeadlineExceeded) {
				return "", &Failure{Kind: FailureTimeout, Message: "deadline expired during backoff", Cause: ctx.Err()}
			}
			return "", &Failure{Kind: FailureCancelled, Message: "cancelled during backoff", Cause: ctx.Err()}
		case <-time.After(delay):
		}
	}

	return "", lastErr
}

func (r *Retrying) submitOnce(ctx context.Context, req *Request) (string, error) {
	if r.config.AttemptTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.config.AttemptTimeout)
		defer cancel()
	}
	return r.inner.Submit(ctx, req)
}

// backoff doubles the delay per attempt with jitter, honoring a
// server-provided Retry-After when it is longer.
func (r *Retrying) backoff(attempt int, err error) time.Duration {
	delay := r.config.InitialDelay
	for i := 1; i < attempt; i++ {
		delay *= 2
		if delay >= r.config.MaxDelay {
			delay = r.config.MaxDelay
			break
		}
	}

	if f := failureOf(err); f != nil && f.RetryAfter > delay {
		delay = f.RetryAfter
	}

	jitter := time.Duration(rand.Int63n(int64(delay)/4 + 1))
	delay += jitter
	if delay > r.config.MaxDelay {
		delay = r.config.MaxDelay
	}
	return delay
}
