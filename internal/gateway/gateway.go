// Package gateway abstracts the AI backend that turns project inputs
// into plan text. Callers see a single Submit method; concrete
// providers and the retry decorator live behind it.
package gateway

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Gateway sends one generation request to an AI backend and returns
// the raw response text. Implementations must honor ctx cancellation.
type Gateway interface {
	Submit(ctx context.Context, req *Request) (string, error)
}

// Request describes one generation call
type Request struct {
	Prompt       string
	SystemPrompt string
	MaxTokens    int
	Temperature  float64
	Metadata     map[string]string

	// OnProgress, when set, receives coarse progress in [0,1] as the
	// request moves through its lifecycle. Called from the gateway's
	// goroutine; callbacks must be fast and non-blocking.
	OnProgress func(fraction float64)
}

// Progress reports progress to the request's callback if one is set
func (r *Request) Progress(fraction float64) {
	if r.OnProgress != nil {
		r.OnProgress(fraction)
	}
}

// FailureKind classifies gateway failures for retry and UI decisions
type FailureKind string

const (
	FailureCancelled   FailureKind = "cancelled"
	FailureTimeout     FailureKind = "timeout"
	FailureRateLimited FailureKind = "rate_limited"
	FailureServerError FailureKind = "server_error"
	FailureNetwork     FailureKind = "network"
)

// Failure is the error type returned by gateway implementations
type Failure struct {
	Kind       FailureKind
	Message    string
	StatusCode int
	RetryAfter time.Duration
	Cause      error
}

func (f *Failure) Error() string {
	if f.Cause != nil {
		return fmt.Sprintf("gateway %s: %s: %v", f.Kind, f.Message, f.Cause)
	}
	return fmt.Sprintf("gateway %s: %s", f.Kind, f.Message)
}

func (f *Failure) Unwrap() error {
	return f.Cause
}

// Retryable reports whether another attempt could succeed
func (f *Failure) Retryable() bool {
	switch f.Kind {
	case FailureRateLimited, FailureNetwork, FailureTimeout:
		return true
	case FailureServerError:
		// Client errors (bad request, auth) carry a 4xx status and
		// will fail the same way on every attempt.
		return f.StatusCode == 0 || f.StatusCode >= 500
	}
	return false
}

// IsCancelled reports whether err is a gateway cancellation
func IsCancelled(err error) bool {
	f := failureOf(err)
	return f != nil && f.Kind == FailureCancelled
}

// IsRetryable reports whether err is a gateway failure worth retrying
func IsRetryable(err error) bool {
	f := failureOf(err)
	return f != nil && f.Retryable()
}

func failureOf(err error) *Failure {
	var f *Failure
	if errors.As(err, &f) {
		return f
	}
	return nil
}
