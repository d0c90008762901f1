package genai

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"math/rand"
	"time"
)

const (
	maxAttempts = 3
	baseBackoff = 1 * time.Second
	maxBackoff  = 10 * time.Second
)

// Retrier wraps a Generator and retries transient failures. Terminal
// failures such as safety blocks return immediately, untouched.
type Retrier struct {
	gen    Generator
	logger *slog.Logger
	// sleep is replaceable in tests to avoid real backoff waits.
	sleep func(ctx context.Context, d time.Duration) error
}

// NewRetrier wraps gen with the standard retry policy: at most three
// attempts, exponential backoff between 1s and 10s with jitter.
func NewRetrier(gen Generator, logger *slog.Logger) *Retrier {
	if logger == nil {
		logger = slog.Default()
	}
	return &Retrier{gen: gen, logger: logger, sleep: sleepCtx}
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	select {
	case <-time.After(d):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Generate attempts the wrapped call up to maxAttempts times. Only
// errors whose APIError classifies as retriable trigger another
// attempt; everything else is handed back to the caller as is.
func (r *Retrier) Generate(ctx context.Context, req *Request) (*Envelope, error) {
	var lastErr error

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		env, err := r.gen.Generate(ctx, req)
		if err == nil {
			return env, nil
		}
		lastErr = err

		var apiErr *APIError
		if !errors.As(err, &apiErr) || !apiErr.Retriable() {
			r.logger.Debug("generation failed with terminal error",
				"attempt", attempt,
				"error", err)
			return nil, err
		}

		if attempt == maxAttempts {
			break
		}

		backoff := backoffFor(attempt)
		r.logger.Warn("generation failed, retrying",
			"attempt", attempt,
			"max_attempts", maxAttempts,
			"backoff", backoff,
			"status", apiErr.StatusCode)

		if err := r.sleep(ctx, backoff); err != nil {
			return nil, fmt.Errorf("genai: retry wait: %w", err)
		}
	}

	return nil, fmt.Errorf("genai: all %d attempts failed: %w", maxAttempts, lastErr)
}

// backoffFor returns the wait before the next attempt: 1s, 2s, 4s...
// capped at 10s, with up to 25% random jitter to spread herds.
func backoffFor(attempt int) time.Duration {
	d := time.Duration(math.Pow(2, float64(attempt-1))) * baseBackoff
	if d > maxBackoff {
		d = maxBackoff
	}
	jitter := time.Duration(rand.Int63n(int64(d) / 4))
	return d + jitter
}
