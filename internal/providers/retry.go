package providers

import (
	"context"
	"errors"
	"time"
)

type rateLimitError struct{}

func (e *rateLimitError) Error() string { return "rate limited" }

type authError struct {
	detail string
}

func (e *authError) Error() string {
	return "authentication error: " + e.detail
}

// IsAuthError reports whether err is a provider authentication failure.
func IsAuthError(err error) bool {
	var ae *authError
	return errors.As(err, &ae)
}

// withBackoff retries fn on rate-limit errors only, doubling the wait each
// attempt. Auth and other errors return immediately.
func withBackoff(ctx context.Context, maxRetries int, fn func() error) error {
	var err error
	for attempt := 0; attempt <= maxRetries; attempt++ {
		err = fn()
		if err == nil {
			return nil
		}
		var rl *rateLimitError
		if !errors.As(err, &rl) {
			return err
		}
		if attempt == maxRetries {
			break
		}
		wait := time.Duration(1<<uint(attempt)) * time.Second
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(wait):
		}
	}
	return err
}
