package embedding

import (
	"context"
	"time"
)

// RetryPolicy controls how a retrying client reissues failed calls.
// The zero value performs no retries.
type RetryPolicy struct {
	MaxAttempts int           // total attempts including the first
	BaseDelay   time.Duration // delay before the second attempt, doubled each retry
}

// RetryingClient wraps a Client with bounded exponential backoff. Only
// transport-level failures are retried; a rejected input fails the same way
// every time and a malformed response indicates a contract break, so neither
// is reissued.
type RetryingClient struct {
	inner  Client
	policy RetryPolicy
}

// Retrying wraps client with the given policy. Retry behavior is an
// injectable strategy rather than a property of the gateway itself.
func Retrying(client Client, policy RetryPolicy) *RetryingClient {
	if policy.MaxAttempts < 1 {
		policy.MaxAttempts = 1
	}
	if policy.BaseDelay <= 0 {
		policy.BaseDelay = 500 * time.Millisecond
	}
	return &RetryingClient{inner: client, policy: policy}
}

// Embed calls the wrapped client, retrying unavailable-service failures up to
// the policy's attempt budget.
func (c *RetryingClient) Embed(ctx context.Context, text string) ([]float32, error) {
	delay := c.policy.BaseDelay
	var lastErr error

	for attempt := 1; attempt <= c.policy.MaxAttempts; attempt++ {
		vector, err := c.inner.Embed(ctx, text)
		if err == nil {
			return vector, nil
		}
		lastErr = err

		if !IsUnavailable(err) || attempt == c.policy.MaxAttempts {
			return nil, err
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(delay):
		}
		delay *= 2
	}

	return nil, lastErr
}
