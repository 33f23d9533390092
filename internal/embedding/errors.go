package embedding

import (
	"errors"
	"fmt"
)

// ErrUnconfigured indicates no embedding service endpoint is configured.
// This is a startup-time failure, not a per-call condition.
var ErrUnconfigured = errors.New("embedding service URL is not configured")

// UnavailableError indicates the embedding service could not be reached or
// timed out. Callers may retry at the granularity of a whole ingestion run.
type UnavailableError struct {
	Cause error
}

func (e *UnavailableError) Error() string {
	return fmt.Sprintf("embedding service unavailable: %v", e.Cause)
}

func (e *UnavailableError) Unwrap() error {
	return e.Cause
}

// RejectedError indicates the embedding service returned an error response for
// a specific input. Non-retryable for that input.
type RejectedError struct {
	StatusCode int
	Body       string
}

func (e *RejectedError) Error() string {
	return fmt.Sprintf("embedding service returned status %d: %s", e.StatusCode, e.Body)
}

// MalformedError indicates a success response without the expected vector.
type MalformedError struct {
	Reason string
}

func (e *MalformedError) Error() string {
	return fmt.Sprintf("invalid response from embedding service: %s", e.Reason)
}

// IsUnavailable reports whether err is a transport-level failure worth
// retrying.
func IsUnavailable(err error) bool {
	var ue *UnavailableError
	return errors.As(err, &ue)
}
