package generation

import "fmt"

// TransientError marks an upstream failure that is safe to retry:
// network errors, timeouts, and 5xx/429 responses.
type TransientError struct {
	Cause error
}

func (e *TransientError) Error() string {
	return fmt.Sprintf("transient upstream error: %v", e.Cause)
}

func (e *TransientError) Unwrap() error { return e.Cause }

// MalformedResponseError marks an upstream response that could not be parsed
// into the structured content contract. Never retried.
type MalformedResponseError struct {
	Detail string
	Cause  error
}

func (e *MalformedResponseError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("malformed generation response: %s: %v", e.Detail, e.Cause)
	}
	return fmt.Sprintf("malformed generation response: %s", e.Detail)
}

func (e *MalformedResponseError) Unwrap() error { return e.Cause }

// RejectedError marks a non-transient upstream rejection (4xx). Never retried.
type RejectedError struct {
	StatusCode int
	Body       string
}

func (e *RejectedError) Error() string {
	return fmt.Sprintf("generation request rejected with status %d: %s", e.StatusCode, e.Body)
}
