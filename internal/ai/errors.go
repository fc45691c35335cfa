package ai

import (
	"errors"
	"fmt"
)

// ErrNotConfigured means no API key was provided; callers surface it
// differently from a failed call and never retry it.
var ErrNotConfigured = errors.New("ai: generator not configured")

// CallError is a failed or timed out generation call.
type CallError struct {
	Status int // HTTP status, 0 for transport errors
	Err    error
}

func (e *CallError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("ai: generate failed with status %d: %v", e.Status, e.Err)
	}
	return fmt.Sprintf("ai: generate failed: %v", e.Err)
}

func (e *CallError) Unwrap() error { return e.Err }
