package runner

import (
	"fmt"
	"strings"
)

// ValidationError reports the validations an attempt failed.
type ValidationError struct {
	StatusCode int
	Names      []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed (HTTP %d): %s", e.StatusCode, strings.Join(e.Names, ", "))
}

// AttemptError identifies the worker and attempt a failure belongs to.
type AttemptError struct {
	Worker  int
	Attempt int
	Request string
	Err     error
}

func (e *AttemptError) Error() string {
	return fmt.Sprintf("worker %d attempt %d (%s): %v", e.Worker, e.Attempt, e.Request, e.Err)
}

func (e *AttemptError) Unwrap() error { return e.Err }

// FailedValidations returns the failing validation names.
func (e *ValidationError) FailedValidations() []string { return e.Names }
