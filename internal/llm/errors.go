package llm

import "fmt"

// FailureKind classifies an inference failure
type FailureKind string

const (
	// FailureTransport covers network errors, timeouts, and non-2xx API
	// responses. Safe to retry: role calls have no side effects.
	FailureTransport FailureKind = "transport"

	// FailureParse means the model replied but the reply did not decode
	// into the expected structured shape.
	FailureParse FailureKind = "parse"
)

// InferenceError is the typed failure returned by the gateway. Callers treat
// it as a first-class branch, never as a reason to crash the request.
type InferenceError struct {
	Kind  FailureKind
	Cause string
	Err   error
}

func (e *InferenceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("inference %s failure: %s: %v", e.Kind, e.Cause, e.Err)
	}
	return fmt.Sprintf("inference %s failure: %s", e.Kind, e.Cause)
}

func (e *InferenceError) Unwrap() error {
	return e.Err
}
