// Package analysis - End-to-end image analysis pipeline.
package analysis

import "fmt"

// DecodeError reports input bytes that are not a valid supported image.
// The request fails; the process keeps serving other requests.
type DecodeError struct {
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode image: %v", e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// ValidationError reports a decoded image or request parameter that
// violates pipeline invariants. Request-scoped, like DecodeError.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return "invalid request: " + e.Reason
}

// LabelMappingError reports a detected class index with no corresponding
// label. This signals a deployment defect (weights paired with the wrong
// label set), not a bad input, so it is logged at high severity and
// never retried.
type LabelMappingError struct {
	ClassID    int
	LabelCount int
}

func (e *LabelMappingError) Error() string {
	return fmt.Sprintf("class id %d outside label table of %d entries", e.ClassID, e.LabelCount)
}
