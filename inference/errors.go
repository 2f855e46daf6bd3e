// Package inference - Process-wide model handle and ONNX sessions.
package inference

import (
	"fmt"

	"github.com/pkg/errors"
)

// ErrAcquireTimeout is returned when no model session becomes available
// before the configured admission timeout.
var ErrAcquireTimeout = errors.New("timeout waiting for available model session")

// LoadError reports that model weights could not be loaded: the file is
// missing, corrupt, or incompatible with the expected architecture.
// There is no model available to serve requests, so it is fatal for the
// process.
type LoadError struct {
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load model %s: %v", e.Path, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// InferenceError reports a failed model execution for one request.
// Retrying the same input yields the same failure, so callers should
// surface it rather than retry.
type InferenceError struct {
	Err error
}

func (e *InferenceError) Error() string {
	return fmt.Sprintf("model inference: %v", e.Err)
}

func (e *InferenceError) Unwrap() error { return e.Err }
