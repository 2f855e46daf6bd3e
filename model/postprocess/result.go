// Package postprocess - Postprocessing utilities for detection models.
package postprocess

import "github.com/Pravallika0730/medical-image-analyzer/images"

// Result represents a single raw detection emitted by a model.
type Result struct {
	// The bounding box of the result, in source-image pixel coordinates.
	Box images.Rect
	// The confidence score of the result.
	Score float32
	// The predicted class index of the result.
	Class int
}

// NMSConfig defines filtering parameters applied to raw model output.
type NMSConfig struct {
	// Overlap threshold for suppression.
	IoUThreshold float32
	// Score floor applied while decoding, before suppression. Kept low so
	// callers control the user-facing threshold downstream.
	ConfidenceThreshold float32
	// If true, suppress only within the same class.
	ClassAware bool
	// Maximum detections to keep after suppression; 0 means unlimited.
	MaxDetections int
}
