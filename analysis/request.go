package analysis

import (
	"image"

	"github.com/Pravallika0730/medical-image-analyzer/images"
)

// InferenceRequest is a validated, normalized in-memory image plus the
// request parameters, ready to submit to the model. It is built per
// Analyze call, consumed immediately, and never persisted.
type InferenceRequest struct {
	// Pixels is the normalized RGB pixel buffer.
	Pixels *image.NRGBA
	// Width and Height are the source image dimensions, both non-zero.
	Width  int
	Height int
	// Channels is the meaningful color channel count after
	// normalization; always 3.
	Channels int
	// SourceFormat is the format the upload was encoded in.
	SourceFormat images.ImageFormat
	// ConfidenceThreshold filters detections scoring strictly below it.
	ConfidenceThreshold float32
}
