// Package yolov8 - YOLOv8 single-tensor detection model.
package yolov8

import (
	"github.com/pkg/errors"

	"github.com/Pravallika0730/medical-image-analyzer/model"
	"github.com/Pravallika0730/medical-image-analyzer/model/postprocess"
)

const (
	// InputWidth is the model input width in pixels.
	InputWidth = 640
	// InputHeight is the model input height in pixels.
	InputHeight = 640
	// numAnchors is the number of candidate boxes in the output tensor.
	numAnchors = 8400
)

func init() {
	model.Register(model.NameYOLOv8, func(classes *model.OutputClassSet, nms *postprocess.NMSConfig) (model.Model, error) {
		return New(classes, nms)
	})
}

// defaultNMS keeps the decoding floor low so the analysis pipeline owns
// the user-facing confidence threshold.
var defaultNMS = postprocess.NMSConfig{
	IoUThreshold:        0.45,
	ConfidenceThreshold: 0.01,
	MaxDetections:       300,
}

// YOLOv8 decodes the exported YOLOv8 ONNX tensor layout: a 3x640x640
// float32 input named "images" and a [1, 4+nc, 8400] output named
// "output0" holding box centers, sizes, and per-class scores.
type YOLOv8 struct {
	classes *model.OutputClassSet
	nms     postprocess.NMSConfig
}

// New creates a YOLOv8 model for the given label set.
//
// Arguments:
//   - classes: The ordered label set the weights were trained on.
//   - nms: Suppression parameters; nil uses the model defaults.
//
// Returns:
//   - *YOLOv8: The configured model.
//   - error: An error if the class set is missing or empty.
func New(classes *model.OutputClassSet, nms *postprocess.NMSConfig) (*YOLOv8, error) {
	if classes == nil || classes.Len() == 0 {
		return nil, errors.New("yolov8 requires a non-empty class set")
	}
	m := &YOLOv8{classes: classes, nms: defaultNMS}
	if nms != nil {
		m.nms = *nms
	}
	return m, nil
}

// Name returns the architecture identifier.
func (m *YOLOv8) Name() model.Name { return model.NameYOLOv8 }

// Classes returns the label set the model resolves class indices with.
func (m *YOLOv8) Classes() *model.OutputClassSet { return m.classes }

// InputShape returns the expected input width and height in pixels.
func (m *YOLOv8) InputShape() (int, int) { return InputWidth, InputHeight }

// OutputShape returns the rows and columns of the raw output tensor.
func (m *YOLOv8) OutputShape() (int, int) { return 4 + m.classes.Len(), numAnchors }
