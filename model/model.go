// Package model - Detection model abstractions and label sets.
package model

import (
	"image"

	"github.com/Pravallika0730/medical-image-analyzer/model/postprocess"
)

// Family identifies the label-set convention of a model's outputs.
type Family string

const (
	// FamilyTumor is the custom brain-MRI tumor label set this service
	// ships with by default.
	FamilyTumor Family = "tumor"
	// FamilyCOCO is the 80 COCO classes, no background class.
	FamilyCOCO Family = "coco"
	// FamilyCustom is a label set loaded from a labels file.
	FamilyCustom Family = "custom"
)

// Name is the unique identifier of a model architecture.
type Name string

const (
	// NameYOLOv8 is the name of the YOLOv8 single-tensor model.
	NameYOLOv8 Name = "yolov8"
)

// Model translates between images and a detector's raw tensors. The
// network execution itself lives behind an inference session; a Model
// only knows the tensor layout of one architecture.
type Model interface {
	// Name returns the architecture identifier.
	Name() Name
	// Classes returns the ordered label set the weights were trained on.
	Classes() *OutputClassSet
	// InputShape returns the expected input width and height in pixels.
	InputShape() (width, height int)
	// OutputShape returns the rows and columns of the raw output tensor.
	OutputShape() (rows, cols int)
	// PreProcess fills dst with the model's input representation of img.
	PreProcess(img image.Image, dst []float32) error
	// PostProcess decodes the raw output tensor into detections scaled
	// to the original image dimensions. A nil config uses the model's
	// defaults.
	PostProcess(output []float32, origWidth, origHeight int, cfg *postprocess.NMSConfig) []postprocess.Result
}
