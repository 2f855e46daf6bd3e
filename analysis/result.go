package analysis

import "github.com/Pravallika0730/medical-image-analyzer/images"

// BoundingBox is an axis-aligned box in source-image pixel coordinates,
// with XMin < XMax and YMin < YMax.
type BoundingBox struct {
	XMin int `json:"x_min"`
	YMin int `json:"y_min"`
	XMax int `json:"x_max"`
	YMax int `json:"y_max"`
}

func toBoundingBox(r images.Rect) BoundingBox {
	rect := r.ToRect()
	return BoundingBox{
		XMin: rect.Min.X,
		YMin: rect.Min.Y,
		XMax: rect.Max.X,
		YMax: rect.Max.Y,
	}
}

// Detection is one detected object with its resolved label.
type Detection struct {
	ClassID     int         `json:"class_id"`
	ClassName   string      `json:"class_name"`
	Confidence  float32     `json:"confidence"`
	BoundingBox BoundingBox `json:"bounding_box"`
}

// DetectionResult is the structured output of one analysis request.
// It is immutable after construction; ownership transfers to the caller.
//
// Zero detections is a valid, successful result with TotalCount 0 and
// TopDetection absent.
type DetectionResult struct {
	// Detections in model emission order, not re-sorted by the pipeline.
	Detections []Detection `json:"detections"`
	// TotalCount equals len(Detections).
	TotalCount int `json:"total_count"`
	// TopDetection is the first detection, or nil when there are none.
	TopDetection *Detection `json:"top_detection,omitempty"`
	// AnnotatedImage is the source image with boxes and labels drawn,
	// encoded as JPEG. Absent when annotation was disabled or rendering
	// failed; rendering failure never invalidates the numeric results.
	AnnotatedImage []byte `json:"annotated_image,omitempty"`
}
