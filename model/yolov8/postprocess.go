package yolov8

import (
	"github.com/Pravallika0730/medical-image-analyzer/images"
	"github.com/Pravallika0730/medical-image-analyzer/model/postprocess"
)

// PostProcess decodes the raw [1, 4+nc, 8400] output tensor into
// detections scaled to the original image dimensions.
//
// The tensor is anchor-major per row: output[row*8400+a] is row `row`
// of anchor `a`. Rows 0..3 hold the box center, width, and height in
// input-pixel units; rows 4..4+nc-1 hold per-class scores. Each anchor
// keeps its best-scoring class, boxes are scaled back to source pixels
// and clamped, then greedy NMS removes overlapping duplicates.
//
// Arguments:
//   - output: The raw output tensor data.
//   - origWidth: Source image width in pixels.
//   - origHeight: Source image height in pixels.
//   - cfg: Suppression parameters; nil uses the model defaults.
//
// Returns:
//   - Detections ordered by descending confidence, or nil if the tensor
//     does not match the expected layout.
func (m *YOLOv8) PostProcess(output []float32, origWidth, origHeight int, cfg *postprocess.NMSConfig) []postprocess.Result {
	if cfg == nil {
		cfg = &m.nms
	}

	numClasses := m.classes.Len()
	if len(output) < (4+numClasses)*numAnchors {
		return nil
	}
	if origWidth <= 0 || origHeight <= 0 {
		return nil
	}

	scaleX := float32(origWidth) / float32(InputWidth)
	scaleY := float32(origHeight) / float32(InputHeight)

	results := make([]postprocess.Result, 0, 64)
	for a := 0; a < numAnchors; a++ {
		classID := 0
		score := float32(0)
		for c := 0; c < numClasses; c++ {
			s := output[(4+c)*numAnchors+a]
			if s > score {
				score = s
				classID = c
			}
		}
		if score < cfg.ConfidenceThreshold {
			continue
		}

		cx := output[a]
		cy := output[numAnchors+a]
		w := output[2*numAnchors+a]
		h := output[3*numAnchors+a]

		box := images.Rect{
			X1: (cx - w/2) * scaleX,
			Y1: (cy - h/2) * scaleY,
			X2: (cx + w/2) * scaleX,
			Y2: (cy + h/2) * scaleY,
		}.Clamp(float32(origWidth), float32(origHeight))
		if box.Area() == 0 {
			continue
		}

		results = append(results, postprocess.Result{
			Box:   box,
			Score: score,
			Class: classID,
		})
	}

	return postprocess.ApplyGreedyNMS(results, cfg)
}
