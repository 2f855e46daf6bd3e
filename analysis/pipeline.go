package analysis

import (
	"context"
	"fmt"
	"image"
	"log"
	"os"
	"time"

	"github.com/Pravallika0730/medical-image-analyzer/images"
	"github.com/Pravallika0730/medical-image-analyzer/model/postprocess"
)

// DefaultConfidenceThreshold filters detections when the caller does not
// supply a threshold.
const DefaultConfidenceThreshold float32 = 0.25

var debugMode bool

func init() {
	debugMode = os.Getenv("DEBUG") == "true"
}

// Detector is the narrow model capability the pipeline depends on. The
// production implementation is *inference.Handle; tests substitute a
// stub so the pipeline is exercised without real weights.
type Detector interface {
	// Detect returns raw detections in source-pixel coordinates.
	Detect(ctx context.Context, img image.Image) ([]postprocess.Result, error)
	// Labels returns the ordered class-label table.
	Labels() []string
}

// Option adjusts a single Analyze call.
type Option func(*options)

type options struct {
	threshold float32
	annotate  bool
}

// WithThreshold overrides the confidence threshold for one call.
func WithThreshold(t float32) Option {
	return func(o *options) { o.threshold = t }
}

// WithAnnotation enables or disables rendering of the annotated image.
func WithAnnotation(enabled bool) Option {
	return func(o *options) { o.annotate = enabled }
}

// Timings records per-stage durations for one analysis request.
type Timings struct {
	Decode    time.Duration
	Inference time.Duration
	Transform time.Duration
	Annotate  time.Duration
	Total     time.Duration
}

// Pipeline orchestrates one end-to-end analysis request against a
// shared detector. It holds no per-request state; Analyze is a pure
// function of its input and the detector.
type Pipeline struct {
	detector Detector
}

// NewPipeline creates a pipeline around the given detector.
func NewPipeline(detector Detector) *Pipeline {
	return &Pipeline{detector: detector}
}

// Analyze decodes raw image bytes, runs them through the shared model,
// and builds the structured detection result.
//
// Every step either succeeds or fails the whole request; there are no
// retries here. Failures stem from unusable input or a misconfigured
// deployment, so callers own any retry policy. The one exception is
// annotation rendering, which is best-effort: on failure the numeric
// results are returned without the image.
//
// Arguments:
//   - ctx: Context bounding the model call.
//   - raw: Encoded image bytes (JPEG, PNG or WebP).
//   - opts: Per-call overrides (threshold, annotation).
//
// Returns:
//   - *DetectionResult: The detections above threshold, in model
//     emission order, plus summary fields.
//   - error: A *DecodeError, *ValidationError, *LabelMappingError, or a
//     propagated inference error.
func (p *Pipeline) Analyze(ctx context.Context, raw []byte, opts ...Option) (*DetectionResult, error) {
	startTotal := time.Now()
	var timings Timings

	o := options{threshold: DefaultConfidenceThreshold}
	for _, opt := range opts {
		opt(&o)
	}
	if o.threshold < 0 || o.threshold > 1 {
		return nil, &ValidationError{Reason: fmt.Sprintf("confidence threshold %.2f outside [0,1]", o.threshold)}
	}

	decodeStart := time.Now()
	decoded, err := images.Decode(raw)
	timings.Decode = time.Since(decodeStart)
	if err != nil {
		return nil, &DecodeError{Err: err}
	}
	if decoded.Width == 0 || decoded.Height == 0 {
		return nil, &ValidationError{Reason: fmt.Sprintf("image has empty dimensions %dx%d", decoded.Width, decoded.Height)}
	}

	req := &InferenceRequest{
		Pixels:              decoded.Pixels,
		Width:               decoded.Width,
		Height:              decoded.Height,
		Channels:            3,
		SourceFormat:        decoded.Format,
		ConfidenceThreshold: o.threshold,
	}

	inferStart := time.Now()
	raws, err := p.detector.Detect(ctx, req.Pixels)
	timings.Inference = time.Since(inferStart)
	if err != nil {
		// Load and inference failures propagate unchanged.
		return nil, err
	}

	transformStart := time.Now()
	detections, err := p.buildDetections(raws, req)
	timings.Transform = time.Since(transformStart)
	if err != nil {
		return nil, err
	}

	result := &DetectionResult{
		Detections: detections,
		TotalCount: len(detections),
	}
	if len(detections) > 0 {
		top := detections[0]
		result.TopDetection = &top
	}

	if o.annotate && len(detections) > 0 {
		annotateStart := time.Now()
		result.AnnotatedImage = p.renderAnnotations(req.Pixels, detections)
		timings.Annotate = time.Since(annotateStart)
	}

	timings.Total = time.Since(startTotal)
	p.logTimings(&timings, result.TotalCount)
	return result, nil
}

// buildDetections filters raw model output by the request threshold and
// resolves class indices to names, preserving the model emission order.
func (p *Pipeline) buildDetections(raws []postprocess.Result, req *InferenceRequest) ([]Detection, error) {
	labels := p.detector.Labels()
	detections := make([]Detection, 0, len(raws))

	for _, r := range raws {
		if r.Score < req.ConfidenceThreshold {
			continue
		}
		if r.Class < 0 || r.Class >= len(labels) {
			log.Printf("ERROR: label mapping failure: class %d with %d labels (weights paired with wrong label set?)",
				r.Class, len(labels))
			return nil, &LabelMappingError{ClassID: r.Class, LabelCount: len(labels)}
		}

		box := r.Box.Clamp(float32(req.Width), float32(req.Height))
		if box.Area() == 0 {
			continue
		}

		detections = append(detections, Detection{
			ClassID:     r.Class,
			ClassName:   labels[r.Class],
			Confidence:  r.Score,
			BoundingBox: toBoundingBox(box),
		})
	}
	return detections, nil
}

// renderAnnotations draws the detections onto a copy of the source
// image. Rendering is best-effort: failures are logged and the request
// still succeeds without the annotated image.
func (p *Pipeline) renderAnnotations(src image.Image, detections []Detection) []byte {
	annotations := make([]images.Annotation, len(detections))
	for i, d := range detections {
		annotations[i] = images.Annotation{
			Box:   image.Rect(d.BoundingBox.XMin, d.BoundingBox.YMin, d.BoundingBox.XMax, d.BoundingBox.YMax),
			Label: fmt.Sprintf("%s %.2f", d.ClassName, d.Confidence),
		}
	}

	encoded, err := images.Annotate(src, annotations)
	if err != nil {
		log.Printf("warning: annotation rendering failed: %v", err)
		return nil
	}
	return encoded
}

func (p *Pipeline) logTimings(t *Timings, count int) {
	if !debugMode {
		return
	}
	log.Printf("[DEBUG] analysis timings: decode=%v inference=%v transform=%v annotate=%v total=%v detections=%d",
		t.Decode, t.Inference, t.Transform, t.Annotate, t.Total, count)
}
