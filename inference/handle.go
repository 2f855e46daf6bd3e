package inference

import (
	"context"
	"image"
	"log"
	"os"
	"sync"
	"time"

	"github.com/pkg/errors"

	"github.com/Pravallika0730/medical-image-analyzer/model"
	"github.com/Pravallika0730/medical-image-analyzer/model/postprocess"
)

// Config configures the process-wide model handle.
type Config struct {
	// ModelPath is the filesystem path to the ONNX weights.
	ModelPath string
	// LibraryPath optionally overrides the ONNX Runtime shared library
	// location; empty uses the platform default.
	LibraryPath string
	// Model is the architecture used to encode inputs and decode outputs.
	Model model.Model
	// PoolSize bounds concurrent inference; zero uses DefaultPoolSize.
	PoolSize int
	// AcquireTimeout bounds how long a request waits for a free session;
	// zero uses DefaultAcquireTimeout.
	AcquireTimeout time.Duration
}

// Info describes a loaded model for diagnostics.
type Info struct {
	Path        string   `json:"model_path"`
	Framework   string   `json:"framework"`
	InputWidth  int      `json:"input_width"`
	InputHeight int      `json:"input_height"`
	Labels      []string `json:"class_labels"`
	PoolSize    int      `json:"pool_size"`
}

// Handle owns one loaded detection model: a fixed pool of runtime
// sessions plus the label table. It is immutable after loading and safe
// for concurrent use.
type Handle struct {
	cfg     Config
	pool    *sessionPool
	classes *model.OutputClassSet
}

var handleSingleton struct {
	once   sync.Once
	handle *Handle
	err    error
}

// loadHandle is swapped out in tests to exercise the once-only guard
// without real weights.
var loadHandle = New

// Instance returns the process-wide handle, loading the model on first
// call. Concurrent first callers block until the single load completes
// and then all receive the same handle. A failed load is not retried;
// every caller observes the same *LoadError.
func Instance(cfg Config) (*Handle, error) {
	handleSingleton.once.Do(func() {
		handleSingleton.handle, handleSingleton.err = loadHandle(cfg)
	})
	return handleSingleton.handle, handleSingleton.err
}

// New loads the model weights and builds a session pool. Most callers
// want Instance; New exists for wiring and tests.
//
// Arguments:
//   - cfg: The handle configuration.
//
// Returns:
//   - *Handle: The loaded handle.
//   - error: A *LoadError if the weights are missing, corrupt, or
//     incompatible with the configured architecture.
func New(cfg Config) (*Handle, error) {
	if cfg.Model == nil {
		return nil, &LoadError{Path: cfg.ModelPath, Err: errors.New("no model architecture configured")}
	}
	if _, err := os.Stat(cfg.ModelPath); err != nil {
		return nil, &LoadError{Path: cfg.ModelPath, Err: err}
	}
	if err := initRuntime(cfg.LibraryPath); err != nil {
		return nil, &LoadError{Path: cfg.ModelPath, Err: err}
	}

	pool, err := newSessionPool(cfg.ModelPath, cfg.Model, cfg.PoolSize, cfg.AcquireTimeout)
	if err != nil {
		return nil, &LoadError{Path: cfg.ModelPath, Err: err}
	}

	classes := cfg.Model.Classes()
	log.Printf("model loaded: %s (%s, %d classes, pool size %d)",
		cfg.ModelPath, cfg.Model.Name(), classes.Len(), pool.size)

	return &Handle{cfg: cfg, pool: pool, classes: classes}, nil
}

// Detect runs one inference against the shared model.
//
// The context governs waiting for a pooled session. A session that is
// already running is never force-stopped; callers that stop waiting
// simply abandon the result and the session returns to the pool when
// the run finishes.
//
// Arguments:
//   - ctx: Context bounding session acquisition.
//   - img: The decoded image to analyze.
//
// Returns:
//   - Raw detections in source-pixel coordinates, ordered by descending
//     confidence.
//   - ErrAcquireTimeout or the context error when no session frees up,
//     or an *InferenceError if the model execution fails.
func (h *Handle) Detect(ctx context.Context, img image.Image) ([]postprocess.Result, error) {
	bounds := img.Bounds()

	sess, err := h.pool.acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer h.pool.release(sess)

	if err := h.cfg.Model.PreProcess(img, sess.input.GetData()); err != nil {
		return nil, &InferenceError{Err: err}
	}
	if err := sess.run(); err != nil {
		return nil, &InferenceError{Err: err}
	}

	return h.cfg.Model.PostProcess(sess.output.GetData(), bounds.Dx(), bounds.Dy(), nil), nil
}

// Labels returns the ordered class-label table of the loaded model.
func (h *Handle) Labels() []string {
	return h.classes.Names()
}

// ModelInfo describes the loaded model for the diagnostics surface.
func (h *Handle) ModelInfo() Info {
	width, height := h.cfg.Model.InputShape()
	return Info{
		Path:        h.cfg.ModelPath,
		Framework:   string(h.cfg.Model.Name()) + "-onnx",
		InputWidth:  width,
		InputHeight: height,
		Labels:      h.Labels(),
		PoolSize:    h.pool.size,
	}
}

// Metrics returns a snapshot of session pool usage.
func (h *Handle) Metrics() PoolMetrics {
	return h.pool.Metrics()
}

// Close destroys the pooled sessions. The handle must not be used
// afterwards; it exists for process shutdown.
func (h *Handle) Close() {
	h.pool.close()
}
