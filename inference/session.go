package inference

import (
	"runtime"
	"sync"

	"github.com/pkg/errors"
	ort "github.com/yalue/onnxruntime_go"

	"github.com/Pravallika0730/medical-image-analyzer/model"
)

// Tensor names used by exported YOLO-style ONNX models.
const (
	inputTensorName  = "images"
	outputTensorName = "output0"
)

var (
	runtimeOnce    sync.Once
	runtimeInitErr error
)

// initRuntime initializes the ONNX Runtime environment once per process.
func initRuntime(libraryPath string) error {
	runtimeOnce.Do(func() {
		if libraryPath != "" {
			ort.SetSharedLibraryPath(libraryPath)
		}
		runtimeInitErr = ort.InitializeEnvironment()
	})
	if runtimeInitErr != nil {
		return errors.Wrap(runtimeInitErr, "initialize onnxruntime environment")
	}
	return nil
}

// session owns one ONNX Runtime session with preallocated input and
// output tensors. A session runs one inference at a time; concurrency
// comes from pooling sessions, not from sharing one.
type session struct {
	session *ort.AdvancedSession
	input   *ort.Tensor[float32]
	output  *ort.Tensor[float32]
}

func newSession(modelPath string, m model.Model) (*session, error) {
	width, height := m.InputShape()
	inputShape := ort.NewShape(1, 3, int64(height), int64(width))
	inputTensor, err := ort.NewEmptyTensor[float32](inputShape)
	if err != nil {
		return nil, errors.Wrap(err, "create input tensor")
	}

	rows, cols := m.OutputShape()
	outputShape := ort.NewShape(1, int64(rows), int64(cols))
	outputTensor, err := ort.NewEmptyTensor[float32](outputShape)
	if err != nil {
		inputTensor.Destroy()
		return nil, errors.Wrap(err, "create output tensor")
	}

	options, err := ort.NewSessionOptions()
	if err != nil {
		inputTensor.Destroy()
		outputTensor.Destroy()
		return nil, errors.Wrap(err, "create session options")
	}
	defer options.Destroy()

	options.SetIntraOpNumThreads(runtime.NumCPU())
	options.SetGraphOptimizationLevel(ort.GraphOptimizationLevelEnableExtended)

	sess, err := ort.NewAdvancedSession(
		modelPath,
		[]string{inputTensorName},
		[]string{outputTensorName},
		[]ort.ArbitraryTensor{inputTensor},
		[]ort.ArbitraryTensor{outputTensor},
		options,
	)
	if err != nil {
		inputTensor.Destroy()
		outputTensor.Destroy()
		return nil, errors.Wrap(err, "create onnxruntime session")
	}

	return &session{
		session: sess,
		input:   inputTensor,
		output:  outputTensor,
	}, nil
}

// run executes the model on the current input tensor contents.
func (s *session) run() error {
	return s.session.Run()
}

// Close releases the resources associated with the session.
func (s *session) Close() {
	if s.input != nil {
		s.input.Destroy()
		s.input = nil
	}
	if s.output != nil {
		s.output.Destroy()
		s.output = nil
	}
	if s.session != nil {
		s.session.Destroy()
		s.session = nil
	}
}
