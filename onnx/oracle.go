// Package onnx - an inference oracle over ONNX Runtime for YOLO-family
// segmentation models (box head plus prototype mask head).
package onnx

import (
	"image"
	"log"
	"os"
	"runtime"
	"sync"

	"github.com/pkg/errors"
	ort "github.com/yalue/onnxruntime_go"

	"github.com/nvr-ai/go-overlay/pipeline"
)

const (
	// Prototype mask head dimensions for 640x640 YOLO segmentation models.
	maskCoeffs = 32
	protoSize  = 160
	numAnchors = 8400
)

// Oracle runs segmentation inference. It satisfies pipeline.Oracle and is
// tolerant of a not-yet-loaded state: Detect on an unloaded Oracle returns
// empty results instead of blocking or failing.
type Oracle struct {
	cfg Config

	mu          sync.RWMutex
	session     *ort.AdvancedSession
	input       *ort.Tensor[float32]
	boxOutput   *ort.Tensor[float32]
	protoOutput *ort.Tensor[float32]
	initialized bool

	pre *preprocessor
}

// NewOracle creates an Oracle and loads the model. A missing runtime library
// or model file is returned as an error; callers that want a degraded
// no-detection stream can keep running with a nil oracle.
func NewOracle(cfg Config) (*Oracle, error) {
	if cfg.InputShape.X <= 0 || cfg.InputShape.Y <= 0 {
		cfg.InputShape = image.Pt(640, 640)
	}
	if cfg.ConfidenceThreshold <= 0 {
		cfg.ConfidenceThreshold = 0.5
	}
	if cfg.SegmentClass == "" {
		cfg.SegmentClass = "person"
	}

	o := &Oracle{
		cfg: cfg,
		pre: newPreprocessor(cfg.InputShape.X, cfg.InputShape.Y),
	}
	if err := o.initialize(); err != nil {
		return nil, errors.Wrap(err, "failed to initialize onnx oracle")
	}
	return o, nil
}

// initialize sets up the ONNX Runtime environment and session.
func (o *Oracle) initialize() error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if _, err := os.Stat(o.cfg.ModelPath); os.IsNotExist(err) {
		return errors.Errorf("model file not found: %s", o.cfg.ModelPath)
	}

	libPath := o.cfg.SharedLibPath
	if libPath == "" {
		libPath = defaultSharedLibPath()
	}
	if _, err := os.Stat(libPath); os.IsNotExist(err) {
		return errors.Errorf("ONNX Runtime library not found at %s", libPath)
	}

	// The environment is process-wide; a second oracle reuses it.
	if !ort.IsInitialized() {
		ort.SetSharedLibraryPath(libPath)
		if err := ort.InitializeEnvironment(); err != nil {
			return errors.Wrap(err, "error initializing ORT environment")
		}
	}

	inputShape := ort.NewShape(1, 3, int64(o.cfg.InputShape.Y), int64(o.cfg.InputShape.X))
	input, err := ort.NewEmptyTensor[float32](inputShape)
	if err != nil {
		return errors.Wrap(err, "error creating input tensor")
	}

	// output0: [1, 4+classes+coeffs, anchors]. output1: the mask prototypes.
	boxShape := ort.NewShape(1, int64(4+len(YOLOClasses)+maskCoeffs), numAnchors)
	boxOutput, err := ort.NewEmptyTensor[float32](boxShape)
	if err != nil {
		input.Destroy()
		return errors.Wrap(err, "error creating box output tensor")
	}

	protoShape := ort.NewShape(1, maskCoeffs, protoSize, protoSize)
	protoOutput, err := ort.NewEmptyTensor[float32](protoShape)
	if err != nil {
		input.Destroy()
		boxOutput.Destroy()
		return errors.Wrap(err, "error creating proto output tensor")
	}

	options, err := ort.NewSessionOptions()
	if err != nil {
		return errors.Wrap(err, "error creating ORT session options")
	}
	defer options.Destroy()
	if o.cfg.IntraOpThreads > 0 {
		options.SetIntraOpNumThreads(o.cfg.IntraOpThreads)
	}
	if o.cfg.InterOpThreads > 0 {
		options.SetInterOpNumThreads(o.cfg.InterOpThreads)
	}
	options.SetGraphOptimizationLevel(ort.GraphOptimizationLevelEnableExtended)

	session, err := ort.NewAdvancedSession(
		o.cfg.ModelPath,
		[]string{"images"},
		[]string{"output0", "output1"},
		[]ort.ArbitraryTensor{input},
		[]ort.ArbitraryTensor{boxOutput, protoOutput},
		options,
	)
	if err != nil {
		input.Destroy()
		boxOutput.Destroy()
		protoOutput.Destroy()
		return errors.Wrap(err, "error creating ORT session")
	}

	o.session = session
	o.input = input
	o.boxOutput = boxOutput
	o.protoOutput = protoOutput
	o.initialized = true

	log.Printf("onnx oracle initialized: model=%s input=%dx%d classes=%d",
		o.cfg.ModelPath, o.cfg.InputShape.X, o.cfg.InputShape.Y, len(YOLOClasses))
	return nil
}

// Detect runs one inference pass on the frame. An unloaded oracle returns an
// empty result, never an error, so the render loop keeps drawing raw frames
// while the model warms up.
func (o *Oracle) Detect(frame image.Image) (pipeline.Result, error) {
	o.mu.RLock()
	defer o.mu.RUnlock()

	if !o.initialized {
		return pipeline.Result{}, nil
	}

	b := frame.Bounds()
	o.pre.fill(frame, o.input.GetData())

	if err := o.session.Run(); err != nil {
		return pipeline.Result{}, errors.Wrap(err, "inference failed")
	}

	return o.postprocess(o.boxOutput.GetData(), o.protoOutput.GetData(), b.Dx(), b.Dy()), nil
}

// Close releases the session and tensors.
func (o *Oracle) Close() {
	o.mu.Lock()
	defer o.mu.Unlock()

	if !o.initialized {
		return
	}
	o.session.Destroy()
	o.input.Destroy()
	o.boxOutput.Destroy()
	o.protoOutput.Destroy()
	o.initialized = false
}

// defaultSharedLibPath returns the conventional runtime library location per
// platform.
func defaultSharedLibPath() string {
	switch runtime.GOOS {
	case "windows":
		return "third_party/onnxruntime.dll"
	case "darwin":
		return "third_party/libonnxruntime.dylib"
	default:
		if runtime.GOARCH == "arm64" {
			return "third_party/onnxruntime_arm64.so"
		}
		return "third_party/onnxruntime.so"
	}
}
