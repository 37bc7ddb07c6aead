package main

import (
	"context"
	"flag"
	"fmt"
	"image"
	"image/png"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gocv.io/x/gocv"

	"github.com/nvr-ai/go-overlay/onnx"
	"github.com/nvr-ai/go-overlay/pipeline"
	"github.com/nvr-ai/go-overlay/style"
	"github.com/nvr-ai/go-overlay/util"
)

const (
	// deviceID is the default video capture device.
	deviceID = 0
	// DefaultModelPath is the default segmentation model.
	DefaultModelPath = "yolov8n-seg.onnx"
	// DefaultOutputDir receives rendered frames when no window is shown.
	DefaultOutputDir = "rendered_frames"
)

// cameraSource adapts a gocv capture device to pipeline.Source.
type cameraSource struct {
	capture *gocv.VideoCapture
	mat     gocv.Mat
}

func newCameraSource(capture *gocv.VideoCapture) *cameraSource {
	return &cameraSource{capture: capture, mat: gocv.NewMat()}
}

func (c *cameraSource) NextFrame() (image.Image, error) {
	if ok := c.capture.Read(&c.mat); !ok {
		return nil, fmt.Errorf("capture device closed")
	}
	if c.mat.Empty() {
		return nil, nil
	}
	img, err := c.mat.ToImage()
	if err != nil {
		return nil, err
	}
	return img, nil
}

func (c *cameraSource) Close() {
	c.mat.Close()
	c.capture.Close()
}

// windowSink displays rendered frames in a gocv window and maps letter keys
// to style presets. ESC stops the stream.
type windowSink struct {
	window *gocv.Window
	stream *pipeline.Stream
}

func (w *windowSink) Present(frame *image.RGBA) error {
	mat, err := gocv.ImageToMatRGBA(frame)
	if err != nil {
		return err
	}
	defer mat.Close()
	gocv.CvtColor(mat, &mat, gocv.ColorRGBAToBGR)
	w.window.IMShow(mat)

	key := w.window.WaitKey(1)
	switch {
	case key == 27: // ESC
		w.stream.Stop()
	case key > 0:
		name := strings.ToUpper(string(rune(key)))
		if _, err := w.stream.ApplyPreset(name); err == nil {
			log.Printf("applied preset %q", name)
		}
	}
	return nil
}

// fileSink writes each rendered frame as a numbered PNG.
type fileSink struct {
	dir   string
	count int
}

func (f *fileSink) Present(frame *image.RGBA) error {
	f.count++
	path := filepath.Join(f.dir, fmt.Sprintf("frame-%05d.png", f.count))
	out, err := os.Create(path)
	if err != nil {
		return err
	}
	defer out.Close()
	return png.Encode(out, frame)
}

// presetList formats the preset table as "C=clean, E=emphasis, ...".
func presetList() string {
	names := style.PresetNames()
	keys := make([]string, 0, len(names))
	for k := range names {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = k + "=" + names[k]
	}
	return strings.Join(parts, ", ")
}

func main() {
	var (
		modelPath           string
		sharedLibPath       string
		videoPath           string
		framesDir           string
		preset              string
		segmentClass        string
		confidenceThreshold float64
		smoothing           int
		showWindow          bool
		outputDir           string
	)
	flag.StringVar(&modelPath, "model", DefaultModelPath, "Path to YOLO segmentation ONNX model")
	flag.StringVar(&sharedLibPath, "lib", "", "Path to the ONNX Runtime shared library (empty = platform default)")
	flag.StringVar(&videoPath, "video", "", "Path to video file; empty uses the camera")
	flag.StringVar(&framesDir, "frames", "", "Directory of frame-NNN image files to use instead of a capture device")
	flag.StringVar(&preset, "preset", "", "Style preset to start with ("+presetList()+")")
	flag.StringVar(&segmentClass, "class", "person", "Class label driving the segmentation mask")
	flag.Float64Var(&confidenceThreshold, "confidence", 0.5, "Detection confidence threshold")
	flag.IntVar(&smoothing, "smoothing", 3, "Mask smoothing level, 0-10")
	flag.BoolVar(&showWindow, "show-window", true, "Show the render window")
	flag.StringVar(&outputDir, "output-dir", DefaultOutputDir, "Output directory for rendered frames when no window is shown")
	flag.Parse()

	settings := style.Defaults()
	settings.SegmentClass = segmentClass
	settings.Smoothing = smoothing
	if preset != "" {
		if _, err := settings.ApplyPreset(strings.ToUpper(preset)); err != nil {
			log.Fatalf("unknown preset %q (available: %s)", preset, presetList())
		}
	}

	oracle, err := onnx.NewOracle(onnx.Config{
		ModelPath:           modelPath,
		SharedLibPath:       sharedLibPath,
		InputShape:          image.Pt(640, 640),
		ConfidenceThreshold: float32(confidenceThreshold),
		SegmentClass:        segmentClass,
	})
	if err != nil {
		fmt.Printf("⚠️  Failed to initialize the segmentation oracle: %v\n", err)
		fmt.Printf("🔄 Continuing with raw frames only...\n")
	} else {
		defer oracle.Close()
		fmt.Printf("✅ Segmentation oracle initialized: %s\n", modelPath)
	}

	var source pipeline.Source
	switch {
	case framesDir != "":
		dirSource, err := util.NewDirectorySource(framesDir)
		if err != nil {
			log.Fatalf("Error loading frames from %s: %v", framesDir, err)
		}
		fmt.Printf("Processing %d frames from: %s\n", dirSource.Len(), framesDir)
		source = dirSource
	case videoPath != "":
		capture, err := gocv.OpenVideoCapture(videoPath)
		if err != nil {
			log.Fatalf("Error opening video file: %v", videoPath)
		}
		cam := newCameraSource(capture)
		defer cam.Close()
		fmt.Printf("Processing video: %s\n", videoPath)
		source = cam
	default:
		capture, err := gocv.OpenVideoCapture(deviceID)
		if err != nil {
			log.Fatalf("Error opening video capture device: %v", deviceID)
		}
		cam := newCameraSource(capture)
		defer cam.Close()
		fmt.Printf("Starting live overlay on camera device: %v\n", deviceID)
		source = cam
	}

	cfg := pipeline.Config{
		Source:   source,
		Settings: settings,
	}
	if oracle != nil {
		cfg.Oracle = oracle
	}

	var ws *windowSink
	if showWindow {
		window := gocv.NewWindow("Live Overlay")
		defer window.Close()
		ws = &windowSink{window: window}
		cfg.Sink = ws
	} else {
		if err := os.MkdirAll(outputDir, 0o755); err != nil {
			log.Fatalf("Failed to create output directory: %v", err)
		}
		cfg.Sink = &fileSink{dir: outputDir}
	}

	stream := pipeline.New(cfg)
	if ws != nil {
		ws.stream = stream
	}

	fmt.Printf("\n🚀 Live Overlay Started\n")
	fmt.Printf("=====================================\n")
	fmt.Printf("   🎯 Segment class: %s\n", segmentClass)
	fmt.Printf("   📊 Confidence threshold: %.2f\n", confidenceThreshold)
	fmt.Printf("   🪄 Smoothing: %d\n", smoothing)
	fmt.Printf("   🎨 Presets: %s (press a key while the window is focused)\n", presetList())
	fmt.Printf("=====================================\n\n")

	if err := stream.Run(context.Background()); err != nil {
		log.Fatalf("stream error: %v", err)
	}

	stats := stream.Stats()
	fmt.Printf("Done: %d frames, last FPS %.1f\n", stats.TotalFrames, stats.CurrentFPS)
}
