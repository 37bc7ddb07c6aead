// Package pipeline - the frame-driven render loop tying the oracle, mask
// processor, compositor, outline tracer and box renderer together.
package pipeline

import (
	"context"
	"image"
	"io"
	"log"
	"time"

	"github.com/nvr-ai/go-overlay/compositor"
	"github.com/nvr-ai/go-overlay/detect"
	"github.com/nvr-ai/go-overlay/mask"
	"github.com/nvr-ai/go-overlay/outline"
	"github.com/nvr-ai/go-overlay/render"
	"github.com/nvr-ai/go-overlay/style"
)

// Result is one detection cycle's output from the inference oracle.
type Result struct {
	Detections []detect.Detection
	// Mask is nil when the model produced no segmentation this cycle.
	Mask *mask.Mask
}

// Oracle runs model inference on a frame. Implementations must tolerate a
// not-yet-loaded state by returning empty results rather than blocking
// indefinitely.
type Oracle interface {
	Detect(frame image.Image) (Result, error)
}

// Source provides frames at their native resolution. NextFrame returns
// io.EOF when the stream ends. Resolution may change at runtime.
type Source interface {
	NextFrame() (image.Image, error)
}

// Sink receives each rendered frame.
type Sink interface {
	Present(frame *image.RGBA) error
}

// Config wires up a Stream.
type Config struct {
	Oracle Oracle
	Source Source
	Sink   Sink
	// Settings is the shared style configuration; Defaults() when nil.
	Settings *style.Settings
	// NMSThreshold is the IoU above which overlapping detections are
	// suppressed. Defaults to 0.45.
	NMSThreshold float32
	// RelevantClasses optionally restricts rendering to the listed labels.
	RelevantClasses []string
}

// Stream runs the per-tick render pass. Single-threaded and cooperative: one
// pass runs to completion per tick, and the next tick happens only after the
// previous detection + render completes, which naturally throttles to the
// oracle's and compositor's combined latency. All state is touched only from
// the loop goroutine.
type Stream struct {
	oracle   Oracle
	source   Source
	sink     Sink
	settings *style.Settings

	proc  *mask.Processor
	comp  *compositor.Compositor
	boxes *render.BoxRenderer

	nms      detect.NMSConfig
	relevant map[string]bool

	stats Stats

	stopped    bool
	srcW, srcH int
}

// New creates a Stream. A nil oracle is tolerated and behaves as an oracle
// that always returns empty results.
func New(cfg Config) *Stream {
	settings := cfg.Settings
	if settings == nil {
		settings = style.Defaults()
	}
	if cfg.NMSThreshold <= 0 {
		cfg.NMSThreshold = 0.45
	}

	var relevant map[string]bool
	if len(cfg.RelevantClasses) > 0 {
		relevant = make(map[string]bool, len(cfg.RelevantClasses))
		for _, c := range cfg.RelevantClasses {
			relevant[c] = true
		}
	}

	return &Stream{
		oracle:   cfg.Oracle,
		source:   cfg.Source,
		sink:     cfg.Sink,
		settings: settings,
		proc:     mask.NewProcessor(),
		comp:     compositor.New(),
		boxes:    render.NewBoxRenderer(),
		nms:      detect.NMSConfig{IoUThreshold: cfg.NMSThreshold},
		relevant: relevant,
	}
}

// Run drives the loop until the source ends, the context is canceled, or
// Stop is called. Returns nil on a clean end of stream.
func (s *Stream) Run(ctx context.Context) error {
	for {
		if s.stopped || ctx.Err() != nil {
			return nil
		}

		frame, err := s.source.NextFrame()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}

		out, err := s.RenderFrame(frame)
		if err != nil {
			return err
		}
		if out != nil && s.sink != nil {
			if err := s.sink.Present(out); err != nil {
				return err
			}
		}
	}
}

// Stop stops scheduling further ticks. An oracle call already in flight is
// allowed to complete; its result is discarded.
func (s *Stream) Stop() {
	s.stopped = true
}

// RenderFrame runs one full detection + render pass and returns the
// composited frame. After Stop it is a no-op returning (nil, nil). The
// returned buffer is reused on the next call.
func (s *Stream) RenderFrame(frame image.Image) (*image.RGBA, error) {
	if s.stopped || frame == nil {
		return nil, nil
	}
	start := time.Now()

	b := frame.Bounds()
	w, h := b.Dx(), b.Dy()
	if w <= 0 || h <= 0 {
		return nil, nil
	}
	if w != s.srcW || h != s.srcH {
		// Resolution change: never blend smoothing history across
		// incompatible buffers.
		s.proc.Reset()
		s.srcW, s.srcH = w, h
	}

	res := s.detect(frame)
	if s.stopped {
		// Stopped while the oracle call was in flight; discard.
		return nil, nil
	}

	dets := s.filter(res.Detections)
	dets = detect.NMS(dets, s.nms)

	set := s.settings
	var out *image.RGBA
	if set.SegmentationMode && res.Mask != nil && res.Mask.W > 0 && res.Mask.H > 0 {
		processed := s.proc.Process(res.Mask, set.Smoothing)
		out = s.comp.Composite(frame, processed, set, w, h)
		if set.VizMode.IncludesOutline() {
			outline.Trace(out, processed, set.OutlineColor, set.OutlineThickness)
		}
	} else {
		out = s.comp.Composite(frame, nil, set, w, h)
	}

	s.boxes.Draw(out, dets, set)
	s.stats.observe(time.Since(start))

	return out, nil
}

// detect calls the oracle, degrading any failure to an empty result. A
// dropped detection cycle is preferable to a stalled stream.
func (s *Stream) detect(frame image.Image) Result {
	if s.oracle == nil {
		return Result{}
	}
	res, err := s.oracle.Detect(frame)
	if err != nil {
		log.Printf("oracle error, rendering empty result: %v", err)
		return Result{}
	}
	return res
}

// filter applies the optional relevant-class restriction.
func (s *Stream) filter(dets []detect.Detection) []detect.Detection {
	if s.relevant == nil {
		return dets
	}
	kept := dets[:0]
	for _, d := range dets {
		if s.relevant[d.Label] {
			kept = append(kept, d)
		}
	}
	return kept
}

// UpdateSettings merges a partial settings update and returns the applied
// patch.
func (s *Stream) UpdateSettings(p style.Patch) style.Patch {
	return s.settings.Apply(p)
}

// ApplyPreset applies a named preset and returns the applied patch so UI
// state (color pickers, sliders) can be refreshed.
func (s *Stream) ApplyPreset(key string) (style.Patch, error) {
	return s.settings.ApplyPreset(key)
}

// Settings returns a copy of the current settings for display sync.
func (s *Stream) Settings() style.Settings {
	return *s.settings
}

// Stats returns a copy of the frame statistics.
func (s *Stream) Stats() Stats {
	return s.stats
}
