// Package style - the mutable visualization settings shared by every render
// pass, plus the named presets that update them atomically.
package style

import "image/color"

// VizMode selects which visual treatments apply to a detected region.
type VizMode string

const (
	// VizFill paints a translucent fill only.
	VizFill VizMode = "fill"
	// VizOutline strokes the region border only.
	VizOutline VizMode = "outline"
	// VizBoth applies fill and outline.
	VizBoth VizMode = "both"
)

// IncludesFill reports whether the mode paints fills.
func (v VizMode) IncludesFill() bool { return v == VizFill || v == VizBoth }

// IncludesOutline reports whether the mode strokes outlines.
func (v VizMode) IncludesOutline() bool { return v == VizOutline || v == VizBoth }

// ColorMode selects how a detection's color is resolved.
type ColorMode string

const (
	// ColorFixed uses the configured fill/outline colors.
	ColorFixed ColorMode = "fixed"
	// ColorPosition derives the color from the box center's screen position.
	ColorPosition ColorMode = "position"
)

// Settings is the single shared visualization configuration. It is created
// with defaults at startup and mutated in place through Apply; the render
// loop reads it every frame. It must only be touched from the render/UI
// goroutine.
type Settings struct {
	VizMode           VizMode
	ColorMode         ColorMode
	FillColor         color.RGBA
	OutlineColor      color.RGBA
	BackgroundColor   color.RGBA
	FillOpacity       float64 // [0, 1]
	OutlineThickness  int     // pixels, >= 1
	ShowLabels        bool
	ReplaceBackground bool
	Smoothing         int // 0-10 scale; /10 temporal factor, /3 spatial passes
	SegmentationMode  bool
	SegmentClass      string // class rendered via mask instead of its box
	BoxScale          float64
}

// Defaults returns the startup configuration.
func Defaults() *Settings {
	return &Settings{
		VizMode:          VizFill,
		ColorMode:        ColorFixed,
		FillColor:        color.RGBA{R: 0, G: 255, B: 0, A: 255},
		OutlineColor:     color.RGBA{R: 255, G: 255, B: 255, A: 255},
		BackgroundColor:  color.RGBA{R: 0, G: 0, B: 0, A: 255},
		FillOpacity:      0.5,
		OutlineThickness: 2,
		ShowLabels:       true,
		Smoothing:        3,
		SegmentationMode: true,
		SegmentClass:     "person",
		BoxScale:         1.0,
	}
}

// Patch is a partial Settings overlay. Nil fields are left untouched on
// apply, so the same type serves fine-grained slider updates and atomic
// preset switches.
type Patch struct {
	VizMode           *VizMode
	ColorMode         *ColorMode
	FillColor         *color.RGBA
	OutlineColor      *color.RGBA
	BackgroundColor   *color.RGBA
	FillOpacity       *float64
	OutlineThickness  *int
	ShowLabels        *bool
	ReplaceBackground *bool
	Smoothing         *int
	SegmentationMode  *bool
	SegmentClass      *string
	BoxScale          *float64
}

// Apply merges the set fields of a patch into the settings, clamping numeric
// values into their valid ranges, and returns the patch that was applied so
// callers can refresh dependent UI state.
func (s *Settings) Apply(p Patch) Patch {
	if p.VizMode != nil {
		s.VizMode = *p.VizMode
	}
	if p.ColorMode != nil {
		s.ColorMode = *p.ColorMode
	}
	if p.FillColor != nil {
		s.FillColor = *p.FillColor
	}
	if p.OutlineColor != nil {
		s.OutlineColor = *p.OutlineColor
	}
	if p.BackgroundColor != nil {
		s.BackgroundColor = *p.BackgroundColor
	}
	if p.FillOpacity != nil {
		s.FillOpacity = clampFloat(*p.FillOpacity, 0, 1)
	}
	if p.OutlineThickness != nil {
		s.OutlineThickness = clampInt(*p.OutlineThickness, 1, 64)
	}
	if p.ShowLabels != nil {
		s.ShowLabels = *p.ShowLabels
	}
	if p.ReplaceBackground != nil {
		s.ReplaceBackground = *p.ReplaceBackground
	}
	if p.Smoothing != nil {
		s.Smoothing = clampInt(*p.Smoothing, 0, 10)
	}
	if p.SegmentationMode != nil {
		s.SegmentationMode = *p.SegmentationMode
	}
	if p.SegmentClass != nil {
		s.SegmentClass = *p.SegmentClass
	}
	if p.BoxScale != nil {
		s.BoxScale = *p.BoxScale
		if s.BoxScale <= 0 {
			s.BoxScale = 1.0
		}
	}
	return p
}

func clampFloat(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Helpers for building patches without local pointer boilerplate.

// Viz returns a pointer for Patch literals.
func Viz(v VizMode) *VizMode { return &v }

// Color returns a pointer for Patch literals.
func Color(c color.RGBA) *color.RGBA { return &c }

// Float returns a pointer for Patch literals.
func Float(f float64) *float64 { return &f }

// Int returns a pointer for Patch literals.
func Int(i int) *int { return &i }

// Bool returns a pointer for Patch literals.
func Bool(b bool) *bool { return &b }

// Str returns a pointer for Patch literals.
func Str(s string) *string { return &s }

// Mode returns a pointer for Patch literals.
func Mode(m ColorMode) *ColorMode { return &m }
