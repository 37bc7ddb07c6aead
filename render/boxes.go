// Package render - bounding box and label drawing over composited frames.
package render

import (
	"fmt"
	"image"
	"image/color"

	"github.com/fogleman/gg"
	"golang.org/x/image/font/basicfont"

	"github.com/nvr-ai/go-overlay/colors"
	"github.com/nvr-ai/go-overlay/detect"
	"github.com/nvr-ai/go-overlay/style"
)

const labelPadding = 4.0

// BoxRenderer draws detection boxes and labels onto a frame.
type BoxRenderer struct{}

// NewBoxRenderer returns a BoxRenderer.
func NewBoxRenderer() *BoxRenderer {
	return &BoxRenderer{}
}

// ScaledRect resizes a rectangle about its center. A scale of 2.0 turns
// (10,10,w=20,h=20) into (0,0,w=40,h=40).
func ScaledRect(r image.Rectangle, scale float64) image.Rectangle {
	if scale == 1.0 || scale <= 0 {
		return r
	}
	cx := float64(r.Min.X+r.Max.X) / 2
	cy := float64(r.Min.Y+r.Max.Y) / 2
	w := float64(r.Dx()) * scale
	h := float64(r.Dy()) * scale
	return image.Rect(
		int(cx-w/2), int(cy-h/2),
		int(cx+w/2), int(cy+h/2),
	)
}

// Draw paints every detection onto dst according to the current settings.
//
// Detections of the segmented class are skipped for fill/outline while
// segmentation mode is active (the compositor and outline tracer already
// cover that region), but their labels are still drawn when labels are
// enabled. All other detections get a translucent fill at FillOpacity when
// the viz mode includes fill, and a stroked border at OutlineThickness when
// it includes outline. BoxScale resizes each rectangle about its center
// before drawing.
func (br *BoxRenderer) Draw(dst *image.RGBA, dets []detect.Detection, s *style.Settings) {
	if dst == nil || len(dets) == 0 {
		return
	}

	gc := gg.NewContextForRGBA(dst)
	gc.SetFontFace(basicfont.Face7x13)

	width := float64(dst.Rect.Dx())
	height := float64(dst.Rect.Dy())

	for _, d := range dets {
		box := ScaledRect(d.Box, s.BoxScale)
		fillCol, lineCol := br.resolveColors(d, s, width, height)

		segmented := s.SegmentationMode && d.Label == s.SegmentClass
		if !segmented {
			x := float64(box.Min.X)
			y := float64(box.Min.Y)
			w := float64(box.Dx())
			h := float64(box.Dy())

			if s.VizMode.IncludesFill() {
				gc.SetRGBA(
					float64(fillCol.R)/255,
					float64(fillCol.G)/255,
					float64(fillCol.B)/255,
					s.FillOpacity,
				)
				gc.DrawRectangle(x, y, w, h)
				gc.Fill()
			}
			if s.VizMode.IncludesOutline() {
				gc.SetColor(lineCol)
				gc.SetLineWidth(float64(s.OutlineThickness))
				gc.DrawRectangle(x, y, w, h)
				gc.Stroke()
			}
		}

		if s.ShowLabels {
			br.drawLabel(gc, d, box, lineCol)
		}
	}
}

// resolveColors picks the fill and outline colors for a detection. Fixed
// mode uses the configured colors; position mode derives one color from the
// box center so every detection's color varies smoothly across the frame.
func (br *BoxRenderer) resolveColors(d detect.Detection, s *style.Settings, w, h float64) (color.RGBA, color.RGBA) {
	if s.ColorMode == style.ColorPosition {
		cx, cy := d.Center()
		c := colors.Positional(cx, cy, w, h)
		return c, c
	}
	return s.FillColor, s.OutlineColor
}

// drawLabel paints an opaque backing rectangle sized to the measured text
// plus fixed padding, directly above the box's top edge, then the text in a
// contrasting color.
func (br *BoxRenderer) drawLabel(gc *gg.Context, d detect.Detection, box image.Rectangle, backing color.RGBA) {
	text := fmt.Sprintf("%s %.2f", d.Label, d.Confidence)
	tw, th := gc.MeasureString(text)

	x := float64(box.Min.X)
	y := float64(box.Min.Y) - th - 2*labelPadding
	if y < 0 {
		y = 0
	}

	gc.SetColor(backing)
	gc.DrawRectangle(x, y, tw+2*labelPadding, th+2*labelPadding)
	gc.Fill()

	gc.SetColor(colors.Contrast(backing))
	gc.DrawString(text, x+labelPadding, y+labelPadding+th)
}
