// Package compositor - per-pixel blending of source video, segmentation
// mask, fill color and background-replacement color into an output frame.
package compositor

import (
	"image"
	"image/draw"

	"github.com/nfnt/resize"

	"github.com/nvr-ai/go-overlay/mask"
	"github.com/nvr-ai/go-overlay/style"
)

// Compositor renders composited frames. It owns two reusable buffers: the
// offscreen source resampled to mask resolution and the full-resolution
// output. Both are reused across frames to avoid per-pixel allocation at
// 30-60 FPS rates; the caller must consume the returned frame before the
// next Composite call.
//
// This is the dominant per-frame cost (O(width*height) at frame resolution)
// and must complete within the frame budget; dropping frames on overrun is
// the caller's responsibility.
type Compositor struct {
	low *image.RGBA // source at mask resolution
	out *image.RGBA // composited output at frame resolution
}

// New returns a Compositor with no buffers allocated yet.
func New() *Compositor {
	return &Compositor{}
}

// Composite blends the source frame, mask and current settings into an
// output frame of outW x outH pixels.
//
// The source is resampled once per call onto an offscreen surface at mask
// resolution; every output pixel then maps to its mask cell and source pixel
// through floor-based nearest neighbor with independent X/Y scale factors.
//
//   - Background replace OFF: output starts from the source color. Segmented
//     cells get a per-channel linear blend toward FillColor by FillOpacity
//     when the viz mode includes fill.
//   - Background replace ON: segmented cells emit the source color (with the
//     same optional fill blend); everything else emits the flat
//     BackgroundColor.
//
// Every pixel is written and the output is always fully opaque.
func (c *Compositor) Composite(src image.Image, m *mask.Mask, s *style.Settings, outW, outH int) *image.RGBA {
	if outW <= 0 || outH <= 0 {
		return nil
	}

	out := c.output(outW, outH)

	if m == nil || m.W == 0 || m.H == 0 || len(m.Bits) < m.W*m.H {
		// No usable mask: emit the source unmodified.
		drawSource(out, src)
		return out
	}

	low := c.offscreen(src, m.W, m.H)

	op := float32(clamp01(s.FillOpacity))
	inv := 1 - op
	// Premultiplied fill contribution per channel.
	fr := float32(s.FillColor.R) * op
	fg := float32(s.FillColor.G) * op
	fb := float32(s.FillColor.B) * op
	blendFill := s.VizMode.IncludesFill()

	bg := s.BackgroundColor
	replace := s.ReplaceBackground

	for y := 0; y < outH; y++ {
		my := y * m.H / outH
		maskRow := my * m.W
		lowRow := my * low.Stride
		dstRow := y * out.Stride
		for x := 0; x < outW; x++ {
			mx := x * m.W / outW
			do := dstRow + x*4
			seg := m.Bits[maskRow+mx] != 0

			var r, g, b uint8
			if replace && !seg {
				r, g, b = bg.R, bg.G, bg.B
			} else {
				so := lowRow + mx*4
				p := low.Pix[so : so+4 : so+4]
				r, g, b = p[0], p[1], p[2]
				if seg && blendFill {
					// Truncating store: src=100, fill=255,
					// opacity=0.5 -> 177, not 178.
					r = uint8(float32(r)*inv + fr)
					g = uint8(float32(g)*inv + fg)
					b = uint8(float32(b)*inv + fb)
				}
			}

			out.Pix[do+0] = r
			out.Pix[do+1] = g
			out.Pix[do+2] = b
			out.Pix[do+3] = 255
		}
	}

	return out
}

// offscreen resamples the source onto the reusable mask-resolution surface.
func (c *Compositor) offscreen(src image.Image, w, h int) *image.RGBA {
	b := src.Bounds()
	if c.low == nil || c.low.Rect.Dx() != w || c.low.Rect.Dy() != h {
		c.low = image.NewRGBA(image.Rect(0, 0, w, h))
	}
	if b.Dx() == w && b.Dy() == h {
		draw.Draw(c.low, c.low.Rect, src, b.Min, draw.Src)
		return c.low
	}
	small := resize.Resize(uint(w), uint(h), src, resize.NearestNeighbor)
	draw.Draw(c.low, c.low.Rect, small, small.Bounds().Min, draw.Src)
	return c.low
}

// output returns the reusable output buffer, reallocating on size change.
func (c *Compositor) output(w, h int) *image.RGBA {
	if c.out == nil || c.out.Rect.Dx() != w || c.out.Rect.Dy() != h {
		c.out = image.NewRGBA(image.Rect(0, 0, w, h))
	}
	return c.out
}

// drawSource fills the output with the source frame, scaled if needed, with
// forced opaque alpha.
func drawSource(dst *image.RGBA, src image.Image) {
	b := src.Bounds()
	if b.Dx() == dst.Rect.Dx() && b.Dy() == dst.Rect.Dy() {
		draw.Draw(dst, dst.Rect, src, b.Min, draw.Src)
	} else {
		scaled := resize.Resize(uint(dst.Rect.Dx()), uint(dst.Rect.Dy()), src, resize.NearestNeighbor)
		draw.Draw(dst, dst.Rect, scaled, scaled.Bounds().Min, draw.Src)
	}
	for i := 3; i < len(dst.Pix); i += 4 {
		dst.Pix[i] = 255
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
