// Package outline - edge detection over a binary mask and outline painting
// at output resolution.
package outline

import (
	"image"
	"image/color"

	"github.com/nvr-ai/go-overlay/mask"
)

// EdgeCells returns the mask cells that sit on the segmentation boundary. A
// cell is an edge when it is segmented (1) and at least one of its 8
// in-bounds neighbors is unsegmented (0). Out-of-bounds neighbors never count
// as background, so a mask touching the frame border does not grow a border
// outline.
func EdgeCells(m *mask.Mask) []image.Point {
	if m == nil || m.W == 0 || m.H == 0 {
		return nil
	}

	var edges []image.Point
	for y := 0; y < m.H; y++ {
		row := y * m.W
		for x := 0; x < m.W; x++ {
			if m.Bits[row+x] == 0 {
				continue
			}
			if isEdge(m, x, y) {
				edges = append(edges, image.Pt(x, y))
			}
		}
	}
	return edges
}

func isEdge(m *mask.Mask, x, y int) bool {
	for dy := -1; dy <= 1; dy++ {
		ny := y + dy
		if ny < 0 || ny >= m.H {
			continue
		}
		row := ny * m.W
		for dx := -1; dx <= 1; dx++ {
			if dx == 0 && dy == 0 {
				continue
			}
			nx := x + dx
			if nx < 0 || nx >= m.W {
				continue
			}
			if m.Bits[row+nx] == 0 {
				return true
			}
		}
	}
	return false
}

// Trace paints the mask's boundary cells onto dst in the outline color. Each
// edge cell becomes a rectangle at the corresponding scaled output region,
// sized max(scaleX, thickness) x max(scaleY, thickness). This approximates a
// stroked contour without vector contour extraction; a thickness below one
// scaled mask cell has no visible effect.
func Trace(dst *image.RGBA, m *mask.Mask, col color.RGBA, thickness int) {
	if dst == nil || m == nil || m.W == 0 || m.H == 0 {
		return
	}
	if thickness < 1 {
		thickness = 1
	}

	outW := dst.Rect.Dx()
	outH := dst.Rect.Dy()
	scaleX := float64(outW) / float64(m.W)
	scaleY := float64(outH) / float64(m.H)

	w := int(scaleX)
	if w < thickness {
		w = thickness
	}
	h := int(scaleY)
	if h < thickness {
		h = thickness
	}

	for _, pt := range EdgeCells(m) {
		x0 := int(float64(pt.X) * scaleX)
		y0 := int(float64(pt.Y) * scaleY)
		fillRect(dst, x0, y0, w, h, col)
	}
}

// fillRect paints an opaque rectangle clipped to dst bounds.
func fillRect(dst *image.RGBA, x0, y0, w, h int, col color.RGBA) {
	outW := dst.Rect.Dx()
	outH := dst.Rect.Dy()

	x1 := x0 + w
	y1 := y0 + h
	if x0 < 0 {
		x0 = 0
	}
	if y0 < 0 {
		y0 = 0
	}
	if x1 > outW {
		x1 = outW
	}
	if y1 > outH {
		y1 = outH
	}
	if x0 >= x1 || y0 >= y1 {
		return
	}

	for y := y0; y < y1; y++ {
		off := y*dst.Stride + x0*4
		for x := x0; x < x1; x++ {
			p := dst.Pix[off : off+4 : off+4]
			p[0] = col.R
			p[1] = col.G
			p[2] = col.B
			p[3] = 255
			off += 4
		}
	}
}
