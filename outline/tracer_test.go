package outline

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/nvr-ai/go-overlay/mask"
)

func TestEdgeCellsFullMaskHasNoEdges(t *testing.T) {
	// Out-of-bounds neighbors never count as background, so a mask that is
	// entirely segmented has no boundary at all.
	m := mask.New(4, 4)
	for i := range m.Bits {
		m.Bits[i] = 1
	}
	assert.Empty(t, EdgeCells(m))
}

func TestEdgeCellsBlockPerimeter(t *testing.T) {
	// A 3x3 block inside a 5x5 grid: the 8 perimeter cells are edges, the
	// center is interior.
	m := mask.New(5, 5)
	for y := 1; y <= 3; y++ {
		for x := 1; x <= 3; x++ {
			m.Set(x, y, 1)
		}
	}

	edges := EdgeCells(m)
	assert.Len(t, edges, 8)
	assert.NotContains(t, edges, image.Pt(2, 2))
	assert.Contains(t, edges, image.Pt(1, 1))
	assert.Contains(t, edges, image.Pt(2, 1))
	assert.Contains(t, edges, image.Pt(3, 3))
}

func TestEdgeCellsSingleCell(t *testing.T) {
	m := mask.New(3, 3)
	m.Set(1, 1, 1)

	edges := EdgeCells(m)
	assert.Equal(t, []image.Point{image.Pt(1, 1)}, edges)
}

func TestEdgeCellsBorderRegion(t *testing.T) {
	// Left column fully segmented in a 3x3 grid. Those cells touch
	// unsegmented cells to their right, so they are edges even though their
	// left neighbors are out of bounds.
	m := mask.New(3, 3)
	for y := 0; y < 3; y++ {
		m.Set(0, y, 1)
	}

	edges := EdgeCells(m)
	assert.Len(t, edges, 3)
}

func TestEdgeCellsNilAndEmpty(t *testing.T) {
	assert.Nil(t, EdgeCells(nil))
	assert.Nil(t, EdgeCells(mask.New(0, 0)))
	assert.Empty(t, EdgeCells(mask.New(3, 3)))
}

func TestTracePaintsScaledCells(t *testing.T) {
	// 2x2 mask over an 8x8 canvas, one segmented cell at (0,0). The cell
	// scales to a 4x4 block; thickness below the cell size has no effect.
	dst := image.NewRGBA(image.Rect(0, 0, 8, 8))
	m := mask.New(2, 2)
	m.Set(0, 0, 1)

	red := color.RGBA{R: 255, A: 255}
	Trace(dst, m, red, 1)

	assert.Equal(t, red, dst.RGBAAt(0, 0))
	assert.Equal(t, red, dst.RGBAAt(3, 3))
	assert.Equal(t, color.RGBA{}, dst.RGBAAt(4, 0), "next cell untouched")
	assert.Equal(t, color.RGBA{}, dst.RGBAAt(0, 4))
}

func TestTraceThicknessWidensStroke(t *testing.T) {
	// At 1:1 scale each cell is one pixel; thickness 3 widens each edge
	// cell's paint rect to 3x3.
	dst := image.NewRGBA(image.Rect(0, 0, 8, 8))
	m := mask.New(8, 8)
	m.Set(2, 2, 1)

	white := color.RGBA{R: 255, G: 255, B: 255, A: 255}
	Trace(dst, m, white, 3)

	assert.Equal(t, white, dst.RGBAAt(2, 2))
	assert.Equal(t, white, dst.RGBAAt(4, 4), "rect extends thickness pixels")
	assert.Equal(t, color.RGBA{}, dst.RGBAAt(5, 5))
}

func TestTraceClipsAtCanvasEdge(t *testing.T) {
	dst := image.NewRGBA(image.Rect(0, 0, 4, 4))
	m := mask.New(4, 4)
	m.Set(3, 3, 1)

	// Oversized thickness must clip, not panic.
	Trace(dst, m, color.RGBA{B: 255, A: 255}, 10)
	assert.Equal(t, color.RGBA{B: 255, A: 255}, dst.RGBAAt(3, 3))
}

func TestTraceNilInputs(t *testing.T) {
	// Must not panic.
	Trace(nil, mask.New(2, 2), color.RGBA{}, 1)
	Trace(image.NewRGBA(image.Rect(0, 0, 2, 2)), nil, color.RGBA{}, 1)
}
