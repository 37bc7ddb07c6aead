package render

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/nvr-ai/go-overlay/detect"
	"github.com/nvr-ai/go-overlay/style"
)

func TestScaledRect(t *testing.T) {
	tests := []struct {
		name  string
		in    image.Rectangle
		scale float64
		want  image.Rectangle
	}{
		{
			name:  "doubling about center",
			in:    image.Rect(10, 10, 30, 30),
			scale: 2.0,
			want:  image.Rect(0, 0, 40, 40),
		},
		{
			name:  "identity",
			in:    image.Rect(5, 5, 15, 25),
			scale: 1.0,
			want:  image.Rect(5, 5, 15, 25),
		},
		{
			name:  "halving",
			in:    image.Rect(0, 0, 40, 40),
			scale: 0.5,
			want:  image.Rect(10, 10, 30, 30),
		},
		{
			name:  "non-positive scale is identity",
			in:    image.Rect(1, 2, 3, 4),
			scale: 0,
			want:  image.Rect(1, 2, 3, 4),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ScaledRect(tt.in, tt.scale))
		})
	}
}

func blankFrame(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for i := 3; i < len(img.Pix); i += 4 {
		img.Pix[i] = 255
	}
	return img
}

func TestDrawFillsBox(t *testing.T) {
	dst := blankFrame(100, 100)
	s := style.Defaults()
	s.VizMode = style.VizFill
	s.FillColor = color.RGBA{R: 255, A: 255}
	s.FillOpacity = 1.0
	s.ShowLabels = false
	s.SegmentationMode = false

	NewBoxRenderer().Draw(dst, []detect.Detection{
		{Label: "car", Confidence: 0.9, Box: image.Rect(20, 20, 60, 60)},
	}, s)

	assert.Equal(t, color.RGBA{R: 255, A: 255}, dst.RGBAAt(40, 40), "inside the box")
	assert.Equal(t, color.RGBA{A: 255}, dst.RGBAAt(80, 80), "outside the box")
}

func TestDrawSkipsSegmentedClassBox(t *testing.T) {
	dst := blankFrame(100, 100)
	s := style.Defaults()
	s.FillColor = color.RGBA{R: 255, A: 255}
	s.FillOpacity = 1.0
	s.ShowLabels = false
	// SegmentationMode on, and the label matches SegmentClass: the mask
	// compositor owns this region, so no box paint.

	NewBoxRenderer().Draw(dst, []detect.Detection{
		{Label: "person", Confidence: 0.9, Box: image.Rect(20, 20, 60, 60)},
	}, s)

	assert.Equal(t, color.RGBA{A: 255}, dst.RGBAAt(40, 40), "segmented class box not painted")
}

func TestDrawSegmentedClassStillGetsLabel(t *testing.T) {
	dst := blankFrame(200, 200)
	s := style.Defaults()
	s.ShowLabels = true

	NewBoxRenderer().Draw(dst, []detect.Detection{
		{Label: "person", Confidence: 0.9, Box: image.Rect(50, 50, 150, 150)},
	}, s)

	// The label backing sits above the box top edge; something there must
	// have changed from the blank frame.
	changed := false
	for x := 50; x < 150 && !changed; x++ {
		for y := 30; y < 50; y++ {
			if dst.RGBAAt(x, y) != (color.RGBA{A: 255}) {
				changed = true
				break
			}
		}
	}
	assert.True(t, changed, "label drawn even when the box is skipped")
}

func TestDrawOutlineMode(t *testing.T) {
	dst := blankFrame(100, 100)
	s := style.Defaults()
	s.VizMode = style.VizOutline
	s.OutlineColor = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	s.OutlineThickness = 2
	s.ShowLabels = false
	s.SegmentationMode = false

	NewBoxRenderer().Draw(dst, []detect.Detection{
		{Label: "car", Confidence: 0.9, Box: image.Rect(20, 20, 60, 60)},
	}, s)

	assert.NotEqual(t, color.RGBA{A: 255}, dst.RGBAAt(20, 40), "border stroked")
	assert.Equal(t, color.RGBA{A: 255}, dst.RGBAAt(40, 40), "interior untouched")
}

func TestDrawPositionColorVaries(t *testing.T) {
	dst := blankFrame(200, 100)
	s := style.Defaults()
	s.ColorMode = style.ColorPosition
	s.VizMode = style.VizFill
	s.FillOpacity = 1.0
	s.ShowLabels = false
	s.SegmentationMode = false

	NewBoxRenderer().Draw(dst, []detect.Detection{
		{Label: "car", Confidence: 0.9, Box: image.Rect(0, 40, 20, 60)},
		{Label: "car", Confidence: 0.9, Box: image.Rect(150, 40, 170, 60)},
	}, s)

	assert.NotEqual(t, dst.RGBAAt(10, 50), dst.RGBAAt(160, 50),
		"position mode gives spatially distinct colors")
}

func TestDrawBoxScale(t *testing.T) {
	dst := blankFrame(100, 100)
	s := style.Defaults()
	s.VizMode = style.VizFill
	s.FillColor = color.RGBA{R: 255, A: 255}
	s.FillOpacity = 1.0
	s.ShowLabels = false
	s.SegmentationMode = false
	s.BoxScale = 2.0

	// (30,30)-(50,50) scaled x2 about center covers (20,20)-(60,60).
	NewBoxRenderer().Draw(dst, []detect.Detection{
		{Label: "car", Confidence: 0.9, Box: image.Rect(30, 30, 50, 50)},
	}, s)

	assert.Equal(t, color.RGBA{R: 255, A: 255}, dst.RGBAAt(25, 25), "inside the scaled box")
	assert.Equal(t, color.RGBA{A: 255}, dst.RGBAAt(15, 15), "outside the scaled box")
}

func TestDrawNoDetectionsNoop(t *testing.T) {
	dst := blankFrame(10, 10)
	before := append([]uint8(nil), dst.Pix...)

	NewBoxRenderer().Draw(dst, nil, style.Defaults())
	assert.Equal(t, before, dst.Pix)
}
