package onnx

import (
	"image"

	"github.com/nfnt/resize"
)

// preprocessor converts frames to the model's CHW float32 layout.
type preprocessor struct {
	w, h int
}

func newPreprocessor(w, h int) *preprocessor {
	return &preprocessor{w: w, h: h}
}

// fill resizes the frame to the model input size and writes normalized RGB
// planes into dst. dst must hold 3*w*h float32 values.
func (p *preprocessor) fill(frame image.Image, dst []float32) {
	scaled := resize.Resize(uint(p.w), uint(p.h), frame, resize.Bilinear)

	plane := p.w * p.h
	rCh := dst[:plane]
	gCh := dst[plane : 2*plane]
	bCh := dst[2*plane : 3*plane]

	b := scaled.Bounds()
	i := 0
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			r, g, bl, _ := scaled.At(x, y).RGBA()
			rCh[i] = float32(r>>8) / 255.0
			gCh[i] = float32(g>>8) / 255.0
			bCh[i] = float32(bl>>8) / 255.0
			i++
		}
	}
}
