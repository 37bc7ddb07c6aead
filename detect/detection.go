// Package detect - detection records and the filtering applied to raw model
// output before rendering.
package detect

import (
	"fmt"
	"image"
)

// Detection represents a detected object in frame coordinates. A fresh list
// arrives every detection cycle; no identity persists across frames.
type Detection struct {
	Label      string
	Confidence float32
	Box        image.Rectangle
}

// String formats the detection for log lines.
func (d Detection) String() string {
	return fmt.Sprintf("%s (%.2f) %v", d.Label, d.Confidence, d.Box)
}

// Center returns the box center in frame coordinates.
func (d Detection) Center() (float64, float64) {
	return float64(d.Box.Min.X+d.Box.Max.X) / 2, float64(d.Box.Min.Y+d.Box.Max.Y) / 2
}

// IoU calculates the Intersection over Union between two rectangles. Used by
// Non-Maximum Suppression to drop duplicate detections.
func IoU(a, b image.Rectangle) float32 {
	inter := a.Intersect(b)
	if inter.Empty() {
		return 0.0
	}

	interArea := inter.Dx() * inter.Dy()
	areaA := a.Dx() * a.Dy()
	areaB := b.Dx() * b.Dy()
	union := areaA + areaB - interArea
	if union <= 0 {
		return 0.0
	}

	return float32(interArea) / float32(union)
}
