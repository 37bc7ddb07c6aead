package onnx

import (
	"image"

	"github.com/chewxy/math32"

	"github.com/nvr-ai/go-overlay/detect"
	"github.com/nvr-ai/go-overlay/mask"
	"github.com/nvr-ai/go-overlay/pipeline"
)

// candidate is a decoded anchor kept past the confidence threshold.
type candidate struct {
	det    detect.Detection
	coeffs []float32
	// box in model input coordinates, for mask cropping.
	modelBox image.Rectangle
}

// postprocess decodes the raw output tensors into detections plus an optional
// segmentation mask for the configured class. Boxes arrive channel-major:
// value (c, a) lives at data[c*numAnchors + a].
func (o *Oracle) postprocess(boxes, protos []float32, frameW, frameH int) pipeline.Result {
	inW := float32(o.cfg.InputShape.X)
	inH := float32(o.cfg.InputShape.Y)
	numClasses := len(YOLOClasses)

	var cands []candidate
	for a := 0; a < numAnchors; a++ {
		bestScore := float32(0)
		bestClass := -1
		for c := 0; c < numClasses; c++ {
			score := boxes[(4+c)*numAnchors+a]
			if score > bestScore {
				bestScore = score
				bestClass = c
			}
		}
		if bestScore < o.cfg.ConfidenceThreshold {
			continue
		}

		cx := boxes[0*numAnchors+a]
		cy := boxes[1*numAnchors+a]
		w := boxes[2*numAnchors+a]
		h := boxes[3*numAnchors+a]

		modelBox := image.Rect(
			int(cx-w/2), int(cy-h/2),
			int(cx+w/2), int(cy+h/2),
		)
		frameBox := image.Rect(
			int((cx-w/2)/inW*float32(frameW)), int((cy-h/2)/inH*float32(frameH)),
			int((cx+w/2)/inW*float32(frameW)), int((cy+h/2)/inH*float32(frameH)),
		).Intersect(image.Rect(0, 0, frameW, frameH))

		coeffs := make([]float32, maskCoeffs)
		for k := 0; k < maskCoeffs; k++ {
			coeffs[k] = boxes[(4+numClasses+k)*numAnchors+a]
		}

		cands = append(cands, candidate{
			det: detect.Detection{
				Label:      className(bestClass),
				Confidence: bestScore,
				Box:        frameBox,
			},
			coeffs:   coeffs,
			modelBox: modelBox,
		})
	}

	res := pipeline.Result{Detections: make([]detect.Detection, len(cands))}
	best := -1
	for i, c := range cands {
		res.Detections[i] = c.det
		if c.det.Label == o.cfg.SegmentClass &&
			(best < 0 || c.det.Confidence > cands[best].det.Confidence) {
			best = i
		}
	}
	if best >= 0 {
		res.Mask = o.buildMask(cands[best], protos)
	}
	return res
}

// buildMask assembles the low-resolution segmentation mask from the prototype
// head: sigmoid of the coefficient-weighted prototype sum, thresholded at 0.5
// and cropped to the detection box.
func (o *Oracle) buildMask(c candidate, protos []float32) *mask.Mask {
	m := mask.New(protoSize, protoSize)

	// Crop bounds in prototype coordinates.
	sx := float32(protoSize) / float32(o.cfg.InputShape.X)
	sy := float32(protoSize) / float32(o.cfg.InputShape.Y)
	x0 := int(float32(c.modelBox.Min.X) * sx)
	y0 := int(float32(c.modelBox.Min.Y) * sy)
	x1 := int(float32(c.modelBox.Max.X) * sx)
	y1 := int(float32(c.modelBox.Max.Y) * sy)

	plane := protoSize * protoSize
	for y := 0; y < protoSize; y++ {
		if y < y0 || y > y1 {
			continue
		}
		for x := 0; x < protoSize; x++ {
			if x < x0 || x > x1 {
				continue
			}
			var sum float32
			off := y*protoSize + x
			for k := 0; k < maskCoeffs; k++ {
				sum += c.coeffs[k] * protos[k*plane+off]
			}
			if sigmoid(sum) >= 0.5 {
				m.Bits[off] = 1
			}
		}
	}
	return m
}

func sigmoid(x float32) float32 {
	return 1.0 / (1.0 + math32.Exp(-x))
}
