package onnx

import "image"

// Config for the ONNX segmentation oracle.
type Config struct {
	// ModelPath points at a YOLO-family segmentation model (boxes +
	// prototype mask head).
	ModelPath string
	// SharedLibPath overrides the ONNX Runtime shared library location.
	// Empty uses the platform default.
	SharedLibPath string
	// InputShape is the model input size (typically 640x640).
	InputShape image.Point
	// ConfidenceThreshold drops detections scoring below it.
	ConfidenceThreshold float32
	// SegmentClass is the label whose best detection drives the
	// segmentation mask.
	SegmentClass string
	// IntraOpThreads parallelizes execution within graph nodes. 0 uses the
	// runtime default.
	IntraOpThreads int
	// InterOpThreads parallelizes execution across graph nodes. 0 uses the
	// runtime default.
	InterOpThreads int
}
