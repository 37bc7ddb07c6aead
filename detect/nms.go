package detect

import "sort"

// NMSConfig defines parameters for Non-Maximum Suppression.
type NMSConfig struct {
	IoUThreshold float32 // Overlap threshold above which boxes are suppressed.
	ClassAware   bool    // If true, suppress only within the same class.
}

// NMS performs greedy Non-Maximum Suppression.
//
// Arguments:
//   - detections: Detections in any order; sorted by descending confidence
//     internally (the input slice is reordered).
//   - config: Suppression configuration.
//
// Returns:
//   - Filtered slice of detections. Nil if no detections are provided.
func NMS(detections []Detection, config NMSConfig) []Detection {
	n := len(detections)
	if n == 0 {
		return nil
	}

	sort.Slice(detections, func(i, j int) bool {
		return detections[i].Confidence > detections[j].Confidence
	})

	filtered := make([]Detection, 0, n)
	used := make([]bool, n)

	for i := 0; i < n; i++ {
		if used[i] {
			continue
		}

		anchor := detections[i]
		filtered = append(filtered, anchor)
		used[i] = true

		for j := i + 1; j < n; j++ {
			if used[j] {
				continue
			}
			if config.ClassAware && anchor.Label != detections[j].Label {
				continue
			}
			if IoU(anchor.Box, detections[j].Box) > config.IoUThreshold {
				used[j] = true
			}
		}
	}

	return filtered
}
