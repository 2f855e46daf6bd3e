package postprocess

import "sort"

// ApplyGreedyNMS performs standard greedy Non-Maximum Suppression.
//
// Detections are ordered by descending confidence, then each surviving
// box suppresses every later box that overlaps it beyond the configured
// IoU threshold. With ClassAware set, boxes of different classes never
// suppress each other.
//
// Arguments:
//   - detections: Raw detections in any order.
//   - config: Suppression parameters.
//
// Returns:
//   - Filtered detections ordered by descending confidence. If no
//     detections are provided, returns nil.
func ApplyGreedyNMS(detections []Result, config *NMSConfig) []Result {
	n := len(detections)
	if n == 0 {
		return nil
	}

	sorted := make([]Result, n)
	copy(sorted, detections)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Score > sorted[j].Score
	})

	filtered := make([]Result, 0, n)
	used := make([]bool, n)

	for i := 0; i < n; i++ {
		if used[i] {
			continue
		}

		anchor := sorted[i]
		filtered = append(filtered, anchor)
		used[i] = true

		if config.MaxDetections > 0 && len(filtered) >= config.MaxDetections {
			break
		}

		for j := i + 1; j < n; j++ {
			if used[j] {
				continue
			}
			if config.ClassAware && anchor.Class != sorted[j].Class {
				continue
			}
			if anchor.Box.IoU(sorted[j].Box) > config.IoUThreshold {
				used[j] = true
			}
		}
	}

	return filtered
}
