package postprocess

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Pravallika0730/medical-image-analyzer/images"
)

func TestApplyGreedyNMS_Empty(t *testing.T) {
	cfg := &NMSConfig{IoUThreshold: 0.5}
	assert.Nil(t, ApplyGreedyNMS(nil, cfg))
	assert.Nil(t, ApplyGreedyNMS([]Result{}, cfg))
}

func TestApplyGreedyNMS_SuppressesOverlaps(t *testing.T) {
	detections := []Result{
		{Box: images.Rect{X1: 0, Y1: 0, X2: 100, Y2: 100}, Score: 0.8, Class: 0},
		{Box: images.Rect{X1: 5, Y1: 5, X2: 105, Y2: 105}, Score: 0.9, Class: 0},  // near duplicate, higher score
		{Box: images.Rect{X1: 300, Y1: 300, X2: 400, Y2: 400}, Score: 0.7, Class: 0}, // disjoint, survives
	}

	result := ApplyGreedyNMS(detections, &NMSConfig{IoUThreshold: 0.45})
	require.Len(t, result, 2, "Overlapping duplicate must be suppressed")

	assert.Equal(t, float32(0.9), result[0].Score, "Output is ordered by descending confidence")
	assert.Equal(t, float32(0.7), result[1].Score)
}

func TestApplyGreedyNMS_BelowIoUThresholdKept(t *testing.T) {
	detections := []Result{
		{Box: images.Rect{X1: 0, Y1: 0, X2: 100, Y2: 100}, Score: 0.9, Class: 0},
		{Box: images.Rect{X1: 90, Y1: 90, X2: 190, Y2: 190}, Score: 0.8, Class: 0}, // tiny overlap
	}

	result := ApplyGreedyNMS(detections, &NMSConfig{IoUThreshold: 0.45})
	assert.Len(t, result, 2, "Boxes overlapping below the threshold must both survive")
}

func TestApplyGreedyNMS_ClassAware(t *testing.T) {
	detections := []Result{
		{Box: images.Rect{X1: 0, Y1: 0, X2: 100, Y2: 100}, Score: 0.9, Class: 0},
		{Box: images.Rect{X1: 0, Y1: 0, X2: 100, Y2: 100}, Score: 0.8, Class: 1},
	}

	// Class-agnostic: the identical box of the other class is suppressed.
	result := ApplyGreedyNMS(detections, &NMSConfig{IoUThreshold: 0.45})
	assert.Len(t, result, 1)

	// Class-aware: different classes never suppress each other.
	result = ApplyGreedyNMS(detections, &NMSConfig{IoUThreshold: 0.45, ClassAware: true})
	assert.Len(t, result, 2)
}

func TestApplyGreedyNMS_MaxDetections(t *testing.T) {
	detections := []Result{
		{Box: images.Rect{X1: 0, Y1: 0, X2: 10, Y2: 10}, Score: 0.9, Class: 0},
		{Box: images.Rect{X1: 100, Y1: 100, X2: 110, Y2: 110}, Score: 0.8, Class: 0},
		{Box: images.Rect{X1: 200, Y1: 200, X2: 210, Y2: 210}, Score: 0.7, Class: 0},
	}

	result := ApplyGreedyNMS(detections, &NMSConfig{IoUThreshold: 0.45, MaxDetections: 2})
	require.Len(t, result, 2)
	assert.Equal(t, float32(0.9), result[0].Score, "The cap keeps the highest-confidence boxes")
	assert.Equal(t, float32(0.8), result[1].Score)
}

func TestApplyGreedyNMS_InputNotMutated(t *testing.T) {
	detections := []Result{
		{Box: images.Rect{X1: 0, Y1: 0, X2: 10, Y2: 10}, Score: 0.1, Class: 0},
		{Box: images.Rect{X1: 100, Y1: 100, X2: 110, Y2: 110}, Score: 0.9, Class: 0},
	}

	ApplyGreedyNMS(detections, &NMSConfig{IoUThreshold: 0.45})
	assert.Equal(t, float32(0.1), detections[0].Score, "The caller's slice must stay in its original order")
}
