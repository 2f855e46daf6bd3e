// Package images - Image decoding and box utilities.
package images

import (
	"image"

	"github.com/chewxy/math32"
)

// Rect is a lightweight bounding box with float32 corners.
// X2,Y2 are exclusive (like image.Rectangle).
type Rect struct {
	X1, Y1, X2, Y2 float32
}

// Area returns the area of the box in pixels, zero for degenerate boxes.
func (r Rect) Area() float32 {
	w := r.X2 - r.X1
	h := r.Y2 - r.Y1
	if w <= 0 || h <= 0 {
		return 0
	}
	return w * h
}

// Clamp limits the box to [0,width] x [0,height].
func (r Rect) Clamp(width, height float32) Rect {
	return Rect{
		X1: math32.Max(0, r.X1),
		Y1: math32.Max(0, r.Y1),
		X2: math32.Min(width, r.X2),
		Y2: math32.Min(height, r.Y2),
	}
}

// ToRect converts the box to an integral image.Rectangle.
//
// Returns:
//   - An image.Rectangle with canonicalized coordinates.
func (r Rect) ToRect() image.Rectangle {
	return image.Rect(int(r.X1), int(r.Y1), int(r.X2), int(r.Y2)).Canon()
}

// IoU measures the overlap between two boxes as intersection over union.
//
// Arguments:
//   - o: The other box to compare against.
//
// Returns:
//   - A value in [0,1]; 0 for disjoint boxes, 1 for identical boxes.
func (r Rect) IoU(o Rect) float32 {
	return CalculateIoU(r.X1, r.Y1, r.X2, r.Y2, o.X1, o.Y1, o.X2, o.Y2)
}

// CalculateIoU computes Intersection over Union from raw corner coordinates.
//
// Arguments:
//   - ax1, ay1, ax2, ay2: Corners of the first box.
//   - bx1, by1, bx2, by2: Corners of the second box.
//
// Returns:
//   - The IoU value between 0 and 1.
func CalculateIoU(ax1, ay1, ax2, ay2, bx1, by1, bx2, by2 float32) float32 {
	ix1 := math32.Max(ax1, bx1)
	iy1 := math32.Max(ay1, by1)
	ix2 := math32.Min(ax2, bx2)
	iy2 := math32.Min(ay2, by2)

	iw := ix2 - ix1
	ih := iy2 - iy1
	if iw <= 0 || ih <= 0 {
		return 0
	}

	intersection := iw * ih
	union := (ax2-ax1)*(ay2-ay1) + (bx2-bx1)*(by2-by1) - intersection
	if union <= 0 {
		return 0
	}
	return intersection / union
}
