package images

import (
	"fmt"
	"image"
	"image/color"

	"gocv.io/x/gocv"
)

var (
	boxColor   = color.RGBA{0, 255, 0, 0}
	labelColor = color.RGBA{0, 255, 0, 0}
)

// Annotation is one labeled box to draw onto an image.
type Annotation struct {
	Box   image.Rectangle
	Label string
}

// Annotate draws labeled boxes onto a copy of src and encodes the result
// as JPEG.
//
// Arguments:
//   - src: The source image; it is not modified.
//   - boxes: The labeled boxes to draw, in source pixel coordinates.
//
// Returns:
//   - []byte: The annotated image encoded as JPEG.
//   - error: An error if conversion, drawing, or encoding fails.
func Annotate(src image.Image, boxes []Annotation) ([]byte, error) {
	mat, err := gocv.ImageToMatRGB(src)
	if err != nil {
		return nil, fmt.Errorf("convert image to mat: %w", err)
	}
	defer mat.Close()

	// OpenCV encodes from BGR ordering.
	gocv.CvtColor(mat, &mat, gocv.ColorBGRToRGB)

	for _, a := range boxes {
		gocv.Rectangle(&mat, a.Box, boxColor, 2)

		origin := image.Pt(a.Box.Min.X, a.Box.Min.Y-6)
		if origin.Y < 12 {
			// Label would fall outside the frame, draw it inside the box.
			origin.Y = a.Box.Min.Y + 16
		}
		gocv.PutText(&mat, a.Label, origin, gocv.FontHersheyPlain, 1.2, labelColor, 2)
	}

	buf, err := gocv.IMEncode(gocv.JPEGFileExt, mat)
	if err != nil {
		return nil, fmt.Errorf("encode annotated image: %w", err)
	}
	defer buf.Close()

	out := make([]byte, buf.Len())
	copy(out, buf.GetBytes())
	return out, nil
}
