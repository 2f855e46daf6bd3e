package images

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnnotate_ProducesDecodableJPEG(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 120, 90))
	for y := 0; y < 90; y++ {
		for x := 0; x < 120; x++ {
			src.SetNRGBA(x, y, color.NRGBA{R: 40, G: 40, B: 40, A: 255})
		}
	}

	encoded, err := Annotate(src, []Annotation{
		{Box: image.Rect(10, 20, 60, 70), Label: "glioma 0.91"},
	})
	require.NoError(t, err, "Annotating a valid image must succeed")
	require.NotEmpty(t, encoded)

	out, err := jpeg.Decode(bytes.NewReader(encoded))
	require.NoError(t, err, "Annotate must emit a valid JPEG")
	assert.Equal(t, 120, out.Bounds().Dx())
	assert.Equal(t, 90, out.Bounds().Dy())
}

// A box hugging the top edge draws its label inside the box instead of
// above the frame.
func TestAnnotate_LabelAtTopEdge(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 100, 100))

	encoded, err := Annotate(src, []Annotation{
		{Box: image.Rect(0, 0, 50, 50), Label: "meningioma 0.40"},
	})
	require.NoError(t, err)
	assert.NotEmpty(t, encoded)
}
