package images

import (
	"bytes"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"

	_ "github.com/chai2010/webp"
	"github.com/disintegration/imaging"
)

// ImageFormat represents supported image formats.
type ImageFormat string

const (
	// FormatJPEG is the JPEG image format.
	FormatJPEG ImageFormat = "jpeg"
	// FormatPNG is the PNG image format.
	FormatPNG ImageFormat = "png"
	// FormatWebP is the WebP image format.
	FormatWebP ImageFormat = "webp"
)

// Decoded holds a normalized 8-bit RGBA image plus source metadata.
//
// Alpha, grayscale, and 16-bit sources are converted deterministically
// during decoding; the pixel buffer always carries three meaningful
// color channels for the model.
type Decoded struct {
	// The normalized pixel buffer.
	Pixels *image.NRGBA
	// The format the source bytes were encoded in.
	Format ImageFormat
	// The width of the source image in pixels.
	Width int
	// The height of the source image in pixels.
	Height int
}

// Decode parses raw image bytes into a normalized pixel buffer.
//
// Arguments:
//   - data: Raw encoded image bytes (JPEG, PNG or WebP).
//
// Returns:
//   - *Decoded: The normalized image and its metadata.
//   - error: An error if the bytes are empty, truncated, corrupt, or in
//     an unsupported format.
func Decode(data []byte) (*Decoded, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("empty image data")
	}

	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}

	f := ImageFormat(format)
	switch f {
	case FormatJPEG, FormatPNG, FormatWebP:
	default:
		return nil, fmt.Errorf("unsupported image format %q", format)
	}

	bounds := img.Bounds()
	return &Decoded{
		Pixels: imaging.Clone(img),
		Format: f,
		Width:  bounds.Dx(),
		Height: bounds.Dy(),
	}, nil
}
