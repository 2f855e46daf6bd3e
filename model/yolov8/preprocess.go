package yolov8

import (
	"fmt"
	"image"

	"github.com/nfnt/resize"
)

// PreProcess fills dst with the CHW float32 representation of img,
// resized to the model input size and normalized to [0,1].
//
// Arguments:
//   - img: The image to prepare.
//   - dst: The destination buffer backing the input tensor.
//
// Returns:
//   - error: An error if dst is too small for the input shape.
func (m *YOLOv8) PreProcess(img image.Image, dst []float32) error {
	channelSize := InputWidth * InputHeight
	if len(dst) < channelSize*3 {
		return fmt.Errorf("input buffer holds %d floats, needs %d (make sure it's the right shape)",
			len(dst), channelSize*3)
	}
	red := dst[0:channelSize]
	green := dst[channelSize : channelSize*2]
	blue := dst[channelSize*2 : channelSize*3]

	resized := resize.Resize(InputWidth, InputHeight, img, resize.Lanczos3)

	i := 0
	for y := 0; y < InputHeight; y++ {
		for x := 0; x < InputWidth; x++ {
			r, g, b, _ := resized.At(x, y).RGBA()
			red[i] = float32(r>>8) / 255.0
			green[i] = float32(g>>8) / 255.0
			blue[i] = float32(b>>8) / 255.0
			i++
		}
	}
	return nil
}
