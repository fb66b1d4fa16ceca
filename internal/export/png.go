// Package export renders stored radiographs to image files.
package export

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"math"
	"os"

	"github.com/san-kum/protorad/internal/radiograph"
)

// ImagePNG writes the radiograph as a grayscale PNG, one pixel per bin.
// Intensity is scaled by sqrt to keep faint structure visible next to the
// bright unscattered background.
func ImagePNG(path string, im *radiograph.Image) error {
	bins := im.Bins()

	maxCount := 0.0
	for i := 0; i < bins[0]; i++ {
		for j := 0; j < bins[1]; j++ {
			if c := im.Count(i, j); c > maxCount {
				maxCount = c
			}
		}
	}
	if maxCount == 0 {
		return fmt.Errorf("radiograph is empty")
	}

	out := image.NewGray(image.Rect(0, 0, bins[0], bins[1]))
	for i := 0; i < bins[0]; i++ {
		for j := 0; j < bins[1]; j++ {
			v := math.Sqrt(im.Count(i, j) / maxCount)
			// v axis points up, image rows point down
			out.SetGray(i, bins[1]-1-j, color.Gray{Y: uint8(v * 255)})
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, out); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
