package export

import (
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/san-kum/protorad/internal/radiograph"
)

func TestImagePNG(t *testing.T) {
	im, err := radiograph.NewImage([2]float64{0.01, 0.01}, [2]int{16, 16})
	if err != nil {
		t.Fatal(err)
	}
	im.Add(0, 0)

	path := filepath.Join(t.TempDir(), "radiograph.png")
	if err := ImagePNG(path, im); err != nil {
		t.Fatal(err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	decoded, err := png.Decode(f)
	if err != nil {
		t.Fatal(err)
	}
	b := decoded.Bounds()
	if b.Dx() != 16 || b.Dy() != 16 {
		t.Errorf("decoded %dx%d, expected 16x16", b.Dx(), b.Dy())
	}

	// the single hit is the brightest pixel
	r, _, _, _ := decoded.At(8, 7).RGBA()
	if r == 0 {
		t.Error("hit bin rendered black")
	}
}

func TestImagePNGEmpty(t *testing.T) {
	im, err := radiograph.NewImage([2]float64{0.01, 0.01}, [2]int{4, 4})
	if err != nil {
		t.Fatal(err)
	}
	if err := ImagePNG(filepath.Join(t.TempDir(), "x.png"), im); err == nil {
		t.Error("expected error for empty radiograph")
	}
}
