// Package radiograph bins detected particles on the detector plane into a 2D
// intensity image.
package radiograph

import (
	"fmt"
	"math"
	"runtime"
	"sync"

	"github.com/san-kum/protorad/internal/geometry"
	"github.com/san-kum/protorad/internal/source"
)

// Image is a 2D histogram over detector-plane coordinates. Counts are stored
// row-major in u.
type Image struct {
	size    [2]float64
	bins    [2]int
	counts  []float64
	cropped int
}

func NewImage(size [2]float64, bins [2]int) (*Image, error) {
	for a := 0; a < 2; a++ {
		if size[a] <= 0 {
			return nil, fmt.Errorf("image size must be positive, axis %d has %g", a, size[a])
		}
		if bins[a] <= 0 {
			return nil, fmt.Errorf("bin count must be positive, axis %d has %d", a, bins[a])
		}
	}
	return &Image{
		size:   size,
		bins:   bins,
		counts: make([]float64, bins[0]*bins[1]),
	}, nil
}

func (im *Image) Bins() [2]int     { return im.bins }
func (im *Image) Size() [2]float64 { return im.size }

// Add bins a hit at detector-plane coordinates (u, v), centered on the image.
// Hits outside the image extent are counted as cropped, not silently lost;
// the return value reports whether the hit was binned.
func (im *Image) Add(u, v float64) bool {
	i, ok := binIndex(u, im.size[0], im.bins[0])
	if !ok {
		im.cropped++
		return false
	}
	j, ok := binIndex(v, im.size[1], im.bins[1])
	if !ok {
		im.cropped++
		return false
	}
	im.counts[i*im.bins[1]+j]++
	return true
}

// Cropped returns the number of hits that fell outside the image window.
func (im *Image) Cropped() int { return im.cropped }

func binIndex(c, size float64, bins int) (int, bool) {
	if c < -size/2 || c > size/2 {
		return 0, false
	}
	i := int((c + size/2) / size * float64(bins))
	if i == bins {
		i = bins - 1 // upper edge belongs to the last bin
	}
	return i, true
}

// Count returns the hits in bin (i, j).
func (im *Image) Count(i, j int) float64 { return im.counts[i*im.bins[1]+j] }

// Total returns the sum over all bins.
func (im *Image) Total() float64 {
	t := 0.0
	for _, c := range im.counts {
		t += c
	}
	return t
}

// Merge sums another image's counts into this one. The images must share
// geometry.
func (im *Image) Merge(other *Image) error {
	if im.size != other.size || im.bins != other.bins {
		return fmt.Errorf("cannot merge %v/%v image into %v/%v", other.size, other.bins, im.size, im.bins)
	}
	for i, c := range other.counts {
		im.counts[i] += c
	}
	im.cropped += other.cropped
	return nil
}

// UEdges returns the bins[0]+1 physical bin-edge coordinates along u.
func (im *Image) UEdges() []float64 { return edges(im.size[0], im.bins[0]) }

// VEdges returns the bins[1]+1 physical bin-edge coordinates along v.
func (im *Image) VEdges() []float64 { return edges(im.size[1], im.bins[1]) }

func edges(size float64, bins int) []float64 {
	e := make([]float64, bins+1)
	for i := range e {
		e[i] = -size/2 + size*float64(i)/float64(bins)
	}
	return e
}

// FromIntensity rebuilds an image from a stored counts matrix.
func FromIntensity(size [2]float64, intensity [][]float64) (*Image, error) {
	if len(intensity) == 0 || len(intensity[0]) == 0 {
		return nil, fmt.Errorf("empty intensity matrix")
	}
	im, err := NewImage(size, [2]int{len(intensity), len(intensity[0])})
	if err != nil {
		return nil, err
	}
	for i, row := range intensity {
		if len(row) != im.bins[1] {
			return nil, fmt.Errorf("ragged intensity matrix: row %d has %d bins, expected %d", i, len(row), im.bins[1])
		}
		copy(im.counts[i*im.bins[1]:], row)
	}
	return im, nil
}

// Intensity returns the counts as a [bins_u][bins_v] matrix.
func (im *Image) Intensity() [][]float64 {
	out := make([][]float64, im.bins[0])
	for i := range out {
		row := make([]float64, im.bins[1])
		copy(row, im.counts[i*im.bins[1]:(i+1)*im.bins[1]])
		out[i] = row
	}
	return out
}

// OpticalDensity returns -log10(I/I0) per bin against a reference image,
// typically an unperturbed null-field run. Bins empty in the reference are
// NaN.
func (im *Image) OpticalDensity(ref *Image) ([][]float64, error) {
	if im.size != ref.size || im.bins != ref.bins {
		return nil, fmt.Errorf("reference image geometry does not match")
	}
	out := make([][]float64, im.bins[0])
	for i := range out {
		row := make([]float64, im.bins[1])
		for j := range row {
			i0 := ref.Count(i, j)
			if i0 == 0 {
				row[j] = math.NaN()
				continue
			}
			row[j] = -math.Log10(im.Count(i, j) / i0)
		}
		out[i] = row
	}
	return out, nil
}

// RowSums returns the per-u-bin totals, a cheap lineout for terminal plots.
func (im *Image) RowSums() []float64 {
	out := make([]float64, im.bins[0])
	for i := 0; i < im.bins[0]; i++ {
		for j := 0; j < im.bins[1]; j++ {
			out[i] += im.counts[i*im.bins[1]+j]
		}
	}
	return out
}

// FromEnsemble bins every detected particle of a traced ensemble. The work is
// split across workers with per-worker partial images merged at the end, so
// no bin is contended.
func FromEnsemble(los *geometry.LineOfSight, ens *source.Ensemble, size [2]float64, bins [2]int) (*Image, error) {
	im, err := NewImage(size, bins)
	if err != nil {
		return nil, err
	}

	workers := runtime.GOMAXPROCS(0)
	if workers > len(ens.Particles) {
		workers = 1
	}

	partials := make([]*Image, workers)
	var wg sync.WaitGroup
	chunk := (len(ens.Particles) + workers - 1) / workers

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			part, _ := NewImage(size, bins)
			lo := w * chunk
			hi := lo + chunk
			if hi > len(ens.Particles) {
				hi = len(ens.Particles)
			}
			for i := lo; i < hi; i++ {
				p := &ens.Particles[i]
				if p.Status != source.Detected {
					continue
				}
				part.Add(los.PlaneCoords(p.Pos))
			}
			partials[w] = part
		}(w)
	}
	wg.Wait()

	for _, part := range partials {
		if part != nil {
			if err := im.Merge(part); err != nil {
				return nil, err
			}
		}
	}
	return im, nil
}
