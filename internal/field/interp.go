package field

import (
	"fmt"
	"math"

	"github.com/san-kum/protorad/internal/phys"
)

// Weighting selects how node samples are combined into a point value.
type Weighting int

const (
	// NearestNeighbor returns the sample at the closest node. Cheap but
	// discontinuous across cell boundaries.
	NearestNeighbor Weighting = iota
	// VolumeAveraged blends the 8 surrounding nodes with trilinear weights.
	VolumeAveraged
)

func (w Weighting) String() string {
	switch w {
	case NearestNeighbor:
		return "nearest"
	case VolumeAveraged:
		return "volume"
	}
	return fmt.Sprintf("weighting(%d)", int(w))
}

func ParseWeighting(s string) (Weighting, error) {
	switch s {
	case "nearest", "nearest_neighbor", "nn":
		return NearestNeighbor, nil
	case "volume", "volume_averaged", "trilinear":
		return VolumeAveraged, nil
	}
	return 0, fmt.Errorf("unknown weighting: %q", s)
}

// Sampler answers point field queries against a grid. Positions outside the
// grid box evaluate to zero field, so particles coast ballistically once they
// leave the simulated region.
type Sampler struct {
	g *Grid
	w Weighting
}

func NewSampler(g *Grid, w Weighting) *Sampler {
	return &Sampler{g: g, w: w}
}

func (s *Sampler) Grid() *Grid          { return s.g }
func (s *Sampler) Weighting() Weighting { return s.w }

// Sample returns the interpolated (E, B) at p.
func (s *Sampler) Sample(p phys.Vec3) (e, b phys.Vec3) {
	if !s.g.Contains(p) {
		return phys.Vec3{}, phys.Vec3{}
	}

	fx := (p.X - s.g.min.X) / s.g.spacing[0]
	fy := (p.Y - s.g.min.Y) / s.g.spacing[1]
	fz := (p.Z - s.g.min.Z) / s.g.spacing[2]

	if s.w == NearestNeighbor {
		i := clampIndex(int(math.Round(fx)), s.g.n[0])
		j := clampIndex(int(math.Round(fy)), s.g.n[1])
		k := clampIndex(int(math.Round(fz)), s.g.n[2])
		return s.g.NodeFields(i, j, k)
	}

	i := clampIndex(int(fx), s.g.n[0]-1)
	j := clampIndex(int(fy), s.g.n[1]-1)
	k := clampIndex(int(fz), s.g.n[2]-1)

	tx := fx - float64(i)
	ty := fy - float64(j)
	tz := fz - float64(k)

	for di := 0; di < 2; di++ {
		wi := 1 - tx
		if di == 1 {
			wi = tx
		}
		for dj := 0; dj < 2; dj++ {
			wj := 1 - ty
			if dj == 1 {
				wj = ty
			}
			for dk := 0; dk < 2; dk++ {
				wk := 1 - tz
				if dk == 1 {
					wk = tz
				}
				w := wi * wj * wk
				if w == 0 {
					continue
				}
				ne, nb := s.g.NodeFields(i+di, j+dj, k+dk)
				e = e.Add(ne.Scale(w))
				b = b.Add(nb.Scale(w))
			}
		}
	}
	return e, b
}

func clampIndex(i, n int) int {
	if i < 0 {
		return 0
	}
	if i > n-1 {
		return n - 1
	}
	return i
}
