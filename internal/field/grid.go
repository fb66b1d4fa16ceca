// Package field holds electromagnetic field samples on a regular Cartesian
// grid and interpolates them at arbitrary points.
package field

import (
	"fmt"
	"math"

	"github.com/san-kum/protorad/internal/phys"
)

// Grid is an axis-aligned regular 3D grid of E (V/m) and B (T) node samples.
// Fields are written once during setup and read-only afterward, so a single
// Grid is safe to share across tracer workers.
type Grid struct {
	min, max phys.Vec3
	n        [3]int
	spacing  [3]float64
	e, b     []phys.Vec3
}

// NewGrid allocates a grid with the given node extents and per-axis node
// counts. All fields start at zero.
func NewGrid(min, max phys.Vec3, n [3]int) (*Grid, error) {
	for d, c := range n {
		if c < 2 {
			return nil, fmt.Errorf("grid needs at least 2 nodes per axis, axis %d has %d", d, c)
		}
	}
	size := max.Sub(min)
	if size.X <= 0 || size.Y <= 0 || size.Z <= 0 {
		return nil, fmt.Errorf("degenerate grid extent: min %v, max %v", min, max)
	}

	g := &Grid{min: min, max: max, n: n}
	g.spacing[0] = size.X / float64(n[0]-1)
	g.spacing[1] = size.Y / float64(n[1]-1)
	g.spacing[2] = size.Z / float64(n[2]-1)

	total := n[0] * n[1] * n[2]
	g.e = make([]phys.Vec3, total)
	g.b = make([]phys.Vec3, total)
	return g, nil
}

// NewCubicGrid is a convenience for the common symmetric case: n nodes per
// axis spanning [-halfWidth, +halfWidth] on every axis.
func NewCubicGrid(halfWidth float64, n int) (*Grid, error) {
	return NewGrid(
		phys.Vec3{X: -halfWidth, Y: -halfWidth, Z: -halfWidth},
		phys.Vec3{X: halfWidth, Y: halfWidth, Z: halfWidth},
		[3]int{n, n, n},
	)
}

func (g *Grid) idx(i, j, k int) int {
	return (i*g.n[1]+j)*g.n[2] + k
}

// Node returns the position of node (i, j, k).
func (g *Grid) Node(i, j, k int) phys.Vec3 {
	return phys.Vec3{
		X: g.min.X + float64(i)*g.spacing[0],
		Y: g.min.Y + float64(j)*g.spacing[1],
		Z: g.min.Z + float64(k)*g.spacing[2],
	}
}

// SetNode stores field samples at node (i, j, k).
func (g *Grid) SetNode(i, j, k int, e, b phys.Vec3) {
	g.e[g.idx(i, j, k)] = e
	g.b[g.idx(i, j, k)] = b
}

// NodeFields returns the stored samples at node (i, j, k).
func (g *Grid) NodeFields(i, j, k int) (phys.Vec3, phys.Vec3) {
	return g.e[g.idx(i, j, k)], g.b[g.idx(i, j, k)]
}

// Fill samples an analytic field function at every node.
func (g *Grid) Fill(f func(p phys.Vec3) (e, b phys.Vec3)) {
	for i := 0; i < g.n[0]; i++ {
		for j := 0; j < g.n[1]; j++ {
			for k := 0; k < g.n[2]; k++ {
				e, b := f(g.Node(i, j, k))
				g.SetNode(i, j, k, e, b)
			}
		}
	}
}

func (g *Grid) Bounds() (min, max phys.Vec3) { return g.min, g.max }

func (g *Grid) Dims() [3]int { return g.n }

func (g *Grid) Contains(p phys.Vec3) bool {
	return p.X >= g.min.X && p.X <= g.max.X &&
		p.Y >= g.min.Y && p.Y <= g.max.Y &&
		p.Z >= g.min.Z && p.Z <= g.max.Z
}

// MinSpacing returns the smallest per-axis node spacing, the length scale
// used to bound integration steps.
func (g *Grid) MinSpacing() float64 {
	return math.Min(g.spacing[0], math.Min(g.spacing[1], g.spacing[2]))
}

// RayEntry returns the distance along dir at which a ray starting at origin
// first enters the grid box, using the slab method. ok is false if the ray
// misses the box entirely or only exits it.
func (g *Grid) RayEntry(origin, dir phys.Vec3) (dist float64, ok bool) {
	tMin := math.Inf(-1)
	tMax := math.Inf(1)

	o := [3]float64{origin.X, origin.Y, origin.Z}
	d := [3]float64{dir.X, dir.Y, dir.Z}
	lo := [3]float64{g.min.X, g.min.Y, g.min.Z}
	hi := [3]float64{g.max.X, g.max.Y, g.max.Z}

	for a := 0; a < 3; a++ {
		if d[a] == 0 {
			if o[a] < lo[a] || o[a] > hi[a] {
				return 0, false
			}
			continue
		}
		t1 := (lo[a] - o[a]) / d[a]
		t2 := (hi[a] - o[a]) / d[a]
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		tMin = math.Max(tMin, t1)
		tMax = math.Min(tMax, t2)
	}

	if tMin > tMax || tMax < 0 {
		return 0, false
	}
	if tMin < 0 {
		// origin already inside
		return 0, true
	}
	return tMin, true
}
