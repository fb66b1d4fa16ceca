// Package mesh models a wire-mesh fiducial placed across the beam between
// source and field region. Particles passing within half a wire diameter of a
// wire centerline are absorbed.
package mesh

import (
	"fmt"
	"math"

	"github.com/san-kum/protorad/internal/geometry"
	"github.com/san-kum/protorad/internal/phys"
)

type Config struct {
	Dist         float64    // axial distance of the mesh plane from the source, m
	Extent       [2]float64 // mesh width along the two in-plane axes, m
	Wires        [2]int     // wire count per in-plane axis
	WireDiameter float64    // m
}

// Mesh is a rectilinear wire grid in a plane perpendicular to the
// line-of-sight axis.
type Mesh struct {
	cfg Config
	los *geometry.LineOfSight
}

func New(los *geometry.LineOfSight, cfg Config) (*Mesh, error) {
	if cfg.Dist <= 0 || cfg.Dist >= los.Length() {
		return nil, fmt.Errorf("mesh plane at %g m is outside the source-detector segment (0, %g)",
			cfg.Dist, los.Length())
	}
	for a := 0; a < 2; a++ {
		if cfg.Wires[a] < 2 {
			return nil, fmt.Errorf("mesh needs at least 2 wires per axis, axis %d has %d", a, cfg.Wires[a])
		}
		if cfg.Extent[a] <= 0 {
			return nil, fmt.Errorf("mesh extent must be positive, axis %d has %g", a, cfg.Extent[a])
		}
	}
	if cfg.WireDiameter <= 0 {
		return nil, fmt.Errorf("wire diameter must be positive, got %g", cfg.WireDiameter)
	}
	return &Mesh{cfg: cfg, los: los}, nil
}

// Dist returns the axial position of the mesh plane.
func (m *Mesh) Dist() float64 { return m.cfg.Dist }

// Blocks reports whether the straight segment from -> to crosses the mesh
// plane inside wire material.
func (m *Mesh) Blocks(from, to phys.Vec3) bool {
	s1 := m.los.AxialDist(from) - m.cfg.Dist
	s2 := m.los.AxialDist(to) - m.cfg.Dist
	if s1 > 0 || s2 <= 0 {
		return false // segment does not cross the mesh plane source-side first
	}

	frac := s1 / (s1 - s2)
	cross := from.Add(to.Sub(from).Scale(frac))
	u, v := m.los.PlaneCoords(cross)

	// a wire at constant u only spans the mesh height, and vice versa
	return (m.hitsWire(0, u) && math.Abs(v) <= m.cfg.Extent[1]/2) ||
		(m.hitsWire(1, v) && math.Abs(u) <= m.cfg.Extent[0]/2)
}

// hitsWire checks the distance from coordinate c to the nearest of the
// wires whose centerlines run at constant values of that coordinate.
func (m *Mesh) hitsWire(axis int, c float64) bool {
	w := m.cfg.Extent[axis]
	n := m.cfg.Wires[axis]
	r := m.cfg.WireDiameter / 2

	if math.Abs(c) > w/2+r {
		return false // outside the mesh footprint
	}

	pitch := w / float64(n-1)
	i := math.Round((c + w/2) / pitch)
	if i < 0 {
		i = 0
	}
	if i > float64(n-1) {
		i = float64(n - 1)
	}
	center := -w/2 + i*pitch
	return math.Abs(c-center) <= r
}
