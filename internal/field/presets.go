package field

import (
	"math"

	"github.com/san-kum/protorad/internal/phys"
)

// Preset is an analytic field configuration that can be sampled onto a grid.
type Preset interface {
	Name() string
	// Fields evaluates (E, B) at a point, SI units.
	Fields(p phys.Vec3) (e, b phys.Vec3)
}

// GaussianSphere is a spherically symmetric electric potential hill
// phi(r) = phi0 * exp(-r^2/a^2) centered at Center. Its field
// E = -grad(phi) = (2*phi0/a^2) * exp(-r^2/a^2) * r points radially outward
// for positive phi0, deflecting positive particles away from the core.
type GaussianSphere struct {
	Phi0   float64 // V
	Radius float64 // m, the Gaussian width a
	Center phys.Vec3
}

func (s GaussianSphere) Name() string { return "gaussian_sphere" }

func (s GaussianSphere) Fields(p phys.Vec3) (phys.Vec3, phys.Vec3) {
	r := p.Sub(s.Center)
	a2 := s.Radius * s.Radius
	e := r.Scale(2 * s.Phi0 / a2 * math.Exp(-r.Norm2()/a2))
	return e, phys.Vec3{}
}

// SphereStack superimposes concentric Gaussian potential spheres of
// decreasing radius, producing a steeper radial profile than a single sphere
// while staying spherically symmetric.
type SphereStack struct {
	Phi0   float64
	Radius float64 // outermost width; inner spheres halve it each level
	Count  int
	Center phys.Vec3
}

func (s SphereStack) Name() string { return "sphere_stack" }

func (s SphereStack) Fields(p phys.Vec3) (phys.Vec3, phys.Vec3) {
	e := phys.Vec3{}
	a := s.Radius
	for i := 0; i < s.Count; i++ {
		layer := GaussianSphere{Phi0: s.Phi0, Radius: a, Center: s.Center}
		le, _ := layer.Fields(p)
		e = e.Add(le)
		a /= 2
	}
	return e, phys.Vec3{}
}

// CylinderB is a uniform magnetic field B0 along the x axis, confined to a
// cylinder of the given radius around the x axis. A beam travelling along z
// through the cylinder is deflected in y.
type CylinderB struct {
	B0     float64 // T
	Radius float64 // m
}

func (c CylinderB) Name() string { return "cylinder_b" }

func (c CylinderB) Fields(p phys.Vec3) (phys.Vec3, phys.Vec3) {
	if p.Y*p.Y+p.Z*p.Z > c.Radius*c.Radius {
		return phys.Vec3{}, phys.Vec3{}
	}
	return phys.Vec3{}, phys.Vec3{X: c.B0}
}

// NullField is the zero-field reference used for unperturbed baseline images.
type NullField struct{}

func (NullField) Name() string { return "null" }

func (NullField) Fields(phys.Vec3) (phys.Vec3, phys.Vec3) {
	return phys.Vec3{}, phys.Vec3{}
}
