package geometry

import (
	"math"
	"testing"

	"github.com/san-kum/protorad/internal/phys"
)

func TestNewRejectsCoincident(t *testing.T) {
	p := phys.Vec3{X: 1, Y: 2, Z: 3}
	if _, err := New(p, p); err == nil {
		t.Fatal("expected error for coincident source and detector")
	}
}

func TestAxisAndDistances(t *testing.T) {
	los, err := New(phys.Vec3{Z: -0.01}, phys.Vec3{Z: 0.1})
	if err != nil {
		t.Fatal(err)
	}

	if a := los.Axis(); a.Z != 1 || a.X != 0 || a.Y != 0 {
		t.Errorf("axis = %v, expected +z", a)
	}
	if l := los.Length(); math.Abs(l-0.11) > 1e-15 {
		t.Errorf("length = %g, expected 0.11", l)
	}

	p := phys.Vec3{X: 0.002, Z: 0.05}
	if d := los.SignedDist(p); math.Abs(d-(-0.05)) > 1e-15 {
		t.Errorf("signed dist = %g, expected -0.05", d)
	}
	if d := los.AxialDist(p); math.Abs(d-0.06) > 1e-15 {
		t.Errorf("axial dist = %g, expected 0.06", d)
	}
}

func TestPlaneCoordsRoundTrip(t *testing.T) {
	los, err := New(phys.Vec3{X: -0.3, Y: 0.1, Z: -0.02}, phys.Vec3{X: 0.5, Y: -0.2, Z: 0.9})
	if err != nil {
		t.Fatal(err)
	}

	u0, v0 := 0.003, -0.0017
	p := los.InPlane(los.Length(), u0, v0)
	u, v := los.PlaneCoords(p)
	if math.Abs(u-u0) > 1e-12 || math.Abs(v-v0) > 1e-12 {
		t.Errorf("round trip gave (%g, %g), expected (%g, %g)", u, v, u0, v0)
	}
	if d := los.SignedDist(p); math.Abs(d) > 1e-12 {
		t.Errorf("in-plane point has signed dist %g", d)
	}
}

func TestPointAt(t *testing.T) {
	los, err := New(phys.Vec3{Z: 0}, phys.Vec3{Z: 1})
	if err != nil {
		t.Fatal(err)
	}
	p := los.PointAt(0.25)
	if p.Z != 0.25 || p.X != 0 || p.Y != 0 {
		t.Errorf("point at 0.25 = %v", p)
	}
}
