package phys

import (
	"math"
	"testing"
)

func TestCross(t *testing.T) {
	x := Vec3{1, 0, 0}
	y := Vec3{0, 1, 0}
	z := x.Cross(y)

	if z != (Vec3{0, 0, 1}) {
		t.Errorf("x cross y = %v, expected z", z)
	}

	if y.Cross(x) != (Vec3{0, 0, -1}) {
		t.Error("cross product should be antisymmetric")
	}
}

func TestBasisOrthonormal(t *testing.T) {
	axes := []Vec3{
		{0, 0, 1},
		{1, 0, 0},
		{1, 2, -3},
		{-0.1, 0.9, 0.2},
	}

	for _, n := range axes {
		e1, e2 := n.Basis()

		if math.Abs(e1.Norm()-1) > 1e-12 || math.Abs(e2.Norm()-1) > 1e-12 {
			t.Errorf("basis for %v not unit length", n)
		}
		if math.Abs(e1.Dot(e2)) > 1e-12 {
			t.Errorf("basis for %v not orthogonal", n)
		}
		if math.Abs(e1.Dot(n.Unit())) > 1e-12 || math.Abs(e2.Dot(n.Unit())) > 1e-12 {
			t.Errorf("basis for %v not perpendicular to axis", n)
		}
	}
}

func TestSpeedFromKinetic(t *testing.T) {
	// 3 MeV proton: gamma = 1 + Ek/mc^2, v = c*sqrt(1 - 1/gamma^2)
	ek := 3e6 * ElementaryCharge
	v := Proton.SpeedFromKinetic(ek)

	gamma := 1 + ek/Proton.RestEnergy()
	expected := SpeedOfLight * math.Sqrt(1-1/(gamma*gamma))

	if math.Abs(v-expected) > 1e-3 {
		t.Errorf("speed = %g, expected %g", v, expected)
	}
	if v <= 0 || v >= SpeedOfLight {
		t.Errorf("speed %g outside (0, c)", v)
	}

	// non-relativistic limit: 1 keV proton, v ~ sqrt(2 Ek / m)
	ek = 1e3 * ElementaryCharge
	v = Proton.SpeedFromKinetic(ek)
	classical := math.Sqrt(2 * ek / ProtonMass)
	if math.Abs(v-classical)/classical > 1e-5 {
		t.Errorf("low-energy speed = %g, classical %g", v, classical)
	}
}

func TestLorentz(t *testing.T) {
	if g := Lorentz(Vec3{}); math.Abs(g-1) > 1e-15 {
		t.Errorf("gamma at rest = %g, expected 1", g)
	}

	v := Vec3{0.6 * SpeedOfLight, 0, 0}
	if g := Lorentz(v); math.Abs(g-1.25) > 1e-12 {
		t.Errorf("gamma at 0.6c = %g, expected 1.25", g)
	}
}
