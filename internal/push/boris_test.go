package push

import (
	"math"
	"testing"

	"github.com/san-kum/protorad/internal/phys"
)

func TestBorisGyration(t *testing.T) {
	// proton at 0.1c in a 1 T field along z gyrates on a circle of radius
	// gamma*m*v/(q*B) and returns to the start after one period
	sp := phys.Proton
	v0 := 0.1 * phys.SpeedOfLight
	bz := 1.0

	vel := phys.Vec3{X: v0}
	pos := phys.Vec3{}
	b := phys.Vec3{Z: bz}

	gamma := phys.Lorentz(vel)
	radius := gamma * sp.Mass * v0 / (sp.Charge * bz)
	period := 2 * math.Pi * gamma * sp.Mass / (sp.Charge * bz)

	const steps = 4000
	dt := period / steps

	center := phys.Vec3{Y: -radius} // q > 0, v along +x, B along +z
	p := Boris{}

	maxRadiusErr := 0.0
	for i := 0; i < steps; i++ {
		pos, vel = p.Step(pos, vel, sp, phys.Vec3{}, b, dt)
		r := pos.Sub(center).Norm()
		if e := math.Abs(r-radius) / radius; e > maxRadiusErr {
			maxRadiusErr = e
		}
	}

	if maxRadiusErr > 5e-3 {
		t.Errorf("gyroradius error %.2e exceeds tolerance", maxRadiusErr)
	}
	if d := pos.Norm(); d > radius*1e-3 {
		t.Errorf("particle %g m from start after one period (radius %g)", d, radius)
	}
}

func TestBorisSpeedInvariantInB(t *testing.T) {
	sp := phys.Proton
	vel := phys.Vec3{X: 1e7, Y: 3e6, Z: -2e6}
	pos := phys.Vec3{}
	b := phys.Vec3{X: 0.3, Y: -1.1, Z: 0.7}

	v0 := vel.Norm()
	p := Boris{}
	for i := 0; i < 20000; i++ {
		pos, vel = p.Step(pos, vel, sp, phys.Vec3{}, b, 1e-11)
	}

	drift := math.Abs(vel.Norm()-v0) / v0
	if drift > 1e-11 {
		t.Errorf("speed drift %.2e in pure B field; Boris rotation should conserve speed", drift)
	}
}

func TestBorisLinearAcceleration(t *testing.T) {
	// constant E without B: each step adds exactly q*E*dt/m to the proper
	// velocity, so the final state matches the analytic solution
	sp := phys.Proton
	ez := 1e6
	e := phys.Vec3{Z: ez}

	vel := phys.Vec3{Z: 1e6}
	pos := phys.Vec3{}

	const steps = 1000
	dt := 1e-9

	p := Boris{}
	for i := 0; i < steps; i++ {
		pos, vel = p.Step(pos, vel, sp, e, phys.Vec3{}, dt)
	}

	u0 := 1e6 * phys.Lorentz(phys.Vec3{Z: 1e6})
	uWant := u0 + sp.Charge*ez/sp.Mass*float64(steps)*dt
	gWant := math.Sqrt(1 + uWant*uWant/c2)
	vWant := uWant / gWant

	if math.Abs(vel.Z-vWant)/vWant > 1e-12 {
		t.Errorf("v_z = %g, analytic %g", vel.Z, vWant)
	}
	if vel.X != 0 || vel.Y != 0 {
		t.Error("transverse velocity appeared in a purely axial field")
	}
}

func TestBorisZeroFieldBallistic(t *testing.T) {
	sp := phys.Proton
	vel := phys.Vec3{X: 1e7, Y: -5e6, Z: 2e7}
	pos := phys.Vec3{X: 1, Y: 2, Z: 3}

	p := Boris{}
	newPos, newVel := p.Step(pos, vel, sp, phys.Vec3{}, phys.Vec3{}, 1e-9)

	// the proper-velocity round trip costs a few ulps, nothing more
	if newVel.Sub(vel).Norm() > vel.Norm()*1e-14 {
		t.Errorf("velocity %v drifted from %v with zero fields", newVel, vel)
	}
	want := pos.Add(vel.Scale(1e-9))
	if newPos.Sub(want).Norm() > want.Norm()*1e-14 {
		t.Errorf("position %v, expected %v", newPos, want)
	}
}

func TestEulerDriftsWhereBorisDoesNot(t *testing.T) {
	sp := phys.Proton
	b := phys.Vec3{Z: 1}
	dt := 1e-10

	velB := phys.Vec3{X: 1e7}
	velE := phys.Vec3{X: 1e7}
	posB, posE := phys.Vec3{}, phys.Vec3{}

	boris, euler := Boris{}, Euler{}
	for i := 0; i < 5000; i++ {
		posB, velB = boris.Step(posB, velB, sp, phys.Vec3{}, b, dt)
		posE, velE = euler.Step(posE, velE, sp, phys.Vec3{}, b, dt)
	}

	borisDrift := math.Abs(velB.Norm()-1e7) / 1e7
	eulerDrift := math.Abs(velE.Norm()-1e7) / 1e7

	if eulerDrift < borisDrift*100 {
		t.Errorf("expected Euler (%.2e) to drift far more than Boris (%.2e)", eulerDrift, borisDrift)
	}
}

func TestByName(t *testing.T) {
	p, err := ByName("boris")
	if err != nil || p.Name() != "boris" {
		t.Errorf("ByName(boris) = %v, %v", p, err)
	}
	if _, err := ByName("rk4"); err == nil {
		t.Error("expected error for unknown pusher")
	}
}
