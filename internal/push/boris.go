package push

import (
	"math"

	"github.com/san-kum/protorad/internal/phys"
)

const c2 = phys.SpeedOfLight * phys.SpeedOfLight

// Boris is the relativistic Boris push: a half electric kick, a rotation
// about B, and a second half kick, operating on the proper velocity
// u = gamma*v. The rotation is norm-preserving, so a pure magnetic field
// never changes particle speed regardless of step size.
type Boris struct{}

func (Boris) Name() string { return "boris" }

func (Boris) Step(pos, vel phys.Vec3, sp phys.Species, e, b phys.Vec3, dt float64) (phys.Vec3, phys.Vec3) {
	half := sp.Charge * dt / (2 * sp.Mass)

	u := vel.Scale(phys.Lorentz(vel))
	uMinus := u.Add(e.Scale(half))

	gamma := math.Sqrt(1 + uMinus.Norm2()/c2)
	t := b.Scale(half / gamma)
	s := t.Scale(2 / (1 + t.Norm2()))

	uPrime := uMinus.Add(uMinus.Cross(t))
	uPlus := uMinus.Add(uPrime.Cross(s))

	uNew := uPlus.Add(e.Scale(half))
	gammaNew := math.Sqrt(1 + uNew.Norm2()/c2)

	velNew := uNew.Scale(1 / gammaNew)
	return pos.Add(velNew.Scale(dt)), velNew
}
