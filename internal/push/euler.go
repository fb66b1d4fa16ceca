package push

import (
	"math"

	"github.com/san-kum/protorad/internal/phys"
)

// Euler is a first-order explicit update on the proper velocity. Kept for
// comparison runs; it drifts in energy under magnetic fields where Boris
// does not.
type Euler struct{}

func (Euler) Name() string { return "euler" }

func (Euler) Step(pos, vel phys.Vec3, sp phys.Species, e, b phys.Vec3, dt float64) (phys.Vec3, phys.Vec3) {
	qm := sp.Charge / sp.Mass
	force := e.Add(vel.Cross(b)).Scale(qm)

	u := vel.Scale(phys.Lorentz(vel)).Add(force.Scale(dt))
	gamma := math.Sqrt(1 + u.Norm2()/c2)

	velNew := u.Scale(1 / gamma)
	return pos.Add(velNew.Scale(dt)), velNew
}
