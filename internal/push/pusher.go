// Package push implements single-step charged-particle integrators for the
// Lorentz force.
package push

import (
	"fmt"

	"github.com/san-kum/protorad/internal/phys"
)

// Pusher advances one particle by one timestep under local fields. Pushers
// are stateless and shared freely across workers.
type Pusher interface {
	Name() string
	// Step returns the new position and velocity after dt seconds under
	// E (V/m) and B (T).
	Step(pos, vel phys.Vec3, sp phys.Species, e, b phys.Vec3, dt float64) (phys.Vec3, phys.Vec3)
}

func ByName(name string) (Pusher, error) {
	switch name {
	case "boris", "":
		return Boris{}, nil
	case "euler":
		return Euler{}, nil
	}
	return nil, fmt.Errorf("unknown pusher: %q", name)
}
