package phys

import "math"

// Physical constants, SI (CODATA 2018).
const (
	SpeedOfLight     = 2.99792458e8    // m/s
	ElementaryCharge = 1.602176634e-19 // C
	ProtonMass       = 1.67262192369e-27
	ElectronMass     = 9.1093837015e-31
	AlphaMass        = 6.6446573357e-27
)

// Species describes a charged test particle type.
type Species struct {
	Name   string
	Charge float64 // C
	Mass   float64 // kg
}

var (
	Proton   = Species{"proton", ElementaryCharge, ProtonMass}
	Electron = Species{"electron", -ElementaryCharge, ElectronMass}
	Alpha    = Species{"alpha", 2 * ElementaryCharge, AlphaMass}
)

// SpeciesByName looks up a built-in species. Returns false for unknown names.
func SpeciesByName(name string) (Species, bool) {
	switch name {
	case "proton", "p", "p+":
		return Proton, true
	case "electron", "e", "e-":
		return Electron, true
	case "alpha", "He-4 2+":
		return Alpha, true
	}
	return Species{}, false
}

// RestEnergy returns the species rest energy m*c^2 in joules.
func (s Species) RestEnergy() float64 {
	return s.Mass * SpeedOfLight * SpeedOfLight
}

// SpeedFromKinetic converts relativistic kinetic energy (J) to speed (m/s).
func (s Species) SpeedFromKinetic(ek float64) float64 {
	g := 1 + ek/s.RestEnergy()
	return SpeedOfLight * math.Sqrt(1-1/(g*g))
}

// Lorentz returns the Lorentz factor for a velocity vector.
func Lorentz(v Vec3) float64 {
	b2 := v.Norm2() / (SpeedOfLight * SpeedOfLight)
	return 1 / math.Sqrt(1-b2)
}
