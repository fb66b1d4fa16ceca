// Package source generates the initial charged-particle ensemble for a
// radiography run: a divergent point source aimed at the detector.
package source

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/san-kum/protorad/internal/geometry"
	"github.com/san-kum/protorad/internal/phys"
	"github.com/san-kum/protorad/internal/units"
)

// Status tracks what eventually happened to a particle.
type Status uint8

const (
	Flying   Status = iota // still being integrated
	Detected               // crossed the detector plane
	Absorbed               // stopped by a mesh wire
	Escaped                // left the field region moving away from the detector
	Stranded               // exhausted the step budget
)

func (s Status) String() string {
	switch s {
	case Flying:
		return "flying"
	case Detected:
		return "detected"
	case Absorbed:
		return "absorbed"
	case Escaped:
		return "escaped"
	case Stranded:
		return "stranded"
	}
	return fmt.Sprintf("status(%d)", int(s))
}

// Particle is mutable per-run state. Position and velocity are SI.
type Particle struct {
	Pos    phys.Vec3
	Vel    phys.Vec3
	Status Status
}

type Config struct {
	N        int
	Energy   units.Energy // kinetic energy per particle
	MaxTheta units.Angle  // cone half-angle about the axis
	Species  phys.Species
	Seed     int64
}

// Ensemble owns the particles of one run.
type Ensemble struct {
	Species   phys.Species
	Speed     float64 // initial speed, m/s; identical for all particles
	Particles []Particle
}

// New emits cfg.N particles from the line-of-sight source point with
// directions drawn uniformly from the spherical cap of half-angle MaxTheta
// around the axis.
func New(los *geometry.LineOfSight, cfg Config) (*Ensemble, error) {
	if cfg.N <= 0 {
		return nil, fmt.Errorf("particle count must be positive, got %d", cfg.N)
	}
	if cfg.Energy <= 0 {
		return nil, fmt.Errorf("particle energy must be positive, got %g J", cfg.Energy.Joules())
	}
	theta := cfg.MaxTheta.Radians()
	if theta <= 0 || theta >= math.Pi/2 {
		return nil, fmt.Errorf("cone half-angle must be in (0, pi/2), got %g rad", theta)
	}
	if cfg.Species.Mass <= 0 {
		return nil, fmt.Errorf("species %q has non-positive mass", cfg.Species.Name)
	}

	speed := cfg.Species.SpeedFromKinetic(cfg.Energy.Joules())
	axis := los.Axis()
	e1, e2 := axis.Basis()
	rng := rand.New(rand.NewSource(cfg.Seed))

	ens := &Ensemble{
		Species:   cfg.Species,
		Speed:     speed,
		Particles: make([]Particle, cfg.N),
	}
	cosMax := math.Cos(theta)

	for i := range ens.Particles {
		// uniform on the spherical cap: cos(t) uniform in [cos(theta), 1]
		cosT := 1 - rng.Float64()*(1-cosMax)
		sinT := math.Sqrt(1 - cosT*cosT)
		phi := 2 * math.Pi * rng.Float64()

		dir := axis.Scale(cosT).
			Add(e1.Scale(sinT * math.Cos(phi))).
			Add(e2.Scale(sinT * math.Sin(phi)))

		ens.Particles[i] = Particle{
			Pos: los.Source,
			Vel: dir.Scale(speed),
		}
	}
	return ens, nil
}

// Count returns the number of particles with the given status.
func (e *Ensemble) Count(s Status) int {
	n := 0
	for i := range e.Particles {
		if e.Particles[i].Status == s {
			n++
		}
	}
	return n
}
