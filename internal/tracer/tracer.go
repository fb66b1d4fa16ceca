// Package tracer integrates particle trajectories through the sampled field
// region until each particle reaches the detector plane, is absorbed, or
// escapes.
package tracer

import (
	"context"
	"fmt"
	"math"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/san-kum/protorad/internal/field"
	"github.com/san-kum/protorad/internal/geometry"
	"github.com/san-kum/protorad/internal/mesh"
	"github.com/san-kum/protorad/internal/phys"
	"github.com/san-kum/protorad/internal/push"
	"github.com/san-kum/protorad/internal/source"
)

const (
	DefaultMaxSteps  = 200000
	DefaultThetaMax  = 0.05 // rad per step
	DefaultCellFrac  = 0.5  // fraction of a grid cell per step
	DefaultBatchSize = 256
)

type Config struct {
	MaxSteps  int     // per-particle step budget
	ThetaMax  float64 // bound on per-step deflection angle, rad
	CellFrac  float64 // bound on per-step displacement, in grid cells
	Workers   int     // 0 means GOMAXPROCS
	BatchSize int     // particles between cancellation checks

	// Progress, if set, is called from worker goroutines after each batch
	// and must be safe for concurrent use.
	Progress func(done, total int)
}

func (c *Config) fillDefaults() {
	if c.MaxSteps <= 0 {
		c.MaxSteps = DefaultMaxSteps
	}
	if c.ThetaMax <= 0 {
		c.ThetaMax = DefaultThetaMax
	}
	if c.CellFrac <= 0 {
		c.CellFrac = DefaultCellFrac
	}
	if c.Workers <= 0 {
		c.Workers = runtime.GOMAXPROCS(0)
	}
	if c.BatchSize <= 0 {
		c.BatchSize = DefaultBatchSize
	}
}

// Result aggregates run diagnostics. Per-particle terminal state stays on the
// ensemble, so the radiograph can be rebuilt without retracing.
type Result struct {
	Detected int
	Absorbed int
	Escaped  int
	Stranded int

	Steps int64 // total integration steps across all particles

	// MaxSpeedDrift is the largest relative speed change over any particle's
	// trajectory. In magnetic-only configurations this measures integrator
	// error; with electric fields the drift is physical.
	MaxSpeedDrift float64

	Elapsed time.Duration
}

// Tracer runs particles through one field setup. The sampler, pusher, and
// geometry are read-only during a run and shared across workers.
type Tracer struct {
	sampler *field.Sampler
	pusher  push.Pusher
	los     *geometry.LineOfSight
	mesh    *mesh.Mesh // nil when no fiducial is configured
}

func New(sampler *field.Sampler, pusher push.Pusher, los *geometry.LineOfSight, m *mesh.Mesh) *Tracer {
	return &Tracer{sampler: sampler, pusher: pusher, los: los, mesh: m}
}

// Run traces every particle of the ensemble to a terminal state. Particles
// are independent; they are processed in batches across workers, and ctx is
// checked between batches.
func (tr *Tracer) Run(ctx context.Context, ens *source.Ensemble, cfg Config) (*Result, error) {
	if len(ens.Particles) == 0 {
		return nil, fmt.Errorf("empty ensemble")
	}
	if tr.los.SignedDist(ens.Particles[0].Pos) >= 0 {
		return nil, fmt.Errorf("source point is not on the source side of the detector plane")
	}
	cfg.fillDefaults()

	total := len(ens.Particles)
	batches := make(chan [2]int)
	results := make([]Result, cfg.Workers)

	var done atomic.Int64
	var wg sync.WaitGroup

	start := time.Now()
	for w := 0; w < cfg.Workers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			local := &results[w]
			for b := range batches {
				for i := b[0]; i < b[1]; i++ {
					tr.trace(&ens.Particles[i], ens.Species, &cfg, local)
				}
				n := done.Add(int64(b[1] - b[0]))
				if cfg.Progress != nil {
					cfg.Progress(int(n), total)
				}
			}
		}(w)
	}

	var err error
feed:
	for lo := 0; lo < total; lo += cfg.BatchSize {
		hi := lo + cfg.BatchSize
		if hi > total {
			hi = total
		}
		select {
		case <-ctx.Done():
			err = ctx.Err()
			break feed
		default:
		}
		select {
		case <-ctx.Done():
			err = ctx.Err()
			break feed
		case batches <- [2]int{lo, hi}:
		}
	}
	close(batches)
	wg.Wait()

	res := &Result{}
	for i := range results {
		res.Detected += results[i].Detected
		res.Absorbed += results[i].Absorbed
		res.Escaped += results[i].Escaped
		res.Stranded += results[i].Stranded
		res.Steps += results[i].Steps
		res.MaxSpeedDrift = math.Max(res.MaxSpeedDrift, results[i].MaxSpeedDrift)
	}
	res.Elapsed = time.Since(start)
	return res, err
}

// trace advances one particle to a terminal state.
func (tr *Tracer) trace(p *source.Particle, sp phys.Species, cfg *Config, res *Result) {
	grid := tr.sampler.Grid()
	v0 := p.Vel.Norm()
	nudge := grid.MinSpacing() * 1e-6

	for step := 0; step < cfg.MaxSteps; step++ {
		res.Steps++

		if !grid.Contains(p.Pos) {
			if !tr.coast(p, nudge) {
				break
			}
			continue
		}

		e, b := tr.sampler.Sample(p.Pos)
		dt := tr.stepSize(e, b, p.Vel, sp, cfg)
		newPos, newVel := tr.pusher.Step(p.Pos, p.Vel, sp, e, b, dt)

		if !newPos.IsValid() || !newVel.IsValid() {
			p.Status = source.Stranded
			break
		}
		if tr.settle(p, newPos) {
			p.Vel = newVel
			break
		}
		p.Pos, p.Vel = newPos, newVel
	}

	if p.Status == source.Flying {
		p.Status = source.Stranded
	}
	tr.tally(p, v0, res)
}

// coast moves a particle that is outside the grid box along a straight line:
// to the point where its ray re-enters the box, or to the detector plane if
// it never will. Returns false when the particle reached a terminal state.
func (tr *Tracer) coast(p *source.Particle, nudge float64) bool {
	dir := p.Vel.Unit()
	grid := tr.sampler.Grid()

	if dist, ok := grid.RayEntry(p.Pos, dir); ok {
		target := p.Pos.Add(dir.Scale(dist + nudge))
		// the detector plane can sit inside the grid box; take whichever
		// comes first
		if tr.los.SignedDist(target) >= 0 {
			return !tr.settle(p, target)
		}
		if tr.blocked(p.Pos, target) {
			p.Status = source.Absorbed
			return false
		}
		p.Pos = target
		return true
	}

	vn := p.Vel.Dot(tr.los.Axis())
	if vn <= 0 {
		p.Status = source.Escaped
		return false
	}
	flight := -tr.los.SignedDist(p.Pos) / vn
	target := p.Pos.Add(p.Vel.Scale(flight))
	tr.settle(p, target)
	return false
}

// settle applies the segment move p.Pos -> newPos, handling mesh absorption
// and detector-plane crossing. It reports whether the particle terminated.
func (tr *Tracer) settle(p *source.Particle, newPos phys.Vec3) bool {
	s1 := tr.los.SignedDist(p.Pos)
	s2 := tr.los.SignedDist(newPos)

	if s2 >= 0 {
		// clip the segment to the plane before the mesh test
		hit := newPos
		if s2 > 0 && s1 < 0 {
			frac := s1 / (s1 - s2)
			hit = p.Pos.Add(newPos.Sub(p.Pos).Scale(frac))
		}
		if tr.blocked(p.Pos, hit) {
			p.Status = source.Absorbed
			return true
		}
		p.Pos = hit
		p.Status = source.Detected
		return true
	}

	if tr.blocked(p.Pos, newPos) {
		p.Status = source.Absorbed
		return true
	}
	return false
}

func (tr *Tracer) blocked(from, to phys.Vec3) bool {
	return tr.mesh != nil && tr.mesh.Blocks(from, to)
}

// stepSize bounds dt so a step neither crosses more than CellFrac of a grid
// cell nor deflects the velocity by more than ThetaMax.
func (tr *Tracer) stepSize(e, b, vel phys.Vec3, sp phys.Species, cfg *Config) float64 {
	v := vel.Norm()
	dt := cfg.CellFrac * tr.sampler.Grid().MinSpacing() / v

	gamma := phys.Lorentz(vel)
	q := math.Abs(sp.Charge)

	if bn := b.Norm(); bn > 0 {
		// gyration: dTheta = q*B*dt/(gamma*m)
		if dtB := cfg.ThetaMax * gamma * sp.Mass / (q * bn); dtB < dt {
			dt = dtB
		}
	}
	if en := e.Norm(); en > 0 {
		// electric deflection: dv = q*E*dt/(gamma*m) compared to v
		if dtE := cfg.ThetaMax * gamma * sp.Mass * v / (q * en); dtE < dt {
			dt = dtE
		}
	}
	return dt
}

func (tr *Tracer) tally(p *source.Particle, v0 float64, res *Result) {
	switch p.Status {
	case source.Detected:
		res.Detected++
	case source.Absorbed:
		res.Absorbed++
	case source.Escaped:
		res.Escaped++
	default:
		res.Stranded++
	}

	if v0 > 0 {
		drift := math.Abs(p.Vel.Norm()-v0) / v0
		if drift > res.MaxSpeedDrift {
			res.MaxSpeedDrift = drift
		}
	}
}
