// Package experiment assembles a full radiography run from a scenario
// config: grid fill, source generation, trajectory tracing, and binning.
package experiment

import (
	"context"
	"fmt"

	"github.com/san-kum/protorad/internal/config"
	"github.com/san-kum/protorad/internal/field"
	"github.com/san-kum/protorad/internal/geometry"
	"github.com/san-kum/protorad/internal/mesh"
	"github.com/san-kum/protorad/internal/phys"
	"github.com/san-kum/protorad/internal/push"
	"github.com/san-kum/protorad/internal/radiograph"
	"github.com/san-kum/protorad/internal/source"
	"github.com/san-kum/protorad/internal/tracer"
	"github.com/san-kum/protorad/internal/units"
)

// Setup is the assembled, ready-to-trace state of an experiment.
type Setup struct {
	LOS      *geometry.LineOfSight
	Sampler  *field.Sampler
	Mesh     *mesh.Mesh // nil unless configured
	Pusher   push.Pusher
	Ensemble *source.Ensemble
	Preset   field.Preset
}

// Output bundles everything a finished run produces.
type Output struct {
	Result   *tracer.Result
	Image    *radiograph.Image
	Ensemble *source.Ensemble
}

type Experiment struct {
	cfg   *config.Config
	setup *Setup
}

func New(cfg *config.Config) *Experiment {
	return &Experiment{cfg: cfg}
}

// Setup validates the config and builds the run: field grid filled from the
// preset, line of sight, optional mesh, pusher, and the initial ensemble.
func (e *Experiment) Setup(reg *Registry) (*Setup, error) {
	cfg := e.cfg
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	preset, err := reg.GetPreset(cfg)
	if err != nil {
		return nil, err
	}
	sp, err := speciesFor(cfg)
	if err != nil {
		return nil, err
	}
	weighting, err := field.ParseWeighting(cfg.Weighting)
	if err != nil {
		return nil, err
	}
	pusher, err := push.ByName(cfg.Pusher)
	if err != nil {
		return nil, err
	}

	// grid centered at the origin, beam along +z
	los, err := geometry.New(
		phys.Vec3{Z: -units.Millimeters(cfg.SourceMM).Meters()},
		phys.Vec3{Z: units.Millimeters(cfg.DetectorMM).Meters()},
	)
	if err != nil {
		return nil, err
	}

	grid, err := field.NewCubicGrid(units.Millimeters(cfg.GridHalfMM).Meters(), cfg.GridN)
	if err != nil {
		return nil, err
	}
	grid.Fill(preset.Fields)

	var m *mesh.Mesh
	if cfg.Mesh.Enabled {
		m, err = mesh.New(los, mesh.Config{
			Dist: units.Millimeters(cfg.Mesh.DistMM).Meters(),
			Extent: [2]float64{
				units.Millimeters(cfg.Mesh.WidthMM).Meters(),
				units.Millimeters(cfg.Mesh.HeightMM).Meters(),
			},
			Wires:        [2]int{cfg.Mesh.WiresU, cfg.Mesh.WiresV},
			WireDiameter: units.Microns(cfg.Mesh.WireDiameterUM).Meters(),
		})
		if err != nil {
			return nil, fmt.Errorf("mesh: %w", err)
		}
	}

	ens, err := source.New(los, source.Config{
		N:        cfg.Particles,
		Energy:   units.MeV(cfg.EnergyMeV),
		MaxTheta: units.Degrees(cfg.MaxThetaDeg),
		Species:  sp,
		Seed:     cfg.Seed,
	})
	if err != nil {
		return nil, err
	}

	e.setup = &Setup{
		LOS:      los,
		Sampler:  field.NewSampler(grid, weighting),
		Mesh:     m,
		Pusher:   pusher,
		Ensemble: ens,
		Preset:   preset,
	}
	return e.setup, nil
}

// Run traces the ensemble and bins the radiograph. Setup must have been
// called first. progress may be nil.
func (e *Experiment) Run(ctx context.Context, progress func(done, total int)) (*Output, error) {
	if e.setup == nil {
		return nil, fmt.Errorf("experiment not set up")
	}
	s := e.setup

	tr := tracer.New(s.Sampler, s.Pusher, s.LOS, s.Mesh)
	res, err := tr.Run(ctx, s.Ensemble, tracer.Config{
		MaxSteps: e.cfg.MaxSteps,
		Progress: progress,
	})
	if err != nil {
		return nil, err
	}

	size := units.Centimeters(e.cfg.Image.SizeCM).Meters()
	im, err := radiograph.FromEnsemble(s.LOS, s.Ensemble,
		[2]float64{size, size},
		[2]int{e.cfg.Image.Bins, e.cfg.Image.Bins})
	if err != nil {
		return nil, err
	}

	return &Output{Result: res, Image: im, Ensemble: s.Ensemble}, nil
}
