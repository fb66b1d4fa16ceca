package config

import "sort"

// Scenarios are ready-made run configurations. Values not set here fall back
// to DefaultConfig via GetScenario.
var Scenarios = map[string]*Config{
	// quick look: coarse grid and a small ensemble
	"demo": {
		Preset: "gaussian_sphere", Phi0: 5e4, RadiusMM: 0.5,
		GridN: 48, Particles: 5000, EnergyMeV: 3, MaxThetaDeg: 4.5,
		Image: ImageConfig{SizeCM: 1.5, Bins: 100},
	},
	// the full single-sphere deflectometry scenario
	"sphere": {
		Preset: "gaussian_sphere", Phi0: 5e4, RadiusMM: 0.5,
		GridN: 100, Particles: 50000, EnergyMeV: 3, MaxThetaDeg: 12,
		Image: ImageConfig{SizeCM: 1.5, Bins: 200},
	},
	// stacked concentric spheres, steeper radial profile
	"sphere_stack": {
		Preset: "sphere_stack", Phi0: 5e4, RadiusMM: 0.5, Spheres: 3,
		GridN: 100, Particles: 50000, EnergyMeV: 3, MaxThetaDeg: 12,
		Image: ImageConfig{SizeCM: 1.5, Bins: 200},
	},
	// magnetized cylinder across the beam
	"magnetized": {
		Preset: "cylinder_b", B0: 5, RadiusMM: 0.5,
		GridN: 100, Particles: 50000, EnergyMeV: 3, MaxThetaDeg: 12,
		Image: ImageConfig{SizeCM: 1.5, Bins: 200},
	},
	// unperturbed reference for optical-density images
	"reference": {
		Preset: "null",
		GridN:  48, Particles: 50000, EnergyMeV: 3, MaxThetaDeg: 12,
		Image: ImageConfig{SizeCM: 1.5, Bins: 200},
	},
	// sphere scenario with the wire-mesh fiducial in the beam
	"mesh_fiducial": {
		Preset: "gaussian_sphere", Phi0: 5e4, RadiusMM: 0.5,
		GridN: 100, Particles: 50000, EnergyMeV: 3, MaxThetaDeg: 12,
		Image: ImageConfig{SizeCM: 1.5, Bins: 200},
		Mesh: MeshConfig{
			Enabled: true, DistMM: 5, WidthMM: 3, HeightMM: 3,
			WiresU: 15, WiresV: 15, WireDiameterUM: 40,
		},
	},
}

// GetScenario returns a named scenario with defaults filled in, or nil when
// the name is unknown.
func GetScenario(name string) *Config {
	s, ok := Scenarios[name]
	if !ok {
		return nil
	}
	cfg := *DefaultConfig()
	cfg.Preset = s.Preset
	if s.Phi0 != 0 {
		cfg.Phi0 = s.Phi0
	}
	cfg.B0 = s.B0
	if s.RadiusMM != 0 {
		cfg.RadiusMM = s.RadiusMM
	}
	if s.Spheres != 0 {
		cfg.Spheres = s.Spheres
	}
	if s.GridN != 0 {
		cfg.GridN = s.GridN
	}
	if s.Particles != 0 {
		cfg.Particles = s.Particles
	}
	if s.EnergyMeV != 0 {
		cfg.EnergyMeV = s.EnergyMeV
	}
	if s.MaxThetaDeg != 0 {
		cfg.MaxThetaDeg = s.MaxThetaDeg
	}
	if s.Image.SizeCM != 0 {
		cfg.Image = s.Image
	}
	if s.Mesh.Enabled {
		cfg.Mesh = s.Mesh
	}
	return &cfg
}

func ListScenarios() []string {
	names := make([]string, 0, len(Scenarios))
	for name := range Scenarios {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
