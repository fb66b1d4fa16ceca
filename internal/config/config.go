// Package config loads and saves radiography scenario files.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

const (
	DefaultGridN       = 100
	DefaultGridHalfMM  = 1.0
	DefaultParticles   = 50000
	DefaultEnergyMeV   = 3.0
	DefaultMaxThetaDeg = 12.0
	DefaultSourceMM    = 10.0
	DefaultDetectorMM  = 100.0
	DefaultImageSizeCM = 1.5
	DefaultImageBins   = 200
)

type Config struct {
	Preset   string  `yaml:"preset"`    // field preset name
	Phi0     float64 `yaml:"phi0_v"`    // potential amplitude, V
	B0       float64 `yaml:"b0_t"`      // magnetic amplitude, T
	RadiusMM float64 `yaml:"radius_mm"` // preset length scale
	Spheres  int     `yaml:"spheres"`   // layer count for sphere_stack

	GridN      int     `yaml:"grid_n"`       // nodes per axis
	GridHalfMM float64 `yaml:"grid_half_mm"` // half-extent per axis
	Weighting  string  `yaml:"weighting"`    // nearest | volume

	SourceMM   float64 `yaml:"source_mm"`   // source distance before grid center
	DetectorMM float64 `yaml:"detector_mm"` // detector distance past grid center

	Particles   int     `yaml:"particles"`
	EnergyMeV   float64 `yaml:"energy_mev"`
	MaxThetaDeg float64 `yaml:"max_theta_deg"`
	Species     string  `yaml:"species"`
	Seed        int64   `yaml:"seed"`

	Pusher   string `yaml:"pusher"`
	MaxSteps int    `yaml:"max_steps"`

	Mesh  MeshConfig  `yaml:"mesh"`
	Image ImageConfig `yaml:"image"`
}

type MeshConfig struct {
	Enabled        bool    `yaml:"enabled"`
	DistMM         float64 `yaml:"dist_mm"` // axial distance from the source
	WidthMM        float64 `yaml:"width_mm"`
	HeightMM       float64 `yaml:"height_mm"`
	WiresU         int     `yaml:"wires_u"`
	WiresV         int     `yaml:"wires_v"`
	WireDiameterUM float64 `yaml:"wire_diameter_um"`
}

type ImageConfig struct {
	SizeCM float64 `yaml:"size_cm"` // square detector window
	Bins   int     `yaml:"bins"`
}

func DefaultConfig() *Config {
	return &Config{
		Preset:      "gaussian_sphere",
		Phi0:        5e4,
		RadiusMM:    0.5,
		Spheres:     3,
		GridN:       DefaultGridN,
		GridHalfMM:  DefaultGridHalfMM,
		Weighting:   "volume",
		SourceMM:    DefaultSourceMM,
		DetectorMM:  DefaultDetectorMM,
		Particles:   DefaultParticles,
		EnergyMeV:   DefaultEnergyMeV,
		MaxThetaDeg: DefaultMaxThetaDeg,
		Species:     "proton",
		Pusher:      "boris",
		Image: ImageConfig{
			SizeCM: DefaultImageSizeCM,
			Bins:   DefaultImageBins,
		},
		Mesh: MeshConfig{
			DistMM:         5,
			WidthMM:        2,
			HeightMM:       2,
			WiresU:         9,
			WiresV:         9,
			WireDiameterUM: 20,
		},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Validate catches configuration errors before any work starts.
func (c *Config) Validate() error {
	if c.Particles <= 0 {
		return fmt.Errorf("particles must be positive, got %d", c.Particles)
	}
	if c.EnergyMeV <= 0 {
		return fmt.Errorf("energy must be positive, got %g MeV", c.EnergyMeV)
	}
	if c.GridN < 2 {
		return fmt.Errorf("grid_n must be at least 2, got %d", c.GridN)
	}
	if c.GridHalfMM <= 0 {
		return fmt.Errorf("grid_half_mm must be positive, got %g", c.GridHalfMM)
	}
	if c.SourceMM <= c.GridHalfMM {
		return fmt.Errorf("source at %g mm sits inside the %g mm grid", c.SourceMM, c.GridHalfMM)
	}
	if c.DetectorMM <= c.GridHalfMM {
		return fmt.Errorf("detector at %g mm sits inside the %g mm grid", c.DetectorMM, c.GridHalfMM)
	}
	if c.MaxThetaDeg <= 0 || c.MaxThetaDeg >= 90 {
		return fmt.Errorf("max_theta_deg must be in (0, 90), got %g", c.MaxThetaDeg)
	}
	if c.Image.SizeCM <= 0 || c.Image.Bins <= 0 {
		return fmt.Errorf("image needs positive size and bins, got %g cm / %d", c.Image.SizeCM, c.Image.Bins)
	}
	return nil
}
