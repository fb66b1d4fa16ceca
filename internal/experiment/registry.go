package experiment

import (
	"fmt"
	"sort"

	"github.com/san-kum/protorad/internal/config"
	"github.com/san-kum/protorad/internal/field"
	"github.com/san-kum/protorad/internal/phys"
	"github.com/san-kum/protorad/internal/units"
)

// Registry maps preset names to field builders.
type Registry struct {
	presets map[string]func(*config.Config) field.Preset
}

func NewRegistry() *Registry {
	r := &Registry{presets: make(map[string]func(*config.Config) field.Preset)}

	r.presets["gaussian_sphere"] = func(c *config.Config) field.Preset {
		return field.GaussianSphere{
			Phi0:   c.Phi0,
			Radius: units.Millimeters(c.RadiusMM).Meters(),
		}
	}
	r.presets["sphere_stack"] = func(c *config.Config) field.Preset {
		n := c.Spheres
		if n <= 0 {
			n = 3
		}
		return field.SphereStack{
			Phi0:   c.Phi0,
			Radius: units.Millimeters(c.RadiusMM).Meters(),
			Count:  n,
		}
	}
	r.presets["cylinder_b"] = func(c *config.Config) field.Preset {
		return field.CylinderB{
			B0:     c.B0,
			Radius: units.Millimeters(c.RadiusMM).Meters(),
		}
	}
	r.presets["null"] = func(*config.Config) field.Preset {
		return field.NullField{}
	}

	return r
}

func (r *Registry) GetPreset(cfg *config.Config) (field.Preset, error) {
	fn, ok := r.presets[cfg.Preset]
	if !ok {
		return nil, fmt.Errorf("unknown field preset: %s", cfg.Preset)
	}
	return fn(cfg), nil
}

func (r *Registry) ListPresets() []string {
	names := make([]string, 0, len(r.presets))
	for name := range r.presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func speciesFor(cfg *config.Config) (phys.Species, error) {
	name := cfg.Species
	if name == "" {
		name = "proton"
	}
	sp, ok := phys.SpeciesByName(name)
	if !ok {
		return phys.Species{}, fmt.Errorf("unknown species: %s", name)
	}
	return sp, nil
}
