package experiment

import (
	"context"
	"testing"

	"github.com/san-kum/protorad/internal/config"
)

func smallConfig() *config.Config {
	cfg := config.DefaultConfig()
	cfg.GridN = 24
	cfg.Particles = 400
	cfg.MaxThetaDeg = 2.5
	cfg.Image.Bins = 50
	cfg.Seed = 13
	return cfg
}

func TestExperimentEndToEnd(t *testing.T) {
	exp := New(smallConfig())

	setup, err := exp.Setup(NewRegistry())
	if err != nil {
		t.Fatal(err)
	}
	if setup.Preset.Name() != "gaussian_sphere" {
		t.Errorf("preset %s, expected gaussian_sphere", setup.Preset.Name())
	}

	calls := 0
	out, err := exp.Run(context.Background(), func(done, total int) { calls++ })
	if err != nil {
		t.Fatal(err)
	}

	if calls == 0 {
		t.Error("progress callback never invoked")
	}
	if out.Result.Detected == 0 {
		t.Fatal("no particles detected")
	}
	// every detected hit inside the window lands in the histogram; with a
	// narrow cone the 1.5 cm window catches everything
	if out.Image.Total() != float64(out.Result.Detected) {
		t.Errorf("image holds %g hits, tracer detected %d", out.Image.Total(), out.Result.Detected)
	}
}

func TestWideConeConservesDetectedHits(t *testing.T) {
	// at the default 12 degree cone most detected hits miss the 1.5 cm
	// window; they must show up in the cropped count, never vanish
	cfg := smallConfig()
	cfg.MaxThetaDeg = config.DefaultMaxThetaDeg

	exp := New(cfg)
	if _, err := exp.Setup(NewRegistry()); err != nil {
		t.Fatal(err)
	}
	out, err := exp.Run(context.Background(), nil)
	if err != nil {
		t.Fatal(err)
	}

	if out.Image.Cropped() == 0 {
		t.Error("expected cropped hits at the full cone width")
	}
	got := out.Image.Total() + float64(out.Image.Cropped())
	if got != float64(out.Result.Detected) {
		t.Errorf("binned + cropped = %g, tracer detected %d", got, out.Result.Detected)
	}
}

func TestRunBeforeSetup(t *testing.T) {
	exp := New(smallConfig())
	if _, err := exp.Run(context.Background(), nil); err == nil {
		t.Error("expected error before Setup")
	}
}

func TestSetupRejectsUnknownNames(t *testing.T) {
	reg := NewRegistry()

	cfg := smallConfig()
	cfg.Preset = "tokamak"
	if _, err := New(cfg).Setup(reg); err == nil {
		t.Error("expected error for unknown preset")
	}

	cfg = smallConfig()
	cfg.Species = "muon"
	if _, err := New(cfg).Setup(reg); err == nil {
		t.Error("expected error for unknown species")
	}

	cfg = smallConfig()
	cfg.Pusher = "rk4"
	if _, err := New(cfg).Setup(reg); err == nil {
		t.Error("expected error for unknown pusher")
	}

	cfg = smallConfig()
	cfg.Weighting = "cubic"
	if _, err := New(cfg).Setup(reg); err == nil {
		t.Error("expected error for unknown weighting")
	}
}

func TestMeshSetupValidation(t *testing.T) {
	cfg := smallConfig()
	cfg.Mesh.Enabled = true
	cfg.Mesh.DistMM = 500 // past the detector

	if _, err := New(cfg).Setup(NewRegistry()); err == nil {
		t.Error("expected error for mesh outside the source-detector segment")
	}
}

func TestListPresets(t *testing.T) {
	names := NewRegistry().ListPresets()
	if len(names) != 4 {
		t.Errorf("expected 4 presets, got %v", names)
	}
}
