package storage

import (
	"testing"
	"time"

	"github.com/san-kum/protorad/internal/config"
	"github.com/san-kum/protorad/internal/radiograph"
	"github.com/san-kum/protorad/internal/tracer"
)

func sampleRun(t *testing.T) (*config.Config, *tracer.Result, *radiograph.Image) {
	t.Helper()

	cfg := config.DefaultConfig()
	cfg.Particles = 100
	cfg.Image.SizeCM = 1.5
	cfg.Image.Bins = 8

	res := &tracer.Result{
		Detected:      95,
		Absorbed:      3,
		Escaped:       1,
		Stranded:      1,
		Steps:         12345,
		MaxSpeedDrift: 2.5e-9,
		Elapsed:       150 * time.Millisecond,
	}

	im, err := radiograph.NewImage([2]float64{0.015, 0.015}, [2]int{8, 8})
	if err != nil {
		t.Fatal(err)
	}
	im.Add(0, 0)
	im.Add(0.001, -0.002)
	im.Add(-0.007, 0.007)
	im.Add(0.02, 0) // outside the window

	return cfg, res, im
}

func TestSaveLoadRoundTrip(t *testing.T) {
	st := New(t.TempDir())
	if err := st.Init(); err != nil {
		t.Fatal(err)
	}

	cfg, res, im := sampleRun(t)
	runID, err := st.Save(cfg, res, im)
	if err != nil {
		t.Fatal(err)
	}

	meta, err := st.Load(runID)
	if err != nil {
		t.Fatal(err)
	}
	if meta.ID != runID || meta.Detected != 95 || meta.Preset != cfg.Preset {
		t.Errorf("metadata mismatch: %+v", meta)
	}
	if meta.ImageBins != 8 {
		t.Errorf("image bins = %d, expected 8", meta.ImageBins)
	}
	if meta.Cropped != 1 {
		t.Errorf("cropped = %d, expected 1", meta.Cropped)
	}

	loaded, err := st.LoadImage(runID)
	if err != nil {
		t.Fatal(err)
	}
	if loaded.Total() != im.Total() {
		t.Errorf("image total %g, expected %g", loaded.Total(), im.Total())
	}
	if loaded.Bins() != im.Bins() {
		t.Errorf("image bins %v, expected %v", loaded.Bins(), im.Bins())
	}
	for i := 0; i < 8; i++ {
		for j := 0; j < 8; j++ {
			if loaded.Count(i, j) != im.Count(i, j) {
				t.Fatalf("bin (%d,%d): %g != %g", i, j, loaded.Count(i, j), im.Count(i, j))
			}
		}
	}
}

func TestList(t *testing.T) {
	st := New(t.TempDir())
	if err := st.Init(); err != nil {
		t.Fatal(err)
	}

	runs, err := st.List()
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 0 {
		t.Errorf("expected no runs, got %d", len(runs))
	}

	cfg, res, im := sampleRun(t)
	if _, err := st.Save(cfg, res, im); err != nil {
		t.Fatal(err)
	}

	runs, err = st.List()
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 1 {
		t.Fatalf("expected 1 run, got %d", len(runs))
	}
}

func TestListMissingDir(t *testing.T) {
	st := New("/nonexistent/protorad-test")
	runs, err := st.List()
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 0 {
		t.Error("expected empty list for missing base dir")
	}
}

func TestLoadUnknownRun(t *testing.T) {
	st := New(t.TempDir())
	if _, err := st.Load("absent_1"); err == nil {
		t.Error("expected error for unknown run")
	}
	if _, err := st.LoadImage("absent_1"); err == nil {
		t.Error("expected error for unknown run image")
	}
}
