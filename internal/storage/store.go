// Package storage persists finished runs: metadata, the scenario file, and
// the binned radiograph.
package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/san-kum/protorad/internal/config"
	"github.com/san-kum/protorad/internal/radiograph"
	"github.com/san-kum/protorad/internal/tracer"
)

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`

	Preset      string  `json:"preset"`
	Species     string  `json:"species"`
	Particles   int     `json:"particles"`
	EnergyMeV   float64 `json:"energy_mev"`
	MaxThetaDeg float64 `json:"max_theta_deg"`
	Weighting   string  `json:"weighting"`
	Pusher      string  `json:"pusher"`
	Seed        int64   `json:"seed"`
	MeshEnabled bool    `json:"mesh_enabled"`

	Detected      int     `json:"detected"`
	Absorbed      int     `json:"absorbed"`
	Escaped       int     `json:"escaped"`
	Stranded      int     `json:"stranded"`
	Cropped       int     `json:"cropped"`
	Steps         int64   `json:"steps"`
	MaxSpeedDrift float64 `json:"max_speed_drift"`
	ElapsedSec    float64 `json:"elapsed_sec"`

	ImageSizeCM float64 `json:"image_size_cm"`
	ImageBins   int     `json:"image_bins"`
}

// Save writes one run directory: metadata.json, scenario.yaml, and
// radiograph.csv (one CSV row per u bin).
func (s *Store) Save(cfg *config.Config, res *tracer.Result, im *radiograph.Image) (string, error) {
	runID := fmt.Sprintf("%s_%d", cfg.Preset, time.Now().Unix())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:            runID,
		Timestamp:     time.Now(),
		Preset:        cfg.Preset,
		Species:       cfg.Species,
		Particles:     cfg.Particles,
		EnergyMeV:     cfg.EnergyMeV,
		MaxThetaDeg:   cfg.MaxThetaDeg,
		Weighting:     cfg.Weighting,
		Pusher:        cfg.Pusher,
		Seed:          cfg.Seed,
		MeshEnabled:   cfg.Mesh.Enabled,
		Detected:      res.Detected,
		Absorbed:      res.Absorbed,
		Escaped:       res.Escaped,
		Stranded:      res.Stranded,
		Cropped:       im.Cropped(),
		Steps:         res.Steps,
		MaxSpeedDrift: res.MaxSpeedDrift,
		ElapsedSec:    res.Elapsed.Seconds(),
		ImageSizeCM:   cfg.Image.SizeCM,
		ImageBins:     cfg.Image.Bins,
	}

	metaFile, err := os.Create(filepath.Join(runDir, "metadata.json"))
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}

	if err := config.Save(filepath.Join(runDir, "scenario.yaml"), cfg); err != nil {
		return "", err
	}

	if err := writeImage(filepath.Join(runDir, "radiograph.csv"), im); err != nil {
		return "", err
	}

	return runID, nil
}

func writeImage(path string, im *radiograph.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	for _, row := range im.Intensity() {
		rec := make([]string, len(row))
		for j, v := range row {
			rec[j] = strconv.FormatFloat(v, 'g', -1, 64)
		}
		if err := w.Write(rec); err != nil {
			return err
		}
	}
	return w.Error()
}

func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, "metadata.json"))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

// LoadImage rebuilds the stored radiograph of a run.
func (s *Store) LoadImage(runID string) (*radiograph.Image, error) {
	meta, err := s.Load(runID)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(filepath.Join(s.baseDir, runID, "radiograph.csv"))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}

	intensity := make([][]float64, 0, len(records))
	for _, rec := range records {
		row := make([]float64, len(rec))
		for j, cell := range rec {
			v, err := strconv.ParseFloat(cell, 64)
			if err != nil {
				return nil, fmt.Errorf("run %s: bad count %q: %w", runID, cell, err)
			}
			row[j] = v
		}
		intensity = append(intensity, row)
	}

	size := meta.ImageSizeCM * 1e-2
	return radiograph.FromIntensity([2]float64{size, size}, intensity)
}
