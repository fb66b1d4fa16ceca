package main

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"github.com/san-kum/protorad/internal/config"
	"github.com/san-kum/protorad/internal/experiment"
	"github.com/san-kum/protorad/internal/export"
	"github.com/san-kum/protorad/internal/storage"
	"github.com/san-kum/protorad/internal/tui"
	"github.com/san-kum/protorad/internal/viz"
	"github.com/spf13/cobra"
)

var (
	dataDir string
	log     zerolog.Logger

	// run flags
	scenario    string
	configFile  string
	preset      string
	phi0        float64
	b0          float64
	radiusMM    float64
	spheres     int
	gridN       int
	gridHalfMM  float64
	weighting   string
	particles   int
	energyMeV   float64
	maxThetaDeg float64
	species     string
	seed        int64
	pusher      string
	maxSteps    int
	meshOn      bool
	imageSizeCM float64
	imageBins   int
	live        bool

	// export flags
	outFile string

	// radiograph flags
	plotWidth  int
	plotHeight int
)

func main() {
	log = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}).
		With().Timestamp().Logger()

	rootCmd := &cobra.Command{
		Use:   "protorad",
		Short: "synthetic proton radiography lab",
	}
	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".protorad", "data directory")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "trace an ensemble and save the radiograph",
		RunE:  runScenario,
	}
	runCmd.Flags().StringVar(&scenario, "scenario", "", "named scenario")
	runCmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	runCmd.Flags().StringVar(&preset, "preset", "gaussian_sphere", "field preset")
	runCmd.Flags().Float64Var(&phi0, "phi0", 5e4, "potential amplitude (V)")
	runCmd.Flags().Float64Var(&b0, "b0", 0, "magnetic amplitude (T)")
	runCmd.Flags().Float64Var(&radiusMM, "radius", 0.5, "preset length scale (mm)")
	runCmd.Flags().IntVar(&spheres, "spheres", 3, "layer count (sphere_stack)")
	runCmd.Flags().IntVar(&gridN, "grid-n", config.DefaultGridN, "grid nodes per axis")
	runCmd.Flags().Float64Var(&gridHalfMM, "grid-half", config.DefaultGridHalfMM, "grid half-extent (mm)")
	runCmd.Flags().StringVar(&weighting, "weighting", "volume", "field weighting: nearest | volume")
	runCmd.Flags().IntVar(&particles, "particles", config.DefaultParticles, "ensemble size")
	runCmd.Flags().Float64Var(&energyMeV, "energy", config.DefaultEnergyMeV, "kinetic energy (MeV)")
	runCmd.Flags().Float64Var(&maxThetaDeg, "theta", config.DefaultMaxThetaDeg, "cone half-angle (deg)")
	runCmd.Flags().StringVar(&species, "species", "proton", "particle species")
	runCmd.Flags().Int64Var(&seed, "seed", 0, "random seed (0 = time-based)")
	runCmd.Flags().StringVar(&pusher, "pusher", "boris", "pusher: boris | euler")
	runCmd.Flags().IntVar(&maxSteps, "max-steps", 0, "per-particle step cap (0 = default)")
	runCmd.Flags().BoolVar(&meshOn, "mesh", false, "place the wire-mesh fiducial")
	runCmd.Flags().Float64Var(&imageSizeCM, "image-size", config.DefaultImageSizeCM, "detector window (cm)")
	runCmd.Flags().IntVar(&imageBins, "bins", config.DefaultImageBins, "detector bins per axis")
	runCmd.Flags().BoolVar(&live, "live", false, "show live progress")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list saved runs",
		RunE:  listRuns,
	}

	radiographCmd := &cobra.Command{
		Use:   "radiograph [run_id]",
		Short: "show a saved radiograph in the terminal",
		Args:  cobra.ExactArgs(1),
		RunE:  showRadiograph,
	}
	radiographCmd.Flags().IntVar(&plotWidth, "width", 80, "plot width")
	radiographCmd.Flags().IntVar(&plotHeight, "height", 12, "plot height")

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export run metadata as JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export radiograph bin counts to CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}

	exportPNGCmd := &cobra.Command{
		Use:   "export-png [run_id]",
		Short: "render a saved radiograph to a PNG file",
		Args:  cobra.ExactArgs(1),
		RunE:  exportPNG,
	}
	exportPNGCmd.Flags().StringVar(&outFile, "out", "", "output path (default <run_id>.png)")

	scenariosCmd := &cobra.Command{
		Use:   "scenarios",
		Short: "list named scenarios",
		Run: func(cmd *cobra.Command, args []string) {
			for _, name := range config.ListScenarios() {
				fmt.Printf("  %s\n", name)
			}
		},
	}

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list field presets",
		Run: func(cmd *cobra.Command, args []string) {
			for _, name := range experiment.NewRegistry().ListPresets() {
				fmt.Printf("  %s\n", name)
			}
		},
	}

	rootCmd.AddCommand(runCmd, listCmd, radiographCmd, exportCmd, exportCSVCmd, exportPNGCmd, scenariosCmd, presetsCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// buildConfig layers the run configuration: scenario, then config file, then
// any flag the user set explicitly.
func buildConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()

	if scenario != "" {
		s := config.GetScenario(scenario)
		if s == nil {
			return nil, fmt.Errorf("unknown scenario: %s (available: %v)", scenario, config.ListScenarios())
		}
		cfg = s
	}

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("preset") {
		cfg.Preset = preset
	}
	if flags.Changed("phi0") {
		cfg.Phi0 = phi0
	}
	if flags.Changed("b0") {
		cfg.B0 = b0
	}
	if flags.Changed("radius") {
		cfg.RadiusMM = radiusMM
	}
	if flags.Changed("spheres") {
		cfg.Spheres = spheres
	}
	if flags.Changed("grid-n") {
		cfg.GridN = gridN
	}
	if flags.Changed("grid-half") {
		cfg.GridHalfMM = gridHalfMM
	}
	if flags.Changed("weighting") {
		cfg.Weighting = weighting
	}
	if flags.Changed("particles") {
		cfg.Particles = particles
	}
	if flags.Changed("energy") {
		cfg.EnergyMeV = energyMeV
	}
	if flags.Changed("theta") {
		cfg.MaxThetaDeg = maxThetaDeg
	}
	if flags.Changed("species") {
		cfg.Species = species
	}
	if flags.Changed("seed") {
		cfg.Seed = seed
	}
	if flags.Changed("pusher") {
		cfg.Pusher = pusher
	}
	if flags.Changed("max-steps") {
		cfg.MaxSteps = maxSteps
	}
	if flags.Changed("mesh") {
		cfg.Mesh.Enabled = meshOn
	}
	if flags.Changed("image-size") {
		cfg.Image.SizeCM = imageSizeCM
	}
	if flags.Changed("bins") {
		cfg.Image.Bins = imageBins
	}

	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}
	return cfg, nil
}

func runScenario(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	exp := experiment.New(cfg)
	if _, err := exp.Setup(experiment.NewRegistry()); err != nil {
		return err
	}

	log.Info().
		Str("preset", cfg.Preset).
		Int("particles", cfg.Particles).
		Float64("energy_mev", cfg.EnergyMeV).
		Msg("tracing ensemble")

	var out *experiment.Output
	if live {
		out, err = runWithProgress(exp, cfg)
	} else {
		out, err = exp.Run(context.Background(), nil)
	}
	if err != nil {
		return err
	}

	res := out.Result
	if res.Stranded > 0 {
		log.Warn().Int("stranded", res.Stranded).Msg("particles hit the step cap")
	}
	if c := out.Image.Cropped(); c > 0 {
		log.Warn().Int("cropped", c).Msg("detected hits fell outside the image window")
	}

	runID, err := st.Save(cfg, res, out.Image)
	if err != nil {
		return err
	}

	log.Info().
		Str("run_id", runID).
		Int("detected", res.Detected).
		Int("absorbed", res.Absorbed).
		Int("escaped", res.Escaped).
		Int64("steps", res.Steps).
		Float64("speed_drift", res.MaxSpeedDrift).
		Dur("elapsed", res.Elapsed).
		Msg("run complete")

	return nil
}

// runWithProgress drives the trace behind a live progress view. Ctrl+C
// cancels the context; the tracer drains and the partial result is discarded.
func runWithProgress(exp *experiment.Experiment, cfg *config.Config) (*experiment.Output, error) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	p := tea.NewProgram(tui.NewModel(cfg.Preset, cancel))

	var out *experiment.Output
	go func() {
		o, err := exp.Run(ctx, func(done, total int) {
			p.Send(tui.ProgressMsg{Done: done, Total: total})
		})
		out = o
		p.Send(tui.DoneMsg{Err: err})
	}()

	final, err := p.Run()
	if err != nil {
		return nil, err
	}
	if m, ok := final.(tui.Model); ok && m.Err() != nil {
		return nil, m.Err()
	}
	return out, nil
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tPRESET\tTIME\tPARTICLES\tENERGY\tDETECTED\tABSORBED\tSTRANDED")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%.1f MeV\t%d\t%d\t%d\n",
			run.ID,
			run.Preset,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Particles,
			run.EnergyMeV,
			run.Detected,
			run.Absorbed,
			run.Stranded,
		)
	}

	return w.Flush()
}

func showRadiograph(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	im, err := st.LoadImage(runID)
	if err != nil {
		return err
	}

	fmt.Println(viz.Summary(meta))
	fmt.Println(viz.Profile(im, plotWidth, plotHeight))
	return nil
}

func exportRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(meta)
}

func exportCSV(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	im, err := st.LoadImage(args[0])
	if err != nil {
		return err
	}

	w := csv.NewWriter(os.Stdout)
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

func exportPNG(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	im, err := st.LoadImage(runID)
	if err != nil {
		return err
	}

	path := outFile
	if path == "" {
		path = runID + ".png"
	}
	if err := export.ImagePNG(path, im); err != nil {
		return err
	}

	log.Info().Str("path", path).Msg("radiograph exported")
	return nil
}
