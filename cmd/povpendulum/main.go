package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/povpendulum/internal/analysis"
	"github.com/san-kum/povpendulum/internal/assets"
	"github.com/san-kum/povpendulum/internal/config"
	"github.com/san-kum/povpendulum/internal/dynamo"
	"github.com/san-kum/povpendulum/internal/povray"
	"github.com/san-kum/povpendulum/internal/scenario"
	"github.com/san-kum/povpendulum/internal/sim"
	"github.com/san-kum/povpendulum/internal/storage"
	"github.com/san-kum/povpendulum/internal/tui"
	"github.com/spf13/cobra"
)

var (
	outDir     string
	dataDir    string
	configFile string
	preset     string
	step       float64
	endTime    float64
	quiet      bool
	// live view
	plain     bool
	frameRate int
	force     bool
)

// errReported marks errors whose message was already printed.
var errReported = errors.New("reported")

func main() {
	if err := newRootCmd().Execute(); err != nil {
		if !errors.Is(err, errReported) {
			fmt.Fprintln(os.Stderr, "error:", err)
		}
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "povpendulum",
		Short:         "pendulum simulation exported as POV-Ray frames",
		Args:          cobra.NoArgs,
		RunE:          runExample,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&outDir, "out", config.DefaultOutputDir, "output directory")
	pf.StringVar(&dataDir, "data-dir", config.DefaultDataDir, "directory holding the template and textures")
	pf.StringVar(&configFile, "config", "", "config file path (yaml)")
	pf.StringVar(&preset, "preset", "", "use preset configuration")
	pf.Float64Var(&step, "step", config.DefaultStep, "time step")
	pf.Float64Var(&endTime, "time", config.DefaultEndTime, "end time")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run the pendulum and export every step",
		Args:  cobra.NoArgs,
		RunE:  runExample,
	}
	rootCmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "do not print the time of each step")
	runCmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "do not print the time of each step")

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "watch the pendulum swing in the terminal",
		Args:  cobra.NoArgs,
		RunE:  runLive,
	}
	liveCmd.Flags().BoolVar(&plain, "plain", false, "plain ANSI output instead of the interactive view")
	liveCmd.Flags().IntVar(&frameRate, "fps", 30, "frame rate of the plain view")

	plotCmd := &cobra.Command{
		Use:   "plot [outdir]",
		Short: "plot the recorded trajectory",
		Args:  cobra.MaximumNArgs(1),
		RunE:  plotRun,
	}

	analyzeCmd := &cobra.Command{
		Use:   "analyze [outdir]",
		Short: "swing period, spectrum and phase portrait",
		Args:  cobra.MaximumNArgs(1),
		RunE:  analyzeRun,
	}

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "presets:")
			for _, p := range config.ListPresets() {
				fmt.Fprintf(out, "  %s\n", p)
			}
			return nil
		},
	}

	configCmd := &cobra.Command{
		Use:   "config",
		Short: "manage config files",
	}
	configInitCmd := &cobra.Command{
		Use:   "init [file]",
		Short: "write the default config (or a preset) as yaml",
		Args:  cobra.ExactArgs(1),
		RunE:  initConfig,
	}
	configInitCmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")
	configCmd.AddCommand(configInitCmd)

	dataCmd := &cobra.Command{
		Use:   "data",
		Short: "manage the data directory",
	}
	dataInitCmd := &cobra.Command{
		Use:   "init [dir]",
		Short: "write the bundled template and checker texture",
		Args:  cobra.MaximumNArgs(1),
		RunE:  initData,
	}
	dataInitCmd.Flags().BoolVar(&force, "force", false, "overwrite existing files")
	dataCmd.AddCommand(dataInitCmd)

	rootCmd.AddCommand(runCmd, liveCmd, plotCmd, analyzeCmd, presetsCmd, configCmd, dataCmd)
	return rootCmd
}

// loadConfig layers the preset, then the config file, then changed flags.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if preset != "" {
		cfg = config.GetPreset(preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
	}

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("out") {
		cfg.OutputDir = outDir
	}
	if flags.Changed("data-dir") {
		cfg.DataDir = dataDir
	}
	if flags.Changed("step") {
		cfg.Step = step
	}
	if flags.Changed("time") {
		cfg.EndTime = endTime
	}
	return cfg, cfg.Validate()
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt)
}

func runExample(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	var stepOut io.Writer = out
	if quiet {
		stepOut = nil
	}

	ctx, cancel := signalContext()
	defer cancel()

	report, err := scenario.Run(ctx, cfg, scenario.RunOptions{Preset: preset, Out: stepOut})
	if errors.Is(err, dynamo.ErrOutputDir) {
		fmt.Fprintf(out, "Error creating directory %s\n", cfg.OutputDir)
		return fmt.Errorf("%w: %w", errReported, err)
	}
	if err != nil {
		return err
	}

	if !quiet {
		fmt.Fprintf(out, "steps: %d  final time: %g  frames: %d\n",
			report.Result.Steps, report.Result.FinalTime, report.Scene.Exporter.FrameCount())
		fmt.Fprintf(out, "output: %s\n", cfg.OutputDir)
	}
	return nil
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	if !plain {
		return tui.RunInteractive(cfg, preset)
	}

	ctx, cancel := signalContext()
	defer cancel()

	scene, err := scenario.Build(cfg)
	if err != nil {
		return err
	}
	renderer := tui.NewLiveRenderer(cmd.OutOrStdout(), scene.Pendulum, scene.Pivot, frameRate)
	renderer.Start()
	defer renderer.Stop()

	runner := sim.New(scene.System)
	runner.SetOutput(nil)
	runner.SetRealtime(sim.NewRealtimeTimer())
	runner.AddObserver(renderer)

	_, err = runner.Run(ctx, sim.Config{Step: cfg.Step, EndTime: cfg.EndTime})
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func loadRun(args []string) (string, *storage.RunMetadata, []storage.Sample, error) {
	dir := outDir
	if len(args) > 0 {
		dir = args[0]
	}

	st := storage.New(dir)
	meta, err := st.Load()
	if err != nil {
		return "", nil, nil, err
	}
	samples, err := st.LoadTrajectory()
	if err != nil {
		return "", nil, nil, err
	}
	if len(samples) == 0 {
		return "", nil, nil, fmt.Errorf("no data in %s", dir)
	}
	return dir, meta, samples, nil
}

func plotRun(cmd *cobra.Command, args []string) error {
	dir, meta, samples, err := loadRun(args)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "run: %s\n", dir)
	if meta.Preset != "" {
		fmt.Fprintf(out, "preset: %s\n", meta.Preset)
	}
	fmt.Fprintf(out, "steps: %d  final time: %g\n", meta.Steps, meta.FinalTime)
	fmt.Fprintf(out, "samples: %d\n\n", len(samples))

	series := []struct {
		caption string
		value   func(storage.Sample) float64
	}{
		{"x (m)", func(s storage.Sample) float64 { return s.Pos.X() }},
		{"y (m)", func(s storage.Sample) float64 { return s.Pos.Y() }},
		{"angle (rad)", func(s storage.Sample) float64 { return s.Angle }},
		{"energy (J)", func(s storage.Sample) float64 { return s.Energy }},
	}

	for _, sr := range series {
		data := make([]float64, len(samples))
		for i, s := range samples {
			data[i] = sr.value(s)
		}
		graph := asciigraph.Plot(data,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(sr.caption),
		)
		fmt.Fprintln(out, graph)
		fmt.Fprintln(out)
	}

	if len(meta.Metrics) > 0 {
		fmt.Fprintln(out, "metrics:")
		for _, name := range []string{"energy_drift", "joint_violation", "amplitude", "model_deviation"} {
			if v, ok := meta.Metrics[name]; ok {
				fmt.Fprintf(out, "  %-16s %.6g\n", name, v)
			}
		}
	}
	return nil
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	dir, meta, samples, err := loadRun(args)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "frequency analysis: %s\n\n", dir)

	angles := make([]float64, len(samples))
	for i, s := range samples {
		angles[i] = s.Angle
	}
	ps := analysis.PowerSpectrum(angles)
	plotData := ps[:max(len(ps)/4, 1)]

	graph := asciigraph.Plot(plotData,
		asciigraph.Height(15),
		asciigraph.Width(80),
		asciigraph.Caption("power spectrum (angle)"),
	)
	fmt.Fprintln(out, graph)
	fmt.Fprintln(out)

	freq := analysis.DominantFrequency(angles, meta.Step)
	fmt.Fprintf(out, "dominant frequency: %.3f hz\n", freq)
	if period := analysis.SwingPeriod(samples); period > 0 {
		fmt.Fprintf(out, "period: %.3f s\n", period)
	} else if freq > 0 {
		fmt.Fprintf(out, "period: %.3f s (spectrum)\n", 1.0/freq)
	}

	fmt.Fprintln(out, "\nphase portrait (angle, omega):")
	fmt.Fprint(out, analysis.PhasePortraitToASCII(analysis.PhasePortrait(samples), 60, 20))
	return nil
}

func checkWritable(path string) error {
	if force {
		return nil
	}
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("%s exists (use --force to overwrite)", path)
	}
	return nil
}

func initConfig(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	path := args[0]
	if err := checkWritable(path); err != nil {
		return err
	}
	if err := config.Save(path, cfg); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", path)
	return nil
}

func initData(cmd *cobra.Command, args []string) error {
	dir := dataDir
	if len(args) > 0 {
		dir = args[0]
	}

	tplPath := filepath.Join(dir, config.DefaultTemplate)
	texPath := filepath.Join(dir, config.DefaultTexture)
	for _, p := range []string{tplPath, texPath} {
		if err := checkWritable(p); err != nil {
			return err
		}
	}
	if err := storage.EnsureDir(filepath.Dir(texPath)); err != nil {
		return err
	}

	if err := os.WriteFile(tplPath, []byte(povray.DefaultTemplate), 0644); err != nil {
		return err
	}

	f, err := os.Create(texPath)
	if err != nil {
		return err
	}
	white := dynamo.Color{R: 1, G: 1, B: 1}
	grey := dynamo.Color{R: 0.55, G: 0.55, B: 0.55}
	if err := assets.WriteChecker(f, 512, 8, white, grey); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "wrote %s\n", tplPath)
	fmt.Fprintf(out, "wrote %s\n", texPath)
	return nil
}
