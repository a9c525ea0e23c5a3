package scenario

import (
	"context"
	"io"
	"path/filepath"
	"time"

	"github.com/san-kum/povpendulum/internal/config"
	"github.com/san-kum/povpendulum/internal/export"
	"github.com/san-kum/povpendulum/internal/metrics"
	"github.com/san-kum/povpendulum/internal/sim"
	"github.com/san-kum/povpendulum/internal/storage"
)

type RunOptions struct {
	Preset string

	// Out receives the per-step time lines. nil silences them.
	Out io.Writer

	// NoExport skips every POV-Ray file and the stored run.
	NoExport  bool
	Realtime  bool
	Observers []sim.Observer
}

type Report struct {
	Scene   *Scene
	Result  *sim.Result
	Samples []storage.Sample
}

// Run creates the output directory, builds the scene and steps it to the
// configured end time, exporting one frame per step. A directory failure
// returns before the first step.
func Run(ctx context.Context, cfg *config.Config, opts RunOptions) (*Report, error) {
	if !opts.NoExport {
		if err := storage.EnsureDir(cfg.OutputDir); err != nil {
			return nil, err
		}
	}

	scene, err := Build(cfg)
	if err != nil {
		return nil, err
	}
	if !opts.NoExport {
		if err := scene.Exporter.ExportScript(); err != nil {
			return nil, err
		}
	}

	runner := sim.New(scene.System)
	runner.SetOutput(opts.Out)
	if opts.Realtime {
		runner.SetRealtime(sim.NewRealtimeTimer())
	}

	runner.AddMetric(metrics.NewEnergyDrift())
	runner.AddMetric(metrics.NewJointViolation())
	runner.AddMetric(metrics.NewAmplitude(scene.Pendulum, scene.Pivot))
	runner.AddMetric(metrics.NewModelDeviation(scene.System, scene.Pendulum, scene.Pivot, cfg.Step))

	traj := metrics.NewTrajectory(scene.Pendulum, scene.Pivot)
	traj.Record(scene.System)

	if !opts.NoExport {
		runner.AddObserver(scene.Exporter)
	}
	runner.AddObserver(traj)
	for _, obs := range opts.Observers {
		runner.AddObserver(obs)
	}

	result, runErr := runner.Run(ctx, sim.Config{Step: cfg.Step, EndTime: cfg.EndTime})
	report := &Report{Scene: scene, Result: result, Samples: traj.Samples()}
	if opts.NoExport {
		return report, runErr
	}

	if err := scene.Exporter.Finish(); err != nil && runErr == nil {
		runErr = err
	}

	meta := storage.RunMetadata{
		Preset:    opts.Preset,
		Timestamp: time.Now(),
		Step:      cfg.Step,
		EndTime:   cfg.EndTime,
		Frames:    scene.Exporter.FrameCount(),
		Collision: scene.System.CollisionSystemType().String(),
	}
	if result != nil {
		meta.Steps = result.Steps
		meta.FinalTime = result.FinalTime
		meta.Metrics = result.Metrics
	}
	store := storage.New(cfg.OutputDir)
	if err := store.Save(meta, report.Samples); err != nil && runErr == nil {
		runErr = err
	}
	svgPath := filepath.Join(cfg.OutputDir, export.TrajectorySVGFile)
	if err := export.WriteTrajectorySVG(svgPath, report.Samples, scene.Pivot); err != nil && runErr == nil {
		runErr = err
	}

	return report, runErr
}
