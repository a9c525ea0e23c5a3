package sim

import (
	"context"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/san-kum/povpendulum/internal/dynamo"
	"github.com/san-kum/povpendulum/internal/physics"
)

// Runner drives a system with a fixed step until the end time is reached.
type Runner struct {
	sys       *physics.System
	observers []Observer
	metrics   []Metric
	out       io.Writer
	timer     *RealtimeTimer
}

func New(sys *physics.System) *Runner {
	return &Runner{
		sys:       sys,
		observers: make([]Observer, 0),
		metrics:   make([]Metric, 0),
		out:       os.Stdout,
	}
}

func (r *Runner) AddMetric(m Metric)     { r.metrics = append(r.metrics, m) }
func (r *Runner) AddObserver(o Observer) { r.observers = append(r.observers, o) }

// SetOutput sets where the per-step time lines go. nil silences them.
func (r *Runner) SetOutput(w io.Writer) {
	if w == nil {
		w = io.Discard
	}
	r.out = w
}

// SetRealtime paces the loop so simulated time does not run ahead of wall time.
func (r *Runner) SetRealtime(t *RealtimeTimer) { r.timer = t }

const stepTolerance = 1e-9

// StepCount is the number of fixed steps needed to reach duration from zero.
func StepCount(duration, dt float64) int {
	if dt <= 0 || duration <= 0 {
		return 0
	}
	return int(math.Ceil(duration/dt - stepTolerance))
}

func (r *Runner) validateConfig(cfg Config) error {
	if !(cfg.Step > 0) || math.IsInf(cfg.Step, 0) {
		return fmt.Errorf("step must be positive, got %f: %w", cfg.Step, dynamo.ErrInvalidStep)
	}
	if !(cfg.EndTime > 0) || math.IsInf(cfg.EndTime, 0) {
		return fmt.Errorf("end time must be positive, got %f: %w", cfg.EndTime, dynamo.ErrParameterBounds)
	}
	return nil
}

func (r *Runner) Run(ctx context.Context, cfg Config) (*Result, error) {
	if err := r.validateConfig(cfg); err != nil {
		return nil, err
	}

	result := &Result{Metrics: make(map[string]float64)}
	for _, m := range r.metrics {
		m.Reset()
	}

	// accumulated step round-off must not cost an extra step
	end := cfg.EndTime - cfg.Step*stepTolerance
	for r.sys.Time() < end {
		select {
		case <-ctx.Done():
			r.finish(result)
			return result, ctx.Err()
		default:
		}

		if err := r.sys.DoStepDynamics(cfg.Step); err != nil {
			r.finish(result)
			return result, err
		}
		result.Steps++

		fmt.Fprintf(r.out, "time= %g\n", r.sys.Time())

		for _, m := range r.metrics {
			m.Observe(r.sys)
		}
		for _, obs := range r.observers {
			if err := obs.OnStep(r.sys); err != nil {
				r.finish(result)
				return result, &dynamo.SimulationError{Step: result.Steps, Time: r.sys.Time(), Wrapped: err}
			}
		}

		if r.timer != nil {
			r.timer.Spin(cfg.Step)
		}
	}

	r.finish(result)
	return result, nil
}

func (r *Runner) finish(result *Result) {
	result.FinalTime = r.sys.Time()
	for _, m := range r.metrics {
		result.Metrics[m.Name()] = m.Value()
	}
}
