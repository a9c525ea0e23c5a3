package sim

import "github.com/san-kum/povpendulum/internal/physics"

// Observer is notified after every step. A returned error stops the run.
type Observer interface {
	OnStep(sys *physics.System) error
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(sys *physics.System) error

func (f ObserverFunc) OnStep(sys *physics.System) error { return f(sys) }

type Metric interface {
	Name() string
	Observe(sys *physics.System)
	Value() float64
	Reset()
}

type Config struct {
	Step    float64
	EndTime float64
}

type Result struct {
	Steps     int
	FinalTime float64
	Metrics   map[string]float64
}
