package metrics

import (
	"math"

	"github.com/san-kum/povpendulum/internal/dynamo"
	"github.com/san-kum/povpendulum/internal/integrators"
	"github.com/san-kum/povpendulum/internal/physics"
)

// ModelDeviation integrates the compound pendulum model next to the engine
// and records the largest angle difference between the two.
type ModelDeviation struct {
	body  *physics.Body
	pivot dynamo.Vec3
	step  float64
	model *physics.CompoundPendulum
	integ *integrators.RK4

	x0    dynamo.State
	t0    float64
	x     dynamo.State
	t     float64
	worst float64
}

// NewModelDeviation captures the initial state, so create it before the first step.
func NewModelDeviation(sys *physics.System, body *physics.Body, pivot dynamo.Vec3, step float64) *ModelDeviation {
	model := physics.NewCompoundPendulum(body, pivot, sys.Gravity().Len())
	x0 := model.InitialState(body, pivot)
	return &ModelDeviation{
		body:  body,
		pivot: pivot,
		step:  step,
		model: model,
		integ: integrators.NewRK4(),
		x0:    x0,
		t0:    sys.Time(),
		x:     x0.Clone(),
		t:     sys.Time(),
	}
}

func (m *ModelDeviation) Name() string { return "model_deviation" }

func (m *ModelDeviation) Observe(sys *physics.System) {
	for m.t+m.step*0.5 < sys.Time() {
		m.x = m.integ.Step(m.model, m.x, m.t, m.step)
		m.t += m.step
	}
	if !m.x.IsValid() {
		m.worst = math.Inf(1)
		return
	}
	diff := math.Abs(physics.Angle(m.body, m.pivot) - m.x[0])
	if diff > m.worst {
		m.worst = diff
	}
}

func (m *ModelDeviation) Value() float64 { return m.worst }

// Model is the current reference state {theta, omega}.
func (m *ModelDeviation) Model() dynamo.State { return m.x }

func (m *ModelDeviation) Reset() {
	m.x = m.x0.Clone()
	m.t = m.t0
	m.worst = 0
}
