package integrators

import (
	"math"
	"testing"

	"github.com/san-kum/povpendulum/internal/dynamo"
)

type oscillator struct{}

func (oscillator) Derive(x dynamo.State, t float64) dynamo.State {
	return dynamo.State{x[1], -x[0]}
}

func (oscillator) StateDim() int { return 2 }

func TestRK4Accuracy(t *testing.T) {
	integ := NewRK4()
	dt := 0.01
	steps := 100

	x := Integrate(integ, oscillator{}, dynamo.State{1.0, 0.0}, 0, dt, steps)

	expectedX := math.Cos(float64(steps) * dt)
	expectedV := -math.Sin(float64(steps) * dt)

	if math.Abs(x[0]-expectedX) > 1e-8 {
		t.Errorf("position error too large: got %.10f, expected %.10f", x[0], expectedX)
	}
	if math.Abs(x[1]-expectedV) > 1e-8 {
		t.Errorf("velocity error too large: got %.10f, expected %.10f", x[1], expectedV)
	}
}

func TestRK4DoesNotMutateInput(t *testing.T) {
	integ := NewRK4()
	x0 := dynamo.State{1.0, 0.0}
	integ.Step(oscillator{}, x0, 0, 0.1)
	if x0[0] != 1.0 || x0[1] != 0.0 {
		t.Errorf("input state mutated: %v", x0)
	}
}
