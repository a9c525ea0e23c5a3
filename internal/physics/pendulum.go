package physics

import (
	"math"

	"github.com/san-kum/povpendulum/internal/dynamo"
)

// CompoundPendulum is the closed-form model of a rigid body swinging in the XY
// plane about a fixed pivot. State is {theta, omega}, theta measured from the
// hanging direction (-Y) counterclockwise.
type CompoundPendulum struct {
	Mass         float64
	PivotInertia float64
	Distance     float64
	Gravity      float64
	Damping      float64
}

// NewCompoundPendulum derives the model from a body hinged at pivot.
func NewCompoundPendulum(b *Body, pivot dynamo.Vec3, gravity float64) *CompoundPendulum {
	d := b.Pos().Sub(pivot).Len()
	return &CompoundPendulum{
		Mass:         b.Mass(),
		PivotInertia: b.Inertia() + b.Mass()*d*d,
		Distance:     d,
		Gravity:      gravity,
	}
}

func (p *CompoundPendulum) StateDim() int { return 2 }

func (p *CompoundPendulum) Derive(x dynamo.State, t float64) dynamo.State {
	theta, omega := x[0], x[1]
	alpha := (-p.Damping*omega - p.Mass*p.Gravity*p.Distance*math.Sin(theta)) / p.PivotInertia
	return dynamo.State{omega, alpha}
}

func (p *CompoundPendulum) Energy(x dynamo.State) float64 {
	ke := 0.5 * p.PivotInertia * x[1] * x[1]
	pe := p.Mass * p.Gravity * p.Distance * (1.0 - math.Cos(x[0]))
	return ke + pe
}

// InitialState is the state right after the joint engages: angle from the body
// position, and the angular velocity that conserves angular momentum about the
// pivot.
func (p *CompoundPendulum) InitialState(b *Body, pivot dynamo.Vec3) dynamo.State {
	r := b.Pos().Sub(pivot)
	v := b.LinVel()
	theta := math.Atan2(r.X(), -r.Y())
	momentum := b.Mass()*(r.X()*v.Y()-r.Y()*v.X()) + b.Inertia()*b.AngVel()
	return dynamo.State{theta, momentum / p.PivotInertia}
}

// Angle returns the swing angle of a body about pivot, in the same convention as the state.
func Angle(b *Body, pivot dynamo.Vec3) float64 {
	r := b.Pos().Sub(pivot)
	return math.Atan2(r.X(), -r.Y())
}
