package physics

import (
	"fmt"

	"github.com/jakecoffman/cp/v2"
	"github.com/san-kum/povpendulum/internal/assets"
	"github.com/san-kum/povpendulum/internal/dynamo"
)

// Body is a box-shaped rigid body. Until it is added to a System its state is
// staged locally; afterwards reads and writes go to the engine.
type Body struct {
	id      int
	size    dynamo.Vec3
	density float64
	mass    float64
	inertia float64
	fixed   bool
	collide bool

	pos    dynamo.Vec3
	angle  float64
	linVel dynamo.Vec3
	angVel float64

	visuals []*assets.VisualShape

	sys   *System
	body  *cp.Body
	shape *cp.Shape
}

// NewBoxBody creates a box of full extents x, y, z with uniform density.
// When visual is set the body carries a matching box visual shape.
func NewBoxBody(x, y, z, density float64, visual, collide bool) (*Body, error) {
	if x <= 0 || y <= 0 || z <= 0 || density <= 0 {
		return nil, fmt.Errorf("box %gx%gx%g density %g: %w", x, y, z, density, dynamo.ErrParameterBounds)
	}
	mass := density * x * y * z
	b := &Body{
		id:      -1,
		size:    dynamo.V(x, y, z),
		density: density,
		mass:    mass,
		inertia: cp.MomentForBox(mass, x, y),
		collide: collide,
	}
	if visual {
		b.visuals = append(b.visuals, assets.NewBoxShape(x, y, z))
	}
	return b, nil
}

// ID is the insertion index in the owning system, or -1.
func (b *Body) ID() int           { return b.id }
func (b *Body) Size() dynamo.Vec3 { return b.size }
func (b *Body) Mass() float64     { return b.mass }
func (b *Body) Inertia() float64  { return b.inertia }
func (b *Body) Collide() bool     { return b.collide }
func (b *Body) Fixed() bool       { return b.fixed }

func (b *Body) VisualShapes() []*assets.VisualShape { return b.visuals }

// VisualShape returns the i-th visual shape or nil.
func (b *Body) VisualShape(i int) *assets.VisualShape {
	if i < 0 || i >= len(b.visuals) {
		return nil
	}
	return b.visuals[i]
}

func (b *Body) SetPos(p dynamo.Vec3) error {
	if b.body == nil {
		b.pos = p
		return nil
	}
	if p.Z() != b.pos.Z() {
		return fmt.Errorf("body %d z=%g -> %g: %w", b.id, b.pos.Z(), p.Z(), dynamo.ErrOutOfPlane)
	}
	b.body.SetPosition(cp.Vector{X: p.X(), Y: p.Y()})
	return nil
}

func (b *Body) Pos() dynamo.Vec3 {
	if b.body == nil {
		return b.pos
	}
	p := b.body.Position()
	return dynamo.V(p.X, p.Y, b.pos.Z())
}

func (b *Body) SetLinVel(v dynamo.Vec3) error {
	if v.Z() != 0 {
		return fmt.Errorf("velocity %v: %w", v, dynamo.ErrOutOfPlane)
	}
	if b.body == nil {
		b.linVel = v
		return nil
	}
	if !b.fixed {
		b.body.SetVelocityVector(cp.Vector{X: v.X(), Y: v.Y()})
	}
	return nil
}

func (b *Body) LinVel() dynamo.Vec3 {
	if b.body == nil {
		return b.linVel
	}
	v := b.body.Velocity()
	return dynamo.V(v.X, v.Y, 0)
}

// SetAngle sets the rotation about +Z in radians.
func (b *Body) SetAngle(a float64) {
	if b.body == nil {
		b.angle = a
		return
	}
	b.body.SetAngle(a)
}

func (b *Body) Angle() float64 {
	if b.body == nil {
		return b.angle
	}
	return b.body.Angle()
}

func (b *Body) Rot() dynamo.Quat { return dynamo.QuatZ(b.Angle()) }

func (b *Body) Frame() dynamo.Frame {
	return dynamo.Frame{Pos: b.Pos(), Rot: b.Rot()}
}

// AngVel is the angular velocity about +Z.
func (b *Body) AngVel() float64 {
	if b.body == nil {
		return b.angVel
	}
	return b.body.AngularVelocity()
}

func (b *Body) SetAngVel(w float64) {
	if b.body == nil {
		b.angVel = w
		return
	}
	if !b.fixed {
		b.body.SetAngularVelocity(w)
	}
}

// SetFixed pins the body in place. A fixed body has no velocity.
func (b *Body) SetFixed(fixed bool) {
	if b.fixed == fixed {
		return
	}
	b.fixed = fixed
	if b.body == nil {
		return
	}
	if fixed {
		b.body.SetType(cp.BODY_STATIC)
		return
	}
	b.body.SetType(cp.BODY_DYNAMIC)
	b.body.SetMass(b.mass)
	b.body.SetMoment(b.inertia)
}

func (b *Body) KineticEnergy() float64 {
	if b.fixed {
		return 0
	}
	v := b.LinVel()
	w := b.AngVel()
	return 0.5*b.mass*v.Dot(v) + 0.5*b.inertia*w*w
}
