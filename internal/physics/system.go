package physics

import (
	"fmt"
	"math"

	"github.com/jakecoffman/cp/v2"
	"github.com/san-kum/povpendulum/internal/dynamo"
)

type CollisionSystemType int

const (
	CollisionNone CollisionSystemType = iota
	CollisionBullet
)

func (c CollisionSystemType) String() string {
	switch c {
	case CollisionBullet:
		return "bullet"
	default:
		return "none"
	}
}

// ParseCollisionSystem maps a config name to a collision system type.
func ParseCollisionSystem(name string) (CollisionSystemType, error) {
	switch name {
	case "", "none":
		return CollisionNone, nil
	case "bullet":
		return CollisionBullet, nil
	}
	return CollisionNone, fmt.Errorf("unknown collision system %q: %w", name, dynamo.ErrParameterBounds)
}

const DefaultIterations = 20

// System owns a set of bodies and links and advances them in time.
// All motion happens in the XY plane.
type System struct {
	space     *cp.Space
	bodies    []*Body
	links     []*SphericalLink
	gravity   dynamo.Vec3
	collision CollisionSystemType
	time      float64
	steps     int
}

func NewSystem() *System {
	space := cp.NewSpace()
	space.Iterations = DefaultIterations
	s := &System{space: space}
	s.SetGravity(dynamo.Gravity)
	return s
}

func (s *System) SetGravity(g dynamo.Vec3) error {
	if g.Z() != 0 {
		return fmt.Errorf("gravity %v: %w", g, dynamo.ErrOutOfPlane)
	}
	s.gravity = g
	s.space.SetGravity(cp.Vector{X: g.X(), Y: g.Y()})
	return nil
}

func (s *System) Gravity() dynamo.Vec3 { return s.gravity }

func (s *System) SetSolverIterations(n int) error {
	if n <= 0 {
		return fmt.Errorf("solver iterations %d: %w", n, dynamo.ErrParameterBounds)
	}
	s.space.Iterations = uint(n)
	return nil
}

func (s *System) SetCollisionSystemType(c CollisionSystemType) { s.collision = c }
func (s *System) CollisionSystemType() CollisionSystemType     { return s.collision }

func (s *System) Time() float64  { return s.time }
func (s *System) StepCount() int { return s.steps }

func (s *System) Bodies() []*Body {
	out := make([]*Body, len(s.bodies))
	copy(out, s.bodies)
	return out
}

func (s *System) Links() []*SphericalLink {
	out := make([]*SphericalLink, len(s.links))
	copy(out, s.links)
	return out
}

// Add inserts a *Body or an initialized *SphericalLink.
func (s *System) Add(item any) error {
	switch it := item.(type) {
	case *Body:
		return s.addBody(it)
	case *SphericalLink:
		return s.addLink(it)
	default:
		return fmt.Errorf("cannot add %T to system", item)
	}
}

func (s *System) addBody(b *Body) error {
	if b.sys != nil {
		return fmt.Errorf("body %d: %w", b.id, dynamo.ErrDuplicate)
	}

	var body *cp.Body
	if b.fixed {
		body = cp.NewStaticBody()
	} else {
		body = cp.NewBody(b.mass, b.inertia)
	}
	body.SetPosition(cp.Vector{X: b.pos.X(), Y: b.pos.Y()})
	body.SetAngle(b.angle)
	if !b.fixed {
		body.SetVelocityVector(cp.Vector{X: b.linVel.X(), Y: b.linVel.Y()})
		body.SetAngularVelocity(b.angVel)
	}
	s.space.AddBody(body)

	shape := cp.NewBox(body, b.size.X(), b.size.Y(), 0)
	if !b.collide || s.collision == CollisionNone {
		shape.SetFilter(cp.SHAPE_FILTER_NONE)
	}
	s.space.AddShape(shape)

	b.id = len(s.bodies)
	b.body = body
	b.shape = shape
	b.sys = s
	s.bodies = append(s.bodies, b)
	return nil
}

func (s *System) addLink(l *SphericalLink) error {
	if !l.initialized {
		return dynamo.ErrLinkNotInitialized
	}
	if l.constraint != nil {
		return dynamo.ErrDuplicate
	}
	for _, b := range []*Body{l.body1, l.body2} {
		if b.sys != s {
			return fmt.Errorf("link %d: %w", len(s.links), dynamo.ErrBodyNotAdded)
		}
	}

	a1, a2 := l.anchor1.Pos, l.anchor2.Pos
	l.constraint = cp.NewPivotJoint2(l.body1.body, l.body2.body,
		cp.Vector{X: a1.X(), Y: a1.Y()},
		cp.Vector{X: a2.X(), Y: a2.Y()})
	s.space.AddConstraint(l.constraint)
	s.links = append(s.links, l)
	return nil
}

// DoStepDynamics advances the system by dt.
func (s *System) DoStepDynamics(dt float64) error {
	if !(dt > 0) || math.IsInf(dt, 0) {
		return fmt.Errorf("dt=%g: %w", dt, dynamo.ErrInvalidStep)
	}

	s.space.Step(dt)
	s.time += dt
	s.steps++

	for _, b := range s.bodies {
		if !dynamo.IsFinite(b.Pos()) || !dynamo.IsFinite(b.LinVel()) {
			return &dynamo.SimulationError{Step: s.steps, Time: s.time, Wrapped: dynamo.ErrInvalidState}
		}
	}
	return nil
}

// Energy is the total kinetic plus gravitational potential energy of the movable bodies.
func (s *System) Energy() float64 {
	total := 0.0
	for _, b := range s.bodies {
		if b.Fixed() {
			continue
		}
		total += b.KineticEnergy() - b.Mass()*s.gravity.Dot(b.Pos())
	}
	return total
}
