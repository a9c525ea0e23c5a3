package physics

import (
	"fmt"

	"github.com/jakecoffman/cp/v2"
	"github.com/san-kum/povpendulum/internal/dynamo"
)

// SphericalLink constrains the x, y and z translation between two anchor
// points and leaves rotation free.
type SphericalLink struct {
	body1, body2 *Body

	// anchors in body-local coordinates
	anchor1, anchor2 dynamo.Frame
	initialized      bool
	constraint       *cp.Constraint
}

func NewSphericalLink() *SphericalLink {
	return &SphericalLink{}
}

// Initialize attaches the link to two bodies. With relative unset, frame1 and
// frame2 are absolute and are converted with each body's current frame.
func (l *SphericalLink) Initialize(body1, body2 *Body, relative bool, frame1, frame2 dynamo.Frame) error {
	if body1 == nil || body2 == nil || body1 == body2 {
		return fmt.Errorf("spherical link needs two distinct bodies: %w", dynamo.ErrParameterBounds)
	}
	if l.constraint != nil {
		return dynamo.ErrDuplicate
	}

	a1, a2 := frame1, frame2
	if !relative {
		f1, f2 := body1.Frame(), body2.Frame()
		a1 = dynamo.Frame{Pos: f1.InverseTransformPoint(frame1.Pos), Rot: f1.Rot.Conjugate().Mul(frame1.Rot)}
		a2 = dynamo.Frame{Pos: f2.InverseTransformPoint(frame2.Pos), Rot: f2.Rot.Conjugate().Mul(frame2.Rot)}
	}
	if !inPlane(a1.Pos.Z()) || !inPlane(a2.Pos.Z()) {
		return fmt.Errorf("anchors %v %v: %w", a1.Pos, a2.Pos, dynamo.ErrOutOfPlane)
	}

	l.body1, l.body2 = body1, body2
	l.anchor1, l.anchor2 = a1, a2
	l.initialized = true
	return nil
}

func inPlane(z float64) bool {
	const eps = 1e-12
	return z < eps && z > -eps
}

func (l *SphericalLink) Bodies() (*Body, *Body) { return l.body1, l.body2 }

// Frames returns the anchors in body-local coordinates.
func (l *SphericalLink) Frames() (dynamo.Frame, dynamo.Frame) { return l.anchor1, l.anchor2 }

// AbsolutePoints returns the two anchors in world coordinates.
func (l *SphericalLink) AbsolutePoints() (dynamo.Vec3, dynamo.Vec3) {
	return l.body1.Frame().TransformPoint(l.anchor1.Pos), l.body2.Frame().TransformPoint(l.anchor2.Pos)
}

// Violation is the distance between the two anchors; zero when the link holds.
func (l *SphericalLink) Violation() float64 {
	if !l.initialized {
		return 0
	}
	p1, p2 := l.AbsolutePoints()
	return p1.Sub(p2).Len()
}
