package dynamo

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

type Vec3 = mgl64.Vec3

type Quat = mgl64.Quat

// Gravity is the default gravitational acceleration, pointing down -Y.
var Gravity = Vec3{0, -9.81, 0}

func V(x, y, z float64) Vec3 { return Vec3{x, y, z} }

// QuatZ returns the rotation of angle radians about +Z.
func QuatZ(angle float64) Quat {
	return mgl64.QuatRotate(angle, Vec3{0, 0, 1})
}

// AngleZ recovers the rotation angle about +Z from a quaternion produced by QuatZ.
func AngleZ(q Quat) float64 {
	return 2 * math.Atan2(q.V.Z(), q.W)
}

func IsFinite(v Vec3) bool {
	for _, c := range v {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return false
		}
	}
	return true
}

type Color struct {
	R, G, B float32
}

func (c Color) String() string {
	return fmt.Sprintf("rgb<%g,%g,%g>", c.R, c.G, c.B)
}

// Frame is a coordinate system: an origin and an orientation.
type Frame struct {
	Pos Vec3
	Rot Quat
}

func NewFrame(pos Vec3) Frame {
	return Frame{Pos: pos, Rot: mgl64.QuatIdent()}
}

// TransformPoint maps a point from frame-local to parent coordinates.
func (f Frame) TransformPoint(local Vec3) Vec3 {
	return f.Pos.Add(f.Rot.Rotate(local))
}

// InverseTransformPoint maps a point from parent to frame-local coordinates.
func (f Frame) InverseTransformPoint(p Vec3) Vec3 {
	return f.Rot.Conjugate().Rotate(p.Sub(f.Pos))
}

// State is a flat vector of generalized coordinates, as used by reference models.
type State []float64

func (s State) Clone() State {
	c := make(State, len(s))
	copy(c, s)
	return c
}

func (s State) IsValid() bool {
	for _, v := range s {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// System is an ODE x' = f(x, t).
type System interface {
	Derive(x State, t float64) State
	StateDim() int
}

type Integrator interface {
	Step(dyn System, x State, t float64, dt float64) State
}
