// Package assets holds the visual data attached to bodies and scenes:
// shapes with color and texture, cameras and lights. The physics engine never
// reads them; exporters do.
package assets

import "github.com/san-kum/povpendulum/internal/dynamo"

type Texture struct {
	File   string
	ScaleU float64
	ScaleV float64
}

// VisualShape is a box of the given full size, centered on its body.
type VisualShape struct {
	Size    dynamo.Vec3
	Color   dynamo.Color
	Texture *Texture
}

var DefaultColor = dynamo.Color{R: 0.9, G: 0.9, B: 0.9}

func NewBoxShape(x, y, z float64) *VisualShape {
	return &VisualShape{Size: dynamo.V(x, y, z), Color: DefaultColor}
}

func (v *VisualShape) SetColor(c dynamo.Color) { v.Color = c }

func (v *VisualShape) SetTexture(file string, scaleU, scaleV float64) {
	v.Texture = &Texture{File: file, ScaleU: scaleU, ScaleV: scaleV}
}

// Camera describes a viewpoint. Angle is the horizontal field of view in degrees.
type Camera struct {
	Position dynamo.Vec3
	AimPoint dynamo.Vec3
	Up       dynamo.Vec3
	Angle    float64
	Ortho    bool
}

func NewCamera() *Camera {
	return &Camera{
		Position: dynamo.V(0, 0, -1),
		Up:       dynamo.V(0, 1, 0),
		Angle:    50,
	}
}

func (c *Camera) SetPosition(p dynamo.Vec3) { c.Position = p }
func (c *Camera) SetAimPoint(p dynamo.Vec3) { c.AimPoint = p }
func (c *Camera) SetUpVector(u dynamo.Vec3) { c.Up = u }
func (c *Camera) SetAngle(deg float64)      { c.Angle = deg }

type Light struct {
	Position dynamo.Vec3
	Color    dynamo.Color
	Shadows  bool
}
