package tui

import (
	"strings"

	"github.com/san-kum/povpendulum/internal/dynamo"
	"github.com/san-kum/povpendulum/internal/physics"
)

// Canvas is a character grid over a window of the XY plane. A cell is
// twice as tall as it is wide, so x is scaled by 2.
type Canvas struct {
	w, h  int
	grid  [][]rune
	cx    float64
	cy    float64
	scale float64
}

// NewCanvas centers the view on center and fits span world units vertically.
func NewCanvas(w, h int, center dynamo.Vec3, span float64) *Canvas {
	grid := make([][]rune, h)
	for i := range grid {
		grid[i] = make([]rune, w)
	}
	c := &Canvas{w: w, h: h, grid: grid, cx: center.X(), cy: center.Y(), scale: float64(h) / span}
	c.Clear()
	return c
}

func (c *Canvas) Clear() {
	for y := range c.grid {
		for x := range c.grid[y] {
			c.grid[y][x] = ' '
		}
	}
}

// Cell maps a world point to a column and row.
func (c *Canvas) Cell(p dynamo.Vec3) (int, int) {
	col := float64(c.w)/2 + (p.X()-c.cx)*c.scale*2
	row := float64(c.h)/2 - (p.Y()-c.cy)*c.scale
	return int(col + 0.5), int(row + 0.5)
}

func (c *Canvas) Set(x, y int, r rune) {
	if x >= 0 && x < c.w && y >= 0 && y < c.h {
		c.grid[y][x] = r
	}
}

func (c *Canvas) Plot(p dynamo.Vec3, r rune) {
	x, y := c.Cell(p)
	c.Set(x, y, r)
}

func (c *Canvas) Line(a, b dynamo.Vec3, r rune) {
	x1, y1 := c.Cell(a)
	x2, y2 := c.Cell(b)
	dx := intAbs(x2 - x1)
	dy := intAbs(y2 - y1)
	sx, sy := 1, 1
	if x1 > x2 {
		sx = -1
	}
	if y1 > y2 {
		sy = -1
	}
	err := dx - dy
	for {
		c.Set(x1, y1, r)
		if x1 == x2 && y1 == y2 {
			break
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x1 += sx
		}
		if e2 < dx {
			err += dx
			y1 += sy
		}
	}
}

// Rows returns the grid as lines.
func (c *Canvas) Rows() []string {
	rows := make([]string, len(c.grid))
	for i, row := range c.grid {
		rows[i] = string(row)
	}
	return rows
}

func (c *Canvas) String() string { return strings.Join(c.Rows(), "\n") }

// DrawScene draws fixed bodies by their top face and movable bodies as
// outlines, then the trail and the pivot.
func DrawScene(c *Canvas, sys *physics.System, pivot dynamo.Vec3, trail []dynamo.Vec3) {
	for i, p := range trail {
		if i < len(trail)/2 {
			c.Plot(p, '.')
		} else {
			c.Plot(p, 'o')
		}
	}

	for _, b := range sys.Bodies() {
		hx, hy := b.Size().X()/2, b.Size().Y()/2
		if b.Fixed() {
			pos := b.Pos()
			c.Line(dynamo.V(pos.X()-hx, pos.Y()+hy, 0), dynamo.V(pos.X()+hx, pos.Y()+hy, 0), '=')
			continue
		}
		f := b.Frame()
		corners := []dynamo.Vec3{
			f.TransformPoint(dynamo.V(-hx, -hy, 0)),
			f.TransformPoint(dynamo.V(hx, -hy, 0)),
			f.TransformPoint(dynamo.V(hx, hy, 0)),
			f.TransformPoint(dynamo.V(-hx, hy, 0)),
		}
		for i := range corners {
			c.Line(corners[i], corners[(i+1)%len(corners)], '#')
		}
	}

	c.Plot(pivot, '+')
}

func intAbs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
