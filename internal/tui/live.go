package tui

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/san-kum/povpendulum/internal/dynamo"
	"github.com/san-kum/povpendulum/internal/physics"
)

const (
	width       = 70
	height      = 20
	clearScreen = "\033[2J\033[H"
	hideCursor  = "\033[?25l"
	showCursor  = "\033[?25h"
)

// LiveRenderer redraws the scene with plain ANSI escapes, for terminals
// where the interactive program is not wanted.
type LiveRenderer struct {
	out       io.Writer
	body      *physics.Body
	pivot     dynamo.Vec3
	frameRate int
	lastFrame time.Time
	canvas    *Canvas
	trail     []dynamo.Vec3
}

func NewLiveRenderer(out io.Writer, body *physics.Body, pivot dynamo.Vec3, frameRate int) *LiveRenderer {
	return &LiveRenderer{
		out:       out,
		body:      body,
		pivot:     pivot,
		frameRate: frameRate,
		canvas:    NewCanvas(width, height, dynamo.V(0, 1.5, 0), 8),
		trail:     make([]dynamo.Vec3, 0, 40),
	}
}

func (r *LiveRenderer) OnStep(sys *physics.System) error {
	r.trail = append(r.trail, r.bob())
	if len(r.trail) > 40 {
		r.trail = r.trail[1:]
	}

	if r.frameRate > 0 && time.Since(r.lastFrame) < time.Second/time.Duration(r.frameRate) {
		return nil
	}
	r.lastFrame = time.Now()

	r.canvas.Clear()
	DrawScene(r.canvas, sys, r.pivot, r.trail)
	_, err := io.WriteString(r.out, r.render(sys))
	return err
}

// bob is the far end of the pendulum, opposite the pivot.
func (r *LiveRenderer) bob() dynamo.Vec3 {
	pos := r.body.Pos()
	return pos.Mul(2).Sub(r.pivot)
}

func (r *LiveRenderer) render(sys *physics.System) string {
	var b strings.Builder
	b.WriteString(clearScreen)
	b.WriteString(fmt.Sprintf("  pendulum  t=%.2fs\n", sys.Time()))
	b.WriteString("  " + strings.Repeat("-", width) + "\n")

	for _, row := range r.canvas.Rows() {
		b.WriteString("  ")
		b.WriteString(row)
		b.WriteString("\n")
	}

	b.WriteString("  " + strings.Repeat("-", width) + "\n")
	b.WriteString(fmt.Sprintf("  angle=%.3f omega=%.3f E=%.1f\n",
		physics.Angle(r.body, r.pivot), r.body.AngVel(), sys.Energy()))
	return b.String()
}

func (r *LiveRenderer) Start() { fmt.Fprint(r.out, hideCursor) }
func (r *LiveRenderer) Stop()  { fmt.Fprint(r.out, showCursor) }
