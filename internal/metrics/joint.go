package metrics

import (
	"math"

	"github.com/san-kum/povpendulum/internal/dynamo"
	"github.com/san-kum/povpendulum/internal/physics"
)

// JointViolation is the largest anchor separation seen on any link.
type JointViolation struct {
	worst float64
}

func NewJointViolation() *JointViolation { return &JointViolation{} }

func (j *JointViolation) Name() string { return "joint_violation" }

func (j *JointViolation) Observe(sys *physics.System) {
	for _, l := range sys.Links() {
		j.worst = math.Max(j.worst, l.Violation())
	}
}

func (j *JointViolation) Value() float64 { return j.worst }
func (j *JointViolation) Reset()         { j.worst = 0 }

// Amplitude is the largest swing angle of a body about a pivot, in radians.
type Amplitude struct {
	body  *physics.Body
	pivot dynamo.Vec3
	max   float64
}

func NewAmplitude(body *physics.Body, pivot dynamo.Vec3) *Amplitude {
	return &Amplitude{body: body, pivot: pivot}
}

func (a *Amplitude) Name() string { return "amplitude" }

func (a *Amplitude) Observe(sys *physics.System) {
	a.max = math.Max(a.max, math.Abs(physics.Angle(a.body, a.pivot)))
}

func (a *Amplitude) Value() float64 { return a.max }
func (a *Amplitude) Reset()         { a.max = 0 }
