package metrics

import (
	"github.com/san-kum/povpendulum/internal/dynamo"
	"github.com/san-kum/povpendulum/internal/physics"
	"github.com/san-kum/povpendulum/internal/storage"
)

// Trajectory records one body's state after every step.
type Trajectory struct {
	body    *physics.Body
	pivot   dynamo.Vec3
	samples []storage.Sample
}

func NewTrajectory(body *physics.Body, pivot dynamo.Vec3) *Trajectory {
	return &Trajectory{body: body, pivot: pivot}
}

// Record appends the current state. Call it once before the run for the initial sample.
func (t *Trajectory) Record(sys *physics.System) {
	violation := 0.0
	for _, l := range sys.Links() {
		if b1, b2 := l.Bodies(); b1 == t.body || b2 == t.body {
			violation = l.Violation()
		}
	}
	t.samples = append(t.samples, storage.Sample{
		Time:      sys.Time(),
		Pos:       t.body.Pos(),
		Vel:       t.body.LinVel(),
		Angle:     physics.Angle(t.body, t.pivot),
		AngVel:    t.body.AngVel(),
		Energy:    sys.Energy(),
		Violation: violation,
	})
}

func (t *Trajectory) OnStep(sys *physics.System) error {
	t.Record(sys)
	return nil
}

func (t *Trajectory) Samples() []storage.Sample { return t.samples }
