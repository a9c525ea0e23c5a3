package sim

import "time"

// RealtimeTimer keeps a loop from running faster than wall-clock time.
// Each Spin returns no earlier than step seconds after the previous one.
type RealtimeTimer struct {
	last  time.Time
	now   func() time.Time
	sleep func(time.Duration)
}

func NewRealtimeTimer() *RealtimeTimer {
	return &RealtimeTimer{now: time.Now, sleep: time.Sleep}
}

func (t *RealtimeTimer) Spin(step float64) {
	if t.last.IsZero() {
		t.last = t.now()
	}
	target := t.last.Add(time.Duration(step * float64(time.Second)))
	if d := target.Sub(t.now()); d > 0 {
		t.sleep(d)
	}
	t.last = t.now()
}
