package analysis

import (
	"math"
	"strings"
	"testing"

	"github.com/san-kum/povpendulum/internal/storage"
)

func sineSamples(period, dt, duration float64) []storage.Sample {
	n := int(duration/dt + 0.5)
	samples := make([]storage.Sample, n)
	w := 2 * math.Pi / period
	for i := range samples {
		t := float64(i) * dt
		samples[i] = storage.Sample{Time: t, Angle: 0.3 * math.Sin(w*t+0.2), AngVel: 0.3 * w * math.Cos(w*t+0.2)}
	}
	return samples
}

func TestFFTImpulse(t *testing.T) {
	out := FFT([]float64{1, 0, 0, 0})
	for i, c := range out {
		if math.Abs(real(c)-1) > 1e-12 || math.Abs(imag(c)) > 1e-12 {
			t.Errorf("bin %d = %v, want 1", i, c)
		}
	}
}

func TestPadPow2(t *testing.T) {
	tests := []struct{ in, want int }{{1, 1}, {3, 4}, {150, 256}, {256, 256}}
	for _, tt := range tests {
		if got := len(PadPow2(make([]float64, tt.in))); got != tt.want {
			t.Errorf("PadPow2(%d) has length %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestDominantFrequency(t *testing.T) {
	samples := sineSamples(0.5, 0.01, 2.56)
	data := make([]float64, len(samples))
	for i, s := range samples {
		data[i] = s.Angle
	}

	f := DominantFrequency(data, 0.01)
	if math.Abs(f-2) > 0.1 {
		t.Errorf("dominant frequency %.3f, want about 2", f)
	}
	if DominantFrequency(data[:1], 0.01) != 0 {
		t.Error("expected 0 for a single sample")
	}
}

func TestSwingPeriod(t *testing.T) {
	p := SwingPeriod(sineSamples(0.5, 0.01, 2))
	if math.Abs(p-0.5) > 1e-3 {
		t.Errorf("period %.4f, want 0.5", p)
	}
	if SwingPeriod(sineSamples(5, 0.01, 2)) != 0 {
		t.Error("expected 0 with a single crossing")
	}
}

func TestPhasePortraitToASCII(t *testing.T) {
	out := PhasePortraitToASCII(PhasePortrait(sineSamples(1, 0.01, 1)), 40, 10)
	lines := strings.Split(strings.TrimSuffix(out, "\n"), "\n")
	if len(lines) != 10 {
		t.Fatalf("expected 10 lines, got %d", len(lines))
	}
	if !strings.Contains(out, "•") || !strings.Contains(out, "│") || !strings.Contains(out, "─") {
		t.Errorf("portrait missing points or axes:\n%s", out)
	}
	if PhasePortraitToASCII(nil, 10, 10) != "" {
		t.Error("expected empty output for nil portrait")
	}
}
