package storage

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/san-kum/povpendulum/internal/dynamo"
)

func TestEnsureDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out", "POVRAY_1")
	if err := EnsureDir(dir); err != nil {
		t.Fatalf("ensure failed: %v", err)
	}
	if err := EnsureDir(dir); err != nil {
		t.Errorf("existing directory rejected: %v", err)
	}
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		t.Errorf("directory not created: %v", err)
	}
}

func TestEnsureDirFailure(t *testing.T) {
	file := filepath.Join(t.TempDir(), "occupied")
	if err := os.WriteFile(file, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	err := EnsureDir(filepath.Join(file, "POVRAY_1"))
	if !errors.Is(err, dynamo.ErrOutputDir) {
		t.Errorf("expected ErrOutputDir, got %v", err)
	}
}

func TestStoreSaveLoad(t *testing.T) {
	st := New(filepath.Join(t.TempDir(), "run"))

	meta := RunMetadata{
		Preset:    "template",
		Timestamp: time.Now(),
		Step:      0.01,
		EndTime:   1.5,
		Steps:     150,
		FinalTime: 1.5,
		Frames:    150,
		Collision: "bullet",
		Metrics:   map[string]float64{"energy_drift": 0.01},
	}
	samples := []Sample{
		{Time: 0, Pos: dynamo.V(0, 3, 0), Vel: dynamo.V(1, 0, 0)},
		{Time: 0.01, Pos: dynamo.V(0.0074, 3.00003, 0), Vel: dynamo.V(0.738, 0.004, 0), Angle: 0.0074, AngVel: 0.738, Energy: 44500.5, Violation: 1e-6},
	}

	if err := st.Save(meta, samples); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	loaded, err := st.Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if loaded.Steps != 150 || loaded.Preset != "template" {
		t.Errorf("unexpected metadata %+v", loaded)
	}
	if loaded.Metrics["energy_drift"] != 0.01 {
		t.Errorf("expected energy_drift 0.01, got %f", loaded.Metrics["energy_drift"])
	}

	got, err := st.LoadTrajectory()
	if err != nil {
		t.Fatalf("load trajectory failed: %v", err)
	}
	if len(got) != len(samples) {
		t.Fatalf("expected %d samples, got %d", len(samples), len(got))
	}
	for i := range samples {
		if got[i] != samples[i] {
			t.Errorf("sample %d: got %+v, want %+v", i, got[i], samples[i])
		}
	}
}

func TestLoadTrajectoryMissing(t *testing.T) {
	st := New(t.TempDir())
	if _, err := st.LoadTrajectory(); err == nil {
		t.Error("expected error for missing trajectory")
	}
}

func TestLoadTrajectoryMalformed(t *testing.T) {
	dir := t.TempDir()
	data := "time,x\n0.1,abc\n"
	if err := os.WriteFile(filepath.Join(dir, TrajectoryFile), []byte(data), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := New(dir).LoadTrajectory(); err == nil {
		t.Error("expected error for malformed trajectory")
	}
}
