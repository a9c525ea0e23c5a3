package config

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/san-kum/povpendulum/internal/dynamo"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Step != 0.01 {
		t.Errorf("expected step 0.01, got %f", cfg.Step)
	}
	if cfg.EndTime != 1.5 {
		t.Errorf("expected end time 1.5, got %f", cfg.EndTime)
	}
	if cfg.Pendulum.Pos != dynamo.V(0, 3, 0) {
		t.Errorf("pendulum pos %v", cfg.Pendulum.Pos)
	}
	if cfg.Pendulum.Vel != dynamo.V(1, 0, 0) {
		t.Errorf("pendulum vel %v", cfg.Pendulum.Vel)
	}
	if cfg.Floor.Pos != dynamo.V(0, -2, 0) || !cfg.Floor.Fixed {
		t.Errorf("floor %+v", cfg.Floor)
	}
	if cfg.Joint != dynamo.V(0, 4, 0) {
		t.Errorf("joint %v", cfg.Joint)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}
}

func TestSaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scene.yaml")
	cfg := DefaultConfig()
	cfg.EndTime = 3
	cfg.Pendulum.Vel = dynamo.V(2, 0, 0)

	if err := Save(path, cfg); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if loaded.EndTime != 3 {
		t.Errorf("expected end time 3, got %f", loaded.EndTime)
	}
	if loaded.Pendulum.Vel != dynamo.V(2, 0, 0) {
		t.Errorf("expected vel (2,0,0), got %v", loaded.Pendulum.Vel)
	}
	if loaded.Pendulum.Color == nil || *loaded.Pendulum.Color != *cfg.Pendulum.Color {
		t.Errorf("color lost: %+v", loaded.Pendulum.Color)
	}
	if loaded.Export.CustomCommands != DefaultCustomCommands {
		t.Error("custom commands not preserved")
	}
}

func TestLoadMissing(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero step", func(c *Config) { c.Step = 0 }},
		{"negative end", func(c *Config) { c.EndTime = -1 }},
		{"empty output", func(c *Config) { c.OutputDir = "" }},
		{"zero density", func(c *Config) { c.Pendulum.Density = 0 }},
		{"zero width", func(c *Config) { c.Export.Width = 0 }},
		{"zero iterations", func(c *Config) { c.Iterations = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			if err := cfg.Validate(); !errors.Is(err, dynamo.ErrParameterBounds) {
				t.Errorf("expected ErrParameterBounds, got %v", err)
			}
		})
	}
}

func TestDataFile(t *testing.T) {
	cfg := DefaultConfig()
	cfg.DataDir = "/opt/data"
	if got := cfg.DataFile("textures/checker1.png"); got != "/opt/data/textures/checker1.png" {
		t.Errorf("unexpected path %s", got)
	}
	if got := cfg.DataFile("/abs/tpl.pov"); got != "/abs/tpl.pov" {
		t.Errorf("absolute path rewritten: %s", got)
	}
	if got := cfg.DataFile(""); got != "" {
		t.Errorf("empty name resolved to %s", got)
	}
}

func TestGetPreset(t *testing.T) {
	cfg := GetPreset("push")
	if cfg == nil {
		t.Fatal("expected preset, got nil")
	}
	if cfg.Pendulum.Vel != dynamo.V(4, 0, 0) {
		t.Errorf("expected vel (4,0,0), got %v", cfg.Pendulum.Vel)
	}

	if GetPreset("nonexistent") != nil {
		t.Error("expected nil for nonexistent preset")
	}

	tpl := GetPreset("template")
	if tpl.Step != DefaultStep || tpl.EndTime != DefaultEndTime {
		t.Error("template preset should equal defaults")
	}
}

func TestListPresets(t *testing.T) {
	presets := ListPresets()
	if len(presets) != len(Presets) {
		t.Errorf("expected %d presets, got %d", len(Presets), len(presets))
	}
	for i := 1; i < len(presets); i++ {
		if presets[i-1] > presets[i] {
			t.Error("presets not sorted")
		}
	}
}
