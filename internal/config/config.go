package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/san-kum/povpendulum/internal/dynamo"
	"gopkg.in/yaml.v3"
)

const (
	DefaultStep       = 0.01
	DefaultEndTime    = 1.5
	DefaultDensity    = 3000.0
	DefaultOutputDir  = "out/POVRAY_1"
	DefaultDataDir    = "data"
	DefaultTemplate   = "POVRay_chrono_template.pov"
	DefaultTexture    = "textures/checker1.png"
	DefaultCollision  = "bullet"
	DefaultIterations = 20
)

type Config struct {
	OutputDir  string       `yaml:"output_dir"`
	DataDir    string       `yaml:"data_dir"`
	Template   string       `yaml:"template"`
	Step       float64      `yaml:"step"`
	EndTime    float64      `yaml:"end_time"`
	Collision  string       `yaml:"collision"`
	Iterations int          `yaml:"iterations"`
	Gravity    dynamo.Vec3  `yaml:"gravity"`
	Floor      BodyConfig   `yaml:"floor"`
	Pendulum   BodyConfig   `yaml:"pendulum"`
	Joint      dynamo.Vec3  `yaml:"joint"`
	Camera     CameraConfig `yaml:"camera"`
	Light      LightConfig  `yaml:"light"`
	Export     ExportConfig `yaml:"export"`
}

type BodyConfig struct {
	Size    dynamo.Vec3   `yaml:"size"`
	Density float64       `yaml:"density"`
	Pos     dynamo.Vec3   `yaml:"pos"`
	Vel     dynamo.Vec3   `yaml:"vel"`
	AngVel  float64       `yaml:"ang_vel,omitempty"`
	Fixed   bool          `yaml:"fixed"`
	Color   *dynamo.Color `yaml:"color,omitempty"`
	Texture string        `yaml:"texture,omitempty"`

	// TextureScale is the u, v repeat of the texture.
	TextureScale [2]float64 `yaml:"texture_scale,omitempty"`
}

type CameraConfig struct {
	Position dynamo.Vec3 `yaml:"position"`
	Aim      dynamo.Vec3 `yaml:"aim"`
	Up       dynamo.Vec3 `yaml:"up"`
	Angle    float64     `yaml:"angle"`
}

type LightConfig struct {
	Position dynamo.Vec3  `yaml:"position"`
	Color    dynamo.Color `yaml:"color"`
	Shadows  bool         `yaml:"shadows"`
}

type ExportConfig struct {
	ScriptFile      string       `yaml:"script_file"`
	DataFilebase    string       `yaml:"data_filebase"`
	PictureFilebase string       `yaml:"picture_filebase"`
	Width           int          `yaml:"width"`
	Height          int          `yaml:"height"`
	Antialias       bool         `yaml:"antialias"`
	Ambient         dynamo.Color `yaml:"ambient"`
	Background      dynamo.Color `yaml:"background"`
	CustomCommands  string       `yaml:"custom_commands"`
}

// DefaultCustomCommands adds an area light for soft shadows and a reference grid.
const DefaultCustomCommands = `
light_source {
  <2, 10, -3>
  color rgb<1.2,1.2,1.2>
  area_light <4, 0, 0>, <0, 0, 4>, 8, 8
  adaptive 1
  jitter
}
object{ Grid(1,0.02, rgb<0.7,0.8,0.8>, rgbt<1,1,1,1>) rotate <0, 0, 90> }
`

func DefaultConfig() *Config {
	return &Config{
		OutputDir:  DefaultOutputDir,
		DataDir:    DefaultDataDir,
		Template:   DefaultTemplate,
		Step:       DefaultStep,
		EndTime:    DefaultEndTime,
		Collision:  DefaultCollision,
		Iterations: DefaultIterations,
		Gravity:    dynamo.Gravity,
		Floor: BodyConfig{
			Size:         dynamo.V(10, 2, 10),
			Density:      DefaultDensity,
			Pos:          dynamo.V(0, -2, 0),
			Fixed:        true,
			Texture:      DefaultTexture,
			TextureScale: [2]float64{2, 2},
		},
		Pendulum: BodyConfig{
			Size:    dynamo.V(0.5, 2, 0.5),
			Density: DefaultDensity,
			Pos:     dynamo.V(0, 3, 0),
			Vel:     dynamo.V(1, 0, 0),
			Color:   &dynamo.Color{R: 0.2, G: 0.5, B: 0.25},
		},
		Joint: dynamo.V(0, 4, 0),
		Camera: CameraConfig{
			Position: dynamo.V(0, 3, -10),
			Aim:      dynamo.V(0, 1, 0),
			Up:       dynamo.V(0, -1, 0),
			Angle:    50,
		},
		Light: LightConfig{
			Position: dynamo.V(-3, 4, 2),
			Color:    dynamo.Color{R: 0.15, G: 0.15, B: 0.12},
		},
		Export: ExportConfig{
			ScriptFile:      "render_frames.pov",
			DataFilebase:    "state",
			PictureFilebase: "picture",
			Width:           800,
			Height:          600,
			Ambient:         dynamo.Color{R: 2, G: 2, B: 2},
			Background:      dynamo.Color{R: 1, G: 1, B: 1},
			CustomCommands:  DefaultCustomCommands,
		},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) Validate() error {
	if c.Step <= 0 {
		return fmt.Errorf("step must be positive, got %f: %w", c.Step, dynamo.ErrParameterBounds)
	}
	if c.EndTime <= 0 {
		return fmt.Errorf("end_time must be positive, got %f: %w", c.EndTime, dynamo.ErrParameterBounds)
	}
	if c.Iterations <= 0 {
		return fmt.Errorf("iterations must be positive, got %d: %w", c.Iterations, dynamo.ErrParameterBounds)
	}
	if c.OutputDir == "" {
		return fmt.Errorf("output_dir is empty: %w", dynamo.ErrParameterBounds)
	}
	for name, b := range map[string]BodyConfig{"floor": c.Floor, "pendulum": c.Pendulum} {
		if b.Density <= 0 {
			return fmt.Errorf("%s density must be positive: %w", name, dynamo.ErrParameterBounds)
		}
	}
	if c.Export.Width <= 0 || c.Export.Height <= 0 {
		return fmt.Errorf("picture size %dx%d: %w", c.Export.Width, c.Export.Height, dynamo.ErrParameterBounds)
	}
	return nil
}

// DataFile resolves a name against the data directory. Absolute names are kept.
func (c *Config) DataFile(name string) string {
	if name == "" || filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(c.DataDir, name)
}
