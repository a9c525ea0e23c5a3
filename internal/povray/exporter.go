// Package povray writes simulation frames as POV-Ray scenes: one render
// script with its .ini and .assets companions, plus a .dat and .pov pair per
// exported frame.
package povray

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"

	"github.com/san-kum/povpendulum/internal/assets"
	"github.com/san-kum/povpendulum/internal/dynamo"
	"github.com/san-kum/povpendulum/internal/physics"
)

//go:embed template.pov
var DefaultTemplate string

const (
	PicturesDir = "anim"
	OutputDir   = "output"

	// placeholder final frame until Finish knows the real count
	openFinalFrame = 999
)

type Exporter struct {
	sys *physics.System

	templateFile    string
	basePath        string
	scriptFile      string
	dataFilebase    string
	pictureFilebase string

	width, height int
	antialias     bool

	cameraPos   dynamo.Vec3
	cameraAim   dynamo.Vec3
	cameraAngle float64
	cameraOrtho bool

	light      assets.Light
	ambient    dynamo.Color
	background dynamo.Color
	custom     string

	items []*physics.Body
	frame int
}

func New(sys *physics.System) *Exporter {
	return &Exporter{
		sys:             sys,
		basePath:        ".",
		scriptFile:      "render_frames.pov",
		dataFilebase:    "state",
		pictureFilebase: "picture",
		width:           800,
		height:          600,
		cameraPos:       dynamo.V(0, 1.5, -2),
		cameraAim:       dynamo.V(0, 0, 0),
		cameraAngle:     30,
		light: assets.Light{
			Position: dynamo.V(30, 100, -30),
			Color:    dynamo.Color{R: 1.2, G: 1.2, B: 1.2},
			Shadows:  true,
		},
		ambient:    dynamo.Color{R: 2, G: 2, B: 2},
		background: dynamo.Color{R: 1, G: 1, B: 1},
	}
}

// SetTemplateFile sets the scene template copied into the render script.
// An empty path selects the built-in template.
func (e *Exporter) SetTemplateFile(path string) { e.templateFile = path }

// SetBasePath sets the directory receiving all generated files.
func (e *Exporter) SetBasePath(path string) { e.basePath = path }

func (e *Exporter) SetOutputScriptFile(name string)     { e.scriptFile = name }
func (e *Exporter) SetOutputDataFilebase(name string)   { e.dataFilebase = name }
func (e *Exporter) SetPictureFilebase(name string)      { e.pictureFilebase = name }
func (e *Exporter) SetAntialiasing(on bool)             { e.antialias = on }
func (e *Exporter) SetAmbientLight(c dynamo.Color)      { e.ambient = c }
func (e *Exporter) SetBackground(c dynamo.Color)        { e.background = c }
func (e *Exporter) SetCustomPOVcommandsScript(s string) { e.custom = s }

func (e *Exporter) SetPictureSize(width, height int) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("picture size %dx%d: %w", width, height, dynamo.ErrParameterBounds)
	}
	e.width, e.height = width, height
	return nil
}

func (e *Exporter) SetLight(pos dynamo.Vec3, color dynamo.Color, shadows bool) {
	e.light = assets.Light{Position: pos, Color: color, Shadows: shadows}
}

// SetCamera places the render camera. angle is the horizontal field of view in degrees.
func (e *Exporter) SetCamera(pos, aim dynamo.Vec3, angle float64, ortho bool) {
	e.cameraPos, e.cameraAim, e.cameraAngle, e.cameraOrtho = pos, aim, angle, ortho
}

// Add registers a body for export. Bodies without visual shapes are skipped.
func (e *Exporter) Add(b *physics.Body) {
	if len(b.VisualShapes()) == 0 {
		return
	}
	for _, it := range e.items {
		if it == b {
			return
		}
	}
	e.items = append(e.items, b)
}

func (e *Exporter) Remove(b *physics.Body) {
	for i, it := range e.items {
		if it == b {
			e.items = append(e.items[:i], e.items[i+1:]...)
			return
		}
	}
}

// AddAll registers every body currently in the system.
func (e *Exporter) AddAll() {
	for _, b := range e.sys.Bodies() {
		e.Add(b)
	}
}

func (e *Exporter) Items() []*physics.Body { return e.items }

// FrameCount is the number of frames written by ExportData.
func (e *Exporter) FrameCount() int { return e.frame }

func (e *Exporter) ScriptPath() string { return filepath.Join(e.basePath, e.scriptFile) }
func (e *Exporter) IniPath() string    { return e.ScriptPath() + ".ini" }
func (e *Exporter) AssetsPath() string { return e.ScriptPath() + ".assets" }

// FramePaths returns the .dat and .pov file paths of frame n.
func (e *Exporter) FramePaths(n int) (string, string) {
	base := filepath.Join(e.basePath, OutputDir, fmt.Sprintf("%s%05d", e.dataFilebase, n))
	return base + ".dat", base + ".pov"
}

func (e *Exporter) template() (string, error) {
	if e.templateFile == "" {
		return DefaultTemplate, nil
	}
	data, err := os.ReadFile(e.templateFile)
	if err != nil {
		return "", fmt.Errorf("%w %s: %v", dynamo.ErrTemplate, e.templateFile, err)
	}
	return string(data), nil
}

func (e *Exporter) makeDirs() error {
	for _, dir := range []string{e.basePath, filepath.Join(e.basePath, PicturesDir), filepath.Join(e.basePath, OutputDir)} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	return nil
}

// ExportScript writes the render script, its .ini and the shape declarations.
// Call it once, after all bodies are registered and before the first ExportData.
func (e *Exporter) ExportScript() error {
	tpl, err := e.template()
	if err != nil {
		return err
	}
	if err := e.makeDirs(); err != nil {
		return err
	}
	if err := writeFile(e.IniPath(), e.iniScript(openFinalFrame)); err != nil {
		return err
	}
	if err := writeFile(e.AssetsPath(), e.assetsScript()); err != nil {
		return err
	}
	return writeFile(e.ScriptPath(), e.renderScript(tpl))
}

// ExportData writes the current state as the next frame.
func (e *Exporter) ExportData() error {
	if err := os.MkdirAll(filepath.Join(e.basePath, OutputDir), 0755); err != nil {
		return err
	}
	datPath, povPath := e.FramePaths(e.frame)
	if err := writeFile(datPath, e.frameData()); err != nil {
		return err
	}
	if err := writeFile(povPath, e.frameScene()); err != nil {
		return err
	}
	e.frame++
	return nil
}

// OnStep exports a frame after each simulation step.
func (e *Exporter) OnStep(*physics.System) error { return e.ExportData() }

// Finish rewrites the .ini so the animation ends at the last exported frame.
func (e *Exporter) Finish() error {
	if e.frame == 0 {
		return nil
	}
	return writeFile(e.IniPath(), e.iniScript(e.frame-1))
}

func writeFile(path, content string) error {
	return os.WriteFile(path, []byte(content), 0644)
}
