// Package scenario assembles the pendulum scene from a config: a fixed
// textured floor, a box pendulum hinged to it by a spherical link, camera,
// lights and a POV-Ray exporter ready to write frames.
package scenario

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/san-kum/povpendulum/internal/assets"
	"github.com/san-kum/povpendulum/internal/config"
	"github.com/san-kum/povpendulum/internal/dynamo"
	"github.com/san-kum/povpendulum/internal/physics"
	"github.com/san-kum/povpendulum/internal/povray"
)

type Scene struct {
	System   *physics.System
	Floor    *physics.Body
	Pendulum *physics.Body
	Link     *physics.SphericalLink
	Camera   *assets.Camera
	Exporter *povray.Exporter
	Pivot    dynamo.Vec3
}

func newBody(bc config.BodyConfig) (*physics.Body, error) {
	b, err := physics.NewBoxBody(bc.Size.X(), bc.Size.Y(), bc.Size.Z(), bc.Density, true, false)
	if err != nil {
		return nil, err
	}
	if err := b.SetPos(bc.Pos); err != nil {
		return nil, err
	}
	if err := b.SetLinVel(bc.Vel); err != nil {
		return nil, err
	}
	b.SetAngVel(bc.AngVel)
	b.SetFixed(bc.Fixed)
	return b, nil
}

// Build creates the system and its bodies. The exporter is configured but no
// file is written until ExportScript.
func Build(cfg *config.Config) (*Scene, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	sys := physics.NewSystem()
	collision, err := physics.ParseCollisionSystem(cfg.Collision)
	if err != nil {
		return nil, err
	}
	sys.SetCollisionSystemType(collision)
	if err := sys.SetSolverIterations(cfg.Iterations); err != nil {
		return nil, err
	}
	if err := sys.SetGravity(cfg.Gravity); err != nil {
		return nil, err
	}

	floor, err := newBody(cfg.Floor)
	if err != nil {
		return nil, fmt.Errorf("floor: %w", err)
	}
	if err := sys.Add(floor); err != nil {
		return nil, fmt.Errorf("floor: %w", err)
	}

	pendulum, err := newBody(cfg.Pendulum)
	if err != nil {
		return nil, fmt.Errorf("pendulum: %w", err)
	}
	if err := sys.Add(pendulum); err != nil {
		return nil, fmt.Errorf("pendulum: %w", err)
	}

	link := physics.NewSphericalLink()
	frame := dynamo.NewFrame(cfg.Joint)
	if err := link.Initialize(pendulum, floor, false, frame, frame); err != nil {
		return nil, fmt.Errorf("joint: %w", err)
	}
	if err := sys.Add(link); err != nil {
		return nil, fmt.Errorf("joint: %w", err)
	}

	applyLook(floor, cfg.Floor, cfg)
	applyLook(pendulum, cfg.Pendulum, cfg)

	cam := assets.NewCamera()
	cam.SetAngle(cfg.Camera.Angle)
	cam.SetPosition(cfg.Camera.Position)
	cam.SetAimPoint(cfg.Camera.Aim)
	cam.SetUpVector(cfg.Camera.Up)

	exp, err := newExporter(sys, cam, cfg)
	if err != nil {
		return nil, err
	}

	return &Scene{
		System:   sys,
		Floor:    floor,
		Pendulum: pendulum,
		Link:     link,
		Camera:   cam,
		Exporter: exp,
		Pivot:    cfg.Joint,
	}, nil
}

func applyLook(b *physics.Body, bc config.BodyConfig, cfg *config.Config) {
	shape := b.VisualShape(0)
	if shape == nil {
		return
	}
	if bc.Color != nil {
		shape.SetColor(*bc.Color)
	}
	if bc.Texture != "" {
		shape.SetTexture(absolute(cfg.DataFile(bc.Texture)), bc.TextureScale[0], bc.TextureScale[1])
	}
}

func absolute(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return path
}

// TemplatePath resolves the template against the data directory. The default
// template name falls back to the built-in template when the file is absent.
func TemplatePath(cfg *config.Config) string {
	path := cfg.DataFile(cfg.Template)
	if cfg.Template == config.DefaultTemplate {
		if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
			return ""
		}
	}
	return path
}

func newExporter(sys *physics.System, cam *assets.Camera, cfg *config.Config) (*povray.Exporter, error) {
	exp := povray.New(sys)
	exp.SetTemplateFile(TemplatePath(cfg))
	exp.SetBasePath(cfg.OutputDir)
	exp.SetOutputScriptFile(cfg.Export.ScriptFile)
	exp.SetOutputDataFilebase(cfg.Export.DataFilebase)
	exp.SetPictureFilebase(cfg.Export.PictureFilebase)
	if err := exp.SetPictureSize(cfg.Export.Width, cfg.Export.Height); err != nil {
		return nil, err
	}
	exp.SetAntialiasing(cfg.Export.Antialias)
	exp.SetAmbientLight(cfg.Export.Ambient)
	exp.SetBackground(cfg.Export.Background)
	exp.SetLight(cfg.Light.Position, cfg.Light.Color, cfg.Light.Shadows)
	exp.SetCustomPOVcommandsScript(cfg.Export.CustomCommands)
	exp.SetCamera(cam.Position, cam.AimPoint, cam.Angle, cam.Ortho)
	exp.AddAll()
	return exp, nil
}
