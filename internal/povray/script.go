package povray

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/san-kum/povpendulum/internal/assets"
	"github.com/san-kum/povpendulum/internal/dynamo"
	"github.com/san-kum/povpendulum/internal/physics"
)

func num(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func vec(v dynamo.Vec3) string {
	return "<" + num(v.X()) + "," + num(v.Y()) + "," + num(v.Z()) + ">"
}

// quat formats a quaternion scalar first, as quatRotation expects.
func quat(q dynamo.Quat) string {
	return "<" + num(q.W) + "," + num(q.V.X()) + "," + num(q.V.Y()) + "," + num(q.V.Z()) + ">"
}

func onOff(b bool) string {
	if b {
		return "On"
	}
	return "Off"
}

func shapeName(b *physics.Body) string {
	return fmt.Sprintf("body_%d", b.ID())
}

func (e *Exporter) iniScript(finalFrame int) string {
	var sb strings.Builder
	sb.WriteString("; Script for rendering an animation with POV-Ray.\n")
	sb.WriteString("; Generated by povpendulum.\n\n")
	sb.WriteString(fmt.Sprintf("Antialias=%s\n", onOff(e.antialias)))
	sb.WriteString("Antialias_Threshold=0.1\n")
	sb.WriteString("Antialias_Depth=2\n")
	sb.WriteString(fmt.Sprintf("Height=%d\n", e.height))
	sb.WriteString(fmt.Sprintf("Width=%d\n", e.width))
	sb.WriteString(fmt.Sprintf("Input_File_Name=%s\n", e.scriptFile))
	sb.WriteString(fmt.Sprintf("Output_File_Name=%s/%s\n", PicturesDir, e.pictureFilebase))
	sb.WriteString("Initial_Frame=0000\n")
	sb.WriteString(fmt.Sprintf("Final_Frame=%04d\n", finalFrame))
	sb.WriteString("Initial_Clock=0\n")
	sb.WriteString("Final_Clock=1\n")
	sb.WriteString("Pause_when_Done=off\n")
	return sb.String()
}

func (e *Exporter) renderScript(tpl string) string {
	var sb strings.Builder

	sb.WriteString("// Render script. Use the .ini file to render the animation frames.\n\n")
	sb.WriteString(tpl)
	if !strings.HasSuffix(tpl, "\n") {
		sb.WriteString("\n")
	}

	sb.WriteString("\n// Camera\n")
	sb.WriteString("camera {\n")
	if e.cameraOrtho {
		sb.WriteString("  orthographic\n")
	}
	sb.WriteString(fmt.Sprintf("  location %s\n", vec(e.cameraPos)))
	sb.WriteString("  direction 2*z\n")
	sb.WriteString("  right -x*image_width/image_height\n")
	sb.WriteString("  up y\n")
	sb.WriteString(fmt.Sprintf("  angle %s\n", num(e.cameraAngle)))
	sb.WriteString(fmt.Sprintf("  look_at %s\n", vec(e.cameraAim)))
	sb.WriteString("}\n\n")

	sb.WriteString("// Lights\n")
	sb.WriteString(fmt.Sprintf("light_source { %s color %s", vec(e.light.Position), e.light.Color))
	if !e.light.Shadows {
		sb.WriteString(" shadowless")
	}
	sb.WriteString(" }\n")
	sb.WriteString(fmt.Sprintf("global_settings { ambient_light %s }\n", e.ambient))
	sb.WriteString(fmt.Sprintf("background { %s }\n\n", e.background))

	if e.custom != "" {
		sb.WriteString("// Custom commands\n")
		sb.WriteString(e.custom)
		sb.WriteString("\n\n")
	}

	sb.WriteString("// Shape declarations\n")
	sb.WriteString(fmt.Sprintf("#include \"%s\"\n\n", filepath.Base(e.AssetsPath())))

	sb.WriteString("// Per-frame state, selected by the animation frame number\n")
	sb.WriteString(fmt.Sprintf("#declare pov_file = concat(\"%s/%s\", str(frame_number,-5,0), \".pov\")\n", OutputDir, e.dataFilebase))
	sb.WriteString("#include pov_file\n")
	return sb.String()
}

func (e *Exporter) assetsScript() string {
	var sb strings.Builder
	sb.WriteString("// Shape declarations, one per exported body, in body coordinates.\n\n")
	for _, b := range e.items {
		shapes := b.VisualShapes()
		sb.WriteString(fmt.Sprintf("#declare %s = union {\n", shapeName(b)))
		for _, s := range shapes {
			sb.WriteString(boxShape(s))
		}
		sb.WriteString("}\n\n")
	}
	return sb.String()
}

func boxShape(s *assets.VisualShape) string {
	h := s.Size.Mul(0.5)
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("  box { %s, %s\n", vec(h.Mul(-1)), vec(h)))
	sb.WriteString("    texture { ")
	if s.Texture != nil {
		sb.WriteString(imageMap(s))
	} else {
		sb.WriteString(fmt.Sprintf("pigment { color %s }", s.Color))
	}
	sb.WriteString(" }\n  }\n")
	return sb.String()
}

// imageMap projects the texture on the XZ face, repeated ScaleU x ScaleV times.
func imageMap(s *assets.VisualShape) string {
	t := s.Texture
	su, sv := t.ScaleU, t.ScaleV
	if su <= 0 {
		su = 1
	}
	if sv <= 0 {
		sv = 1
	}
	return fmt.Sprintf("pigment { image_map { %s \"%s\" interpolate 2 } rotate <90,0,0> translate <-0.5,0,-0.5> scale <%s,1,%s> }",
		imageType(t.File), filepath.ToSlash(t.File), num(s.Size.X()/su), num(s.Size.Z()/sv))
}

func imageType(file string) string {
	switch strings.ToLower(filepath.Ext(file)) {
	case ".png":
		return "png"
	case ".jpg", ".jpeg":
		return "jpeg"
	case ".tga":
		return "tga"
	case ".gif":
		return "gif"
	case ".ppm":
		return "ppm"
	case ".tif", ".tiff":
		return "tiff"
	default:
		return "sys"
	}
}

// frameData lists one body per line: id, position, quaternion.
func (e *Exporter) frameData() string {
	var sb strings.Builder
	for _, b := range e.items {
		p, q := b.Pos(), b.Rot()
		sb.WriteString(fmt.Sprintf("%d, %s, %s, %s, %s, %s, %s, %s,\n",
			b.ID(), num(p.X()), num(p.Y()), num(p.Z()),
			num(q.W), num(q.V.X()), num(q.V.Y()), num(q.V.Z())))
	}
	return sb.String()
}

func (e *Exporter) frameScene() string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("// frame %d, t=%s\n", e.frame, num(e.sys.Time())))
	for _, b := range e.items {
		sb.WriteString(fmt.Sprintf("object { %s quatRotation(%s) translate %s }\n", shapeName(b), quat(b.Rot()), vec(b.Pos())))
	}
	return sb.String()
}
