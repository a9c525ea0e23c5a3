package export

import (
	"fmt"
	"os"
	"strings"

	"github.com/san-kum/povpendulum/internal/dynamo"
	"github.com/san-kum/povpendulum/internal/storage"
)

const TrajectorySVGFile = "trajectory.svg"

// TrajectoryToSVG draws the XY path of the samples with the pivot marked.
func TrajectoryToSVG(samples []storage.Sample, pivot dynamo.Vec3, width, height int, strokeColor string) string {
	if len(samples) < 2 {
		return ""
	}

	// Find bounds
	minX, maxX := pivot.X(), pivot.X()
	minY, maxY := pivot.Y(), pivot.Y()
	for _, s := range samples {
		minX = min(minX, s.Pos.X())
		maxX = max(maxX, s.Pos.X())
		minY = min(minY, s.Pos.Y())
		maxY = max(maxY, s.Pos.Y())
	}

	// Add padding
	rangeX := maxX - minX
	rangeY := maxY - minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	minX -= rangeX * 0.1
	maxX += rangeX * 0.1
	minY -= rangeY * 0.1
	maxY += rangeY * 0.1
	rangeX = maxX - minX
	rangeY = maxY - minY

	project := func(p dynamo.Vec3) (float64, float64) {
		x := (p.X() - minX) / rangeX * float64(width)
		y := float64(height) - (p.Y()-minY)/rangeY*float64(height)
		return x, y
	}

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
<path fill="none" stroke="%s" stroke-width="1.5" d="M`,
		width, height, width, height, strokeColor))

	for i, s := range samples {
		x, y := project(s.Pos)
		if i == 0 {
			sb.WriteString(fmt.Sprintf("%.1f,%.1f", x, y))
		} else {
			sb.WriteString(fmt.Sprintf(" L%.1f,%.1f", x, y))
		}
	}
	sb.WriteString("\"/>\n")

	px, py := project(pivot)
	last := samples[len(samples)-1].Pos
	lx, ly := project(last)
	sb.WriteString(fmt.Sprintf(`<line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f" stroke="#555555" stroke-width="1"/>
<circle cx="%.1f" cy="%.1f" r="3" fill="#ffffff"/>
`, px, py, lx, ly, px, py))

	sb.WriteString(`</svg>`)
	return sb.String()
}

// WriteTrajectorySVG writes the path to path. Fewer than two samples write nothing.
func WriteTrajectorySVG(path string, samples []storage.Sample, pivot dynamo.Vec3) error {
	svg := TrajectoryToSVG(samples, pivot, 600, 600, "#00ff88")
	if svg == "" {
		return nil
	}
	return os.WriteFile(path, []byte(svg), 0644)
}
