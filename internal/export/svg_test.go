package export

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/san-kum/povpendulum/internal/dynamo"
	"github.com/san-kum/povpendulum/internal/storage"
)

func swing() []storage.Sample {
	return []storage.Sample{
		{Time: 0, Pos: dynamo.V(0, 3, 0)},
		{Time: 0.1, Pos: dynamo.V(0.1, 3.01, 0)},
		{Time: 0.2, Pos: dynamo.V(0.2, 3.02, 0)},
	}
}

func TestTrajectoryToSVG(t *testing.T) {
	svg := TrajectoryToSVG(swing(), dynamo.V(0, 4, 0), 200, 100, "#00ff88")

	if !strings.HasPrefix(svg, "<?xml") || !strings.HasSuffix(svg, "</svg>") {
		t.Fatalf("not an svg document: %q", svg)
	}
	if strings.Count(svg, " L") != 2 {
		t.Errorf("expected 2 line segments, got %d", strings.Count(svg, " L"))
	}
	if !strings.Contains(svg, `stroke="#00ff88"`) {
		t.Error("stroke color missing")
	}
	if !strings.Contains(svg, "<circle") {
		t.Error("pivot marker missing")
	}
}

func TestTrajectoryToSVGTooShort(t *testing.T) {
	if svg := TrajectoryToSVG(swing()[:1], dynamo.V(0, 4, 0), 200, 100, "red"); svg != "" {
		t.Errorf("expected empty output, got %q", svg)
	}
}

func TestWriteTrajectorySVG(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, TrajectorySVGFile)

	if err := WriteTrajectorySVG(path, swing(), dynamo.V(0, 4, 0)); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "<path") {
		t.Error("path element missing")
	}

	empty := filepath.Join(dir, "empty.svg")
	if err := WriteTrajectorySVG(empty, nil, dynamo.V(0, 4, 0)); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(empty); !os.IsNotExist(err) {
		t.Error("no file expected for an empty trajectory")
	}
}
