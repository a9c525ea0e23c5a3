package assets

import (
	"bytes"
	"errors"
	"image/color"
	"image/png"
	"testing"

	"github.com/san-kum/povpendulum/internal/dynamo"
)

func TestWriteChecker(t *testing.T) {
	var buf bytes.Buffer
	white := dynamo.Color{R: 1, G: 1, B: 1}
	black := dynamo.Color{}
	if err := WriteChecker(&buf, 64, 8, white, black); err != nil {
		t.Fatal(err)
	}

	img, err := png.Decode(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if b := img.Bounds(); b.Dx() != 64 || b.Dy() != 64 {
		t.Fatalf("bounds %v", b)
	}

	tests := []struct {
		x, y int
		want color.RGBA
	}{
		{0, 0, color.RGBA{255, 255, 255, 255}},
		{8, 0, color.RGBA{0, 0, 0, 255}},
		{8, 8, color.RGBA{255, 255, 255, 255}},
		{63, 0, color.RGBA{0, 0, 0, 255}},
	}
	for _, tt := range tests {
		got := color.RGBAModel.Convert(img.At(tt.x, tt.y)).(color.RGBA)
		if got != tt.want {
			t.Errorf("pixel (%d,%d) = %v, want %v", tt.x, tt.y, got, tt.want)
		}
	}
}

func TestWriteCheckerBounds(t *testing.T) {
	var buf bytes.Buffer
	for _, tc := range [][2]int{{0, 1}, {8, 0}, {4, 8}} {
		err := WriteChecker(&buf, tc[0], tc[1], DefaultColor, DefaultColor)
		if !errors.Is(err, dynamo.ErrParameterBounds) {
			t.Errorf("size %d cells %d: expected ErrParameterBounds, got %v", tc[0], tc[1], err)
		}
	}
}
