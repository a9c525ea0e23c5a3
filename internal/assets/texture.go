package assets

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"

	"github.com/san-kum/povpendulum/internal/dynamo"
)

// WriteChecker encodes a size x size PNG of cells x cells alternating squares.
func WriteChecker(w io.Writer, size, cells int, a, b dynamo.Color) error {
	if size <= 0 || cells <= 0 || cells > size {
		return fmt.Errorf("checker %dpx with %d cells: %w", size, cells, dynamo.ErrParameterBounds)
	}
	ca, cb := rgba(a), rgba(b)
	cell := size / cells

	img := image.NewRGBA(image.Rect(0, 0, size, size))
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			if (x/cell+y/cell)%2 == 0 {
				img.Set(x, y, ca)
			} else {
				img.Set(x, y, cb)
			}
		}
	}
	return png.Encode(w, img)
}

func rgba(c dynamo.Color) color.RGBA {
	return color.RGBA{R: channel(c.R), G: channel(c.G), B: channel(c.B), A: 255}
}

func channel(v float32) uint8 {
	switch {
	case v <= 0:
		return 0
	case v >= 1:
		return 255
	}
	return uint8(v*255 + 0.5)
}
