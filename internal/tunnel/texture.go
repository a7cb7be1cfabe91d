package tunnel

import (
	"errors"
	"fmt"
)

// ErrInvalidSize reports a non-positive width or height passed to a constructor.
var ErrInvalidSize = errors.New("tunnel: width and height must be positive")

// Texture is an immutable square-ish tile of 8-bit intensities stored row-major.
type Texture struct {
	Width  int
	Height int
	Pix    []uint8
}

// GenerateTexture builds the XOR tile: cell (x, y) holds
// (x*256/width) XOR (y*256/height).
func GenerateTexture(width, height int) (*Texture, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("texture %dx%d: %w", width, height, ErrInvalidSize)
	}
	pix := make([]uint8, width*height)
	for y := 0; y < height; y++ {
		row := pix[y*width : (y+1)*width]
		v := y * 256 / height
		for x := range row {
			row[x] = uint8((x * 256 / width) ^ v)
		}
	}
	return &Texture{Width: width, Height: height, Pix: pix}, nil
}

// At returns the intensity at (x, y), wrapping both coordinates into the tile.
func (t *Texture) At(x, y int) uint8 {
	return t.Pix[floorMod(y, t.Height)*t.Width+floorMod(x, t.Width)]
}
