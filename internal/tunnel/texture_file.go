package tunnel

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	_ "image/jpeg"
	_ "image/png"
	"os"

	_ "github.com/ftrvxmtrx/tga"
	"golang.org/x/image/draw"
)

// LoadTexture decodes a PNG, JPEG or TGA file and resamples it to a
// width x height intensity tile.
func LoadTexture(path string, width, height int) (*Texture, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("texture: read %s: %w", path, err)
	}
	img, format, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("texture: decode %s: %w", path, err)
	}
	tex, err := TextureFromImage(img, width, height)
	if err != nil {
		return nil, fmt.Errorf("texture: %s (%s): %w", path, format, err)
	}
	return tex, nil
}

// TextureFromImage scales src to width x height and keeps its luma.
func TextureFromImage(src image.Image, width, height int) (*Texture, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("texture %dx%d: %w", width, height, ErrInvalidSize)
	}
	if src.Bounds().Empty() {
		return nil, fmt.Errorf("texture source is empty: %w", ErrInvalidSize)
	}
	gray := image.NewGray(image.Rect(0, 0, width, height))
	if src.Bounds().Dx() == width && src.Bounds().Dy() == height {
		draw.Draw(gray, gray.Bounds(), src, src.Bounds().Min, draw.Src)
	} else {
		draw.ApproxBiLinear.Scale(gray, gray.Bounds(), src, src.Bounds(), draw.Src, nil)
	}
	pix := make([]uint8, width*height)
	for y := 0; y < height; y++ {
		copy(pix[y*width:(y+1)*width], gray.Pix[y*gray.Stride:y*gray.Stride+width])
	}
	return &Texture{Width: width, Height: height, Pix: pix}, nil
}

// Image returns the texture as a grayscale image.
func (t *Texture) Image() *image.Gray {
	img := image.NewGray(image.Rect(0, 0, t.Width, t.Height))
	for y := 0; y < t.Height; y++ {
		for x := 0; x < t.Width; x++ {
			img.SetGray(x, y, color.Gray{Y: t.Pix[y*t.Width+x]})
		}
	}
	return img
}
