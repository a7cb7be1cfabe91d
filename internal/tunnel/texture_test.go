package tunnel

import (
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
)

func TestGenerateTextureKnownCell(t *testing.T) {
	tex, err := GenerateTexture(4, 4)
	if err != nil {
		t.Fatal(err)
	}
	if got := tex.Pix[2*4+1]; got != 192 {
		t.Fatalf("cell (1,2) = %d, want 192", got)
	}
	if got := tex.At(1, 2); got != 192 {
		t.Fatalf("At(1,2) = %d, want 192", got)
	}
}

func TestGenerateTextureSizes(t *testing.T) {
	sizes := [][2]int{{1, 1}, {3, 5}, {4, 4}, {128, 128}, {256, 256}, {300, 7}}
	for _, sz := range sizes {
		tex, err := GenerateTexture(sz[0], sz[1])
		if err != nil {
			t.Fatalf("%v: %v", sz, err)
		}
		if len(tex.Pix) != sz[0]*sz[1] {
			t.Fatalf("%v: %d cells, want %d", sz, len(tex.Pix), sz[0]*sz[1])
		}
		for y := 0; y < sz[1]; y++ {
			for x := 0; x < sz[0]; x++ {
				want := uint8((x * 256 / sz[0]) ^ (y * 256 / sz[1]))
				if got := tex.Pix[y*sz[0]+x]; got != want {
					t.Fatalf("%v: cell (%d,%d) = %d, want %d", sz, x, y, got, want)
				}
			}
		}
	}
}

func TestGenerateTextureDeterministic(t *testing.T) {
	a, _ := GenerateTexture(64, 32)
	b, _ := GenerateTexture(64, 32)
	for i := range a.Pix {
		if a.Pix[i] != b.Pix[i] {
			t.Fatalf("texel %d differs: %d vs %d", i, a.Pix[i], b.Pix[i])
		}
	}
}

func TestGenerateTextureRejectsNonPositive(t *testing.T) {
	for _, sz := range [][2]int{{0, 4}, {4, 0}, {-1, 4}} {
		if _, err := GenerateTexture(sz[0], sz[1]); !errors.Is(err, ErrInvalidSize) {
			t.Fatalf("%v: err = %v, want ErrInvalidSize", sz, err)
		}
	}
}

func TestTextureAtWraps(t *testing.T) {
	tex, _ := GenerateTexture(8, 8)
	if tex.At(-1, -1) != tex.At(7, 7) {
		t.Fatal("negative coordinates should wrap")
	}
	if tex.At(9, 17) != tex.At(1, 1) {
		t.Fatal("coordinates past the edge should wrap")
	}
}

func TestTextureFromImage(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 16, 16))
	for y := 0; y < 16; y++ {
		for x := 0; x < 16; x++ {
			src.Set(x, y, color.RGBA{R: 90, G: 90, B: 90, A: 255})
		}
	}
	tex, err := TextureFromImage(src, 8, 4)
	if err != nil {
		t.Fatal(err)
	}
	if tex.Width != 8 || tex.Height != 4 || len(tex.Pix) != 32 {
		t.Fatalf("got %dx%d with %d texels", tex.Width, tex.Height, len(tex.Pix))
	}
	for i, v := range tex.Pix {
		if v != 90 {
			t.Fatalf("texel %d = %d, want 90", i, v)
		}
	}
}

func TestLoadTexturePNG(t *testing.T) {
	gen, _ := GenerateTexture(32, 32)
	path := filepath.Join(t.TempDir(), "tile.png")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := png.Encode(f, gen.Image()); err != nil {
		t.Fatal(err)
	}
	f.Close()

	tex, err := LoadTexture(path, 32, 32)
	if err != nil {
		t.Fatal(err)
	}
	for i := range gen.Pix {
		if tex.Pix[i] != gen.Pix[i] {
			t.Fatalf("texel %d = %d, want %d", i, tex.Pix[i], gen.Pix[i])
		}
	}
}

func TestLoadTextureMissing(t *testing.T) {
	if _, err := LoadTexture(filepath.Join(t.TempDir(), "nope.png"), 8, 8); err == nil {
		t.Fatal("expected error for missing file")
	}
}
