package tunnel

import (
	"image/color"
	"testing"
)

func TestFrameImageAliasesPix(t *testing.T) {
	f := NewFrame(3, 2)
	if len(f.Pix) != 3*2*4 {
		t.Fatalf("len(Pix) = %d, want 24", len(f.Pix))
	}
	img := f.Image()
	if b := img.Bounds(); b.Dx() != 3 || b.Dy() != 2 {
		t.Fatalf("bounds = %v, want 3x2", b)
	}
	img.SetRGBA(2, 1, color.RGBA{G: 77, A: 0xff})
	if got := f.Green(2, 1); got != 77 {
		t.Fatalf("Green(2,1) = %d after writing through Image, want 77", got)
	}
}
