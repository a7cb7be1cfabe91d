package snapshot

import (
	"context"
	"errors"
	"image"
	"image/gif"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"tunnel/internal/tunnel"
)

func testRenderer(t *testing.T, w, h int) *tunnel.Renderer {
	t.Helper()
	tex, err := tunnel.GenerateTexture(32, 32)
	if err != nil {
		t.Fatal(err)
	}
	table, err := tunnel.NewProjectionTable(tunnel.ProjectionConfig{
		Width: w, Height: h, TextureWidth: 32, TextureHeight: 32,
		Ratio: tunnel.DefaultRatio, Oversized: true,
	})
	if err != nil {
		t.Fatal(err)
	}
	opts := tunnel.DefaultOptions(w, h)
	opts.ViewBob = true
	opts.Bands = 2
	r, err := tunnel.NewRenderer(tex, table, opts)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(r.Close)
	return r
}

func fixedClock(t *testing.T) *tunnel.FixedClock {
	t.Helper()
	c, err := tunnel.NewFixedClock(tunnel.DefaultStep)
	if err != nil {
		t.Fatal(err)
	}
	return c
}

func TestExportPNG(t *testing.T) {
	r := testRenderer(t, 16, 12)
	dir := t.TempDir()
	paths, err := Export(context.Background(), r, fixedClock(t), Options{Dir: dir, Format: FormatPNG, Frames: 3, Workers: 2})
	if err != nil {
		t.Fatal(err)
	}
	if len(paths) != 3 {
		t.Fatalf("got %d paths, want 3", len(paths))
	}

	// Frame 0 was rendered at the phase after one clock tick.
	want := tunnel.NewFrame(16, 12)
	if err := r.RenderFrame(tunnel.DefaultStep, want); err != nil {
		t.Fatal(err)
	}
	f, err := os.Open(paths[0])
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatal(err)
	}
	for y := 0; y < 12; y++ {
		for x := 0; x < 16; x++ {
			_, g, _, _ := img.At(x, y).RGBA()
			if uint8(g>>8) != want.Green(x, y) {
				t.Fatalf("pixel (%d,%d) green = %d, want %d", x, y, g>>8, want.Green(x, y))
			}
		}
	}
}

func TestExportWebP(t *testing.T) {
	r := testRenderer(t, 16, 12)
	dir := t.TempDir()
	paths, err := Export(context.Background(), r, fixedClock(t), Options{Dir: dir, Prefix: "bob", Format: FormatWebP, Frames: 2, Scale: 2})
	if err != nil {
		t.Fatal(err)
	}
	for _, p := range paths {
		st, err := os.Stat(p)
		if err != nil {
			t.Fatalf("webp not written: %v", err)
		}
		if st.Size() == 0 {
			t.Fatalf("%s is empty", p)
		}
	}
	if filepath.Base(paths[1]) != "bob_0001.webp" {
		t.Fatalf("unexpected name %s", paths[1])
	}
}

func TestExportGIF(t *testing.T) {
	r := testRenderer(t, 10, 8)
	paths, err := Export(context.Background(), r, fixedClock(t), Options{Dir: t.TempDir(), Format: FormatGIF, Frames: 4, Delay: 5})
	if err != nil {
		t.Fatal(err)
	}
	if len(paths) != 1 {
		t.Fatalf("got %d paths, want 1", len(paths))
	}
	f, err := os.Open(paths[0])
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	anim, err := gif.DecodeAll(f)
	if err != nil {
		t.Fatal(err)
	}
	if len(anim.Image) != 4 {
		t.Fatalf("got %d frames, want 4", len(anim.Image))
	}
	clock := fixedClock(t)
	var phase float64
	for i := 0; i < 4; i++ {
		phase, _ = clock.Advance()
	}
	want := tunnel.NewFrame(10, 8)
	if err := r.RenderFrame(phase, want); err != nil {
		t.Fatal(err)
	}
	last := anim.Image[3]
	for y := 0; y < 8; y++ {
		for x := 0; x < 10; x++ {
			_, g, _, _ := last.At(x, y).RGBA()
			if uint8(g>>8) != want.Green(x, y) {
				t.Fatalf("pixel (%d,%d) green = %d, want %d", x, y, g>>8, want.Green(x, y))
			}
		}
	}
}

func TestExportUnknownFormat(t *testing.T) {
	r := testRenderer(t, 8, 8)
	_, err := Export(context.Background(), r, fixedClock(t), Options{Dir: t.TempDir(), Format: "bmp", Frames: 1})
	if !errors.Is(err, ErrFormat) {
		t.Fatalf("err = %v, want ErrFormat", err)
	}
}

func TestExportCanceled(t *testing.T) {
	r := testRenderer(t, 8, 8)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := Export(ctx, r, fixedClock(t), Options{Dir: t.TempDir(), Format: FormatPNG, Frames: 3}); !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
}

func TestUpscale(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 3, 2))
	src.Pix[1] = 200
	up := Upscale(src, 4)
	if up.Bounds().Dx() != 12 || up.Bounds().Dy() != 8 {
		t.Fatalf("bounds %v", up.Bounds())
	}
	if up.Pix[up.PixOffset(3, 3)+1] != 200 {
		t.Fatal("top-left block should carry the source pixel")
	}
	if Upscale(src, 1) != src {
		t.Fatal("factor 1 should return the source")
	}
}
