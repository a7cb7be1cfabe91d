// Package snapshot renders tunnel frames headlessly and encodes them to disk.
package snapshot

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/gif"
	"image/png"
	"os"
	"path/filepath"
	"runtime"

	"github.com/HugoSmits86/nativewebp"
	"golang.org/x/image/draw"
	"golang.org/x/sync/errgroup"

	"tunnel/internal/tunnel"
)

// Output formats.
const (
	FormatPNG  = "png"
	FormatWebP = "webp"
	FormatGIF  = "gif"
)

var ErrFormat = errors.New("snapshot: unknown format")

// Options controls an export run.
type Options struct {
	Dir    string
	Prefix string
	Format string
	Frames int
	// Scale is an integer nearest-neighbour upscale factor; values below 2 keep
	// the native resolution.
	Scale int
	// Workers bounds concurrent encoders. Zero uses NumCPU.
	Workers int
	// Delay is the GIF frame delay in 100ths of a second.
	Delay int
}

// greenPalette maps index i to (0, i, 0, 255) so every tunnel pixel has an
// exact palette entry.
var greenPalette = func() color.Palette {
	p := make(color.Palette, 256)
	for i := range p {
		p[i] = color.RGBA{G: uint8(i), A: 0xff}
	}
	return p
}()

// Export advances clock once per frame, renders it with r and writes the
// result. It returns the written paths in frame order.
func Export(ctx context.Context, r *tunnel.Renderer, clock tunnel.Clock, opts Options) ([]string, error) {
	if opts.Frames <= 0 {
		return nil, nil
	}
	if opts.Prefix == "" {
		opts.Prefix = "tunnel"
	}
	if err := os.MkdirAll(opts.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("snapshot: create %s: %w", opts.Dir, err)
	}

	switch opts.Format {
	case FormatGIF:
		path := filepath.Join(opts.Dir, opts.Prefix+".gif")
		frames, err := renderAll(ctx, r, clock, opts.Frames)
		if err != nil {
			return nil, err
		}
		if err := WriteGIF(path, frames, opts.Delay, opts.Scale); err != nil {
			return nil, err
		}
		return []string{path}, nil
	case FormatPNG, FormatWebP:
	default:
		return nil, fmt.Errorf("%w: %q", ErrFormat, opts.Format)
	}

	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	paths := make([]string, opts.Frames)
	for i := 0; i < opts.Frames; i++ {
		if err := gctx.Err(); err != nil {
			break
		}
		phase, err := clock.Advance()
		if err != nil {
			g.Wait()
			return nil, fmt.Errorf("snapshot: frame %d: %w", i, err)
		}
		frame := tunnel.NewFrame(r.Width(), r.Height())
		if err := r.RenderFrame(phase, frame); err != nil {
			g.Wait()
			return nil, fmt.Errorf("snapshot: frame %d: %w", i, err)
		}
		path := filepath.Join(opts.Dir, fmt.Sprintf("%s_%04d.%s", opts.Prefix, i, opts.Format))
		paths[i] = path
		g.Go(func() error {
			img := Upscale(frame.Image(), opts.Scale)
			if opts.Format == FormatWebP {
				return WriteWebP(path, img)
			}
			return WritePNG(path, img)
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return paths, nil
}

// renderAll renders n consecutive frames into fresh buffers.
func renderAll(ctx context.Context, r *tunnel.Renderer, clock tunnel.Clock, n int) ([]*tunnel.Frame, error) {
	frames := make([]*tunnel.Frame, 0, n)
	for i := 0; i < n; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		phase, err := clock.Advance()
		if err != nil {
			return nil, fmt.Errorf("snapshot: frame %d: %w", i, err)
		}
		frame := tunnel.NewFrame(r.Width(), r.Height())
		if err := r.RenderFrame(phase, frame); err != nil {
			return nil, fmt.Errorf("snapshot: frame %d: %w", i, err)
		}
		frames = append(frames, frame)
	}
	return frames, nil
}

// Upscale enlarges img by an integer factor with nearest-neighbour sampling.
func Upscale(img *image.RGBA, factor int) *image.RGBA {
	if factor < 2 {
		return img
	}
	b := img.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx()*factor, b.Dy()*factor))
	draw.NearestNeighbor.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
	return dst
}

// WritePNG encodes img as PNG at path.
func WritePNG(path string, img image.Image) error {
	return writeFile(path, func(f *os.File) error { return png.Encode(f, img) })
}

// WriteWebP encodes img as lossless WebP at path.
func WriteWebP(path string, img image.Image) error {
	return writeFile(path, func(f *os.File) error { return nativewebp.Encode(f, img, nil) })
}

// WriteGIF writes frames as a looping animation. delay is in 100ths of a second.
func WriteGIF(path string, frames []*tunnel.Frame, delay, scale int) error {
	out := &gif.GIF{
		Image: make([]*image.Paletted, 0, len(frames)),
		Delay: make([]int, 0, len(frames)),
	}
	for _, f := range frames {
		out.Image = append(out.Image, greenPaletted(Upscale(f.Image(), scale)))
		out.Delay = append(out.Delay, delay)
	}
	return writeFile(path, func(f *os.File) error { return gif.EncodeAll(f, out) })
}

// greenPaletted indexes img by its green channel.
func greenPaletted(img *image.RGBA) *image.Paletted {
	b := img.Bounds()
	p := image.NewPaletted(b, greenPalette)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			p.Pix[p.PixOffset(x, y)] = img.Pix[img.PixOffset(x, y)+1]
		}
	}
	return p
}

func writeFile(path string, encode func(*os.File) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("snapshot: create %s: %w", path, err)
	}
	if err := encode(f); err != nil {
		f.Close()
		return fmt.Errorf("snapshot: encode %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("snapshot: close %s: %w", path, err)
	}
	return nil
}
