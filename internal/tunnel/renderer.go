package tunnel

import (
	"errors"
	"fmt"
	"math"
	"sync"
)

// Default per-axis scroll speeds, in texture widths/heights per unit of phase.
const (
	DefaultScrollX = 0.5
	DefaultScrollY = 0.1
)

var (
	ErrBufferSize      = errors.New("tunnel: destination buffer does not match output size")
	ErrTableTooSmall   = errors.New("tunnel: projection table smaller than the sampled window")
	ErrTextureMismatch = errors.New("tunnel: projection table was built for a different texture size")
	ErrClosed          = errors.New("tunnel: renderer closed")
)

// Options configures a Renderer.
type Options struct {
	Width, Height    int
	ScrollX, ScrollY float64
	// ViewBob sways the sampling window across an oversized table.
	ViewBob bool
	// Bands is the number of row ranges rendered concurrently. Values below 2
	// render on the calling goroutine.
	Bands int
}

// DefaultOptions returns single-band options with the default scroll speeds.
func DefaultOptions(width, height int) Options {
	return Options{
		Width:   width,
		Height:  height,
		ScrollX: DefaultScrollX,
		ScrollY: DefaultScrollY,
		Bands:   1,
	}
}

// FrameOffsets are the per-frame scalars derived from the phase. ShiftX and
// ShiftY are already reduced into texture range.
type FrameOffsets struct {
	ShiftX, ShiftY int
	LookX, LookY   int
}

// Renderer maps every output pixel through the projection table into the
// texture. Texture and table are shared read-only; Render is the only writer
// and touches nothing but the destination buffer.
type Renderer struct {
	tex   *Texture
	table *ProjectionTable
	opts  Options

	mu     sync.Mutex
	pool   *bandPool
	bands  int
	closed bool
}

// NewRenderer validates the table extent against opts and starts the band
// workers when opts.Bands > 1.
func NewRenderer(tex *Texture, table *ProjectionTable, opts Options) (*Renderer, error) {
	if opts.Width <= 0 || opts.Height <= 0 {
		return nil, fmt.Errorf("renderer %dx%d: %w", opts.Width, opts.Height, ErrInvalidSize)
	}
	if table.TextureWidth != tex.Width || table.TextureHeight != tex.Height {
		return nil, fmt.Errorf("table for %dx%d, texture %dx%d: %w",
			table.TextureWidth, table.TextureHeight, tex.Width, tex.Height, ErrTextureMismatch)
	}
	needW, needH := opts.Width, opts.Height
	if opts.ViewBob {
		needW, needH = 2*opts.Width, 2*opts.Height
	}
	if table.Stride < needW || table.Rows < needH {
		return nil, fmt.Errorf("table %dx%d, need %dx%d: %w",
			table.Stride, table.Rows, needW, needH, ErrTableTooSmall)
	}
	r := &Renderer{tex: tex, table: table, opts: opts}
	r.setBandsLocked(opts.Bands)
	return r, nil
}

// Width returns the output width in pixels.
func (r *Renderer) Width() int { return r.opts.Width }

// Height returns the output height in pixels.
func (r *Renderer) Height() int { return r.opts.Height }

func (r *Renderer) Texture() *Texture        { return r.tex }
func (r *Renderer) Table() *ProjectionTable { return r.table }

// Bands returns the effective number of concurrently rendered row ranges.
func (r *Renderer) Bands() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.bands
}

// SetBands replaces the worker pool. It waits for an in-flight Render.
func (r *Renderer) SetBands(n int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return ErrClosed
	}
	r.setBandsLocked(n)
	return nil
}

func (r *Renderer) setBandsLocked(n int) {
	n = clampInt(n, 1, r.opts.Height)
	if r.pool != nil {
		r.pool.close()
		r.pool = nil
	}
	r.bands = n
	if n > 1 {
		r.pool = newBandPool(splitBands(r.opts.Height, n))
	}
}

// ViewBob reports whether the camera sway is enabled.
func (r *Renderer) ViewBob() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.opts.ViewBob
}

// SetViewBob toggles the camera sway. Enabling it needs an oversized table.
func (r *Renderer) SetViewBob(on bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if on && (r.table.Stride < 2*r.opts.Width || r.table.Rows < 2*r.opts.Height) {
		return fmt.Errorf("view bob on %dx%d table: %w", r.table.Stride, r.table.Rows, ErrTableTooSmall)
	}
	r.opts.ViewBob = on
	return nil
}

// Offsets computes the scroll and view-bob offsets for phase.
func (r *Renderer) Offsets(phase float64) FrameOffsets {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.offsetsLocked(phase)
}

func (r *Renderer) offsetsLocked(phase float64) FrameOffsets {
	tw, th := r.tex.Width, r.tex.Height
	off := FrameOffsets{
		ShiftX: floorModFloat(float64(tw)*phase*r.opts.ScrollX, tw, 0),
		ShiftY: floorModFloat(float64(th)*phase*r.opts.ScrollY, th, 0),
	}
	if r.opts.ViewBob {
		halfW := float64(r.opts.Width) / 2
		halfH := float64(r.opts.Height) / 2
		off.LookX = clampInt(truncate(halfW+halfW*math.Sin(phase)), 0, r.table.Stride-r.opts.Width)
		off.LookY = clampInt(truncate(halfH+halfH*math.Sin(2*phase)), 0, r.table.Rows-r.opts.Height)
	}
	return off
}

// truncate converts v toward zero, mapping NaN to 0.
func truncate(v float64) int {
	if math.IsNaN(v) {
		return 0
	}
	return int(v)
}

// Render fills dst, a Width*Height*4 RGBA buffer, with the frame at phase.
// It returns once every band has been written.
func (r *Renderer) Render(phase float64, dst []byte) error {
	if want := r.opts.Width * r.opts.Height * 4; len(dst) != want {
		return fmt.Errorf("got %d bytes, want %d: %w", len(dst), want, ErrBufferSize)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return ErrClosed
	}
	off := r.offsetsLocked(phase)
	if r.pool == nil {
		r.renderRows(dst, off, 0, r.opts.Height)
		return nil
	}
	r.pool.run(func(b band) {
		r.renderRows(dst, off, b.y0, b.y1)
	})
	return nil
}

// RenderFrame renders into f, which must match the output size.
func (r *Renderer) RenderFrame(phase float64, f *Frame) error {
	if f.Width != r.opts.Width || f.Height != r.opts.Height {
		return fmt.Errorf("frame %dx%d, renderer %dx%d: %w",
			f.Width, f.Height, r.opts.Width, r.opts.Height, ErrBufferSize)
	}
	return r.Render(phase, f.Pix)
}

// renderRows writes output rows [y0, y1).
func (r *Renderer) renderRows(dst []byte, off FrameOffsets, y0, y1 int) {
	width := r.opts.Width
	tw, th := r.tex.Width, r.tex.Height
	texPix := r.tex.Pix
	stride := r.table.Stride
	for y := y0; y < y1; y++ {
		src := (y+off.LookY)*stride + off.LookX
		dist := r.table.Distance[src : src+width]
		ang := r.table.Angle[src : src+width]
		row := dst[y*width*4 : (y+1)*width*4]
		for x := 0; x < width; x++ {
			tx := (int(dist[x]) + off.ShiftX) % tw
			ty := (int(ang[x]) + off.ShiftY) % th
			p := row[x*4 : x*4+4 : x*4+4]
			p[0] = 0
			p[1] = texPix[ty*tw+tx]
			p[2] = 0
			p[3] = 0xff
		}
	}
}

// Close stops the band workers. Render fails with ErrClosed afterwards.
func (r *Renderer) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return
	}
	if r.pool != nil {
		r.pool.close()
		r.pool = nil
	}
	r.closed = true
}
