package tunnel

import (
	"errors"
	"fmt"
	"math"
)

// DefaultRatio is the distance scale used by every shipped configuration.
const DefaultRatio = 64.0

var (
	ErrInvalidRatio  = errors.New("tunnel: ratio must be finite")
	ErrInvalidCenter = errors.New("tunnel: projection center must be finite")
)

// ProjectionConfig describes the sampling grid of a ProjectionTable.
type ProjectionConfig struct {
	// Width and Height are the visible output resolution.
	Width, Height int
	// TextureWidth and TextureHeight bound the stored angle and distance values.
	TextureWidth, TextureHeight int
	Ratio                       float64
	// Oversized doubles the grid in both directions so a view-bob offset of up
	// to Width x Height can shift the sampling window.
	Oversized bool
	// HasCenter selects CenterX/CenterY instead of the default center.
	HasCenter        bool
	CenterX, CenterY float64
}

// ProjectionTable holds the precomputed (distance, angle) pair of every grid
// cell, already reduced into texture coordinates. It is never mutated after
// construction and is safe for concurrent readers.
type ProjectionTable struct {
	Stride int
	Rows   int

	// Width and Height echo the output resolution the table was built for.
	Width  int
	Height int

	TextureWidth  int
	TextureHeight int

	CenterX float64
	CenterY float64
	Ratio   float64

	Distance []int32
	Angle    []int32
}

// NewProjectionTable computes the lookup tables for cfg.
func NewProjectionTable(cfg ProjectionConfig) (*ProjectionTable, error) {
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, fmt.Errorf("projection %dx%d: %w", cfg.Width, cfg.Height, ErrInvalidSize)
	}
	if cfg.TextureWidth <= 0 || cfg.TextureHeight <= 0 {
		return nil, fmt.Errorf("projection texture %dx%d: %w", cfg.TextureWidth, cfg.TextureHeight, ErrInvalidSize)
	}
	if math.IsNaN(cfg.Ratio) || math.IsInf(cfg.Ratio, 0) {
		return nil, fmt.Errorf("projection ratio %v: %w", cfg.Ratio, ErrInvalidRatio)
	}

	cols, rows := cfg.Width, cfg.Height
	cx, cy := float64(cfg.Width)/2, float64(cfg.Height)/2
	if cfg.Oversized {
		cols, rows = 2*cfg.Width, 2*cfg.Height
		cx, cy = float64(cfg.Width), float64(cfg.Height)
	}
	if cfg.HasCenter {
		cx, cy = cfg.CenterX, cfg.CenterY
	}
	if math.IsNaN(cx) || math.IsInf(cx, 0) || math.IsNaN(cy) || math.IsInf(cy, 0) {
		return nil, fmt.Errorf("projection center (%v, %v): %w", cx, cy, ErrInvalidCenter)
	}

	t := &ProjectionTable{
		Stride:        cols,
		Rows:          rows,
		Width:         cfg.Width,
		Height:        cfg.Height,
		TextureWidth:  cfg.TextureWidth,
		TextureHeight: cfg.TextureHeight,
		CenterX:       cx,
		CenterY:       cy,
		Ratio:         cfg.Ratio,
		Distance:      make([]int32, cols*rows),
		Angle:         make([]int32, cols*rows),
	}

	tw := float64(cfg.TextureWidth)
	th := float64(cfg.TextureHeight)
	for y := 0; y < rows; y++ {
		dy := float64(y) - cy
		base := y * cols
		for x := 0; x < cols; x++ {
			dx := float64(x) - cx
			t.Distance[base+x] = int32(cellDistance(dx, dy, cfg.Ratio, th, cfg.TextureHeight))
			t.Angle[base+x] = int32(cellAngle(dx, dy, tw, cfg.TextureWidth))
		}
	}
	return t, nil
}

// cellDistance maps an offset from the center to a depth row of the texture.
// The center itself divides by zero and lands on the last row.
func cellDistance(dx, dy, ratio, th float64, texH int) int {
	return floorModFloat(ratio*th/math.Sqrt(dx*dx+dy*dy), texH, texH-1)
}

// cellAngle maps an offset from the center to a column around the tunnel wall.
func cellAngle(dx, dy, tw float64, texW int) int {
	return floorModFloat(0.5*tw*math.Atan2(dy, dx)/math.Pi, texW, 0)
}

// At returns the (distance, angle) pair stored for grid cell (x, y).
func (t *ProjectionTable) At(x, y int) (int32, int32) {
	i := y*t.Stride + x
	return t.Distance[i], t.Angle[i]
}

// Oversized reports whether the grid carries a view-bob margin.
func (t *ProjectionTable) Oversized() bool {
	return t.Stride >= 2*t.Width && t.Rows >= 2*t.Height
}
