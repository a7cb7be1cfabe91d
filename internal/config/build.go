package config

import (
	"fmt"

	"tunnel/internal/tunnel"
)

// Texture generates the XOR tile, or loads TextureFile when set.
func (c Config) Texture() (*tunnel.Texture, error) {
	if c.TextureFile != "" {
		return tunnel.LoadTexture(c.TextureFile, c.TextureSize, c.TextureSize)
	}
	return tunnel.GenerateTexture(c.TextureSize, c.TextureSize)
}

// Renderer builds the texture, projection table and renderer described by c.
// oversized forces a view-bob margin even when ViewBob is off, so the sway can
// be toggled at runtime.
func (c Config) Renderer(oversized bool) (*tunnel.Renderer, error) {
	tex, err := c.Texture()
	if err != nil {
		return nil, err
	}
	table, err := tunnel.NewProjectionTable(tunnel.ProjectionConfig{
		Width:         c.Width,
		Height:        c.Height,
		TextureWidth:  tex.Width,
		TextureHeight: tex.Height,
		Ratio:         c.Ratio,
		Oversized:     oversized || c.ViewBob,
	})
	if err != nil {
		return nil, fmt.Errorf("building projection table: %w", err)
	}
	r, err := tunnel.NewRenderer(tex, table, tunnel.Options{
		Width:   c.Width,
		Height:  c.Height,
		ScrollX: c.ScrollX,
		ScrollY: c.ScrollY,
		ViewBob: c.ViewBob,
		Bands:   c.Bands,
	})
	if err != nil {
		return nil, fmt.Errorf("creating renderer: %w", err)
	}
	return r, nil
}

// NewClock returns the animation clock selected by c.Clock.
func (c Config) NewClock() (tunnel.Clock, error) {
	switch c.Clock {
	case ClockWall:
		return tunnel.NewWallClock(nil), nil
	case ClockFixed:
		return tunnel.NewFixedClock(c.Step)
	}
	return nil, fmt.Errorf("%w: clock %q", ErrInvalid, c.Clock)
}
