package main

import (
	"fmt"
	"log"
	"time"

	"tunnel/internal/config"
	"tunnel/internal/tunnel"
)

// Game owns the animation clock and the render backends. The phase advanced in
// Update is the only state Draw reads.
type Game struct {
	cfg config.Config

	renderer *tunnel.Renderer
	gpu      *openCLTunnel
	clock    tunnel.Clock

	phase  float64
	paused bool

	pixels             []byte
	drawErr            error
	lastRenderDuration time.Duration
}

// newGame builds the texture, tables and backends described by cfg.
func newGame(cfg config.Config) (*Game, error) {
	// Always build the oversized table so the B key can toggle the sway.
	r, err := cfg.Renderer(true)
	if err != nil {
		return nil, err
	}
	clock, err := cfg.NewClock()
	if err != nil {
		r.Close()
		return nil, err
	}
	g := &Game{
		cfg:      cfg,
		renderer: r,
		clock:    clock,
		pixels:   make([]byte, cfg.Width*cfg.Height*4),
	}
	if cfg.Backend == config.BackendOpenCL {
		if gpu, err := newOpenCLTunnel(r); err != nil {
			log.Printf("OpenCL backend unavailable, rendering on the CPU: %v", err)
		} else {
			log.Printf("OpenCL backend enabled (device: %s)", gpu.DeviceName())
			g.gpu = gpu
		}
	}
	log.Printf("Tunnel %dx%d, texture %dx%d, %d bands, %s clock",
		cfg.Width, cfg.Height, r.Texture().Width, r.Texture().Height, r.Bands(), cfg.Clock)
	return g, nil
}

// Update handles hotkeys and advances the phase once per tick.
func (g *Game) Update() error {
	if g.drawErr != nil {
		return g.drawErr
	}
	if err := g.handleControls(); err != nil {
		return err
	}
	if g.paused {
		return nil
	}
	phase, err := g.clock.Advance()
	if err != nil {
		return fmt.Errorf("advancing clock: %w", err)
	}
	g.phase = phase
	return nil
}

// Close releases the band workers and any device resources.
func (g *Game) Close() {
	if g.gpu != nil {
		g.gpu.Close()
		g.gpu = nil
	}
	g.renderer.Close()
}
