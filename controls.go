package main

import (
	"log"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"tunnel/internal/config"
)

// handleControls processes the viewer hotkeys. Escape ends the game loop.
func (g *Game) handleControls() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyP) {
		g.paused = !g.paused
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyB) {
		if err := g.renderer.SetViewBob(!g.renderer.ViewBob()); err != nil {
			log.Printf("Toggling view bob: %v", err)
		}
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyC) {
		g.toggleClock()
	}
	g.handleDebugControls()
	return nil
}

// toggleClock swaps between the fixed-step and wall clocks. The fixed clock
// restarts from phase zero.
func (g *Game) toggleClock() {
	cfg := g.cfg
	if cfg.Clock == config.ClockFixed {
		cfg.Clock = config.ClockWall
	} else {
		cfg.Clock = config.ClockFixed
	}
	clock, err := cfg.NewClock()
	if err != nil {
		log.Printf("Switching clock: %v", err)
		return
	}
	g.cfg = cfg
	g.clock = clock
	log.Printf("Clock: %s", cfg.Clock)
}

// handleDebugControls processes debug overlay hotkeys.
func (g *Game) handleDebugControls() {
	if !*debugFlag {
		return
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyMinus) || inpututil.IsKeyJustPressed(ebiten.KeyKPSubtract) {
		g.adjustBands(-bandStep)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEqual) || inpututil.IsKeyJustPressed(ebiten.KeyKPAdd) {
		g.adjustBands(bandStep)
	}
}

// adjustBands clamps the band count delta within bounds.
func (g *Game) adjustBands(delta int) {
	n := g.renderer.Bands() + delta
	if n < minBands {
		n = minBands
	} else if n > maxBands {
		n = maxBands
	}
	if err := g.renderer.SetBands(n); err != nil {
		log.Printf("Resizing band pool: %v", err)
	}
}
