package main

import (
	"fmt"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
)

// Draw renders the current phase and uploads it to the screen.
func (g *Game) Draw(screen *ebiten.Image) {
	start := time.Now()
	if err := g.renderFrame(); err != nil {
		// Draw cannot fail; Update reports the error on the next tick.
		g.drawErr = fmt.Errorf("rendering frame: %w", err)
		return
	}
	g.lastRenderDuration = time.Since(start)
	screen.WritePixels(g.pixels)

	if *debugFlag {
		renderMS := g.lastRenderDuration.Seconds() * 1000
		debugMsg := fmt.Sprintf(debugLineFormat,
			ebiten.ActualFPS(), ebiten.ActualTPS(),
			g.backendName(), g.renderer.Bands(),
			renderMS, g.phase,
			g.renderer.ViewBob(), g.paused,
			g.cfg.Clock)
		ebitenutil.DebugPrint(screen, debugMsg)
	}
}

// renderFrame fills g.pixels from the active backend.
func (g *Game) renderFrame() error {
	if g.gpu != nil {
		return g.gpu.Render(g.phase, g.pixels)
	}
	return g.renderer.Render(g.phase, g.pixels)
}

func (g *Game) backendName() string {
	if g.gpu != nil {
		return "opencl"
	}
	return "cpu"
}

// Layout reports the logical screen size used by Ebiten.
func (g *Game) Layout(_, _ int) (int, int) { return g.cfg.Width, g.cfg.Height }
