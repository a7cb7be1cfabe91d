package main

import (
	"flag"
	"log"
	"runtime"

	"github.com/hajimehoshi/ebiten/v2"

	"tunnel/internal/config"
)

// loadConfig layers the optional JSON file and the command-line flags over
// the defaults.
func loadConfig() (config.Config, error) {
	cfg := config.Default()
	if *configFlag != "" {
		var err error
		if cfg, err = config.Load(*configFlag); err != nil {
			return cfg, err
		}
	}
	cfg.Resolve(flagOverrides())
	return cfg, cfg.Validate()
}

func main() {
	flag.Parse()
	runtime.GOMAXPROCS(runtime.NumCPU())

	cfg, err := loadConfig()
	if err != nil {
		log.Fatalf("Configuration error: %v", err)
	}

	prof, err := startProfiling(*cpuProfileFlag, *memProfileFlag)
	if err != nil {
		log.Fatalf("Profiling setup failed: %v", err)
	}

	g, err := newGame(cfg)
	if err != nil {
		log.Fatalf("Tunnel initialization failed: %v", err)
	}

	ebiten.SetWindowSize(cfg.Width*cfg.WindowScale, cfg.Height*cfg.WindowScale)
	ebiten.SetWindowTitle(windowTitle)
	ebiten.SetTPS(cfg.TPS)
	runErr := ebiten.RunGame(g)

	g.Close()
	if err := prof.stop(); err != nil {
		log.Printf("Profiling: %v", err)
	}
	if runErr != nil {
		log.Fatalf("Game loop stopped: %v", runErr)
	}
}
