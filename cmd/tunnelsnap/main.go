// Command tunnelsnap renders tunnel frames without a window and writes them
// as PNG or WebP stills, or as one animated GIF.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"time"

	"tunnel/internal/config"
	"tunnel/internal/snapshot"
)

var (
	configFlag  = flag.String("config", "", "path to a JSON config file")
	widthFlag   = flag.Int("width", 0, "output width in pixels (default 640)")
	heightFlag  = flag.Int("height", 0, "output height in pixels (default 480)")
	textureFlag = flag.String("texture", "", "image file to use as the tunnel texture")
	texSizeFlag = flag.Int("texture-size", 0, "texture tile edge in texels (default 256)")
	ratioFlag   = flag.Float64("ratio", 0, "distance scale of the projection table (default 64)")
	stepFlag    = flag.Float64("step", 0, "phase increment per frame (default 0.1)")
	bandsFlag   = flag.Int("bands", 0, "concurrent render bands (default NumCPU)")
	viewBobFlag = flag.Bool("view-bob", true, "sway the view across the projection table")

	framesFlag  = flag.Int("frames", 60, "number of frames to render")
	outFlag     = flag.String("out", "frames", "output directory")
	prefixFlag  = flag.String("prefix", "tunnel", "output file name prefix")
	formatFlag  = flag.String("format", snapshot.FormatPNG, "output format: png, webp or gif")
	scaleFlag   = flag.Int("scale", 1, "integer upscale factor applied before encoding")
	workersFlag = flag.Int("workers", 0, "concurrent encoders (default NumCPU)")
	delayFlag   = flag.Int("delay", 4, "GIF frame delay in 100ths of a second")

	// textureOutFlag also writes the texture tile, as sampled, to a PNG.
	textureOutFlag = flag.String("texture-out", "", "write the texture tile to this PNG file")
)

func main() {
	flag.Parse()

	cfg := config.Default()
	if *configFlag != "" {
		var err error
		if cfg, err = config.Load(*configFlag); err != nil {
			log.Fatalf("Configuration error: %v", err)
		}
	}
	overrides := config.Flags{
		Width:       *widthFlag,
		Height:      *heightFlag,
		TextureSize: *texSizeFlag,
		TextureFile: *textureFlag,
		Ratio:       *ratioFlag,
		Step:        *stepFlag,
		Bands:       *bandsFlag,
	}
	flag.Visit(func(fl *flag.Flag) {
		if fl.Name == "view-bob" {
			overrides.ViewBob = viewBobFlag
		}
	})
	cfg.Resolve(overrides)
	// Exports are reproducible: one fixed step per frame regardless of the file.
	if cfg.Clock != config.ClockFixed {
		log.Printf("Clock %q ignored; exporting with a fixed step of %v", cfg.Clock, cfg.Step)
		cfg.Clock = config.ClockFixed
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Configuration error: %v", err)
	}

	r, err := cfg.Renderer(false)
	if err != nil {
		log.Fatalf("Tunnel initialization failed: %v", err)
	}
	defer r.Close()
	if *textureOutFlag != "" {
		if err := snapshot.WritePNG(*textureOutFlag, r.Texture().Image()); err != nil {
			log.Fatalf("Writing texture: %v", err)
		}
	}
	clock, err := cfg.NewClock()
	if err != nil {
		log.Fatalf("Clock setup failed: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	start := time.Now()
	paths, err := snapshot.Export(ctx, r, clock, snapshot.Options{
		Dir:     *outFlag,
		Prefix:  *prefixFlag,
		Format:  *formatFlag,
		Frames:  *framesFlag,
		Scale:   *scaleFlag,
		Workers: *workersFlag,
		Delay:   *delayFlag,
	})
	if err != nil {
		log.Fatalf("Export failed: %v", err)
	}
	log.Printf("Wrote %d file(s) for %d frames at %dx%d in %v", len(paths), *framesFlag, cfg.Width, cfg.Height, time.Since(start).Round(time.Millisecond))
}
