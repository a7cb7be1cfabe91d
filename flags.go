package main

import (
	"flag"

	"tunnel/internal/config"
)

// Command-line flags for the viewer. Non-zero values override the JSON config
// file passed with -config.
var (
	// configFlag points at an optional JSON config file.
	configFlag = flag.String("config", "", "path to a JSON config file")

	widthFlag  = flag.Int("width", 0, "output width in pixels (default 640)")
	heightFlag = flag.Int("height", 0, "output height in pixels (default 480)")

	// scaleFlag multiplies the window size; the effect still renders at width x height.
	scaleFlag = flag.Int("scale", 0, "window scale factor (default 1)")

	textureSizeFlag = flag.Int("texture-size", 0, "texture tile edge in texels (default 256)")

	// textureFileFlag replaces the XOR tile with a PNG, JPEG or TGA image.
	textureFileFlag = flag.String("texture", "", "image file to use as the tunnel texture")

	ratioFlag = flag.Float64("ratio", 0, "distance scale of the projection table (default 64)")

	// clockFlag selects the animation clock: a fixed step per tick or wall time.
	clockFlag = flag.String("clock", "", "animation clock: fixed or wall (default fixed)")
	stepFlag  = flag.Float64("step", 0, "phase increment per tick for the fixed clock (default 0.1)")

	// bandsFlag sets how many row bands render concurrently.
	bandsFlag = flag.Int("bands", 0, "concurrent render bands (default NumCPU)")

	// viewBobFlag toggles the swaying camera.
	viewBobFlag = flag.Bool("view-bob", true, "sway the view across the projection table")

	// backendFlag picks the CPU renderer or the OpenCL kernel.
	backendFlag = flag.String("backend", "", "render backend: cpu or opencl (default cpu)")

	// debugFlag enables the FPS overlay and the band hotkeys.
	debugFlag = flag.Bool("debug", false, "show FPS and render timing overlay")

	// cpuProfileFlag writes a pprof CPU profile for the whole session.
	cpuProfileFlag = flag.String("cpuprofile", "", "write a CPU profile to this file")
	memProfileFlag = flag.String("memprofile", "", "write a heap profile to this file on exit")
)

// flagOverrides collects the parsed flags into config overrides.
func flagOverrides() config.Flags {
	f := config.Flags{
		Width:       *widthFlag,
		Height:      *heightFlag,
		WindowScale: *scaleFlag,
		TextureSize: *textureSizeFlag,
		TextureFile: *textureFileFlag,
		Ratio:       *ratioFlag,
		Clock:       *clockFlag,
		Step:        *stepFlag,
		Bands:       *bandsFlag,
		Backend:     *backendFlag,
	}
	flag.Visit(func(fl *flag.Flag) {
		if fl.Name == "view-bob" {
			f.ViewBob = viewBobFlag
		}
	})
	return f
}
