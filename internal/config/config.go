package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"runtime"
)

// Clock modes.
const (
	ClockFixed = "fixed"
	ClockWall  = "wall"
)

// Render backends.
const (
	BackendCPU    = "cpu"
	BackendOpenCL = "opencl"
)

// ErrInvalid is wrapped by every Validate failure.
var ErrInvalid = errors.New("config: invalid")

// Config holds the resolution, effect and runtime settings shared by the
// viewer and the snapshot exporter.
type Config struct {
	// Output
	Width       int `json:"width"`
	Height      int `json:"height"`
	WindowScale int `json:"window_scale"`
	TPS         int `json:"tps"`

	// Effect
	TextureSize int     `json:"texture_size"`
	TextureFile string  `json:"texture_file"`
	Ratio       float64 `json:"ratio"`
	ScrollX     float64 `json:"scroll_x"`
	ScrollY     float64 `json:"scroll_y"`
	ViewBob     bool    `json:"view_bob"`

	// Animation
	Clock string  `json:"clock"`
	Step  float64 `json:"step"`

	// Execution
	Bands   int    `json:"bands"`
	Backend string `json:"backend"`
}

// Flags carries command-line overrides. Zero values leave the config as is.
type Flags struct {
	Width       int
	Height      int
	WindowScale int
	TextureSize int
	TextureFile string
	Ratio       float64
	Clock       string
	Step        float64
	Bands       int
	Backend     string
	ViewBob     *bool
}

// Default returns the settings of the classic 640x480 tunnel.
func Default() Config {
	return Config{
		Width:       640,
		Height:      480,
		WindowScale: 1,
		TPS:         60,
		TextureSize: 256,
		Ratio:       64.0,
		ScrollX:     0.5,
		ScrollY:     0.1,
		ViewBob:     true,
		Clock:       ClockFixed,
		Step:        0.1,
		Bands:       runtime.NumCPU(),
		Backend:     BackendCPU,
	}
}

// Load reads a JSON config file on top of Default.
// Fields not set in the file keep their default values.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := json.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return cfg, nil
}

// Resolve applies CLI overrides. Flags take priority when non-zero/non-empty.
func (c *Config) Resolve(flags Flags) {
	if flags.Width > 0 {
		c.Width = flags.Width
	}
	if flags.Height > 0 {
		c.Height = flags.Height
	}
	if flags.WindowScale > 0 {
		c.WindowScale = flags.WindowScale
	}
	if flags.TextureSize > 0 {
		c.TextureSize = flags.TextureSize
	}
	if flags.TextureFile != "" {
		c.TextureFile = flags.TextureFile
	}
	if flags.Ratio != 0 {
		c.Ratio = flags.Ratio
	}
	if flags.Clock != "" {
		c.Clock = flags.Clock
	}
	if flags.Step > 0 {
		c.Step = flags.Step
	}
	if flags.Bands > 0 {
		c.Bands = flags.Bands
	}
	if flags.Backend != "" {
		c.Backend = flags.Backend
	}
	if flags.ViewBob != nil {
		c.ViewBob = *flags.ViewBob
	}
	if c.Bands < 1 {
		c.Bands = 1
	}
}

// Validate rejects settings no tunnel can be built from.
func (c Config) Validate() error {
	switch {
	case c.Width <= 0 || c.Height <= 0:
		return fmt.Errorf("%w: resolution %dx%d", ErrInvalid, c.Width, c.Height)
	case c.TextureSize <= 0:
		return fmt.Errorf("%w: texture size %d", ErrInvalid, c.TextureSize)
	case c.WindowScale <= 0:
		return fmt.Errorf("%w: window scale %d", ErrInvalid, c.WindowScale)
	case c.TPS <= 0:
		return fmt.Errorf("%w: tps %d", ErrInvalid, c.TPS)
	case !finite(c.Ratio) || !finite(c.ScrollX) || !finite(c.ScrollY):
		return fmt.Errorf("%w: ratio and scroll speeds must be finite", ErrInvalid)
	case c.Clock != ClockFixed && c.Clock != ClockWall:
		return fmt.Errorf("%w: clock %q (want %q or %q)", ErrInvalid, c.Clock, ClockFixed, ClockWall)
	case c.Clock == ClockFixed && (!finite(c.Step) || c.Step < 0):
		return fmt.Errorf("%w: step %v", ErrInvalid, c.Step)
	case c.Backend != BackendCPU && c.Backend != BackendOpenCL:
		return fmt.Errorf("%w: backend %q (want %q or %q)", ErrInvalid, c.Backend, BackendCPU, BackendOpenCL)
	}
	return nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
