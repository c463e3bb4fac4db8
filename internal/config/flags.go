package config

import (
	"flag"
	"fmt"
	"strconv"
	"strings"
)

var (
	flagConfig     = flag.String("config", "", "Path to config file")
	flagDebug      = flag.Bool("debug", false, "Enable debug logging")
	flagSize       = flag.Int("size", 0, "Cloth vertices per side")
	flagRes        = flag.Float64("res", 0, "Cloth vertex spacing")
	flagColor      = flag.Bool("color", false, "Shade with gradient colours instead of normals")
	flagWindowed   = flag.Bool("windowed", false, "Run in windowed mode")
	flagFullscreen = flag.Bool("fullscreen", false, "Run in fullscreen mode")
	flagWidth      = flag.Int("width", 0, "Window width")
	flagHeight     = flag.Int("height", 0, "Window height")
	flagWireframe  = flag.Bool("wireframe", false, "Draw triangle edges only")
	flagSteps      = flag.Int("steps", 0, "Number of steps for headless runs")
	flagHeld       = flag.String("held", "", "Comma-separated pinned mass indices, e.g. 0,99")
)

// ParseFlags parses command-line flags. Call this early in main().
func ParseFlags() {
	flag.Parse()
}

// ConfigPath returns the explicit config path if provided via --config flag.
func ConfigPath() string {
	return *flagConfig
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config) error {
	if *flagDebug {
		cfg.Logging.Level = "debug"
		cfg.Graphics.ShowFPS = true
	}
	if *flagSize > 0 {
		cfg.Cloth.Size = *flagSize
	}
	if *flagRes > 0 {
		cfg.Cloth.Resolution = float32(*flagRes)
	}
	if *flagColor {
		cfg.Cloth.Attribute = "color"
	}
	if *flagWindowed {
		cfg.Graphics.Fullscreen = false
	}
	if *flagFullscreen {
		cfg.Graphics.Fullscreen = true
	}
	if *flagWidth > 0 {
		cfg.Graphics.Width = *flagWidth
	}
	if *flagHeight > 0 {
		cfg.Graphics.Height = *flagHeight
	}
	if *flagWireframe {
		cfg.Graphics.Wireframe = true
	}
	if *flagSteps > 0 {
		cfg.Bench.Steps = *flagSteps
	}
	if *flagHeld != "" {
		held, err := ParseHeld(*flagHeld)
		if err != nil {
			return fmt.Errorf("--held: %w", err)
		}
		cfg.Cloth.Held = held
	}
	return nil
}

// ParseHeld parses a comma-separated list of mass indices. Blank entries
// are skipped.
func ParseHeld(s string) ([]int, error) {
	var held []int
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		i, err := strconv.Atoi(part)
		if err != nil {
			return nil, fmt.Errorf("invalid index %q", part)
		}
		held = append(held, i)
	}
	return held, nil
}
