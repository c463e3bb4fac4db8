// Package config handles simulator configuration loading and management.
package config

import (
	"fmt"

	"github.com/Faultbox/midgard-cloth/internal/cloth"
)

// Config holds all simulator settings.
type Config struct {
	Cloth    ClothConfig    `yaml:"cloth"`
	Graphics GraphicsConfig `yaml:"graphics"`
	Lighting LightingConfig `yaml:"lighting"`
	Bench    BenchConfig    `yaml:"bench"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// ClothConfig describes the cloth grid and its physical constants.
type ClothConfig struct {
	Size             int     `yaml:"size"`       // vertices per side
	Resolution       float32 `yaml:"resolution"` // vertex spacing
	Height           float32 `yaml:"height"`
	Mass             float32 `yaml:"mass"`
	Stiffness        float32 `yaml:"stiffness"`
	Gravity          float32 `yaml:"gravity"`
	Drag             float32 `yaml:"drag"`
	Timestep         float32 `yaml:"timestep"` // fixed dt per frame
	Held             []int   `yaml:"held"`     // pinned mass indices
	Attribute        string  `yaml:"attribute"`
	NormalizeNormals bool    `yaml:"normalize_normals"`
}

// GraphicsConfig holds display and rendering settings.
type GraphicsConfig struct {
	Width      int  `yaml:"width"`
	Height     int  `yaml:"height"`
	Fullscreen bool `yaml:"fullscreen"`
	VSync      bool `yaml:"vsync"`
	Wireframe  bool `yaml:"wireframe"`
	ShowFPS    bool `yaml:"show_fps"`
}

// LightingConfig places the directional light used for normal shading.
type LightingConfig struct {
	Azimuth   float32 `yaml:"azimuth"`   // degrees around Y
	Elevation float32 `yaml:"elevation"` // degrees above the horizon
	Ambient   float32 `yaml:"ambient"`
}

// BenchConfig holds settings for headless runs.
type BenchConfig struct {
	Steps       int `yaml:"steps"`
	ReportEvery int `yaml:"report_every"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	p := cloth.DefaultParams()
	return &Config{
		Cloth: ClothConfig{
			Size:             p.Size,
			Resolution:       p.Resolution,
			Height:           p.Height,
			Mass:             p.Mass,
			Stiffness:        p.Stiffness,
			Gravity:          p.Gravity,
			Drag:             p.Drag,
			Timestep:         0.01,
			Held:             []int{35, 1022},
			Attribute:        p.Attr.String(),
			NormalizeNormals: p.NormalizeNormals,
		},
		Graphics: GraphicsConfig{
			Width:      1280,
			Height:     720,
			Fullscreen: false,
			VSync:      true,
			Wireframe:  false,
			ShowFPS:    false,
		},
		Lighting: LightingConfig{
			Azimuth:   45,
			Elevation: 60,
			Ambient:   0.25,
		},
		Bench: BenchConfig{
			Steps:       1000,
			ReportEvery: 100,
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}

// Params converts the cloth section into mesh construction parameters.
func (c *ClothConfig) Params() cloth.Params {
	return cloth.Params{
		Size:             c.Size,
		Resolution:       c.Resolution,
		Height:           c.Height,
		Mass:             c.Mass,
		Stiffness:        c.Stiffness,
		Gravity:          c.Gravity,
		Drag:             c.Drag,
		Attr:             cloth.ParseAttrMode(c.Attribute),
		NormalizeNormals: c.NormalizeNormals,
	}
}

// Validate rejects settings the simulator cannot run with.
func (c *Config) Validate() error {
	if err := c.Cloth.Validate(); err != nil {
		return err
	}
	if c.Graphics.Width <= 0 || c.Graphics.Height <= 0 {
		return fmt.Errorf("graphics size must be positive, got %dx%d", c.Graphics.Width, c.Graphics.Height)
	}
	return nil
}

// Validate checks the cloth section on its own. The lab panel runs it on
// edited settings before rebuilding the mesh.
func (c *ClothConfig) Validate() error {
	if err := c.Params().Validate(); err != nil {
		return err
	}
	if c.Timestep <= 0 {
		return fmt.Errorf("cloth.timestep must be positive, got %v", c.Timestep)
	}
	n := cloth.VertexCount(c.Size)
	for _, h := range c.Held {
		if h < 0 || h >= n {
			return fmt.Errorf("cloth.held index %d outside [0, %d) for a %dx%d grid; set cloth.held or pass --held, e.g. --held 0,%d",
				h, n, c.Size, c.Size, c.Size-1)
		}
	}
	switch c.Attribute {
	case "normal", "color", "colour":
	default:
		return fmt.Errorf("cloth.attribute must be normal or color, got %q", c.Attribute)
	}
	return nil
}
