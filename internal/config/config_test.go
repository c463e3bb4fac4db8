package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Faultbox/midgard-cloth/internal/cloth"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Cloth.Size != 100 {
		t.Errorf("expected size 100, got %d", cfg.Cloth.Size)
	}
	if cfg.Cloth.Resolution != 0.5 {
		t.Errorf("expected resolution 0.5, got %f", cfg.Cloth.Resolution)
	}
	if cfg.Cloth.Timestep != 0.01 {
		t.Errorf("expected timestep 0.01, got %f", cfg.Cloth.Timestep)
	}
	if cfg.Cloth.Gravity != 9.8 {
		t.Errorf("expected gravity 9.8, got %f", cfg.Cloth.Gravity)
	}
	if len(cfg.Cloth.Held) != 2 || cfg.Cloth.Held[0] != 35 || cfg.Cloth.Held[1] != 1022 {
		t.Errorf("expected held [35 1022], got %v", cfg.Cloth.Held)
	}
	if cfg.Cloth.Attribute != "normal" {
		t.Errorf("expected attribute normal, got %s", cfg.Cloth.Attribute)
	}
	if !cfg.Cloth.NormalizeNormals {
		t.Error("expected normalize_normals to be true by default")
	}

	if cfg.Graphics.Width != 1280 || cfg.Graphics.Height != 720 {
		t.Errorf("expected 1280x720, got %dx%d", cfg.Graphics.Width, cfg.Graphics.Height)
	}
	if !cfg.Graphics.VSync {
		t.Error("expected vsync to be true by default")
	}
	if cfg.Graphics.Wireframe {
		t.Error("expected wireframe to be false by default")
	}

	if cfg.Logging.Level != "info" {
		t.Errorf("expected log level 'info', got %s", cfg.Logging.Level)
	}

	if err := cfg.Validate(); err != nil {
		t.Errorf("default config does not validate: %v", err)
	}
}

func TestParams(t *testing.T) {
	cfg := Default()
	cfg.Cloth.Attribute = "color"
	cfg.Cloth.Stiffness = 250

	p := cfg.Cloth.Params()
	if p.Size != cfg.Cloth.Size || p.Resolution != cfg.Cloth.Resolution {
		t.Errorf("Params() = %+v, lost grid settings", p)
	}
	if p.Stiffness != 250 {
		t.Errorf("Params().Stiffness = %v, want 250", p.Stiffness)
	}
	if p.Attr != cloth.AttrColor {
		t.Errorf("Params().Attr = %v, want color", p.Attr)
	}
}

func TestLoadFromFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "cloth.yaml")

	yamlContent := `
cloth:
  size: 40
  resolution: 0.25
  stiffness: 800
  timestep: 0.005
  held: [0, 39]
  attribute: color

graphics:
  width: 1920
  height: 1080
  wireframe: true

lighting:
  azimuth: 90
  elevation: 30

logging:
  level: "debug"
  log_file: "cloth.log"
`

	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg := Default()
	if err := loadFromFile(cfg, configPath); err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Cloth.Size != 40 {
		t.Errorf("expected size 40, got %d", cfg.Cloth.Size)
	}
	if cfg.Cloth.Resolution != 0.25 {
		t.Errorf("expected resolution 0.25, got %f", cfg.Cloth.Resolution)
	}
	if cfg.Cloth.Stiffness != 800 {
		t.Errorf("expected stiffness 800, got %f", cfg.Cloth.Stiffness)
	}
	if len(cfg.Cloth.Held) != 2 || cfg.Cloth.Held[1] != 39 {
		t.Errorf("expected held [0 39], got %v", cfg.Cloth.Held)
	}
	if cfg.Cloth.Attribute != "color" {
		t.Errorf("expected attribute color, got %s", cfg.Cloth.Attribute)
	}
	// Untouched keys keep their defaults.
	if cfg.Cloth.Gravity != 9.8 {
		t.Errorf("expected default gravity 9.8, got %f", cfg.Cloth.Gravity)
	}

	if cfg.Graphics.Width != 1920 || !cfg.Graphics.Wireframe {
		t.Errorf("graphics not loaded: %+v", cfg.Graphics)
	}
	if cfg.Lighting.Azimuth != 90 || cfg.Lighting.Elevation != 30 {
		t.Errorf("lighting not loaded: %+v", cfg.Lighting)
	}
	if cfg.Logging.Level != "debug" || cfg.Logging.LogFile != "cloth.log" {
		t.Errorf("logging not loaded: %+v", cfg.Logging)
	}

	if err := cfg.Validate(); err != nil {
		t.Errorf("loaded config does not validate: %v", err)
	}
}

func TestLoadFromFileInvalid(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "invalid.yaml")

	invalidYAML := `
cloth:
  size: not a number
  invalid syntax here
`
	if err := os.WriteFile(configPath, []byte(invalidYAML), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	if err := loadFromFile(Default(), configPath); err == nil {
		t.Error("expected error loading invalid YAML, got nil")
	}
}

func TestLoadFromFileMissing(t *testing.T) {
	if err := loadFromFile(Default(), "/nonexistent/path/cloth.yaml"); err == nil {
		t.Error("expected error loading missing file, got nil")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		edit    func(*Config)
		wantErr string
	}{
		{"defaults", func(*Config) {}, ""},
		{"tiny grid", func(c *Config) { c.Cloth.Size = 1; c.Cloth.Held = nil }, "size"},
		{"zero resolution", func(c *Config) { c.Cloth.Resolution = 0 }, "resolution"},
		{"zero mass", func(c *Config) { c.Cloth.Mass = 0 }, "mass"},
		{"zero timestep", func(c *Config) { c.Cloth.Timestep = 0 }, "timestep"},
		{"held past end", func(c *Config) { c.Cloth.Size = 10 }, "held index 1022"},
		{"held past end names the flag", func(c *Config) { c.Cloth.Size = 10 }, "--held 0,9"},
		{"negative held", func(c *Config) { c.Cloth.Held = []int{-1} }, "held index -1"},
		{"bad attribute", func(c *Config) { c.Cloth.Attribute = "uv" }, "attribute"},
		{"zero width", func(c *Config) { c.Graphics.Width = 0 }, "graphics size"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.edit(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Validate() = %v, want nil", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() = %v, want error containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestConfigDir(t *testing.T) {
	dir := ConfigDir()
	if dir == "" {
		t.Error("ConfigDir returned empty string")
	}
	if !filepath.IsAbs(dir) {
		t.Errorf("ConfigDir should return absolute path, got %s", dir)
	}
}

func TestFindConfigFile(t *testing.T) {
	origDir, _ := os.Getwd()
	defer os.Chdir(origDir)

	tmpDir := t.TempDir()
	os.Chdir(tmpDir)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(tmpDir, "xdg"))

	if path := findConfigFile(); path != "" {
		t.Errorf("expected empty path when no config exists, got %s", path)
	}

	if err := os.WriteFile(filepath.Join(tmpDir, "cloth.yaml"), []byte("cloth:\n  size: 50\n"), 0644); err != nil {
		t.Fatalf("failed to create test config: %v", err)
	}
	if path := findConfigFile(); path == "" {
		t.Error("expected to find cloth.yaml in current directory")
	}
}

func TestApplyFlags(t *testing.T) {
	tests := []struct {
		name     string
		setup    func()
		verify   func(*Config)
		teardown func()
	}{
		{
			name:  "debug flag",
			setup: func() { *flagDebug = true },
			verify: func(cfg *Config) {
				if cfg.Logging.Level != "debug" {
					t.Errorf("expected log level 'debug', got %s", cfg.Logging.Level)
				}
				if !cfg.Graphics.ShowFPS {
					t.Error("expected show_fps to be enabled with debug flag")
				}
			},
			teardown: func() { *flagDebug = false },
		},
		{
			name: "grid flags",
			setup: func() {
				*flagSize = 64
				*flagRes = 0.25
			},
			verify: func(cfg *Config) {
				if cfg.Cloth.Size != 64 || cfg.Cloth.Resolution != 0.25 {
					t.Errorf("expected 64 @ 0.25, got %d @ %f", cfg.Cloth.Size, cfg.Cloth.Resolution)
				}
			},
			teardown: func() {
				*flagSize = 0
				*flagRes = 0
			},
		},
		{
			name:  "color flag",
			setup: func() { *flagColor = true },
			verify: func(cfg *Config) {
				if cfg.Cloth.Attribute != "color" {
					t.Errorf("expected attribute color, got %s", cfg.Cloth.Attribute)
				}
			},
			teardown: func() { *flagColor = false },
		},
		{
			name:  "fullscreen flag",
			setup: func() { *flagFullscreen = true },
			verify: func(cfg *Config) {
				if !cfg.Graphics.Fullscreen {
					t.Error("expected fullscreen to be true with fullscreen flag")
				}
			},
			teardown: func() { *flagFullscreen = false },
		},
		{
			name: "window size flags",
			setup: func() {
				*flagWidth = 2560
				*flagHeight = 1440
			},
			verify: func(cfg *Config) {
				if cfg.Graphics.Width != 2560 || cfg.Graphics.Height != 1440 {
					t.Errorf("expected 2560x1440, got %dx%d", cfg.Graphics.Width, cfg.Graphics.Height)
				}
			},
			teardown: func() {
				*flagWidth = 0
				*flagHeight = 0
			},
		},
		{
			name:  "wireframe and steps flags",
			setup: func() { *flagWireframe = true; *flagSteps = 42 },
			verify: func(cfg *Config) {
				if !cfg.Graphics.Wireframe {
					t.Error("expected wireframe with wireframe flag")
				}
				if cfg.Bench.Steps != 42 {
					t.Errorf("expected 42 steps, got %d", cfg.Bench.Steps)
				}
			},
			teardown: func() { *flagWireframe = false; *flagSteps = 0 },
		},
		{
			name:  "held flag",
			setup: func() { *flagHeld = "0, 9" },
			verify: func(cfg *Config) {
				if len(cfg.Cloth.Held) != 2 || cfg.Cloth.Held[0] != 0 || cfg.Cloth.Held[1] != 9 {
					t.Errorf("expected held [0 9], got %v", cfg.Cloth.Held)
				}
			},
			teardown: func() { *flagHeld = "" },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setup()
			defer tt.teardown()

			cfg := Default()
			if err := applyFlags(cfg); err != nil {
				t.Fatalf("applyFlags() error = %v", err)
			}
			tt.verify(cfg)
		})
	}
}

func TestApplyFlagsBadHeld(t *testing.T) {
	*flagHeld = "0,x"
	defer func() { *flagHeld = "" }()

	cfg := Default()
	if err := applyFlags(cfg); err == nil {
		t.Error("expected an error for a non-numeric held index")
	}
	if len(cfg.Cloth.Held) != 2 || cfg.Cloth.Held[0] != 35 {
		t.Errorf("held changed on error: %v", cfg.Cloth.Held)
	}
}

func TestParseHeld(t *testing.T) {
	tests := []struct {
		in      string
		want    []int
		wantErr bool
	}{
		{"3", []int{3}, false},
		{"0,99", []int{0, 99}, false},
		{" 1 , 2 ,", []int{1, 2}, false},
		{",", nil, false},
		{"1,two", nil, true},
		{"1.5", nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseHeld(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseHeld(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("ParseHeld(%q) = %v, want %v", tt.in, got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("ParseHeld(%q) = %v, want %v", tt.in, got, tt.want)
				}
			}
		})
	}
}

func TestLoadSmallGridWithHeldFlag(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "cloth.yaml")
	if err := os.WriteFile(configPath, []byte("cloth:\n  size: 8\n"), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	*flagConfig = configPath
	*flagHeld = "0,7"
	defer func() {
		*flagConfig = ""
		*flagHeld = ""
	}()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Cloth.Size != 8 || len(cfg.Cloth.Held) != 2 || cfg.Cloth.Held[1] != 7 {
		t.Errorf("got size %d held %v, want 8 and [0 7]", cfg.Cloth.Size, cfg.Cloth.Held)
	}
}

func TestLoadPriority(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "cloth.yaml")

	yamlContent := `
graphics:
  width: 1600
  height: 900
cloth:
  stiffness: 600
`
	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	*flagConfig = configPath
	*flagWidth = 1920
	defer func() {
		*flagConfig = ""
		*flagWidth = 0
	}()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Graphics.Width != 1920 {
		t.Errorf("expected width 1920 from flag, got %d", cfg.Graphics.Width)
	}
	if cfg.Graphics.Height != 900 {
		t.Errorf("expected height 900 from file, got %d", cfg.Graphics.Height)
	}
	if cfg.Cloth.Stiffness != 600 {
		t.Errorf("expected stiffness 600 from file, got %f", cfg.Cloth.Stiffness)
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "cloth.yaml")
	if err := os.WriteFile(configPath, []byte("cloth:\n  size: 8\n"), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	*flagConfig = configPath
	defer func() { *flagConfig = "" }()

	// Default held indices do not fit an 8×8 grid, and the error says how
	// to fix that from the command line.
	_, err := Load()
	if err == nil {
		t.Fatal("expected Load() to reject held indices outside the grid")
	}
	if !strings.Contains(err.Error(), "--held") {
		t.Errorf("Load() error = %q, want a hint about --held", err)
	}
}

func TestClothValidateAlone(t *testing.T) {
	cc := Default().Cloth
	cc.Size = 4
	cc.Held = []int{0, 3}
	if err := cc.Validate(); err != nil {
		t.Errorf("Validate() = %v, want nil", err)
	}

	cc.Held = []int{16}
	if err := cc.Validate(); err == nil {
		t.Error("Validate() = nil, want error for held index 16 on a 4x4 grid")
	}
}

func TestSaveTo(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "cloth.yaml")

	cfg := Default()
	cfg.Cloth.Size = 48
	cfg.Cloth.Held = []int{0, 47}
	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("SaveTo() error = %v", err)
	}

	loaded := Default()
	if err := loadFromFile(loaded, path); err != nil {
		t.Fatalf("reloading saved config: %v", err)
	}
	if loaded.Cloth.Size != 48 || len(loaded.Cloth.Held) != 2 || loaded.Cloth.Held[1] != 47 {
		t.Errorf("saved config did not survive: %+v", loaded.Cloth)
	}
}
