// Package viewer implements the interactive OpenGL cloth viewer.
package viewer

import (
	"fmt"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/veandco/go-sdl2/sdl"
	"go.uber.org/zap"

	"github.com/Faultbox/midgard-cloth/internal/cloth"
	"github.com/Faultbox/midgard-cloth/internal/config"
	"github.com/Faultbox/midgard-cloth/internal/engine/camera"
	"github.com/Faultbox/midgard-cloth/internal/engine/debug"
	"github.com/Faultbox/midgard-cloth/internal/engine/input"
	"github.com/Faultbox/midgard-cloth/internal/engine/lighting"
	"github.com/Faultbox/midgard-cloth/internal/engine/renderer"
	"github.com/Faultbox/midgard-cloth/internal/engine/window"
	"github.com/Faultbox/midgard-cloth/internal/logger"
	"github.com/Faultbox/midgard-cloth/internal/sim"
)

const title = "Midgard Cloth"

// Viewer is the interactive OpenGL cloth viewer.
type Viewer struct {
	config   *config.Config
	running  bool
	window   *window.Window
	renderer *renderer.Renderer
	input    *input.Input
	camera   *camera.OrbitCamera
	capture  *debug.FrameCapture

	mesh    *cloth.Mesh
	stepper *sim.Stepper

	captureNext bool
}

// New opens the window and builds the mesh on the GPU.
func New(cfg *config.Config) (*Viewer, error) {
	logger.Info("initializing viewer",
		zap.Int("width", cfg.Graphics.Width),
		zap.Int("height", cfg.Graphics.Height),
		zap.Int("cloth_size", cfg.Cloth.Size),
	)

	v := &Viewer{config: cfg}

	// Create window (this also creates OpenGL context)
	var err error
	v.window, err = window.New(window.Config{
		Title:      title,
		Width:      cfg.Graphics.Width,
		Height:     cfg.Graphics.Height,
		Fullscreen: cfg.Graphics.Fullscreen,
		VSync:      cfg.Graphics.VSync,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create window: %w", err)
	}

	// Create renderer (AFTER window, since OpenGL context must exist)
	width, height := v.window.Size()
	v.renderer, err = renderer.New(renderer.Config{
		Width:     width,
		Height:    height,
		Wireframe: cfg.Graphics.Wireframe,
		Sun: lighting.Sun{
			Azimuth:   cfg.Lighting.Azimuth,
			Elevation: cfg.Lighting.Elevation,
			Ambient:   cfg.Lighting.Ambient,
		},
		BaseColor: mgl32.Vec3{0.85, 0.3, 0.25},
	})
	if err != nil {
		v.window.Close()
		return nil, fmt.Errorf("failed to create renderer: %w", err)
	}

	params := cfg.Cloth.Params()
	v.mesh, err = cloth.New(params, v.renderer.NewClothSink(params.Attr == cloth.AttrNormal))
	if err != nil {
		v.renderer.Close()
		v.window.Close()
		return nil, fmt.Errorf("failed to create cloth: %w", err)
	}
	v.stepper = sim.NewStepper(v.mesh, cfg.Cloth.Held, cfg.Cloth.Timestep)

	v.input = input.New()
	v.camera = camera.NewOrbitCamera()
	v.fitCamera()
	v.capture = debug.NewFrameCapture("captures", "cloth")

	logger.Info("viewer initialized successfully")
	return v, nil
}

// Run starts the main loop. Each frame advances the cloth by one fixed
// timestep regardless of wall-clock time.
func (v *Viewer) Run() error {
	v.running = true

	frameCount := 0
	fpsTimer := time.Now()

	logger.Info("starting viewer loop")

	for v.running {
		// 1. Process input
		if v.input.Update() {
			v.running = false
			break
		}
		v.handleEvents()

		// 2. Advance the simulation
		v.stepper.Step()

		// 3. Render
		v.render()
		if v.captureNext {
			v.captureNext = false
			v.saveCapture()
		}

		// 4. Present (swap buffers)
		v.window.SwapBuffers()

		// FPS counter
		frameCount++
		if elapsed := time.Since(fpsTimer); elapsed >= time.Second {
			fps := float64(frameCount) / elapsed.Seconds()
			logger.Debug("fps",
				zap.Float64("fps", fps),
				zap.Uint64("step", v.stepper.Steps()),
				zap.Float32("kinetic_energy", v.mesh.KineticEnergy()),
			)
			if v.config.Graphics.ShowFPS {
				v.window.SetTitle(fmt.Sprintf("%s - %.0f fps - t=%.2fs", title, fps, v.stepper.SimTime()))
			}
			frameCount = 0
			fpsTimer = time.Now()
		}
	}

	return nil
}

// Close cleans up viewer resources.
func (v *Viewer) Close() {
	logger.Info("closing viewer")

	if v.mesh != nil {
		v.mesh.Destroy()
	}
	if v.renderer != nil {
		v.renderer.Close()
	}
	if v.window != nil {
		v.window.Close()
	}
}

func (v *Viewer) handleEvents() {
	for _, event := range v.input.Events() {
		switch event.Type {
		case input.EventWindowResize:
			// The drawable can be larger than the window on high-DPI displays.
			width, height := v.window.Size()
			v.renderer.Resize(width, height)
		case input.EventMouseDrag:
			v.camera.HandleDrag(event.DX, event.DY)
		case input.EventMouseWheel:
			v.camera.HandleZoom(event.DY)
		case input.EventKeyDown:
			v.handleKey(event.Key)
		}
	}
}

func (v *Viewer) handleKey(key sdl.Scancode) {
	switch key {
	case sdl.SCANCODE_ESCAPE:
		v.running = false
	case sdl.SCANCODE_SPACE:
		v.stepper.TogglePause()
	case sdl.SCANCODE_N:
		v.stepper.StepOnce()
	case sdl.SCANCODE_R:
		v.stepper.Reset()
	case sdl.SCANCODE_C:
		v.fitCamera()
	case sdl.SCANCODE_F:
		v.renderer.SetWireframe(!v.renderer.Wireframe())
	case sdl.SCANCODE_F5:
		v.saveConfig()
	case sdl.SCANCODE_F12:
		v.captureNext = true
	}
}

// saveConfig writes the running settings, including toggles made with keys,
// to the user config file.
func (v *Viewer) saveConfig() {
	v.config.Graphics.Wireframe = v.renderer.Wireframe()
	if err := v.config.Save(); err != nil {
		logger.Error("failed to save config", zap.Error(err))
		return
	}
	logger.Info("config saved", zap.String("dir", config.ConfigDir()))
}

func (v *Viewer) fitCamera() {
	b := v.mesh.Bounds()
	v.camera.FitToBounds(b.Min, b.Max)
}

// render draws the current frame.
func (v *Viewer) render() {
	v.renderer.SetCamera(v.camera.ViewMatrix(), v.camera.ProjectionMatrix(v.renderer.Aspect()))

	v.renderer.Begin()
	v.mesh.Render()
	v.renderer.End()
}

func (v *Viewer) saveCapture() {
	pixels, width, height := v.renderer.ReadPixels()
	path, err := v.capture.CaptureFromPixels(pixels, width, height, v.stepper.Steps())
	if err != nil {
		logger.Error("frame capture failed", zap.Error(err))
		return
	}
	logger.Info("frame captured", zap.String("path", path))
}
