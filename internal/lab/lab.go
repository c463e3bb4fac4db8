// Package lab is an imgui workbench for tuning cloth parameters while the
// simulation runs. The cloth is drawn offscreen and shown as an image next
// to the parameter panel.
package lab

import (
	"fmt"
	"time"

	"github.com/AllenDang/cimgui-go/backend"
	"github.com/AllenDang/cimgui-go/backend/sdlbackend"
	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/Faultbox/midgard-cloth/internal/cloth"
	"github.com/Faultbox/midgard-cloth/internal/config"
	"github.com/Faultbox/midgard-cloth/internal/engine/camera"
	"github.com/Faultbox/midgard-cloth/internal/engine/debug"
	"github.com/Faultbox/midgard-cloth/internal/engine/framebuffer"
	"github.com/Faultbox/midgard-cloth/internal/engine/lighting"
	"github.com/Faultbox/midgard-cloth/internal/engine/renderer"
	"github.com/Faultbox/midgard-cloth/internal/lab/form"
	"github.com/Faultbox/midgard-cloth/internal/logger"
	"github.com/Faultbox/midgard-cloth/internal/sim"
)

const (
	title      = "Midgard Cloth Lab"
	panelWidth = float32(340)
	noticeTime = 2 * time.Second
)

var errorColor = imgui.NewVec4(1, 0.4, 0.4, 1)

// Lab owns the imgui backend, the offscreen target and the running cloth.
type Lab struct {
	config   *config.Config
	backend  backend.Backend[sdlbackend.SDLWindowFlags]
	renderer *renderer.Renderer
	fb       *framebuffer.Framebuffer
	camera   *camera.OrbitCamera
	capture  *debug.FrameCapture
	stepper  *sim.Stepper

	// Panel state
	form      form.Cloth
	formErr   string
	wireframe bool
	lastMouse imgui.Vec2

	captureNext bool
	notice      string
	noticeAt    time.Time

	frames   int
	fpsTimer time.Time
	fps      float64
}

// New creates the window and builds the configured cloth on the GPU.
func New(cfg *config.Config) (*Lab, error) {
	logger.Info("initializing lab",
		zap.Int("width", cfg.Graphics.Width),
		zap.Int("height", cfg.Graphics.Height),
		zap.Int("cloth_size", cfg.Cloth.Size),
	)

	l := &Lab{
		config:    cfg,
		form:      form.FromConfig(cfg.Cloth),
		wireframe: cfg.Graphics.Wireframe,
		fpsTimer:  time.Now(),
	}

	var err error
	l.backend, err = backend.CreateBackend(sdlbackend.NewSDLBackend())
	if err != nil {
		return nil, fmt.Errorf("failed to create imgui backend: %w", err)
	}
	l.backend.SetBgColor(imgui.NewVec4(0.1, 0.1, 0.12, 1.0))
	l.backend.CreateWindow(title, cfg.Graphics.Width, cfg.Graphics.Height)

	// The backend owns the context; renderer.New loads the GL entry points.
	l.renderer, err = renderer.New(renderer.Config{
		Width:     cfg.Graphics.Width,
		Height:    cfg.Graphics.Height,
		Wireframe: cfg.Graphics.Wireframe,
		Sun: lighting.Sun{
			Azimuth:   cfg.Lighting.Azimuth,
			Elevation: cfg.Lighting.Elevation,
			Ambient:   cfg.Lighting.Ambient,
		},
		BaseColor: mgl32.Vec3{0.85, 0.3, 0.25},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create renderer: %w", err)
	}

	l.fb, err = framebuffer.New(int32(cfg.Graphics.Width), int32(cfg.Graphics.Height))
	if err != nil {
		l.renderer.Close()
		return nil, err
	}

	params := cfg.Cloth.Params()
	mesh, err := cloth.New(params, l.renderer.NewClothSink(params.Attr == cloth.AttrNormal))
	if err != nil {
		l.fb.Destroy()
		l.renderer.Close()
		return nil, fmt.Errorf("failed to create cloth: %w", err)
	}
	l.stepper = sim.NewStepper(mesh, cfg.Cloth.Held, cfg.Cloth.Timestep)

	l.camera = camera.NewOrbitCamera()
	l.fitCamera()
	l.capture = debug.NewFrameCapture("captures", "lab")

	logger.Info("lab initialized successfully")
	return l, nil
}

// Run hands the frame loop to the backend. It returns when the window is
// closed.
func (l *Lab) Run() {
	l.backend.Run(l.frame)
}

// Close releases the cloth and GL objects.
func (l *Lab) Close() {
	logger.Info("closing lab")
	if l.stepper != nil {
		l.stepper.Mesh().Destroy()
	}
	if l.fb != nil {
		l.fb.Destroy()
	}
	if l.renderer != nil {
		l.renderer.Close()
	}
}

// frame runs once per backend frame: one fixed timestep, then the UI.
func (l *Lab) frame() {
	// The framebuffer still holds last frame's cloth at this point.
	if l.captureNext {
		l.captureNext = false
		l.saveCapture()
	}

	l.handleShortcuts()
	l.stepper.Step()

	viewport := imgui.MainViewport()
	workPos := viewport.WorkPos()
	workSize := viewport.WorkSize()
	flags := imgui.WindowFlagsNoMove | imgui.WindowFlagsNoResize | imgui.WindowFlagsNoCollapse

	imgui.SetNextWindowPos(workPos)
	imgui.SetNextWindowSize(imgui.NewVec2(panelWidth, workSize.Y))
	if imgui.BeginV("Cloth", nil, flags) {
		l.renderPanel()
	}
	imgui.End()

	imgui.SetNextWindowPos(imgui.NewVec2(workPos.X+panelWidth, workPos.Y))
	imgui.SetNextWindowSize(imgui.NewVec2(workSize.X-panelWidth, workSize.Y))
	if imgui.BeginV("View", nil, flags|imgui.WindowFlagsNoScrollbar) {
		l.renderView()
	}
	imgui.End()

	l.countFrame()
}

func (l *Lab) handleShortcuts() {
	if imgui.IsKeyChordPressed(imgui.KeyChord(imgui.KeyF12)) {
		l.captureNext = true
	}
	// Letters belong to the held text field while it is active.
	if imgui.IsAnyItemActive() {
		return
	}
	switch {
	case imgui.IsKeyChordPressed(imgui.KeyChord(imgui.KeySpace)):
		l.stepper.TogglePause()
	case imgui.IsKeyChordPressed(imgui.KeyChord(imgui.KeyN)):
		l.stepper.StepOnce()
	case imgui.IsKeyChordPressed(imgui.KeyChord(imgui.KeyR)):
		l.stepper.Reset()
	case imgui.IsKeyChordPressed(imgui.KeyChord(imgui.KeyC)):
		l.fitCamera()
	}
}

// renderView draws the cloth into the framebuffer and shows it filling the
// window. Dragging orbits and the wheel zooms while the image is hovered.
func (l *Lab) renderView() {
	avail := imgui.ContentRegionAvail()
	w, h := framebuffer.ClampSize(int32(avail.X), int32(avail.Y))
	l.fb.Resize(w, h)
	l.drawCloth()

	texRef := imgui.NewTextureRefTextureID(imgui.TextureID(l.fb.ColorTexture()))
	imgui.ImageWithBgV(
		*texRef,
		imgui.NewVec2(float32(w), float32(h)),
		imgui.NewVec2(0, 1), // GL rows run bottom-up
		imgui.NewVec2(1, 0),
		imgui.NewVec4(0.1, 0.1, 0.15, 1.0),
		imgui.NewVec4(1, 1, 1, 1),
	)

	if imgui.IsItemHovered() {
		mousePos := imgui.MousePos()
		if imgui.IsMouseDragging(imgui.MouseButtonLeft) {
			l.camera.HandleDrag(mousePos.X-l.lastMouse.X, mousePos.Y-l.lastMouse.Y)
		}
		l.lastMouse = mousePos

		if wheel := imgui.CurrentIO().MouseWheel(); wheel != 0 {
			l.camera.HandleZoom(wheel)
		}
	}
}

func (l *Lab) drawCloth() {
	restore := l.fb.BindWithViewport()
	defer restore()

	w, h := l.fb.Size()
	if l.renderer.Aspect() != float32(w)/float32(h) {
		l.renderer.Resize(int(w), int(h))
	}
	l.renderer.SetCamera(l.camera.ViewMatrix(), l.camera.ProjectionMatrix(l.renderer.Aspect()))

	l.renderer.Begin()
	l.stepper.Mesh().Render()
	l.renderer.End()
}

func (l *Lab) renderPanel() {
	l.renderRunControls()
	imgui.Separator()
	l.renderReadouts()
	imgui.Separator()
	l.renderParams()
	imgui.Separator()
	l.renderViewControls()

	if l.notice != "" && time.Since(l.noticeAt) < noticeTime {
		imgui.Separator()
		imgui.Text(l.notice)
	}
}

func (l *Lab) renderRunControls() {
	label := "Pause"
	if l.stepper.Paused() {
		label = "Resume"
	}
	if imgui.Button(label) {
		l.stepper.TogglePause()
	}
	imgui.SameLine()
	if imgui.Button("Step") {
		l.stepper.StepOnce()
	}
	imgui.SameLine()
	if imgui.Button("Reset") {
		l.stepper.Reset()
	}
	imgui.SameLine()
	if imgui.Button("Fit View") {
		l.fitCamera()
	}
	imgui.TextDisabled("(Space pause, N step, R reset, C fit, F12 capture)")
}

func (l *Lab) renderReadouts() {
	mesh := l.stepper.Mesh()
	b := mesh.Bounds()

	imgui.Text(fmt.Sprintf("Step: %d", l.stepper.Steps()))
	imgui.Text(fmt.Sprintf("Time: %.2f s", l.stepper.SimTime()))
	imgui.Text(fmt.Sprintf("Kinetic energy: %.1f", mesh.KineticEnergy()))
	imgui.Text(fmt.Sprintf("Grid: %dx%d, %d springs", mesh.Size(), mesh.Size(), len(mesh.Springs)))
	imgui.Text(fmt.Sprintf("Lowest point: %.2f", b.Min.Y()))
	imgui.Text(fmt.Sprintf("FPS: %.0f", l.fps))
}

// renderParams edits the pending form. Nothing reaches the running cloth
// until Apply rebuilds it.
func (l *Lab) renderParams() {
	f := &l.form
	imgui.SliderIntV("Size", &f.Size, form.MinSize, form.MaxSize, "%d", imgui.SliderFlagsNone)
	imgui.SliderFloatV("Spacing", &f.Resolution, 0.05, 2, "%.2f", imgui.SliderFlagsNone)
	imgui.SliderFloatV("Height", &f.Height, -20, 20, "%.1f", imgui.SliderFlagsNone)
	imgui.SliderFloatV("Mass", &f.Mass, 0.1, 10, "%.2f", imgui.SliderFlagsNone)
	imgui.SliderFloatV("Stiffness", &f.Stiffness, 10, 5000, "%.0f", imgui.SliderFlagsNone)
	imgui.SliderFloatV("Gravity", &f.Gravity, 0, 30, "%.1f", imgui.SliderFlagsNone)
	imgui.SliderFloatV("Drag", &f.Drag, 0, 5, "%.2f", imgui.SliderFlagsNone)
	imgui.SliderFloatV("Timestep", &f.Timestep, 0.001, 0.05, "%.4f", imgui.SliderFlagsNone)

	imgui.InputTextWithHint("Held", "e.g. 0,99", &f.Held, 0, nil)
	imgui.SameLine()
	if imgui.Button("Corners") {
		f.CornersHeld()
	}

	imgui.Checkbox("Shade with normals", &f.UseNormals)
	imgui.Checkbox("Normalize normals", &f.NormalizeNormals)

	if imgui.Button("Apply") {
		l.apply()
	}
	imgui.SameLine()
	if imgui.Button("Revert") {
		l.form = form.FromConfig(l.config.Cloth)
		l.formErr = ""
	}
	if l.formErr != "" {
		imgui.TextColored(errorColor, l.formErr)
	}
}

func (l *Lab) renderViewControls() {
	if imgui.Checkbox("Wireframe", &l.wireframe) {
		l.renderer.SetWireframe(l.wireframe)
	}
	if imgui.Button("Capture") {
		l.captureNext = true
	}
	imgui.SameLine()
	if imgui.Button("Save Config") {
		l.saveConfig()
	}
}

// apply validates the form and swaps in a freshly built cloth. On error the
// running cloth is left alone and the message stays on the panel.
func (l *Lab) apply() {
	c, err := l.form.Build()
	if err != nil {
		l.formErr = err.Error()
		logger.Warn("cloth settings rejected", zap.Error(err))
		return
	}

	p := c.Params()
	sink := l.renderer.NewClothSink(p.Attr == cloth.AttrNormal)
	if err := l.stepper.Rebuild(p, c.Held, c.Timestep, sink); err != nil {
		l.formErr = err.Error()
		logger.Error("cloth rebuild failed", zap.Error(err))
		return
	}

	l.config.Cloth = c
	l.formErr = ""
	l.fitCamera()
	l.backend.SetWindowTitle(fmt.Sprintf("%s - %dx%d", title, c.Size, c.Size))
}

func (l *Lab) saveConfig() {
	l.config.Graphics.Wireframe = l.wireframe
	if err := l.config.Save(); err != nil {
		logger.Error("failed to save config", zap.Error(err))
		l.showNotice("Save failed: " + err.Error())
		return
	}
	logger.Info("config saved", zap.String("dir", config.ConfigDir()))
	l.showNotice("Config saved")
}

func (l *Lab) fitCamera() {
	b := l.stepper.Mesh().Bounds()
	l.camera.FitToBounds(b.Min, b.Max)
}

func (l *Lab) saveCapture() {
	pixels, width, height := l.fb.ReadPixels()
	path, err := l.capture.CaptureFromPixels(pixels, width, height, l.stepper.Steps())
	if err != nil {
		logger.Error("frame capture failed", zap.Error(err))
		l.showNotice("Capture failed: " + err.Error())
		return
	}
	logger.Info("frame captured", zap.String("path", path))
	l.showNotice("Saved " + path)
}

func (l *Lab) showNotice(msg string) {
	l.notice = msg
	l.noticeAt = time.Now()
}

func (l *Lab) countFrame() {
	l.frames++
	if elapsed := time.Since(l.fpsTimer); elapsed >= time.Second {
		l.fps = float64(l.frames) / elapsed.Seconds()
		logger.Debug("fps",
			zap.Float64("fps", l.fps),
			zap.Uint64("step", l.stepper.Steps()),
			zap.Float32("kinetic_energy", l.stepper.Mesh().KineticEnergy()),
		)
		l.frames = 0
		l.fpsTimer = time.Now()
	}
}
