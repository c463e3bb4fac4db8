// Package renderer provides OpenGL rendering for the cloth viewer.
package renderer

import (
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/Faultbox/midgard-cloth/internal/engine/lighting"
	"github.com/Faultbox/midgard-cloth/internal/engine/renderer/shaders"
	"github.com/Faultbox/midgard-cloth/internal/engine/shader"
	"github.com/Faultbox/midgard-cloth/internal/logger"
)

// Config holds renderer configuration.
type Config struct {
	Width     int
	Height    int
	Wireframe bool
	Sun       lighting.Sun
	BaseColor mgl32.Vec3
}

// Renderer owns the GL state shared by everything drawn in a frame.
type Renderer struct {
	config Config

	program uint32

	// Uniform locations
	locViewProj   int32
	locUseNormals int32
	locLightDir   int32
	locAmbient    int32
	locBaseColor  int32

	viewProj mgl32.Mat4
}

// New creates a new renderer.
// IMPORTANT: Must be called AFTER the OpenGL context is created!
func New(cfg Config) (*Renderer, error) {
	r := &Renderer{
		config:   cfg,
		viewProj: mgl32.Ident4(),
	}

	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", err)
	}

	logger.Info("OpenGL initialized",
		zap.String("version", gl.GoStr(gl.GetString(gl.VERSION))),
		zap.String("renderer", gl.GoStr(gl.GetString(gl.RENDERER))),
	)

	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LESS)
	gl.Enable(gl.MULTISAMPLE)
	gl.ClearColor(0.1, 0.1, 0.15, 1.0)
	gl.Viewport(0, 0, int32(cfg.Width), int32(cfg.Height))

	program, err := shader.CompileProgram(shaders.ClothVertexShader, shaders.ClothFragmentShader)
	if err != nil {
		return nil, fmt.Errorf("cloth shader: %w", err)
	}
	r.program = program
	r.locViewProj = shader.Uniform(program, "uViewProj")
	r.locUseNormals = shader.Uniform(program, "uUseNormals")
	r.locLightDir = shader.Uniform(program, "uLightDir")
	r.locAmbient = shader.Uniform(program, "uAmbient")
	r.locBaseColor = shader.Uniform(program, "uBaseColor")

	logger.Debug("shader program created", zap.Uint32("program", program))
	return r, nil
}

// Close releases the shader program.
func (r *Renderer) Close() {
	logger.Info("closing renderer")
	if r.program != 0 {
		gl.DeleteProgram(r.program)
		r.program = 0
	}
}

// Resize handles window resize.
func (r *Renderer) Resize(width, height int) {
	r.config.Width = width
	r.config.Height = height
	gl.Viewport(0, 0, int32(width), int32(height))
	logger.Debug("renderer resized",
		zap.Int("width", width),
		zap.Int("height", height),
	)
}

// Aspect returns the viewport aspect ratio.
func (r *Renderer) Aspect() float32 {
	if r.config.Height == 0 {
		return 1
	}
	return float32(r.config.Width) / float32(r.config.Height)
}

// SetCamera sets the view and projection used by the next draws.
func (r *Renderer) SetCamera(view, projection mgl32.Mat4) {
	r.viewProj = projection.Mul4(view)
}

// SetWireframe toggles line rasterisation.
func (r *Renderer) SetWireframe(on bool) {
	r.config.Wireframe = on
}

// Wireframe reports whether line rasterisation is on.
func (r *Renderer) Wireframe() bool {
	return r.config.Wireframe
}

// Begin starts a new frame. Depth testing and the clear colour are set again
// here because the imgui backend changes both between frames.
func (r *Renderer) Begin() {
	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LESS)
	gl.ClearColor(0.1, 0.1, 0.15, 1.0)
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
	if r.config.Wireframe {
		gl.PolygonMode(gl.FRONT_AND_BACK, gl.LINE)
	} else {
		gl.PolygonMode(gl.FRONT_AND_BACK, gl.FILL)
	}
}

// End finishes the current frame.
func (r *Renderer) End() {
	gl.PolygonMode(gl.FRONT_AND_BACK, gl.FILL)
}

// ReadPixels returns the RGBA contents of the back buffer, bottom row first.
func (r *Renderer) ReadPixels() ([]byte, int, int) {
	w, h := r.config.Width, r.config.Height
	pixels := make([]byte, w*h*4)
	gl.PixelStorei(gl.PACK_ALIGNMENT, 1)
	gl.ReadPixels(0, 0, int32(w), int32(h), gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(pixels))
	return pixels, w, h
}

// use binds the cloth program and uploads the per-frame uniforms.
func (r *Renderer) use(useNormals bool) {
	gl.UseProgram(r.program)
	gl.UniformMatrix4fv(r.locViewProj, 1, false, &r.viewProj[0])

	flag := int32(0)
	if useNormals {
		flag = 1
	}
	gl.Uniform1i(r.locUseNormals, flag)

	dir := r.config.Sun.Direction()
	gl.Uniform3f(r.locLightDir, dir.X(), dir.Y(), dir.Z())
	gl.Uniform1f(r.locAmbient, r.config.Sun.Ambient)
	c := r.config.BaseColor
	gl.Uniform3f(r.locBaseColor, c.X(), c.Y(), c.Z())
}
