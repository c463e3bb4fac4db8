// Package sim drives a cloth mesh at a fixed timestep.
package sim

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/midgard-cloth/internal/cloth"
	"github.com/Faultbox/midgard-cloth/internal/logger"
)

// Stepper advances a mesh by a fixed dt with a fixed set of held masses.
// It is shared by the GL viewer, the terminal viewer and the bench.
type Stepper struct {
	mesh   *cloth.Mesh
	held   []int
	dt     float32
	paused bool
	steps  uint64
}

// NewStepper creates a stepper for mesh. Held indices outside the mesh are
// reported once and otherwise ignored by the integrator.
func NewStepper(mesh *cloth.Mesh, held []int, dt float32) *Stepper {
	if !mesh.HeldInRange(held) {
		logger.Warn("held indices outside the mesh are ignored",
			zap.Ints("held", held),
			zap.Int("masses", len(mesh.Masses)),
		)
	}
	h := make([]int, len(held))
	copy(h, held)
	return &Stepper{mesh: mesh, held: h, dt: dt}
}

// TickInterval converts a timestep in seconds into a wall-clock interval for
// tickers. Intervals round up to one millisecond so a tiny dt cannot spin.
func TickInterval(dt float32) time.Duration {
	d := time.Duration(float64(dt) * float64(time.Second))
	if d < time.Millisecond {
		return time.Millisecond
	}
	return d
}

// Rebuild replaces the driven mesh with one built from p on sink. The new
// mesh is built first; on error the current mesh keeps running untouched.
// On success the old mesh is destroyed and the step count restarts.
func (s *Stepper) Rebuild(p cloth.Params, held []int, dt float32, sink cloth.Sink) error {
	if dt <= 0 {
		return fmt.Errorf("timestep must be positive, got %v", dt)
	}
	mesh, err := cloth.New(p, sink)
	if err != nil {
		return fmt.Errorf("rebuilding cloth: %w", err)
	}
	if !mesh.HeldInRange(held) {
		logger.Warn("held indices outside the mesh are ignored",
			zap.Ints("held", held),
			zap.Int("masses", len(mesh.Masses)),
		)
	}

	s.mesh.Destroy()
	s.mesh = mesh
	s.held = append(s.held[:0:0], held...)
	s.dt = dt
	s.steps = 0

	logger.Info("cloth rebuilt",
		zap.Int("size", p.Size),
		zap.Float32("dt", dt),
		zap.Ints("held", held),
	)
	return nil
}

// Step advances one timestep unless paused. It reports whether the mesh
// moved.
func (s *Stepper) Step() bool {
	if s.paused {
		return false
	}
	s.advance()
	return true
}

// StepOnce advances one timestep even when paused.
func (s *Stepper) StepOnce() {
	s.advance()
}

func (s *Stepper) advance() {
	s.mesh.Update(s.dt, s.held)
	s.steps++
}

// TogglePause flips the paused state and returns the new value.
func (s *Stepper) TogglePause() bool {
	s.paused = !s.paused
	logger.Debug("pause toggled", zap.Bool("paused", s.paused), zap.Uint64("step", s.steps))
	return s.paused
}

// Reset restores the mesh to its initial state and clears the step count.
func (s *Stepper) Reset() {
	s.mesh.Reset()
	s.steps = 0
	logger.Debug("simulation reset")
}

// Paused reports whether stepping is suspended.
func (s *Stepper) Paused() bool {
	return s.paused
}

// Steps returns the number of timesteps taken since construction or Reset.
func (s *Stepper) Steps() uint64 {
	return s.steps
}

// SimTime returns the simulated time since construction or Reset.
func (s *Stepper) SimTime() float32 {
	return float32(s.steps) * s.dt
}

// Mesh returns the driven mesh.
func (s *Stepper) Mesh() *cloth.Mesh {
	return s.mesh
}
