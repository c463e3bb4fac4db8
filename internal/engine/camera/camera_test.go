package camera

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func TestPositionDistance(t *testing.T) {
	c := NewOrbitCamera()
	c.Center = mgl32.Vec3{5, 1, -2}

	got := c.Position().Sub(c.Center).Len()
	if !near(got, c.Distance, 1e-3) {
		t.Errorf("distance from center = %v, want %v", got, c.Distance)
	}
}

func TestPositionStraightAbove(t *testing.T) {
	c := NewOrbitCamera()
	c.Distance = 10
	c.Pitch = 0
	c.Yaw = 0

	want := mgl32.Vec3{0, 0, 10}
	if got := c.Position(); !vecNear(got, want, 1e-5) {
		t.Errorf("Position() = %v, want %v", got, want)
	}
}

func TestViewMatrixMapsCenterAhead(t *testing.T) {
	c := NewOrbitCamera()
	c.Center = mgl32.Vec3{3, 0, 3}

	p := c.ViewMatrix().Mul4x1(c.Center.Vec4(1))
	// The orbit center sits on the view axis at -Distance. X and Y come out
	// as float32 residue around 1e-6, not exact zeros.
	if !near(p.X(), 0, 1e-4) || !near(p.Y(), 0, 1e-4) {
		t.Errorf("center in view space = %v, want on the -Z axis", p)
	}
	if !near(p.Z(), -c.Distance, 1e-3) {
		t.Errorf("center depth = %v, want %v", p.Z(), -c.Distance)
	}
}

func TestHandleDragClampsPitch(t *testing.T) {
	c := NewOrbitCamera()

	c.HandleDrag(0, 1e6)
	if c.Pitch != c.MaxPitch {
		t.Errorf("Pitch = %v, want clamp to %v", c.Pitch, c.MaxPitch)
	}
	c.HandleDrag(0, -1e6)
	if c.Pitch != c.MinPitch {
		t.Errorf("Pitch = %v, want clamp to %v", c.Pitch, c.MinPitch)
	}

	yaw := c.Yaw
	c.HandleDrag(100, 0)
	if c.Yaw >= yaw {
		t.Errorf("Yaw = %v, want below %v after dragging right", c.Yaw, yaw)
	}
}

func TestHandleZoomClamps(t *testing.T) {
	tests := []struct {
		name  string
		delta float32
		want  func(*OrbitCamera) float32
	}{
		{"zoom in", 1000, func(c *OrbitCamera) float32 { return c.MinDistance }},
		{"zoom out", -1000, func(c *OrbitCamera) float32 { return c.MaxDistance }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewOrbitCamera()
			c.HandleZoom(tt.delta)
			if c.Distance != tt.want(c) {
				t.Errorf("Distance = %v, want %v", c.Distance, tt.want(c))
			}
		})
	}
}

func TestFitToBounds(t *testing.T) {
	c := NewOrbitCamera()
	c.FitToBounds(mgl32.Vec3{0, -1, 0}, mgl32.Vec3{50, 1, 20})

	if want := (mgl32.Vec3{25, 0, 10}); c.Center != want {
		t.Errorf("Center = %v, want %v", c.Center, want)
	}
	if c.Distance != 75 {
		t.Errorf("Distance = %v, want 75", c.Distance)
	}
}

func near(a, b, tol float32) bool {
	return math.Abs(float64(a-b)) <= float64(tol)
}

func vecNear(a, b mgl32.Vec3, tol float32) bool {
	for k := range 3 {
		if !near(a[k], b[k], tol) {
			return false
		}
	}
	return true
}
