// Package lighting provides the directional light used to shade the cloth.
package lighting

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Sun is a directional light placed by compass angles.
type Sun struct {
	Azimuth   float32 // degrees around Y, 0 looks down +Z
	Elevation float32 // degrees above the horizon
	Ambient   float32 // light added to every surface, 0..1
}

// Direction returns the unit vector pointing from the surface towards the sun.
func (s Sun) Direction() mgl32.Vec3 {
	return SunDirection(s.Azimuth, s.Elevation)
}

// SunDirection converts azimuth/elevation in degrees to a unit vector.
func SunDirection(azimuth, elevation float32) mgl32.Vec3 {
	az := float64(mgl32.DegToRad(azimuth))
	el := float64(mgl32.DegToRad(elevation))

	return mgl32.Vec3{
		float32(math.Cos(el) * math.Sin(az)),
		float32(math.Sin(el)),
		float32(math.Cos(el) * math.Cos(az)),
	}
}

// Lambert returns the diffuse-plus-ambient intensity for a unit surface
// normal. It is the same term cloth.frag computes on the GPU.
func (s Sun) Lambert(normal mgl32.Vec3) float32 {
	d := normal.Dot(s.Direction())
	if d < 0 {
		d = -d // cloth is two-sided
	}
	v := s.Ambient + (1-s.Ambient)*d
	if v > 1 {
		return 1
	}
	return v
}
