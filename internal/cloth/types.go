// Package cloth simulates a square cloth grid as a mass-spring network.
//
// A Mesh owns a size×size lattice of vertices, one mass per vertex, the springs
// connecting neighbouring masses and the triangle index list used for drawing.
// All cross references are slice indices, so the sequences can be moved or
// copied without invalidating the network.
package cloth

import (
	"errors"

	"github.com/go-gl/mathgl/mgl32"
)

// Construction errors.
var (
	ErrInvalidSize       = errors.New("cloth: size must be at least 2")
	ErrInvalidResolution = errors.New("cloth: resolution must be positive")
	ErrInvalidMass       = errors.New("cloth: mass must be positive")
)

// AttrMode selects what the secondary vertex attribute holds.
type AttrMode int

const (
	// AttrNormal stores the estimated surface normal, recomputed every update.
	AttrNormal AttrMode = iota
	// AttrColor stores a fixed gradient colour; normals are never computed.
	AttrColor
)

// String returns the config name of the mode.
func (m AttrMode) String() string {
	if m == AttrColor {
		return "color"
	}
	return "normal"
}

// ParseAttrMode converts a config name to an AttrMode. Unknown names map to AttrNormal.
func ParseAttrMode(s string) AttrMode {
	if s == "color" || s == "colour" {
		return AttrColor
	}
	return AttrNormal
}

// Vertex is the GPU-facing vertex: position followed by one vec3 attribute.
// The layout is fixed at 24 bytes and must not gain fields.
type Vertex struct {
	Position mgl32.Vec3
	Attr     mgl32.Vec3
}

// VertexSize is the byte stride of a Vertex.
const VertexSize = 6 * 4

// Mass is a point mass driving the position of exactly one vertex.
type Mass struct {
	Mass     float32
	Velocity mgl32.Vec3
	Vertex   int // index into Mesh.Vertices
}

// Spring is a linear force element between two masses.
type Spring struct {
	A, B       int // indices into Mesh.Masses
	K          float32
	RestLength float32
}

// Bounds is an axis-aligned bounding box.
type Bounds struct {
	Min mgl32.Vec3
	Max mgl32.Vec3
}

// Center returns the midpoint of the box.
func (b Bounds) Center() mgl32.Vec3 {
	return b.Min.Add(b.Max).Mul(0.5)
}

// Params describes the cloth to build and the constants used to step it.
type Params struct {
	Size       int     // vertices per side
	Resolution float32 // spacing between neighbouring vertices
	Height     float32 // initial Y of the sheet
	Mass       float32 // mass of every point
	Stiffness  float32 // shared spring coefficient
	Gravity    float32 // magnitude, applied along -Y
	Drag       float32 // quadratic drag coefficient

	Attr             AttrMode
	NormalizeNormals bool
}

// DefaultParams returns the parameters of a 100×100 cloth with 0.5 spacing.
func DefaultParams() Params {
	return Params{
		Size:             100,
		Resolution:       0.5,
		Height:           0,
		Mass:             1.0,
		Stiffness:        1000.0,
		Gravity:          9.8,
		Drag:             0.5,
		Attr:             AttrNormal,
		NormalizeNormals: true,
	}
}

// Validate checks the parameters needed to build a mesh.
func (p Params) Validate() error {
	if p.Size < 2 {
		return ErrInvalidSize
	}
	if p.Resolution <= 0 {
		return ErrInvalidResolution
	}
	if p.Mass <= 0 {
		return ErrInvalidMass
	}
	return nil
}

// VertexCount returns size².
func VertexCount(size int) int {
	return size * size
}

// IndexCount returns the triangle index count, 6·(size-1)².
func IndexCount(size int) int {
	if size < 2 {
		return 0
	}
	c := size - 1
	return 6 * c * c
}

// SpringCount returns 2·(size-1)² + 2·(size-1) + 2·(size-1)²:
// horizontal and vertical edges plus two diagonals per cell.
func SpringCount(size int) int {
	if size < 2 {
		return 0
	}
	c := size - 1
	return 2*c*c + 2*c + 2*c*c
}
