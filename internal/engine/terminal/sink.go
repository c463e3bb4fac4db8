// Package terminal draws a cloth mesh as a top-down height map in a tcell
// screen.
package terminal

import (
	"errors"
	"math"

	"github.com/gdamore/tcell/v2"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/midgard-cloth/internal/cloth"
	"github.com/Faultbox/midgard-cloth/internal/engine/lighting"
)

// ErrEmptyMesh is returned by Setup when there is nothing to draw.
var ErrEmptyMesh = errors.New("terminal: empty mesh")

// margin widens the setup extent so a swinging cloth stays on screen.
const margin = 0.15

var ramp = []rune(".:-=+*#%@")

// Sink maps X to columns and Z to rows, keeping the highest triangle per
// cell. The screen is owned by the caller; Release does not finalise it.
type Sink struct {
	screen tcell.Screen

	indices   []uint32
	positions []mgl32.Vec3
	attrs     []mgl32.Vec3
	light     *lighting.Sun

	min, max mgl32.Vec2 // XZ extent captured in Setup
	depth    []float32
	status   string
}

// New creates a sink drawing into screen.
func New(screen tcell.Screen) *Sink {
	return &Sink{screen: screen}
}

// SetLight dims each cell by the sun's diffuse term. Vertex attributes are
// then read as normals, so only set it for meshes in normal mode.
func (s *Sink) SetLight(sun lighting.Sun) {
	s.light = &sun
}

// SetStatus sets a line printed on the bottom row after the mesh.
func (s *Sink) SetStatus(status string) {
	s.status = status
}

// Setup keeps the index list and records the horizontal extent.
func (s *Sink) Setup(vertices []cloth.Vertex, indices []uint32) error {
	if len(vertices) == 0 || len(indices) == 0 {
		return ErrEmptyMesh
	}

	s.indices = indices
	s.positions = make([]mgl32.Vec3, len(vertices))
	s.attrs = make([]mgl32.Vec3, len(vertices))

	lo := mgl32.Vec2{vertices[0].Position.X(), vertices[0].Position.Z()}
	hi := lo
	for i, v := range vertices {
		s.positions[i] = v.Position
		s.attrs[i] = v.Attr
		lo[0] = min(lo[0], v.Position.X())
		lo[1] = min(lo[1], v.Position.Z())
		hi[0] = max(hi[0], v.Position.X())
		hi[1] = max(hi[1], v.Position.Z())
	}
	pad := hi.Sub(lo).Mul(margin)
	s.min = lo.Sub(pad)
	s.max = hi.Add(pad)
	return nil
}

// Upload copies the vertex positions and attributes.
func (s *Sink) Upload(vertices []cloth.Vertex) {
	n := min(len(vertices), len(s.positions))
	for i := range n {
		s.positions[i] = vertices[i].Position
		s.attrs[i] = vertices[i].Attr
	}
}

// Draw shades the centroids of the first indexCount indices and shows the
// screen.
func (s *Sink) Draw(indexCount int) {
	if s.screen == nil {
		return
	}
	w, h := s.screen.Size()
	if w <= 0 || h <= 0 {
		return
	}
	if len(s.depth) != w*h {
		s.depth = make([]float32, w*h)
	}
	for i := range s.depth {
		s.depth[i] = float32(math.Inf(-1))
	}

	s.screen.Clear()

	lowY, highY := s.heightRange()
	n := min(indexCount, len(s.indices))
	for t := 0; t+2 < n; t += 3 {
		ia, ib, ic := s.indices[t], s.indices[t+1], s.indices[t+2]
		centroid := s.positions[ia].Add(s.positions[ib]).Add(s.positions[ic]).Mul(1.0 / 3.0)

		col, row, ok := s.project(centroid, w, h)
		if !ok {
			continue
		}
		cell := row*w + col
		if centroid.Y() <= s.depth[cell] {
			continue
		}
		s.depth[cell] = centroid.Y()

		var level float32
		if highY > lowY {
			level = (centroid.Y() - lowY) / (highY - lowY)
		}
		r, style := shade(level, s.intensity(ia, ib, ic))
		s.screen.SetContent(col, row, r, nil, style)
	}

	s.drawStatus(w, h)
	s.screen.Show()
}

// Release drops the buffers.
func (s *Sink) Release() {
	s.indices = nil
	s.positions = nil
	s.attrs = nil
	s.depth = nil
}

// intensity returns the light reaching a triangle, 1 when unlit.
func (s *Sink) intensity(a, b, c uint32) float32 {
	if s.light == nil {
		return 1
	}
	n := s.attrs[a].Add(s.attrs[b]).Add(s.attrs[c])
	if n.Len() == 0 {
		return s.light.Ambient
	}
	return s.light.Lambert(n.Normalize())
}

func (s *Sink) heightRange() (float32, float32) {
	if len(s.positions) == 0 {
		return 0, 0
	}
	lo, hi := s.positions[0].Y(), s.positions[0].Y()
	for _, p := range s.positions[1:] {
		lo = min(lo, p.Y())
		hi = max(hi, p.Y())
	}
	return lo, hi
}

// project maps a world position to a screen cell.
func (s *Sink) project(p mgl32.Vec3, w, h int) (int, int, bool) {
	span := s.max.Sub(s.min)
	if span.X() <= 0 || span.Y() <= 0 {
		return 0, 0, false
	}
	u := (p.X() - s.min.X()) / span.X()
	v := (p.Z() - s.min.Y()) / span.Y()
	if u < 0 || u > 1 || v < 0 || v > 1 {
		return 0, 0, false
	}
	col := int(u*float32(w-1) + 0.5)
	row := int(v*float32(h-1) + 0.5)
	return col, row, true
}

func (s *Sink) drawStatus(w, h int) {
	if s.status == "" {
		return
	}
	style := tcell.StyleDefault.Foreground(tcell.ColorWhite).Background(tcell.ColorBlack)
	x := 0
	for _, r := range s.status {
		if x >= w {
			break
		}
		s.screen.SetContent(x, h-1, r, nil, style)
		x++
	}
}

// shade picks a glyph and colour for a height level in [0, 1]: low cells
// are blue and sparse, high cells red and dense. The colour is scaled by
// light.
func shade(level, light float32) (rune, tcell.Style) {
	level = mgl32.Clamp(level, 0, 1)
	light = mgl32.Clamp(light, 0, 1)
	r := ramp[int(level*float32(len(ramp)-1)+0.5)]
	red := 255 * level
	color := tcell.NewRGBColor(int32(red*light), int32(80*light), int32((255-red)*light))
	return r, tcell.StyleDefault.Foreground(color)
}

var _ cloth.Sink = (*Sink)(nil)
