package cloth

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/Faultbox/midgard-cloth/internal/logger"
)

// Mesh is a simulated cloth grid. It owns its vertex, mass, spring and index
// sequences and the sink they are drawn through.
type Mesh struct {
	params Params

	Vertices []Vertex
	Masses   []Mass
	Springs  []Spring
	Indices  []uint32

	initial []Vertex // positions and attributes at construction, for Reset
	held    []bool   // scratch pin mask, rebuilt every Update
	sink    Sink
	dead    bool
}

// New builds a cloth mesh and hands its buffers to sink. A nil sink is
// replaced by NopSink.
func New(p Params, sink Sink) (*Mesh, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if sink == nil {
		sink = NopSink{}
	}

	m := &Mesh{
		params: p,
		sink:   sink,
	}
	m.Vertices, m.Masses, m.Indices = buildGrid(p)
	m.Springs = buildSprings(p)
	m.held = make([]bool, len(m.Masses))

	if p.Attr == AttrNormal {
		m.CalculateNormals()
	}
	m.initial = make([]Vertex, len(m.Vertices))
	copy(m.initial, m.Vertices)

	if err := sink.Setup(m.Vertices, m.Indices); err != nil {
		return nil, fmt.Errorf("setting up render sink: %w", err)
	}

	logger.Debug("cloth mesh built",
		zap.Int("size", p.Size),
		zap.Float32("resolution", p.Resolution),
		zap.Int("vertices", len(m.Vertices)),
		zap.Int("springs", len(m.Springs)),
		zap.Int("indices", len(m.Indices)),
		zap.Stringer("attr", p.Attr),
	)
	return m, nil
}

// Params returns the parameters the mesh was built with.
func (m *Mesh) Params() Params {
	return m.params
}

// Size returns the number of vertices per side.
func (m *Mesh) Size() int {
	return m.params.Size
}

// Render draws the full triangle list through the sink.
func (m *Mesh) Render() {
	if m.dead {
		return
	}
	m.sink.Draw(len(m.Indices))
}

// Reset puts every vertex back at its initial position, zeroes all
// velocities and re-uploads the vertex buffer.
func (m *Mesh) Reset() {
	if m.dead {
		return
	}
	copy(m.Vertices, m.initial)
	for i := range m.Masses {
		m.Masses[i].Velocity = mgl32.Vec3{}
	}
	m.sink.Upload(m.Vertices)
}

// Destroy releases the sink and drops all owned sequences. Calling it more
// than once is a no-op.
func (m *Mesh) Destroy() {
	if m.dead {
		return
	}
	m.dead = true
	m.sink.Release()
	m.Vertices = nil
	m.Masses = nil
	m.Springs = nil
	m.Indices = nil
	m.initial = nil
	m.held = nil
	logger.Debug("cloth mesh destroyed", zap.Int("size", m.params.Size))
}

// Bounds returns the axis-aligned box around all vertices.
func (m *Mesh) Bounds() Bounds {
	if len(m.Vertices) == 0 {
		return Bounds{}
	}
	b := Bounds{Min: m.Vertices[0].Position, Max: m.Vertices[0].Position}
	for _, v := range m.Vertices[1:] {
		for k := 0; k < 3; k++ {
			if v.Position[k] < b.Min[k] {
				b.Min[k] = v.Position[k]
			}
			if v.Position[k] > b.Max[k] {
				b.Max[k] = v.Position[k]
			}
		}
	}
	return b
}

// KineticEnergy returns Σ ½·m·|v|² over all masses.
func (m *Mesh) KineticEnergy() float32 {
	var e float32
	for _, ms := range m.Masses {
		e += 0.5 * ms.Mass * ms.Velocity.Dot(ms.Velocity)
	}
	return e
}

// HeldInRange reports whether every held index addresses a mass of this mesh.
func (m *Mesh) HeldInRange(held []int) bool {
	for _, h := range held {
		if h < 0 || h >= len(m.Masses) {
			return false
		}
	}
	return true
}
