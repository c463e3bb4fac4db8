package cloth

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Update advances the simulation by dt seconds. Masses listed in held are
// anchors: they receive no spring impulse, gravity or drag and never move.
// Indices outside the mesh are ignored.
//
// The step runs in two phases. Spring impulses only change velocities, so
// every spring measures the positions from the end of the previous frame.
// Gravity, drag and the Euler position step follow once all springs are done.
func (m *Mesh) Update(dt float32, held []int) {
	if m.dead {
		return
	}

	for i := range m.held {
		m.held[i] = false
	}
	for _, h := range held {
		if h >= 0 && h < len(m.held) {
			m.held[h] = true
		}
	}

	if dt > 0 {
		m.applySprings(dt)
		m.integrate(dt)
	}

	if m.params.Attr == AttrNormal {
		m.CalculateNormals()
	}
	m.sink.Upload(m.Vertices)
}

// applySprings adds every spring's impulse to the velocities of its free
// endpoints.
func (m *Mesh) applySprings(dt float32) {
	for _, s := range m.Springs {
		a := &m.Masses[s.A]
		b := &m.Masses[s.B]
		f := s.Force(m.Vertices[a.Vertex].Position, m.Vertices[b.Vertex].Position)

		if !m.held[s.A] {
			a.Velocity = a.Velocity.Add(f.Mul(dt / a.Mass))
		}
		if !m.held[s.B] {
			b.Velocity = b.Velocity.Sub(f.Mul(dt / b.Mass))
		}
	}
}

// integrate applies gravity and drag to every free mass and moves its vertex.
func (m *Mesh) integrate(dt float32) {
	for i := range m.Masses {
		if m.held[i] {
			continue
		}
		ms := &m.Masses[i]

		f := mgl32.Vec3{0, -m.params.Gravity * ms.Mass, 0}
		f = f.Sub(dragForce(ms.Velocity, m.params.Drag))
		ms.Velocity = ms.Velocity.Add(f.Mul(dt / ms.Mass))

		v := &m.Vertices[ms.Vertex]
		v.Position = v.Position.Add(ms.Velocity.Mul(dt))
	}
}

// dragForce returns the quadratic drag magnitude per axis, c·v·|v|. The
// caller subtracts it, so it always opposes the velocity.
func dragForce(v mgl32.Vec3, c float32) mgl32.Vec3 {
	return mgl32.Vec3{
		c * v[0] * abs32(v[0]),
		c * v[1] * abs32(v[1]),
		c * v[2] * abs32(v[2]),
	}
}

func abs32(x float32) float32 {
	if x < 0 {
		return -x
	}
	return x
}
