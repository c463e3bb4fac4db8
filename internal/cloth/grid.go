package cloth

import (
	"github.com/go-gl/mathgl/mgl32"
)

// buildGrid lays out the vertex lattice, one mass per vertex, and the
// triangle list. Vertices are emitted row-major with y outer and z inner, so
// vertex (y, z) has index y*size+z.
func buildGrid(p Params) ([]Vertex, []Mass, []uint32) {
	size := p.Size
	vertices := make([]Vertex, 0, VertexCount(size))
	masses := make([]Mass, 0, VertexCount(size))
	indices := make([]uint32, 0, IndexCount(size))

	for y := range size {
		for z := range size {
			i := len(vertices)
			vertices = append(vertices, Vertex{
				Position: mgl32.Vec3{float32(y) * p.Resolution, p.Height, float32(z) * p.Resolution},
				Attr:     initialAttr(p, y, z),
			})
			masses = append(masses, Mass{Mass: p.Mass, Vertex: i})

			if y < size-1 && z < size-1 {
				c := uint32(i)
				s := uint32(size)
				indices = append(indices,
					c, c+s+1, c+s,
					c, c+1, c+s+1,
				)
			}
		}
	}

	if len(vertices) != VertexCount(size) || len(indices) != IndexCount(size) {
		panic("cloth: grid topology count mismatch")
	}
	return vertices, masses, indices
}

// initialAttr is the attribute a vertex starts with: an up normal, or the
// blue-to-red gradient in colour mode.
func initialAttr(p Params, y, z int) mgl32.Vec3 {
	if p.Attr == AttrColor {
		span := float32(p.Size - 1)
		return mgl32.Vec3{float32(y) / span, 0, 1 - float32(z)/span}
	}
	return mgl32.Vec3{0, 1, 0}
}

// gridIndex returns the vertex index of lattice cell (y, z) and whether the
// cell lies inside the grid.
func gridIndex(size, y, z int) (int, bool) {
	if y < 0 || z < 0 || y >= size || z >= size {
		return 0, false
	}
	return y*size + z, true
}
