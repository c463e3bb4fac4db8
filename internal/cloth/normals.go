package cloth

import (
	"github.com/go-gl/mathgl/mgl32"
)

// neighborPairs walks the six lattice neighbours of a vertex in order. Each
// entry is a (dy, dz) pair of neighbours spanning one face-ish wedge; in flat
// index terms they are {-size-1,-1}, {-size,-size-1}, {+1,-size},
// {+size+1,+1}, {+size,+size+1} and {-1,+size}.
var neighborPairs = [6][2][2]int{
	{{-1, -1}, {0, -1}},
	{{-1, 0}, {-1, -1}},
	{{0, 1}, {-1, 0}},
	{{1, 1}, {0, 1}},
	{{1, 0}, {1, 1}},
	{{0, -1}, {1, 0}},
}

// CalculateNormals estimates every vertex normal as the mean of up to six
// wedge normals around it. Wedges with a neighbour outside the grid are left
// out of the mean rather than counted as zero.
func (m *Mesh) CalculateNormals() {
	size := m.params.Size
	for y := range size {
		for z := range size {
			i := y*size + z
			m.Vertices[i].Attr, _ = m.vertexNormal(y, z)
		}
	}
}

// vertexNormal returns the averaged normal of lattice vertex (y, z) and the
// number of wedges that contributed to it.
func (m *Mesh) vertexNormal(y, z int) (mgl32.Vec3, int) {
	size := m.params.Size
	p := m.Vertices[y*size+z].Position

	var sum mgl32.Vec3
	n := 0
	for _, pair := range neighborPairs {
		a, okA := gridIndex(size, y+pair[0][0], z+pair[0][1])
		b, okB := gridIndex(size, y+pair[1][0], z+pair[1][1])
		if !okA || !okB {
			continue
		}
		ea := m.Vertices[a].Position.Sub(p)
		eb := m.Vertices[b].Position.Sub(p)
		// Reversed operand order keeps a flat sheet's normal at +Y, the
		// same side the triangle winding faces.
		sum = sum.Add(eb.Cross(ea))
		n++
	}
	if n == 0 {
		return mgl32.Vec3{0, 1, 0}, 0
	}

	avg := sum.Mul(1 / float32(n))
	if !m.params.NormalizeNormals {
		return avg, n
	}
	if avg.Len() == 0 {
		return mgl32.Vec3{0, 1, 0}, n
	}
	return avg.Normalize(), n
}
