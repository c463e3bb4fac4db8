package cloth

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// buildSprings connects the lattice with three spring families: horizontal
// (along z) and vertical (along y) at rest length res, and both diagonals of
// every cell at res·√2. All springs share one stiffness.
func buildSprings(p Params) []Spring {
	size := p.Size
	want := SpringCount(size)
	springs := make([]Spring, 0, want)

	edge := p.Resolution
	diag := p.Resolution * float32(math.Sqrt2)
	link := func(a, b int, rest float32) {
		springs = append(springs, Spring{A: a, B: b, K: p.Stiffness, RestLength: rest})
	}

	// Horizontal
	for y := range size {
		for z := 0; z < size-1; z++ {
			link(y*size+z, y*size+z+1, edge)
		}
	}

	// Vertical
	for y := 0; y < size-1; y++ {
		for z := range size {
			link(y*size+z, (y+1)*size+z, edge)
		}
	}

	// Diagonal
	for y := 0; y < size-1; y++ {
		for z := 0; z < size-1; z++ {
			link(y*size+z, (y+1)*size+z+1, diag)
			link((y+1)*size+z, y*size+z+1, diag)
		}
	}

	if len(springs) != want {
		panic(fmt.Sprintf("cloth: built %d springs for size %d, want %d", len(springs), size, want))
	}
	return springs
}

// Force returns the force the spring exerts on its A endpoint given both
// endpoint positions. The force on B is the negation. A stretched spring pulls
// the endpoints together and a compressed one pushes them apart; coincident
// endpoints have no direction and yield zero.
func (s Spring) Force(pa, pb mgl32.Vec3) mgl32.Vec3 {
	d := pa.Sub(pb)
	dist := d.Len()
	if dist == 0 {
		return mgl32.Vec3{}
	}
	return d.Mul(s.K * (s.RestLength - dist) / dist)
}
