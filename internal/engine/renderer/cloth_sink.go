package renderer

import (
	"fmt"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"

	"github.com/Faultbox/midgard-cloth/internal/cloth"
	"github.com/Faultbox/midgard-cloth/internal/logger"
)

// ClothSink keeps a cloth mesh on the GPU. The vertex buffer is replaced in
// full on every Upload; the index buffer is written once in Setup.
type ClothSink struct {
	r          *Renderer
	useNormals bool

	vao uint32
	vbo uint32
	ebo uint32

	vertexCount int
}

// NewClothSink creates a sink drawing through r. When useNormals is false
// the vertex attribute is treated as a colour.
func (r *Renderer) NewClothSink(useNormals bool) *ClothSink {
	return &ClothSink{r: r, useNormals: useNormals}
}

// Setup creates the vertex array with both buffers.
func (s *ClothSink) Setup(vertices []cloth.Vertex, indices []uint32) error {
	if len(vertices) == 0 || len(indices) == 0 {
		return fmt.Errorf("empty cloth mesh: %d vertices, %d indices", len(vertices), len(indices))
	}

	gl.GenVertexArrays(1, &s.vao)
	gl.BindVertexArray(s.vao)

	gl.GenBuffers(1, &s.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, s.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(vertices)*cloth.VertexSize, unsafe.Pointer(&vertices[0]), gl.DYNAMIC_DRAW)

	// Position (location = 0)
	gl.VertexAttribPointerWithOffset(0, 3, gl.FLOAT, false, cloth.VertexSize, 0)
	gl.EnableVertexAttribArray(0)

	// Normal or colour (location = 1)
	gl.VertexAttribPointerWithOffset(1, 3, gl.FLOAT, false, cloth.VertexSize, 3*4)
	gl.EnableVertexAttribArray(1)

	gl.GenBuffers(1, &s.ebo)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, s.ebo)
	gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(indices)*4, unsafe.Pointer(&indices[0]), gl.STATIC_DRAW)

	gl.BindVertexArray(0)
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)

	s.vertexCount = len(vertices)

	logger.Debug("cloth buffers created",
		zap.Uint32("vao", s.vao),
		zap.Uint32("vbo", s.vbo),
		zap.Uint32("ebo", s.ebo),
		zap.Int("vertices", len(vertices)),
		zap.Int("indices", len(indices)),
	)
	return nil
}

// Upload replaces the vertex buffer contents.
func (s *ClothSink) Upload(vertices []cloth.Vertex) {
	if s.vbo == 0 || len(vertices) == 0 {
		return
	}
	n := min(len(vertices), s.vertexCount)
	gl.BindBuffer(gl.ARRAY_BUFFER, s.vbo)
	gl.BufferSubData(gl.ARRAY_BUFFER, 0, n*cloth.VertexSize, unsafe.Pointer(&vertices[0]))
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
}

// Draw renders indexCount indices as triangles.
func (s *ClothSink) Draw(indexCount int) {
	if s.vao == 0 {
		return
	}
	s.r.use(s.useNormals)
	gl.BindVertexArray(s.vao)
	gl.DrawElements(gl.TRIANGLES, int32(indexCount), gl.UNSIGNED_INT, nil)
	gl.BindVertexArray(0)
}

// Release deletes the GPU objects.
func (s *ClothSink) Release() {
	if s.vao != 0 {
		gl.DeleteVertexArrays(1, &s.vao)
	}
	if s.vbo != 0 {
		gl.DeleteBuffers(1, &s.vbo)
	}
	if s.ebo != 0 {
		gl.DeleteBuffers(1, &s.ebo)
	}
	s.vao, s.vbo, s.ebo = 0, 0, 0
	logger.Debug("cloth buffers released")
}

var _ cloth.Sink = (*ClothSink)(nil)
