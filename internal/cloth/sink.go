package cloth

// Sink receives the mesh buffers for drawing. Setup is called once with the
// initial vertices and the immutable index list, Upload replaces the whole
// vertex buffer after every update, and Draw issues an indexed triangle draw
// of the first indexCount indices. The mesh never reads anything back.
type Sink interface {
	Setup(vertices []Vertex, indices []uint32) error
	Upload(vertices []Vertex)
	Draw(indexCount int)
	Release()
}

// NopSink discards everything. It is used for headless runs and tests.
type NopSink struct{}

func (NopSink) Setup([]Vertex, []uint32) error { return nil }
func (NopSink) Upload([]Vertex)                {}
func (NopSink) Draw(int)                       {}
func (NopSink) Release()                       {}
