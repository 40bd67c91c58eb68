package rendering

import (
	"github.com/fosdem/trimix/lib/gpu"
)

const f32 = 4

// Layout describes how vertex data is read for attribute 0.
type Layout struct {
	Components int32 // floats per vertex
	Stride     int32 // bytes between vertices
	Offset     int   // bytes before the first vertex
}

// PackedLayout is a tightly packed layout of n floats per vertex.
func PackedLayout(n int32) Layout {
	return Layout{Components: n, Stride: n * f32}
}

// ResourceSet is a vertex buffer together with the vertex array that
// describes it, plus the range of vertices it draws. The two objects are
// created and deleted together.
type ResourceSet struct {
	VBO uint32
	VAO uint32

	First int32
	Count int32
}

// NewResourceSet uploads vertices into a new static buffer and records the
// attribute layout in a new vertex array.
func NewResourceSet(d gpu.Driver, vertices []float32, layout Layout, first, count int32) *ResourceSet {
	r := &ResourceSet{First: first, Count: count}

	r.VAO = d.CreateVertexArray()
	r.VBO = d.CreateBuffer()

	d.BindVertexArray(r.VAO)
	d.BindArrayBuffer(r.VBO)
	d.StaticBufferData(vertices)

	d.VertexAttribPointer(0, layout.Components, layout.Stride, layout.Offset)
	d.EnableVertexAttribArray(0)

	// unbind to reduce accidental state changes
	d.BindArrayBuffer(0)
	d.BindVertexArray(0)

	return r
}

func (r *ResourceSet) Bind(d gpu.Driver) {
	d.BindVertexArray(r.VAO)
}

func (r *ResourceSet) Draw(d gpu.Driver) {
	d.DrawTriangles(r.First, r.Count)
}

// Delete releases both objects. Calling it again does nothing.
func (r *ResourceSet) Delete(d gpu.Driver) {
	if r.VAO == 0 && r.VBO == 0 {
		return
	}
	d.DeleteVertexArray(r.VAO)
	d.DeleteBuffer(r.VBO)
	r.VAO = 0
	r.VBO = 0
}
