package metrics

import (
	"github.com/fosdem/trimix/lib/gpu"
)

// InstrumentedDriver tracks live GPU objects and draw calls of the wrapped
// driver in the trimix_gpu_objects and trimix_draw_calls_total metrics.
type InstrumentedDriver struct {
	gpu.Driver
}

func Instrument(d gpu.Driver) *InstrumentedDriver {
	for _, kind := range gpu.ObjectKinds {
		GPUObjects.WithLabelValues(string(kind)).Add(0)
	}
	return &InstrumentedDriver{Driver: d}
}

func created(kind gpu.ObjectKind, h uint32) uint32 {
	if h != 0 {
		GPUObjects.WithLabelValues(string(kind)).Inc()
	}
	return h
}

func deleted(kind gpu.ObjectKind, h uint32) {
	if h != 0 {
		GPUObjects.WithLabelValues(string(kind)).Dec()
	}
}

func (i *InstrumentedDriver) CreateShader(t gpu.ShaderType) uint32 {
	return created(gpu.ShaderObject, i.Driver.CreateShader(t))
}

func (i *InstrumentedDriver) DeleteShader(h uint32) {
	i.Driver.DeleteShader(h)
	deleted(gpu.ShaderObject, h)
}

func (i *InstrumentedDriver) CreateProgram() uint32 {
	return created(gpu.ProgramObject, i.Driver.CreateProgram())
}

func (i *InstrumentedDriver) DeleteProgram(h uint32) {
	i.Driver.DeleteProgram(h)
	deleted(gpu.ProgramObject, h)
}

func (i *InstrumentedDriver) CreateBuffer() uint32 {
	return created(gpu.BufferObject, i.Driver.CreateBuffer())
}

func (i *InstrumentedDriver) DeleteBuffer(h uint32) {
	i.Driver.DeleteBuffer(h)
	deleted(gpu.BufferObject, h)
}

func (i *InstrumentedDriver) CreateVertexArray() uint32 {
	return created(gpu.VertexArrayObject, i.Driver.CreateVertexArray())
}

func (i *InstrumentedDriver) DeleteVertexArray(h uint32) {
	i.Driver.DeleteVertexArray(h)
	deleted(gpu.VertexArrayObject, h)
}

func (i *InstrumentedDriver) DrawTriangles(first, count int32) {
	i.Driver.DrawTriangles(first, count)
	DrawCalls.Inc()
}
