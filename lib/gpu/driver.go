// Package gpu describes the graphics API calls the renderer makes. The
// OpenGL implementation lives in gldriver; softgpu is a software stand-in
// used for headless rendering and tests.
package gpu

// ShaderType selects the pipeline stage a shader object is created for.
type ShaderType int

const (
	VertexShader ShaderType = iota
	FragmentShader
)

func (t ShaderType) String() string {
	switch t {
	case VertexShader:
		return "vertex"
	case FragmentShader:
		return "fragment"
	default:
		return "unknown"
	}
}

// ObjectKind names a class of driver-owned object, used for accounting.
type ObjectKind string

const (
	ShaderObject      ObjectKind = "shader"
	ProgramObject     ObjectKind = "program"
	BufferObject      ObjectKind = "buffer"
	VertexArrayObject ObjectKind = "vertex_array"
)

var ObjectKinds = []ObjectKind{ShaderObject, ProgramObject, BufferObject, VertexArrayObject}

// Driver is the subset of the graphics API used by trimix. Every method must
// be called from the thread owning the context. Handle 0 is never a valid
// object.
type Driver interface {
	CreateShader(t ShaderType) uint32
	DeleteShader(shader uint32)
	ShaderSource(shader uint32, source string)
	CompileShader(shader uint32)
	ShaderCompiled(shader uint32) bool
	// ShaderInfoLog returns the full compile log, sized to the message.
	ShaderInfoLog(shader uint32) string

	CreateProgram() uint32
	DeleteProgram(program uint32)
	AttachShader(program, shader uint32)
	LinkProgram(program uint32)
	ProgramLinked(program uint32) bool
	ProgramInfoLog(program uint32) string
	UseProgram(program uint32)

	CreateBuffer() uint32
	DeleteBuffer(buffer uint32)
	BindArrayBuffer(buffer uint32)
	// StaticBufferData uploads to the bound array buffer with a static usage hint.
	StaticBufferData(data []float32)

	CreateVertexArray() uint32
	DeleteVertexArray(vao uint32)
	BindVertexArray(vao uint32)
	// VertexAttribPointer describes float attributes sourced from the bound
	// array buffer. stride and offset are in bytes.
	VertexAttribPointer(index uint32, size int32, stride int32, offset int)
	EnableVertexAttribArray(index uint32)

	ClearColor(r, g, b, a float32)
	Clear()
	DrawTriangles(first, count int32)
	Viewport(x, y, width, height int32)
}
