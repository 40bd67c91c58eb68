// Package softgpu is a software implementation of gpu.Driver. It keeps
// count of every object it hands out, records GL-style errors for misuse,
// and fills flat-coloured triangles on a gg canvas.
package softgpu

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/fosdem/trimix/lib/gpu"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/gogpu/gg"
)

var (
	ErrInvalidValue     = errors.New("invalid value")
	ErrInvalidOperation = errors.New("invalid operation")
)

type shader struct {
	kind     gpu.ShaderType
	source   string
	compiled bool
	log      string
	position int
	colour   mgl32.Vec4
}

type program struct {
	attached []uint32
	linked   bool
	log      string
	position int
	colour   mgl32.Vec4
}

type attrib struct {
	enabled    bool
	configured bool
	buffer     uint32
	size       int32
	stride     int32
	offset     int
}

type vertexArray struct {
	attribs map[uint32]*attrib
}

type Device struct {
	canvas   *gg.Context
	pixmap   *gg.Pixmap
	width    int
	height   int
	viewport [4]int32
	clear    mgl32.Vec4

	next     uint32
	shaders  map[uint32]*shader
	programs map[uint32]*program
	buffers  map[uint32][]float32
	vaos     map[uint32]*vertexArray

	boundBuffer uint32
	boundVAO    uint32
	current     uint32

	err       error
	drawCalls int
}

var _ gpu.Driver = (*Device)(nil)

// New makes a device with a width x height colour buffer. The viewport
// starts out covering the whole buffer, as with a freshly created context.
func New(width, height int) *Device {
	pixmap := gg.NewPixmap(width, height)
	return &Device{
		canvas:   gg.NewContext(width, height, gg.WithPixmap(pixmap)),
		pixmap:   pixmap,
		width:    width,
		height:   height,
		viewport: [4]int32{0, 0, int32(width), int32(height)},
		clear:    mgl32.Vec4{0, 0, 0, 0},
		shaders:  make(map[uint32]*shader),
		programs: make(map[uint32]*program),
		buffers:  make(map[uint32][]float32),
		vaos:     make(map[uint32]*vertexArray),
	}
}

// Err returns the first error recorded since the previous call and clears it.
func (d *Device) Err() error {
	err := d.err
	d.err = nil
	return err
}

func (d *Device) fail(kind error, msg string, args ...interface{}) {
	if d.err == nil {
		d.err = fmt.Errorf("%w: %s", kind, fmt.Sprintf(msg, args...))
	}
}

// Live returns the number of objects of the given kind not yet deleted.
func (d *Device) Live(kind gpu.ObjectKind) int {
	switch kind {
	case gpu.ShaderObject:
		return len(d.shaders)
	case gpu.ProgramObject:
		return len(d.programs)
	case gpu.BufferObject:
		return len(d.buffers)
	case gpu.VertexArrayObject:
		return len(d.vaos)
	}
	return 0
}

// LiveTotal is the sum of Live over every object kind.
func (d *Device) LiveTotal() int {
	total := 0
	for _, kind := range gpu.ObjectKinds {
		total += d.Live(kind)
	}
	return total
}

func (d *Device) DrawCalls() int {
	return d.drawCalls
}

// Framebuffer returns a copy of the colour buffer. Row 0 is the top of the
// image.
func (d *Device) Framebuffer() *image.RGBA {
	return d.canvas.Image().(*image.RGBA)
}

// Canvas is the gg context the device draws on.
func (d *Device) Canvas() *gg.Context {
	return d.canvas
}

func (d *Device) Pixel(x, y int) color.RGBA {
	if x < 0 || y < 0 || x >= d.width || y >= d.height {
		return color.RGBA{}
	}
	i := (y*d.width + x) * 4
	p := d.pixmap.Data()
	return color.RGBA{R: p[i], G: p[i+1], B: p[i+2], A: p[i+3]}
}

func (d *Device) handle() uint32 {
	d.next++
	return d.next
}

func (d *Device) CreateShader(t gpu.ShaderType) uint32 {
	if t != gpu.VertexShader && t != gpu.FragmentShader {
		d.fail(ErrInvalidValue, "unknown shader type %d", t)
		return 0
	}
	h := d.handle()
	d.shaders[h] = &shader{kind: t, position: -1}
	return h
}

func (d *Device) DeleteShader(h uint32) {
	if h == 0 {
		return
	}
	if _, ok := d.shaders[h]; !ok {
		d.fail(ErrInvalidValue, "delete of unknown shader %d", h)
		return
	}
	delete(d.shaders, h)
}

func (d *Device) lookupShader(h uint32) *shader {
	s, ok := d.shaders[h]
	if !ok {
		d.fail(ErrInvalidValue, "unknown shader %d", h)
		return nil
	}
	return s
}

func (d *Device) ShaderSource(h uint32, source string) {
	if s := d.lookupShader(h); s != nil {
		s.source = source
	}
}

func (d *Device) CompileShader(h uint32) {
	s := d.lookupShader(h)
	if s == nil {
		return
	}
	res := compileGLSL(s.kind, s.source)
	s.compiled = res.ok
	s.log = res.log
	s.position = res.position
	s.colour = res.colour
}

func (d *Device) ShaderCompiled(h uint32) bool {
	s := d.lookupShader(h)
	return s != nil && s.compiled
}

func (d *Device) ShaderInfoLog(h uint32) string {
	if s := d.lookupShader(h); s != nil {
		return s.log
	}
	return ""
}

func (d *Device) CreateProgram() uint32 {
	h := d.handle()
	d.programs[h] = &program{position: -1}
	return h
}

func (d *Device) DeleteProgram(h uint32) {
	if h == 0 {
		return
	}
	if _, ok := d.programs[h]; !ok {
		d.fail(ErrInvalidValue, "delete of unknown program %d", h)
		return
	}
	delete(d.programs, h)
	if d.current == h {
		d.current = 0
	}
}

func (d *Device) lookupProgram(h uint32) *program {
	p, ok := d.programs[h]
	if !ok {
		d.fail(ErrInvalidValue, "unknown program %d", h)
		return nil
	}
	return p
}

func (d *Device) AttachShader(ph, sh uint32) {
	p := d.lookupProgram(ph)
	if p == nil || d.lookupShader(sh) == nil {
		return
	}
	for _, a := range p.attached {
		if a == sh {
			d.fail(ErrInvalidOperation, "shader %d already attached to program %d", sh, ph)
			return
		}
	}
	p.attached = append(p.attached, sh)
}

func (d *Device) LinkProgram(ph uint32) {
	p := d.lookupProgram(ph)
	if p == nil {
		return
	}
	p.linked = false
	p.log = ""

	var vertex, fragment []*shader
	for _, sh := range p.attached {
		s, ok := d.shaders[sh]
		if !ok {
			p.log = fmt.Sprintf("error: attached shader %d no longer exists", sh)
			return
		}
		if !s.compiled {
			p.log = "error: linking with uncompiled/unsuccessfully compiled shader"
			return
		}
		switch s.kind {
		case gpu.VertexShader:
			vertex = append(vertex, s)
		case gpu.FragmentShader:
			fragment = append(fragment, s)
		}
	}

	switch {
	case len(vertex) == 0:
		p.log = "error: program lacks a vertex shader"
	case len(fragment) == 0:
		p.log = "error: program lacks a fragment shader"
	case len(vertex) > 1:
		p.log = "error: function `main' is multiply defined in vertex stage"
	case len(fragment) > 1:
		p.log = "error: function `main' is multiply defined in fragment stage"
	default:
		p.linked = true
		p.position = vertex[0].position
		p.colour = fragment[0].colour
	}
}

func (d *Device) ProgramLinked(h uint32) bool {
	p := d.lookupProgram(h)
	return p != nil && p.linked
}

func (d *Device) ProgramInfoLog(h uint32) string {
	if p := d.lookupProgram(h); p != nil {
		return p.log
	}
	return ""
}

func (d *Device) UseProgram(h uint32) {
	if h != 0 && d.lookupProgram(h) == nil {
		return
	}
	d.current = h
}

func (d *Device) CreateBuffer() uint32 {
	h := d.handle()
	d.buffers[h] = nil
	return h
}

func (d *Device) DeleteBuffer(h uint32) {
	if h == 0 {
		return
	}
	if _, ok := d.buffers[h]; !ok {
		d.fail(ErrInvalidValue, "delete of unknown buffer %d", h)
		return
	}
	delete(d.buffers, h)
	if d.boundBuffer == h {
		d.boundBuffer = 0
	}
}

func (d *Device) BindArrayBuffer(h uint32) {
	if h != 0 {
		if _, ok := d.buffers[h]; !ok {
			d.fail(ErrInvalidValue, "bind of unknown buffer %d", h)
			return
		}
	}
	d.boundBuffer = h
}

func (d *Device) StaticBufferData(data []float32) {
	if d.boundBuffer == 0 {
		d.fail(ErrInvalidOperation, "no array buffer bound")
		return
	}
	d.buffers[d.boundBuffer] = append([]float32(nil), data...)
}

func (d *Device) CreateVertexArray() uint32 {
	h := d.handle()
	d.vaos[h] = &vertexArray{attribs: make(map[uint32]*attrib)}
	return h
}

func (d *Device) DeleteVertexArray(h uint32) {
	if h == 0 {
		return
	}
	if _, ok := d.vaos[h]; !ok {
		d.fail(ErrInvalidValue, "delete of unknown vertex array %d", h)
		return
	}
	delete(d.vaos, h)
	if d.boundVAO == h {
		d.boundVAO = 0
	}
}

func (d *Device) BindVertexArray(h uint32) {
	if h != 0 {
		if _, ok := d.vaos[h]; !ok {
			d.fail(ErrInvalidOperation, "bind of unknown vertex array %d", h)
			return
		}
	}
	d.boundVAO = h
}

func (d *Device) boundAttrib(index uint32) *attrib {
	vao, ok := d.vaos[d.boundVAO]
	if !ok {
		d.fail(ErrInvalidOperation, "no vertex array bound")
		return nil
	}
	a, ok := vao.attribs[index]
	if !ok {
		a = &attrib{}
		vao.attribs[index] = a
	}
	return a
}

func (d *Device) VertexAttribPointer(index uint32, size int32, stride int32, offset int) {
	if size < 1 || size > 4 || stride < 0 || offset < 0 {
		d.fail(ErrInvalidValue, "bad attribute layout size=%d stride=%d offset=%d", size, stride, offset)
		return
	}
	if d.boundBuffer == 0 {
		d.fail(ErrInvalidOperation, "no array buffer bound")
		return
	}
	a := d.boundAttrib(index)
	if a == nil {
		return
	}
	a.configured = true
	a.buffer = d.boundBuffer
	a.size = size
	a.stride = stride
	a.offset = offset
}

func (d *Device) EnableVertexAttribArray(index uint32) {
	if a := d.boundAttrib(index); a != nil {
		a.enabled = true
	}
}

func (d *Device) ClearColor(r, g, b, a float32) {
	d.clear = mgl32.Vec4{r, g, b, a}
}

func (d *Device) Clear() {
	d.canvas.ClearWithColor(canvasColour(d.clear))
}

func (d *Device) Viewport(x, y, width, height int32) {
	if width < 0 || height < 0 {
		d.fail(ErrInvalidValue, "negative viewport %dx%d", width, height)
		return
	}
	d.viewport = [4]int32{x, y, width, height}
}

func (d *Device) DrawTriangles(first, count int32) {
	if first < 0 || count < 0 {
		d.fail(ErrInvalidValue, "negative draw range %d+%d", first, count)
		return
	}
	p, ok := d.programs[d.current]
	if !ok || !p.linked {
		d.fail(ErrInvalidOperation, "draw without a linked program")
		return
	}
	vao, ok := d.vaos[d.boundVAO]
	if !ok {
		d.fail(ErrInvalidOperation, "draw without a vertex array")
		return
	}
	d.drawCalls++
	if p.position < 0 {
		return
	}
	a, ok := vao.attribs[uint32(p.position)]
	if !ok || !a.enabled || !a.configured {
		return
	}
	data, ok := d.buffers[a.buffer]
	if !ok {
		d.fail(ErrInvalidOperation, "attribute buffer %d was deleted", a.buffer)
		return
	}

	stride := int(a.stride) / 4
	if stride == 0 {
		stride = int(a.size)
	}
	base := a.offset / 4

	var tri [3]mgl32.Vec2
	for i := int32(0); i+2 < count; i += 3 {
		for k := range 3 {
			idx := base + int(first+i+int32(k))*stride
			if idx+int(a.size) > len(data) {
				d.fail(ErrInvalidOperation, "draw reads past the end of buffer %d", a.buffer)
				return
			}
			var v mgl32.Vec2
			v[0] = data[idx]
			if a.size > 1 {
				v[1] = data[idx+1]
			}
			tri[k] = d.toWindow(v)
		}
		d.fill(tri, p.colour)
	}
}

func (d *Device) toWindow(ndc mgl32.Vec2) mgl32.Vec2 {
	vx, vy := float32(d.viewport[0]), float32(d.viewport[1])
	vw, vh := float32(d.viewport[2]), float32(d.viewport[3])
	return mgl32.Vec2{
		(ndc.X()+1)/2*vw + vx,
		(ndc.Y()+1)/2*vh + vy,
	}
}

// fill draws a triangle given in window coordinates (origin at the bottom
// left) as a closed gg path.
func (d *Device) fill(tri [3]mgl32.Vec2, colour mgl32.Vec4) {
	c := canvasColour(colour)
	d.canvas.SetRGBA(c.R, c.G, c.B, c.A)
	for k, v := range tri {
		x, y := float64(v.X()), float64(d.height)-float64(v.Y())
		if k == 0 {
			d.canvas.MoveTo(x, y)
		} else {
			d.canvas.LineTo(x, y)
		}
	}
	d.canvas.ClosePath()
	if err := d.canvas.Fill(); err != nil {
		d.fail(ErrInvalidOperation, "fill failed: %s", err)
	}
}

// canvasColour clamps c to [0, 1] and rounds it to 8 bits. gg truncates
// when it stores a channel, so every value below 1 is nudged up by a
// quarter step to land on the rounded byte.
func canvasColour(c mgl32.Vec4) gg.RGBA {
	conv := func(v float32) float64 {
		n := math.Round(float64(mgl32.Clamp(v, 0, 1)) * 255)
		if n == 255 {
			return 1
		}
		return (n + 0.25) / 255
	}
	return gg.RGBA{R: conv(c.X()), G: conv(c.Y()), B: conv(c.Z()), A: conv(c.W())}
}
