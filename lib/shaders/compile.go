package shaders

import (
	"fmt"

	"github.com/fosdem/trimix/lib/gpu"
	"github.com/fosdem/trimix/lib/metrics"
)

// CompiledShader is a driver shader object plus the outcome of compiling
// it. It only lives until Link consumes it.
type CompiledShader struct {
	Handle uint32
	Name   string
	Stage  gpu.ShaderType
	OK     bool
	Log    string
}

type CompileError struct {
	Name  string
	Stage gpu.ShaderType
	Log   string
}

func (e *CompileError) Error() string {
	return fmt.Sprintf("failed to compile %s shader %s: %s", e.Stage, e.Name, e.Log)
}

// Compile submits src to the driver. A failed compile is reported in the
// result, never as a panic.
func Compile(d gpu.Driver, src *Source) *CompiledShader {
	c := &CompiledShader{
		Name:  src.Name,
		Stage: src.Stage,
	}

	c.Handle = d.CreateShader(src.Stage)
	d.ShaderSource(c.Handle, src.Text)
	d.CompileShader(c.Handle)

	c.OK = d.ShaderCompiled(c.Handle)
	if !c.OK {
		c.Log = d.ShaderInfoLog(c.Handle)
		if c.Log == "" {
			c.Log = "driver gave no diagnostics"
		}
	}

	metrics.ShaderCompiles.WithLabelValues(src.Stage.String(), result(c.OK)).Inc()
	return c
}

// Err is nil when compilation succeeded.
func (c *CompiledShader) Err() error {
	if c.OK {
		return nil
	}
	return &CompileError{Name: c.Name, Stage: c.Stage, Log: c.Log}
}

// Released reports whether the driver object has been deleted.
func (c *CompiledShader) Released() bool {
	return c.Handle == 0
}

func (c *CompiledShader) release(d gpu.Driver) {
	if c.Handle == 0 {
		return
	}
	d.DeleteShader(c.Handle)
	c.Handle = 0
}

func result(ok bool) string {
	if ok {
		return "success"
	}
	return "failure"
}
