package shaders

import (
	"fmt"
	"strings"

	"github.com/fosdem/trimix/lib/gpu"
	"github.com/fosdem/trimix/lib/metrics"
)

// LinkedProgram is a driver program object plus its link outcome. A program
// that failed to link still owns its handle and must be deleted.
type LinkedProgram struct {
	Handle uint32
	Name   string
	OK     bool
	Log    string
}

type LinkError struct {
	Name string
	Log  string
}

func (e *LinkError) Error() string {
	return fmt.Sprintf("failed to link program %s: %s", e.Name, e.Log)
}

// Link combines one vertex and one fragment shader into a program. Both
// shaders are deleted before Link returns, whatever the outcome, and must
// not be used again.
func Link(d gpu.Driver, name string, vertex, fragment *CompiledShader) *LinkedProgram {
	p := &LinkedProgram{Name: name}

	p.Handle = d.CreateProgram()
	for _, s := range []*CompiledShader{vertex, fragment} {
		if s != nil && s.Handle != 0 {
			d.AttachShader(p.Handle, s.Handle)
		}
	}
	d.LinkProgram(p.Handle)

	p.OK = d.ProgramLinked(p.Handle)
	var logs []string
	if !p.OK {
		logs = append(logs, d.ProgramInfoLog(p.Handle))
	}
	if problem := checkStages(vertex, fragment); problem != "" {
		// a driver may accept odd combinations; we never do
		p.OK = false
		logs = append(logs, problem)
	}
	p.Log = strings.TrimSpace(strings.Join(logs, "\n"))
	if !p.OK && p.Log == "" {
		p.Log = "driver gave no diagnostics"
	}

	for _, s := range []*CompiledShader{vertex, fragment} {
		if s != nil {
			s.release(d)
		}
	}

	metrics.ProgramLinks.WithLabelValues(result(p.OK)).Inc()
	return p
}

func checkStages(vertex, fragment *CompiledShader) string {
	describe := func(s *CompiledShader) string {
		switch {
		case s == nil:
			return "nothing"
		case s.Handle == 0:
			return "a released " + s.Stage.String() + " shader"
		}
		return "a " + s.Stage.String() + " shader"
	}
	if vertex == nil || fragment == nil || vertex.Handle == 0 || fragment.Handle == 0 ||
		vertex.Stage != gpu.VertexShader || fragment.Stage != gpu.FragmentShader {
		return fmt.Sprintf("program needs one vertex and one fragment shader, got %s and %s",
			describe(vertex), describe(fragment))
	}
	return ""
}

// Err is nil when linking succeeded.
func (p *LinkedProgram) Err() error {
	if p.OK {
		return nil
	}
	return &LinkError{Name: p.Name, Log: p.Log}
}

// Delete releases the program. Calling it again does nothing.
func (p *LinkedProgram) Delete(d gpu.Driver) {
	if p.Handle == 0 {
		return
	}
	d.DeleteProgram(p.Handle)
	p.Handle = 0
}
