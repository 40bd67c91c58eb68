package shaders

import (
	"fmt"
	"log/slog"

	"github.com/fosdem/trimix/lib/gpu"
)

// Policy decides what happens when a stage fails to compile or the
// program fails to link.
type Policy int

const (
	// BestEffort logs failures and carries on: a failed compile is still
	// linked and a failed link still yields a program.
	BestEffort Policy = iota
	// Strict stops at the first failure, releases what was created and
	// returns the error.
	Strict
)

func (p Policy) String() string {
	if p == Strict {
		return "strict"
	}
	return "best-effort"
}

type Builder struct {
	Driver gpu.Driver
	Policy Policy
}

// Build compiles both sources and links them into a program called name.
// Under BestEffort the returned error is always nil and failures are only
// visible on the program; under Strict a failure returns a nil program and a
// *CompileError or *LinkError.
func (b *Builder) Build(name string, vertex, fragment *Source) (*LinkedProgram, error) {
	logger := slog.With(slog.String("module", "shaders"))

	vs := Compile(b.Driver, vertex)
	fs := Compile(b.Driver, fragment)

	for _, c := range []*CompiledShader{vs, fs} {
		if err := c.Err(); err != nil {
			logger.Error(fmt.Sprintf("%s: %s", name, err))
			if b.Policy == Strict {
				vs.release(b.Driver)
				fs.release(b.Driver)
				return nil, err
			}
		}
	}

	program := Link(b.Driver, name, vs, fs)
	if err := program.Err(); err != nil {
		logger.Error(err.Error())
		if b.Policy == Strict {
			program.Delete(b.Driver)
			return nil, err
		}
		return program, nil
	}

	logger.Debug(fmt.Sprintf("built program %s from %s and %s", name, vertex.Name, fragment.Name))
	return program, nil
}
