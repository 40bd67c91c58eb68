package shaders

import (
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/fosdem/trimix/lib/gpu"
)

// Source is shader program text tagged with the stage it is meant for.
type Source struct {
	Name  string
	Stage gpu.ShaderType
	Text  string
}

// LoadError is returned when shader text cannot be read. It is fatal at
// startup: nothing should be created on the GPU after one.
type LoadError struct {
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("could not read shader %s: %s", e.Path, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// LoadSource reads the whole file at path.
func LoadSource(path string, stage gpu.ShaderType) (*Source, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}
	defer func(f *os.File) {
		_ = f.Close()
	}(f)

	return readSource(f, path, stage)
}

// LoadSourceFS is LoadSource for a file inside fsys.
func LoadSourceFS(fsys fs.FS, name string, stage gpu.ShaderType) (*Source, error) {
	f, err := fsys.Open(name)
	if err != nil {
		return nil, &LoadError{Path: name, Err: err}
	}
	defer func(f fs.File) {
		_ = f.Close()
	}(f)

	return readSource(f, name, stage)
}

func readSource(r io.Reader, name string, stage gpu.ShaderType) (*Source, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, &LoadError{Path: name, Err: err}
	}
	return &Source{Name: name, Stage: stage, Text: string(b)}, nil
}
