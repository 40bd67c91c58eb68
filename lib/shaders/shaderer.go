package shaders

import (
	"bytes"
	"embed"
	"fmt"
	"strconv"
	"text/template"

	"github.com/fosdem/trimix/lib/gpu"
	"github.com/fosdem/trimix/lib/utils"
)

//go:embed *.frag *.vert
var templateDir embed.FS

const (
	BuiltinVertex   = "position.vert"
	BuiltinFragment = "solid.frag"
)

// Shaderer renders the builtin shader templates.
type Shaderer struct {
	templates *template.Template
}

func NewShaderer() (*Shaderer, error) {
	s := &Shaderer{}

	var err error

	s.templates, err = template.New("").Funcs(template.FuncMap{
		"glfloat": glfloat,
	}).ParseFS(templateDir, "*.frag", "*.vert")

	return s, err
}

// ShaderData contains stuff that gets passed to the shader templates
type ShaderData struct {
	Colour utils.Colour
}

func (s *Shaderer) GetShaderSource(name string, data *ShaderData) (string, error) {
	var b bytes.Buffer
	err := s.templates.ExecuteTemplate(&b, name, data)
	if err != nil {
		return "", fmt.Errorf("error while rendering template: %w", err)
	}

	return b.String(), nil
}

// Builtin renders a template into a Source for the given stage.
func (s *Shaderer) Builtin(name string, stage gpu.ShaderType, data *ShaderData) (*Source, error) {
	text, err := s.GetShaderSource(name, data)
	if err != nil {
		return nil, &LoadError{Path: "builtin:" + name, Err: err}
	}
	return &Source{Name: "builtin:" + name, Stage: stage, Text: text}, nil
}

func (s *Shaderer) TemplateNames() []string {
	var names []string
	for _, t := range s.templates.Templates() {
		if t.Name() != "" {
			names = append(names, t.Name())
		}
	}
	return names
}

// glfloat formats v as a GLSL float literal.
func glfloat(v float32) string {
	return strconv.FormatFloat(float64(v), 'f', 4, 32)
}
