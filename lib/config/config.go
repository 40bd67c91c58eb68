package config

import (
	"bytes"
	_ "embed"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/fosdem/trimix/lib/utils"
	yaml "github.com/goccy/go-yaml"
)

//go:embed default.yaml
var defaultConfig []byte

const (
	defaultComponents = 3
	defaultBackground = "#334d4dff"
	defaultLogLevel   = "info"
)

type Config struct {
	Window           *WindowCfg
	BackgroundColour string `yaml:"background_colour"`
	StrictBuild      bool   `yaml:"strict_build"`
	WatchShaders     bool   `yaml:"watch_shaders"`
	LogLevel         string `yaml:"log_level"`
	Components       int32
	Vertices         []float32
	Units            []*UnitCfg
	Api              *ApiCfg
}

type WindowCfg struct {
	Title     string
	Width     int
	Height    int
	Resizable bool
	VSync     bool `yaml:"vsync"`
}

// UnitCfg describes one program and the vertex range it draws. Without a
// vertex shader the builtin one is used; without a fragment shader the
// builtin solid colour one is rendered with Colour.
type UnitCfg struct {
	Name           string
	VertexShader   CfgPath `yaml:"vertex_shader"`
	FragmentShader CfgPath `yaml:"fragment_shader"`
	Colour         string
	First          int32
	Count          int32
	Vertices       []float32
}

type ApiCfg struct {
	Bind           string
	EnableProfiler bool `yaml:"enable_profiler"`
}

// Parse reads, completes and validates the config file at filename.
func Parse(filename string) (*Config, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("could not open %s: %w", filename, err)
	}
	defer func(f *os.File) {
		_ = f.Close()
	}(f)

	absFilename, err := filepath.Abs(filename)
	if err != nil {
		return nil, fmt.Errorf("somehow, %s is malformed: %w", filename, err)
	}

	return Decode(f, filepath.Dir(absFilename))
}

// Default returns the builtin configuration.
func Default() *Config {
	cfg, err := Decode(bytes.NewReader(defaultConfig), "")
	if err != nil {
		panic(fmt.Sprintf("builtin config is invalid: %s", err))
	}
	return cfg
}

// Decode reads a config from r, resolving relative paths against base.
func Decode(r io.Reader, base string) (*Config, error) {
	m := yaml.NewDecoder(r)
	cfg := &Config{}
	err := m.Decode(cfg)
	if err != nil {
		return nil, err
	}
	cfg.applyDefaults(base)
	err = cfg.Validate()
	if err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyDefaults(base string) {
	if c.Window == nil {
		c.Window = &WindowCfg{Width: 800, Height: 600, Resizable: true, VSync: true}
	}
	if c.Window.Title == "" {
		c.Window.Title = "trimix"
	}
	if c.BackgroundColour == "" {
		c.BackgroundColour = defaultBackground
	}
	if c.LogLevel == "" {
		c.LogLevel = defaultLogLevel
	}
	if c.Components == 0 {
		c.Components = defaultComponents
	}
	for _, u := range c.Units {
		u.VertexShader = u.VertexShader.resolve(base)
		u.FragmentShader = u.FragmentShader.resolve(base)
		if u.Vertices == nil {
			u.Vertices = c.Vertices
		}
		if u.Count == 0 && c.Components > 0 {
			u.Count = int32(len(u.Vertices))/c.Components - u.First
		}
	}
}

func (c *Config) Validate() error {
	var err error
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		return fmt.Errorf("window size %dx%d is invalid", c.Window.Width, c.Window.Height)
	}
	if !utils.ColourValidate(c.BackgroundColour) {
		return fmt.Errorf("%s is not a valid RGBA hex colour", c.BackgroundColour)
	}
	if _, err = c.Level(); err != nil {
		return err
	}
	if c.Components < 1 || c.Components > 4 {
		return fmt.Errorf("components must be between 1 and 4, not %d", c.Components)
	}
	if len(c.Units) < 1 {
		return fmt.Errorf("at least one unit should be defined")
	}

	names := make(map[string]bool)
	for i, u := range c.Units {
		if u.Name == "" {
			return fmt.Errorf("unit %d has no name", i)
		}
		if names[u.Name] {
			return fmt.Errorf("unit name %s is used more than once", u.Name)
		}
		names[u.Name] = true

		err = u.Validate(c.Components)
		if err != nil {
			return fmt.Errorf("unit %s is invalid: %w", u.Name, err)
		}
	}
	return nil
}

func (u *UnitCfg) Validate(components int32) error {
	if u.FragmentShader == "" {
		if u.Colour == "" {
			return fmt.Errorf("either fragment_shader or colour must be specified")
		}
		if !utils.ColourValidate(u.Colour) {
			return fmt.Errorf("%s is not a valid RGBA hex colour", u.Colour)
		}
	} else if u.Colour != "" {
		return fmt.Errorf("fragment_shader and colour can't both be specified")
	}

	if len(u.Vertices) == 0 {
		return fmt.Errorf("no vertices, set them on the unit or at the top level")
	}
	if len(u.Vertices)%int(components) != 0 {
		return fmt.Errorf("%d floats is not a whole number of %d-component vertices", len(u.Vertices), components)
	}
	numVertices := int32(len(u.Vertices)) / components
	if u.First < 0 || u.Count <= 0 || u.First+u.Count > numVertices {
		return fmt.Errorf("vertex range %d+%d is outside the %d vertices", u.First, u.Count, numVertices)
	}
	return nil
}

// Level maps log_level onto a slog level.
func (c *Config) Level() (slog.Level, error) {
	var level slog.Level
	err := level.UnmarshalText([]byte(c.LogLevel))
	if err != nil {
		return level, fmt.Errorf("log_level %q is not one of debug, info, warn, error", c.LogLevel)
	}
	return level, nil
}

func (c *Config) String() string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("Window: %s (%dx%d)\n", c.Window.Title, c.Window.Width, c.Window.Height))
	b.WriteString(fmt.Sprintf("Background: %s\n", c.BackgroundColour))
	b.WriteString(fmt.Sprintf("Strict build: %t\n", c.StrictBuild))

	b.WriteString("\nUnits:\n")
	for _, u := range c.Units {
		vert := string(u.VertexShader)
		if vert == "" {
			vert = "builtin"
		}
		frag := string(u.FragmentShader)
		if frag == "" {
			frag = "builtin " + u.Colour
		}
		b.WriteString(fmt.Sprintf("  %s: %s + %s, vertices %d+%d\n", u.Name, vert, frag, u.First, u.Count))
	}

	if c.Api != nil {
		b.WriteString(fmt.Sprintf("\nApi: %s\n", c.Api.Bind))
	}

	return b.String()
}
