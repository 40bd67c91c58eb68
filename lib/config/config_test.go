package config_test

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fosdem/trimix/lib/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := config.Default()
	assert.Equal(t, 800, cfg.Window.Width)
	assert.Equal(t, 600, cfg.Window.Height)
	assert.Equal(t, "#334d4dff", cfg.BackgroundColour)
	assert.False(t, cfg.StrictBuild)
	assert.Equal(t, int32(3), cfg.Components)
	require.Len(t, cfg.Units, 2)
	assert.Equal(t, "red", cfg.Units[0].Name)
	assert.Equal(t, int32(3), cfg.Units[1].First)
	assert.Len(t, cfg.Units[1].Vertices, 18)

	level, err := cfg.Level()
	require.NoError(t, err)
	assert.Equal(t, slog.LevelInfo, level)
	assert.Contains(t, cfg.String(), "red: builtin + builtin #ff0000ff, vertices 0+3")
}

func TestParseResolvesPaths(t *testing.T) {
	dir := t.TempDir()
	text := `
strict_build: true
log_level: debug
vertices: [0.0, 0.0, 0.5, 0.0, 0.0, 0.5]
components: 2
units:
  - name: a
    vertex_shader: shaders/a.vert
    fragment_shader: /abs/a.frag
api:
  bind: ":8080"
  enable_profiler: true
`
	path := filepath.Join(dir, "trimix.yaml")
	require.NoError(t, os.WriteFile(path, []byte(text), 0o644))

	cfg, err := config.Parse(path)
	require.NoError(t, err)
	assert.True(t, cfg.StrictBuild)
	assert.Equal(t, config.CfgPath(filepath.Join(dir, "shaders/a.vert")), cfg.Units[0].VertexShader)
	assert.Equal(t, config.CfgPath("/abs/a.frag"), cfg.Units[0].FragmentShader)
	assert.Equal(t, int32(3), cfg.Units[0].Count, "count covers every vertex")
	assert.Equal(t, "trimix", cfg.Window.Title)
	assert.Equal(t, ":8080", cfg.Api.Bind)
	assert.True(t, cfg.Api.EnableProfiler)

	level, err := cfg.Level()
	require.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, level)
}

func TestParseMissingFile(t *testing.T) {
	_, err := config.Parse(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	const base = `
vertices: [0.0, 0.0, 0.0, 0.5, 0.0, 0.0, 0.0, 0.5, 0.0]
`
	cases := []struct {
		name   string
		text   string
		errstr string
	}{
		{"no units", base, "at least one unit"},
		{"no name", base + "units: [{colour: '#ff0000ff'}]", "no name"},
		{"duplicate", base + "units: [{name: a, colour: '#ff0000ff'}, {name: a, colour: '#ff0000ff'}]", "more than once"},
		{"no fragment", base + "units: [{name: a}]", "fragment_shader or colour"},
		{"both fragment", base + "units: [{name: a, colour: '#ff0000ff', fragment_shader: x.frag}]", "can't both"},
		{"bad colour", base + "units: [{name: a, colour: red}]", "not a valid"},
		{"bad background", base + "background_colour: '#fff'\nunits: [{name: a, colour: '#ff0000ff'}]", "not a valid"},
		{"range", base + "units: [{name: a, colour: '#ff0000ff', first: 2, count: 3}]", "outside"},
		{"partial vertex", "vertices: [0.0, 0.0]\nunits: [{name: a, colour: '#ff0000ff'}]", "whole number"},
		{"components", base + "components: 5\nunits: [{name: a, colour: '#ff0000ff'}]", "between 1 and 4"},
		{"level", base + "log_level: loud\nunits: [{name: a, colour: '#ff0000ff'}]", "log_level"},
		{"window", base + "window: {width: 0, height: 10}\nunits: [{name: a, colour: '#ff0000ff'}]", "window size"},
		{"no vertices", "units: [{name: a, colour: '#ff0000ff'}]", "no vertices"},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := config.Decode(strings.NewReader(c.text), "")
			require.Error(t, err)
			assert.Contains(t, err.Error(), c.errstr)
		})
	}
}

func TestPerUnitVertices(t *testing.T) {
	text := `
units:
  - name: a
    colour: '#ff0000ff'
    vertices: [0.0, 0.0, 0.0, 0.5, 0.0, 0.0, 0.0, 0.5, 0.0]
`
	cfg, err := config.Decode(strings.NewReader(text), "")
	require.NoError(t, err)
	assert.Equal(t, int32(3), cfg.Units[0].Count)
}
