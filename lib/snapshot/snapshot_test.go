package snapshot_test

import (
	"bytes"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fosdem/trimix/lib/config"
	"github.com/fosdem/trimix/lib/snapshot"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	red        = color.RGBA{0xff, 0x00, 0x00, 0xff}
	green      = color.RGBA{0x00, 0xff, 0x00, 0xff}
	background = color.RGBA{0x33, 0x4d, 0x4d, 0xff}
)

func TestRenderDefault(t *testing.T) {
	img, err := snapshot.Render(config.Default())
	require.NoError(t, err)
	assert.Equal(t, 800, img.Bounds().Dx())
	assert.Equal(t, 600, img.Bounds().Dy())

	assert.Equal(t, red, img.RGBAAt(440, 270))
	assert.Equal(t, green, img.RGBAAt(360, 270))
	assert.Equal(t, background, img.RGBAAt(10, 10))
	assert.Equal(t, background, img.RGBAAt(440, 330))
}

func TestWritePNGScaled(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, snapshot.WritePNG(&buf, config.Default(), 200, 150))

	img, err := png.Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, 200, img.Bounds().Dx())
	assert.Equal(t, 150, img.Bounds().Dy())

	r, g, b, _ := img.At(110, 67).RGBA()
	assert.InDelta(t, 0xffff, r, 0x200)
	assert.InDelta(t, 0, g, 0x200)
	assert.InDelta(t, 0, b, 0x200)
}

func TestRenderInvalidSource(t *testing.T) {
	cfg := config.Default()
	cfg.Units[0].FragmentShader = "/does/not/exist.frag"
	cfg.Units[0].Colour = ""

	_, err := snapshot.Render(cfg)
	assert.Error(t, err)
}

const brokenUnitConfig = `
vertices: [0.0, 0.0, 0.0,  0.5, 0.0, 0.0,  0.0, 0.5, 0.0,
           0.0, 0.0, 0.0, -0.5, 0.0, 0.0,  0.0, 0.5, 0.0]
units:
  - name: red
    colour: '#ff0000ff'
    first: 0
    count: 3
  - name: broken
    fragment_shader: broken.frag
    first: 3
    count: 3
`

func TestRenderKeepsGoodUnitsWhenOneFailsToLink(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.frag"), []byte("#version 330 core\nvoid main() {\n"), 0o644))
	cfg, err := config.Decode(strings.NewReader(brokenUnitConfig), dir)
	require.NoError(t, err)

	img, err := snapshot.Render(cfg)
	require.NoError(t, err)
	assert.Equal(t, red, img.RGBAAt(440, 270))
	assert.Equal(t, background, img.RGBAAt(360, 270), "the broken unit draws nothing")

	var buf bytes.Buffer
	require.NoError(t, snapshot.WritePNG(&buf, cfg, 0, 0))
	decoded, err := png.Decode(&buf)
	require.NoError(t, err)
	r, g, b, a := decoded.At(440, 270).RGBA()
	assert.Equal(t, [4]uint32{0xffff, 0, 0, 0xffff}, [4]uint32{r, g, b, a})
}
