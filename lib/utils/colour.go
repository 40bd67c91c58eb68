package utils

import (
	"fmt"
	"image/color"
	"regexp"

	"github.com/go-gl/mathgl/mgl32"
)

var colourPattern = regexp.MustCompile(`^#[0-9A-Fa-f]{8}$`)

// Colour is a straight-alpha RGBA colour with components in [0, 1].
type Colour struct {
	R float32
	G float32
	B float32
	A float32
}

func ColourValidate(c string) bool {
	return colourPattern.MatchString(c)
}

// ColourParse reads an #rrggbbaa hex string. Invalid input yields the
// zero colour; use ColourValidate first.
func ColourParse(s string) Colour {
	var c color.RGBA
	_, err := fmt.Sscanf(s, "#%02x%02x%02x%02x", &c.R, &c.G, &c.B, &c.A)
	if err != nil {
		return Colour{}
	}
	return ColourFromRGBA(c)
}

func ColourFromRGBA(c color.RGBA) Colour {
	return Colour{
		R: float32(c.R) / 255,
		G: float32(c.G) / 255,
		B: float32(c.B) / 255,
		A: float32(c.A) / 255,
	}
}

func (c Colour) Vec4() mgl32.Vec4 {
	return mgl32.Vec4{c.R, c.G, c.B, c.A}
}

func (c Colour) String() string {
	v := c.Vec4().Mul(255)
	return fmt.Sprintf("#%02x%02x%02x%02x", uint8(v[0]+0.5), uint8(v[1]+0.5), uint8(v[2]+0.5), uint8(v[3]+0.5))
}
