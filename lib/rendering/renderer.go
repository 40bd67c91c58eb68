package rendering

import (
	"github.com/fosdem/trimix/lib/gpu"
	"github.com/fosdem/trimix/lib/metrics"
	"github.com/fosdem/trimix/lib/utils"
)

type Renderer struct {
	driver   gpu.Driver
	BGColour utils.Colour

	Width  int
	Height int
}

func NewRenderer(d gpu.Driver, bgColour utils.Colour) *Renderer {
	return &Renderer{driver: d, BGColour: bgColour}
}

// Resize points the viewport at the whole framebuffer. It is used as the
// window's framebuffer size callback.
func (r *Renderer) Resize(width, height int) {
	r.Width = width
	r.Height = height
	r.driver.Viewport(0, 0, int32(width), int32(height))
}

// DrawFrame clears the target and draws every unit in order.
func (r *Renderer) DrawFrame(units []*Unit) {
	c := r.BGColour
	r.driver.ClearColor(c.R, c.G, c.B, c.A)
	r.driver.Clear()

	for _, u := range units {
		u.Draw(r.driver)
	}
	metrics.Frames.Inc()
}
