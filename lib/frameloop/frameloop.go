// Package frameloop drives rendering once per frame until the surface or
// the theatre asks to stop.
package frameloop

import (
	"github.com/fosdem/trimix/lib/rendering"
	"github.com/fosdem/trimix/lib/stats"
	"github.com/fosdem/trimix/lib/theatre"
	"github.com/fosdem/trimix/lib/utils"
)

// Surface is the window the frames are presented on.
type Surface interface {
	ShouldClose() bool
	SwapBuffers()
	PollEvents()
}

// Run renders frames until the surface should close or a shutdown is
// requested. Queued shader reloads are applied before each frame.
func Run(surface Surface, r *rendering.Renderer, t *theatre.Theatre, st *stats.Stats) {
	var deltaTimer utils.DeltaTimer
	for !surface.ShouldClose() && !t.ShutdownRequested() {
		t.ApplyReloads()

		r.DrawFrame(t.Units)

		surface.SwapBuffers()

		// Maintenance
		if st != nil {
			st.Update(deltaTimer.Next(), len(t.Units))
		}
		surface.PollEvents()
	}
}
