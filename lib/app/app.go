// Package app wires the window, the OpenGL driver and the theatre into the
// windowed renderer.
package app

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"

	"github.com/fosdem/trimix/lib/api"
	"github.com/fosdem/trimix/lib/config"
	"github.com/fosdem/trimix/lib/frameloop"
	"github.com/fosdem/trimix/lib/gpu/gldriver"
	"github.com/fosdem/trimix/lib/kbdctl"
	"github.com/fosdem/trimix/lib/metrics"
	"github.com/fosdem/trimix/lib/rendering"
	"github.com/fosdem/trimix/lib/sink/windowsink"
	"github.com/fosdem/trimix/lib/stats"
	"github.com/fosdem/trimix/lib/theatre"
	"github.com/fosdem/trimix/lib/utils"
	"golang.org/x/sys/unix"
)

// MakeWindowAndRender runs the renderer until the window is closed or a
// shutdown is requested. It must be called from the locked main thread.
func MakeWindowAndRender(cfg *config.Config) error {
	t, err := theatre.Load(cfg)
	if err != nil {
		return fmt.Errorf("could not load shaders: %w", err)
	}

	ws, err := windowsink.New(cfg.Window)
	if err != nil {
		return err
	}
	defer ws.Destroy()

	gl, err := gldriver.Init()
	if err != nil {
		return err
	}
	driver := metrics.Instrument(gl)

	err = t.Build(driver)
	if err != nil {
		return fmt.Errorf("could not build programs: %w", err)
	}
	defer t.Release()

	stopSignals := shutdownOnSignal(t)
	defer stopSignals()

	st := stats.New()
	api.ServeInBackground(t, cfg.Api, st)
	kbdctl.SetupShortcutKeys(t, ws)

	renderer := rendering.NewRenderer(driver, utils.ColourParse(cfg.BackgroundColour))
	renderer.Resize(ws.FramebufferSize())
	ws.SetResizeCallback(renderer.Resize)

	slog.Info(fmt.Sprintf("rendering %d units", len(t.Units)), slog.String("module", "app"))
	frameloop.Run(ws, renderer, t, st)
	slog.Info("releasing GPU resources", slog.String("module", "app"))
	return nil
}

// shutdownOnSignal turns SIGINT and SIGTERM into a shutdown request, so the
// frame loop can return and GPU objects are released on the render thread.
func shutdownOnSignal(t *theatre.Theatre) func() {
	signals := make(chan os.Signal, 1)
	signal.Notify(signals, unix.SIGINT, unix.SIGTERM)
	go func() {
		for sig := range signals {
			slog.Info(fmt.Sprintf("received %s, shutting down", sig), slog.String("module", "app"))
			t.RequestShutdown()
		}
	}()
	return func() {
		signal.Stop(signals)
		close(signals)
	}
}
