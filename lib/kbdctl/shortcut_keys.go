package kbdctl

import (
	"log/slog"

	"github.com/fosdem/trimix/lib/sink/windowsink"
	"github.com/fosdem/trimix/lib/theatre"
	"github.com/go-gl/glfw/v3.3/glfw"
)

// SetupShortcutKeys binds Escape and Ctrl+Shift+Q to closing the window and
// R to rebuilding every program.
func SetupShortcutKeys(theatre *theatre.Theatre, ws *windowsink.WindowSink) {
	ws.Window.SetKeyCallback(keyCallback(theatre, ws))
}

type window interface {
	SetShouldClose(v bool)
}

func keyCallback(theatre *theatre.Theatre, win window) func(w *glfw.Window, key glfw.Key, scancode int, action glfw.Action, mods glfw.ModifierKey) {
	return func(_ *glfw.Window, key glfw.Key, scancode int, action glfw.Action, mods glfw.ModifierKey) {
		if action == glfw.Press && key == glfw.KeyEscape {
			win.SetShouldClose(true)
			return
		}
		if action == glfw.Release {
			if key == glfw.KeyQ &&
				mods&glfw.ModControl != 0 &&
				mods&glfw.ModShift != 0 {
				slog.Info("told to quit, exiting", slog.String("module", "kbdctl"))
				theatre.RequestShutdown()
			}
		}
		if action == glfw.Press && key == glfw.KeyR {
			slog.Info("reloading all programs", slog.String("module", "kbdctl"))
			if err := theatre.RequestReload(""); err != nil {
				slog.Error(err.Error(), slog.String("module", "kbdctl"))
			}
		}
	}
}
