package theatre

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/jhenstridge/go-inotify"
)

// settle gives a writer time to finish before the file is reread.
const settle = 100 * time.Millisecond

// watchShaders starts one inotify watcher per shader file and queues a
// reload of the units using it whenever the file is rewritten.
func (t *Theatre) watchShaders() {
	users := make(map[string][]string)
	for _, u := range t.cfg.Units {
		for _, path := range []string{string(u.VertexShader), string(u.FragmentShader)} {
			if path != "" {
				users[path] = append(users[path], u.Name)
			}
		}
	}

	for path, units := range users {
		watcher, err := inotify.NewWatcher()
		if err != nil {
			slog.Error(fmt.Sprintf("could not create inotify watcher: %s", err), slog.String("module", "theatre"))
			return
		}
		_, err = watcher.Watch(path)
		if err != nil {
			slog.Error(fmt.Sprintf("could not watch %s: %s", path, err), slog.String("module", "theatre"))
			_ = watcher.Close()
			continue
		}
		t.watchers = append(t.watchers, watcher)
		t.watching.Add(1)
		go t.watch(watcher, path, units)
	}
}

func (t *Theatre) watch(watcher *inotify.Watcher, path string, units []string) {
	defer t.watching.Done()

	for ev := range watcher.Event {
		switch {
		case ev.Mask&inotify.IN_CLOSE_WRITE != 0:
			slog.Debug(fmt.Sprintf("%s changed", path), slog.String("module", "theatre"))
		case ev.Mask&inotify.IN_IGNORED != 0:
			// the file was replaced (editors that save by rename) or removed
			time.Sleep(settle)
			if _, err := watcher.Watch(path); err != nil {
				slog.Warn(fmt.Sprintf("stopped watching %s: %s", path, err), slog.String("module", "theatre"))
				continue
			}
			slog.Debug(fmt.Sprintf("%s replaced", path), slog.String("module", "theatre"))
		default:
			continue
		}

		time.Sleep(settle)
		for _, name := range units {
			_ = t.RequestReload(name)
		}
	}

	// Event is closed once the reader stops; Close hands back its error.
	if err := watcher.Close(); err != nil {
		slog.Error(fmt.Sprintf("watching %s failed: %s", path, err), slog.String("module", "theatre"))
	}
}
