package theatre

type EventListener func(theatre *Theatre, data interface{})

// EventDataBuild is sent with "build" events whenever a unit's program has
// been (re)built.
type EventDataBuild struct {
	Event string `json:"event"`
	BuildReport
}

func (t *Theatre) AddEventListener(event string, callback EventListener) {
	t.listenerMu.Lock()
	defer t.listenerMu.Unlock()
	t.listener[event] = append(t.listener[event], callback)
}

// invoke queues the listeners of event. They run off the render thread, one
// at a time and in the order the events were raised.
func (t *Theatre) invoke(event string, data interface{}) {
	t.listenerMu.Lock()
	defer t.listenerMu.Unlock()
	for _, listener := range t.listener[event] {
		t.pending = append(t.pending, func() { listener(t, data) })
	}
	if len(t.pending) > 0 && !t.dispatching {
		t.dispatching = true
		go t.dispatch()
	}
}

func (t *Theatre) dispatch() {
	for {
		t.listenerMu.Lock()
		if len(t.pending) == 0 {
			t.dispatching = false
			t.listenerMu.Unlock()
			return
		}
		next := t.pending[0]
		t.pending = t.pending[1:]
		t.listenerMu.Unlock()

		next()
	}
}
