package theatre

func (t *Theatre) QueuedReloads() int {
	return len(t.reloads)
}

func (t *Theatre) Watchers() int {
	return len(t.watchers)
}
