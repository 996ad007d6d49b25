package orchestrator

// Tracker remembers the champion seen on the previous cycle.
type Tracker struct {
	prev *int64
}

// Observe records id and reports whether it differs from the previous cycle's.
// A tracker that has seen nothing treats the previous id as 0.
func (t *Tracker) Observe(id int64) bool {
	var prev int64
	if t.prev != nil {
		prev = *t.prev
	}
	t.prev = &id
	return prev != id
}

// Current returns the last observed id.
func (t *Tracker) Current() int64 {
	if t.prev == nil {
		return 0
	}
	return *t.prev
}
