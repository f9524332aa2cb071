package poller

// Window is the bounded history of feed entry ids that have already
// been observed. It pairs a FIFO queue for eviction order with a set
// for O(1) membership. Once full, recording a new id evicts the oldest
// one, so memory stays bounded no matter how long the process runs.
type Window struct {
	capacity int
	order    []string
	members  map[string]struct{}
}

func NewWindow(capacity int) *Window {
	return &Window{
		capacity: capacity,
		order:    make([]string, 0, capacity),
		members:  make(map[string]struct{}, capacity),
	}
}

// Seen reports whether id is still inside the window.
func (w *Window) Seen(id string) bool {
	_, ok := w.members[id]
	return ok
}

// Record inserts id, evicting the oldest recorded id when the window
// is full. Recording an id that is already present is a no-op.
func (w *Window) Record(id string) {
	if w.Seen(id) {
		return
	}

	if len(w.order) > 0 && len(w.order) >= w.capacity {
		oldest := w.order[0]
		copy(w.order, w.order[1:])
		w.order = w.order[:len(w.order)-1]

		delete(w.members, oldest)
	}

	w.order = append(w.order, id)
	w.members[id] = struct{}{}
}

func (w *Window) Len() int {
	return len(w.order)
}
