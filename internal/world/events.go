package world

// Events is a double-buffered queue of events of type T. Sent events are
// readable until two rotations have passed, then they are dropped.
type Events[T any] struct {
	previous []eventInstance[T]
	current  []eventInstance[T]
	// next is the id assigned to the next sent event.
	next uint64
}

type eventInstance[T any] struct {
	id    uint64
	event T
}

// AddEvents registers an Events[T] resource with the World so that
// UpdateEvents rotates it, and returns it. Calling it again returns the
// existing queue.
func AddEvents[T any](w *World) *Events[T] {
	if q, ok := Get[Events[T]](w); ok {
		return q
	}
	Insert(w, Events[T]{})
	q := MustGet[Events[T]](w)
	w.queues = append(w.queues, q)
	return q
}

// Send enqueues an event.
func (e *Events[T]) Send(event T) {
	e.current = append(e.current, eventInstance[T]{id: e.next, event: event})
	e.next++
}

// Len returns the number of events still readable.
func (e *Events[T]) Len() int {
	return len(e.previous) + len(e.current)
}

// Update rotates the buffers: events sent before the previous rotation are
// dropped.
func (e *Events[T]) Update() {
	e.previous = e.current
	e.current = nil
}

// Clear drops every buffered event.
func (e *Events[T]) Clear() {
	e.previous = nil
	e.current = nil
}

// Reader tracks which events of a queue a consumer has already seen.
type Reader[T any] struct {
	last uint64
}

// Read returns the events sent since the previous Read that are still
// buffered, oldest first.
func (r *Reader[T]) Read(e *Events[T]) []T {
	var out []T
	for _, buf := range [][]eventInstance[T]{e.previous, e.current} {
		for _, inst := range buf {
			if inst.id >= r.last {
				out = append(out, inst.event)
			}
		}
	}
	r.last = e.next
	return out
}
