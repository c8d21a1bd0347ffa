// Package world provides the shared state tasks operate on: a type-keyed
// resource store, a deferred command buffer and double-buffered event
// queues. The scheduler never inspects any of it; it only hands a World to
// every task and lets the execution engine flush commands and rotate events
// at the end of each phase.
package world

import (
	"fmt"
	"reflect"
)

// World is a type-keyed store of resources. It is not safe for concurrent
// use; tasks run one at a time.
type World struct {
	resources map[reflect.Type]any
	// queues lists registered event queues in registration order.
	queues []updater
}

// updater is implemented by every *Events[T].
type updater interface {
	Update()
}

// New returns an empty World.
func New() *World {
	return &World{resources: make(map[reflect.Type]any)}
}

func typeOf[T any]() reflect.Type {
	return reflect.TypeOf((*T)(nil)).Elem()
}

// Insert stores v as the resource of type T, replacing any previous value.
func Insert[T any](w *World, v T) {
	w.resources[typeOf[T]()] = &v
}

// InitResource stores the zero value of T unless a T is already present,
// and returns the stored resource.
func InitResource[T any](w *World) *T {
	if r, ok := Get[T](w); ok {
		return r
	}
	var zero T
	Insert(w, zero)
	r, _ := Get[T](w)
	return r
}

// Get returns a pointer to the resource of type T. Mutating through the
// pointer updates the stored resource.
func Get[T any](w *World) (*T, bool) {
	r, ok := w.resources[typeOf[T]()]
	if !ok {
		return nil, false
	}
	return r.(*T), true
}

// MustGet is like Get but panics when the resource is missing.
func MustGet[T any](w *World) *T {
	r, ok := Get[T](w)
	if !ok {
		panic(fmt.Sprintf("world: resource %s does not exist", typeOf[T]()))
	}
	return r
}

// Contains reports whether a resource of type T is present.
func Contains[T any](w *World) bool {
	_, ok := w.resources[typeOf[T]()]
	return ok
}

// Remove deletes the resource of type T and returns its last value.
func Remove[T any](w *World) (T, bool) {
	var zero T
	r, ok := Get[T](w)
	if !ok {
		return zero, false
	}
	delete(w.resources, typeOf[T]())
	return *r, true
}

// Len returns the number of stored resources.
func (w *World) Len() int {
	return len(w.resources)
}

// UpdateEvents rotates every registered event queue.
func (w *World) UpdateEvents() {
	for _, q := range w.queues {
		q.Update()
	}
}
