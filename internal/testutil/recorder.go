package testutil

import (
	"sync"

	"github.com/specialistvlad/tickgrid/internal/schedule"
)

// Recorder records task invocations in the order they happen.
type Recorder struct {
	mu    sync.Mutex
	calls []string
}

// Task returns a function task that records name when it runs.
func (r *Recorder) Task(name string) schedule.TaskConfig {
	return schedule.Func(name, func(*schedule.Context) error {
		r.Record(name)
		return nil
	})
}

// Failing returns a function task that records name and returns err.
func (r *Recorder) Failing(name string, err error) schedule.TaskConfig {
	return schedule.Func(name, func(*schedule.Context) error {
		r.Record(name)
		return err
	})
}

// Record appends an entry.
func (r *Recorder) Record(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, name)
}

// Calls returns a copy of every recorded entry.
func (r *Recorder) Calls() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.calls...)
}

// Count returns how often name was recorded.
func (r *Recorder) Count(name string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, c := range r.calls {
		if c == name {
			n++
		}
	}
	return n
}

// Reset forgets every entry.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = nil
}
