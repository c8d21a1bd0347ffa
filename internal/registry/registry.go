package registry

import (
	"fmt"

	"github.com/specialistvlad/tickgrid/internal/errors"
)

// Named is implemented by plugins that choose their own registry name.
type Named interface {
	Name() string
}

// Unique is implemented by plugins that may be added more than once.
type Unique interface {
	IsUnique() bool
}

// Entry is one registered plugin.
type Entry struct {
	Name   string
	Plugin any
}

// Registry holds the plugins of a single App instance.
type Registry struct {
	entries []Entry
	byName  map[string][]int
}

// New creates an empty Registry.
func New() *Registry {
	return &Registry{byName: make(map[string][]int)}
}

// NameOf returns the registry name of p.
func NameOf(p any) string {
	if n, ok := p.(Named); ok {
		return n.Name()
	}
	return fmt.Sprintf("%T", p)
}

// IsUnique reports whether p may be added only once. Plugins are unique
// unless they say otherwise.
func IsUnique(p any) bool {
	if u, ok := p.(Unique); ok {
		return u.IsUnique()
	}
	return true
}

// CheckAdd returns a DuplicatePluginError when adding p would repeat a
// unique name. It does not modify the registry.
func (r *Registry) CheckAdd(p any) error {
	name := NameOf(p)
	if IsUnique(p) && r.IsAdded(name) {
		return &errors.DuplicatePluginError{Name: name}
	}
	return nil
}

// Add appends p to the registry.
func (r *Registry) Add(p any) (Entry, error) {
	if err := r.CheckAdd(p); err != nil {
		return Entry{}, err
	}
	e := Entry{Name: NameOf(p), Plugin: p}
	r.byName[e.Name] = append(r.byName[e.Name], len(r.entries))
	r.entries = append(r.entries, e)
	return e, nil
}

// IsAdded reports whether a plugin with the given name was added.
func (r *Registry) IsAdded(name string) bool {
	return len(r.byName[name]) > 0
}

// Get returns every plugin added under name, in registration order.
func (r *Registry) Get(name string) []any {
	idx := r.byName[name]
	out := make([]any, 0, len(idx))
	for _, i := range idx {
		out = append(out, r.entries[i].Plugin)
	}
	return out
}

// All returns all entries in registration order.
func (r *Registry) All() []Entry {
	out := make([]Entry, len(r.entries))
	copy(out, r.entries)
	return out
}

// Names returns the distinct plugin names in first-registration order.
func (r *Registry) Names() []string {
	out := make([]string, 0, len(r.byName))
	for i, e := range r.entries {
		if r.byName[e.Name][0] == i {
			out = append(out, e.Name)
		}
	}
	return out
}

// Len returns the number of registered entries.
func (r *Registry) Len() int { return len(r.entries) }
