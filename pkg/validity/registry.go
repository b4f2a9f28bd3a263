package validity

import (
	"sort"
	"strings"
	"sync"
)

// Entry pairs a registered action with its id.
type Entry struct {
	ID     string
	Action Action
}

// Registry stores actions keyed by share id and iterates them in
// registration order. Registering an id again replaces the previous action
// and moves it to the end, which matches a remount.
type Registry struct {
	mu       sync.RWMutex
	actions  map[string]Action
	order    []string
	disposed bool
}

var _ Manager = (*Registry)(nil)

// NewRegistry constructs an empty registry.
func NewRegistry() *Registry {
	return &Registry{actions: make(map[string]Action)}
}

// AddAction registers action under id. Empty ids and nil actions are ignored.
func (r *Registry) AddAction(action Action, id string) {
	if r == nil || action == nil {
		return
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.disposed {
		return
	}
	if r.actions == nil {
		r.actions = make(map[string]Action)
	}
	if _, exists := r.actions[id]; exists {
		r.removeLocked(id)
	}
	r.actions[id] = action
	r.order = append(r.order, id)
}

// RemoveAction deregisters id. Missing ids are ignored.
func (r *Registry) RemoveAction(id string) {
	if r == nil {
		return
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.removeLocked(id)
}

func (r *Registry) removeLocked(id string) {
	if _, exists := r.actions[id]; !exists {
		return
	}
	delete(r.actions, id)
	for idx, existing := range r.order {
		if existing == id {
			r.order = append(r.order[:idx], r.order[idx+1:]...)
			break
		}
	}
}

// Get returns the action registered under id.
func (r *Registry) Get(id string) (Action, bool) {
	if r == nil {
		return nil, false
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	action, ok := r.actions[id]
	return action, ok
}

// Has reports whether id is registered.
func (r *Registry) Has(id string) bool {
	_, ok := r.Get(id)
	return ok
}

// Len returns the number of registered actions.
func (r *Registry) Len() int {
	if r == nil {
		return 0
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.order)
}

// Entries returns a snapshot of the registered actions in order.
func (r *Registry) Entries() []Entry {
	if r == nil {
		return nil
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Entry, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, Entry{ID: id, Action: r.actions[id]})
	}
	return out
}

// IDs returns the registered ids sorted alphabetically.
func (r *Registry) IDs() []string {
	entries := r.Entries()
	ids := make([]string, 0, len(entries))
	for _, entry := range entries {
		ids = append(ids, entry.ID)
	}
	sort.Strings(ids)
	return ids
}

// Dispose drops every entry. Later registrations are ignored.
func (r *Registry) Dispose() {
	if r == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.actions = nil
	r.order = nil
	r.disposed = true
}
