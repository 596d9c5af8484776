package tools

import (
	"fmt"
	"sort"
	"sync"

	"github.com/plotline-dev/plotline/internal/input"
)

// Registry owns tool activation state. Exclusive kinds hold at most one
// active tool; multi kinds (move, key) hold any number of enabled tools.
// The dispatcher only reads activation state; mutation happens here, driven
// by the toolbar and keybindings.
type Registry struct {
	mu      sync.RWMutex
	tools   map[ID]Tool
	order   []ID               // registration order, for stable iteration
	active  map[input.Kind]ID  // exclusive kinds only
	enabled map[ID]bool        // multi-kind tools toggled on
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		tools:   make(map[ID]Tool),
		active:  make(map[input.Kind]ID),
		enabled: make(map[ID]bool),
	}
}

// Register adds a tool. Registering a duplicate ID is an error.
func (r *Registry) Register(t Tool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.tools[t.ID()]; exists {
		return fmt.Errorf("tool %q already registered", t.ID())
	}
	r.tools[t.ID()] = t
	r.order = append(r.order, t.ID())
	return nil
}

// Tool returns the registered tool by ID.
func (r *Registry) Tool(id ID) (Tool, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.tools[id]
	return t, ok
}

// declares reports whether the tool's capability set contains kind.
func declares(t Tool, kind input.Kind) bool {
	for _, k := range t.Kinds() {
		if k == kind {
			return true
		}
	}
	return false
}

// Activate makes the tool the single active tool for an exclusive kind.
// The tool must be registered and must declare the kind.
func (r *Registry) Activate(kind input.Kind, id ID) error {
	if !kind.Exclusive() {
		return fmt.Errorf("kind %q is not exclusive; use SetEnabled", kind)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	t, ok := r.tools[id]
	if !ok {
		return fmt.Errorf("tool %q not registered", id)
	}
	if !declares(t, kind) {
		return fmt.Errorf("tool %q does not handle kind %q", id, kind)
	}
	r.active[kind] = id
	return nil
}

// Deactivate clears the active tool for an exclusive kind.
func (r *Registry) Deactivate(kind input.Kind) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.active, kind)
}

// ActiveFor returns the single active tool for an exclusive kind, or ok
// false when none is active. That is the expected steady state, not an
// error.
func (r *Registry) ActiveFor(kind input.Kind) (Tool, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.active[kind]
	if !ok {
		return nil, false
	}
	t, ok := r.tools[id]
	return t, ok
}

// ActiveID returns the active tool's ID for an exclusive kind.
func (r *Registry) ActiveID(kind input.Kind) (ID, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.active[kind]
	return id, ok
}

// SetEnabled toggles a multi-kind tool (an inspector, or a key listener).
func (r *Registry) SetEnabled(id ID, on bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.tools[id]; !ok {
		return fmt.Errorf("tool %q not registered", id)
	}
	if on {
		r.enabled[id] = true
	} else {
		delete(r.enabled, id)
	}
	return nil
}

// Enabled reports whether a multi-kind tool is toggled on.
func (r *Registry) Enabled(id ID) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.enabled[id]
}

// ActiveMulti returns every enabled tool declaring the given multi kind, in
// registration order. For KindMove these are the active inspectors.
func (r *Registry) ActiveMulti(kind input.Kind) []Tool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []Tool
	for _, id := range r.order {
		if !r.enabled[id] {
			continue
		}
		t := r.tools[id]
		if declares(t, kind) {
			out = append(out, t)
		}
	}
	return out
}

// IDs returns all registered tool IDs sorted lexically.
func (r *Registry) IDs() []ID {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make([]ID, 0, len(r.tools))
	for id := range r.tools {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// Route delivers a routed event to the identified tool, satisfying Router.
// Routing to an unregistered or non-Handler tool is a no-op.
func (r *Registry) Route(kind input.Kind, ev input.SemanticEvent, id ID) {
	r.mu.RLock()
	t, ok := r.tools[id]
	r.mu.RUnlock()
	if !ok {
		return
	}
	if h, ok := t.(Handler); ok {
		h.HandleRouted(RoutedEvent{Kind: kind, Event: ev, Tool: id})
	}
}
