// Package tools defines the interactive-tool model for the plotting surface:
// a tool declares the gesture kinds it handles, and the registry tracks which
// tool is active per exclusive kind and which multi-kind tools (inspectors)
// are enabled. The registry is also the default tool-routing channel.
package tools

import (
	"github.com/plotline-dev/plotline/internal/input"
)

// ID identifies a registered tool.
type ID string

// Tool is anything the dispatcher can route events to. Kinds is the tool's
// declared capability set; the registry consults membership instead of
// probing for handler methods.
type Tool interface {
	ID() ID
	Kinds() []input.Kind
}

// Handler receives routed events. Tools that only exist to be activated
// (e.g. in tests) may omit it; routing to a non-Handler tool is a no-op.
type Handler interface {
	HandleRouted(ev RoutedEvent)
}

// CursorProvider is implemented by inspectors that override the pointer
// cursor while the pointer is inside the plot frame.
type CursorProvider interface {
	Cursor() string
}

// RoutedEvent is one delivery on the tool-routing channel. Kind may be
// input.KindMoveExit, which never classifies an occurrence but replaces
// KindMove when an overlay claims the pointer.
type RoutedEvent struct {
	Kind  input.Kind
	Event input.SemanticEvent
	Tool  ID
}

// Router is the tool-routing channel contract the dispatcher emits on.
type Router interface {
	Route(kind input.Kind, ev input.SemanticEvent, id ID)
}

// RouterFunc adapts a function to the Router interface.
type RouterFunc func(kind input.Kind, ev input.SemanticEvent, id ID)

// Route implements Router.
func (f RouterFunc) Route(kind input.Kind, ev input.SemanticEvent, id ID) {
	f(kind, ev, id)
}
