// Package events defines the document-level notification events the plotting
// surface publishes, independent of tool routing. These are the events a
// listener subscribes to when it cares that an interaction happened, not
// which tool (if any) consumed it.
package events

// Kind identifies a notification event.
type Kind string

const (
	Tap        Kind = "tap"
	DoubleTap  Kind = "doubletap"
	Press      Kind = "press"
	PanStart   Kind = "panstart"
	Pan        Kind = "pan"
	PanEnd     Kind = "panend"
	PinchStart Kind = "pinchstart"
	Pinch      Kind = "pinch"
	PinchEnd   Kind = "pinchend"
	MouseEnter Kind = "mouseenter"
	MouseMove  Kind = "mousemove"
	MouseLeave Kind = "mouseleave"
	Wheel      Kind = "wheel"
	KeyUp      Kind = "keyup"

	// SelectionChange is a secondary event published by selection tools as
	// a side effect of their own routing, never by the dispatcher itself.
	SelectionChange Kind = "selectionchange"

	// ViewChange is a secondary event published by pan/zoom tools when the
	// plot viewport moves.
	ViewChange Kind = "viewchange"
)

// kindByOccurrence maps raw occurrence types to their primary notification
// kind. Rotate occurrences and keydown have no entry on purpose: the
// asymmetry is part of the surface's observable contract and must not be
// "fixed" by inventing mappings.
var kindByOccurrence = map[string]Kind{
	"tap":        Tap,
	"doubletap":  DoubleTap,
	"press":      Press,
	"panstart":   PanStart,
	"pan":        Pan,
	"panend":     PanEnd,
	"pinchstart": PinchStart,
	"pinch":      Pinch,
	"pinchend":   PinchEnd,
	"mouseenter": MouseEnter,
	"mousemove":  MouseMove,
	"mouseleave": MouseLeave,
	"wheel":      Wheel,
	"keyup":      KeyUp,
}

// ForOccurrence resolves the primary notification kind for a raw occurrence
// type. ok is false when the type has no mapping.
func ForOccurrence(typ string) (Kind, bool) {
	k, ok := kindByOccurrence[typ]
	return k, ok
}

// Notification is the payload delivered on the document event channel. It
// carries the screen coordinates of the originating occurrence and the
// identifier of the plot surface that produced it.
type Notification struct {
	Kind Kind
	X, Y int
	Key  string // set for KeyUp
	Plot string // originating surface identifier

	// Selected carries the selected point indices for SelectionChange.
	Selected []int
}
