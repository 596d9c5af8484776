// Package input defines the semantic input model for the plotting surface:
// gesture kinds, modifier state, raw occurrences as delivered by the gesture
// source, and the normalizer that turns occurrences into semantic events.
package input

// Kind is a gesture category. Every occurrence the gesture source emits
// classifies into exactly one kind, which keys tool activation and routing.
type Kind string

const (
	KindMove      Kind = "move"
	KindTap       Kind = "tap"
	KindDoubleTap Kind = "doubletap"
	KindPress     Kind = "press"
	KindPan       Kind = "pan"
	KindPinch     Kind = "pinch"
	KindRotate    Kind = "rotate"
	KindScroll    Kind = "scroll"
	KindKey       Kind = "key"

	// KindMoveExit never classifies an occurrence. It appears only on the
	// tool-routing channel, replacing KindMove when an overlay claims the
	// pointer out from under the active inspectors.
	KindMoveExit Kind = "move_exit"
)

// Exclusive reports whether at most one tool may be active for the kind.
// Move and key are multi kinds: any number of tools may listen at once.
func (k Kind) Exclusive() bool {
	switch k {
	case KindMove, KindKey, KindMoveExit:
		return false
	default:
		return true
	}
}

// Kinds returns every gesture kind an occurrence can classify into, in a
// stable order. KindMoveExit is excluded since it is routing-only.
func Kinds() []Kind {
	return []Kind{
		KindMove, KindTap, KindDoubleTap, KindPress,
		KindPan, KindPinch, KindRotate, KindScroll, KindKey,
	}
}

// Modifiers is the keyboard modifier state captured with an occurrence.
type Modifiers struct {
	Shift bool
	Ctrl  bool
	Alt   bool
	Meta  bool
}

// Occurrence is a raw event as emitted by the gesture source. Type is the
// source's declared occurrence name ("tap", "panstart", "mousemove", ...).
// HasPos is false only for occurrences that legitimately carry no screen
// position (key events).
type Occurrence struct {
	Type   string
	X, Y   int
	HasPos bool

	// Delta is the wheel step for "wheel" occurrences, negative away from
	// the user. Zero otherwise.
	Delta int

	// Key is the key name for "keydown"/"keyup" occurrences.
	Key string

	Mod Modifiers

	// SuppressDefault, when non-nil, cancels the platform's default
	// handling of the occurrence. The dispatcher invokes it only for
	// scroll occurrences with an active scroll tool.
	SuppressDefault func()

	// Raw is an opaque handle to the source event, carried through to
	// routed tools untouched.
	Raw any
}

// SemanticEvent is the canonical record produced once per mapped occurrence.
// It is never mutated after creation and is consumed by exactly one dispatch
// pass.
type SemanticEvent struct {
	Kind Kind
	X, Y int
	Mod  Modifiers

	// Source is the occurrence the event was normalized from.
	Source Occurrence
}
