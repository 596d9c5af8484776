// Package gesture classifies raw Bubble Tea mouse and key messages into the
// named occurrences the dispatcher consumes. It is the terminal-side stand-in
// for a touch gesture recognizer: click timing distinguishes tap, double tap
// and press, and dragging with the left button held becomes a pan sequence.
package gesture

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/plotline-dev/plotline/internal/input"
)

const (
	// DefaultDoubleTapWindow is the maximum delay between two taps that
	// still counts as a double tap.
	DefaultDoubleTapWindow = 300 * time.Millisecond

	// DefaultPressThreshold is how long the button must stay down without
	// movement to classify as a press instead of a tap.
	DefaultPressThreshold = 500 * time.Millisecond

	// doubleTapRadius is the cell distance two taps may drift apart and
	// still pair up.
	doubleTapRadius = 1
)

// Recognizer turns mouse/key messages into occurrences. Zero value is not
// usable; create with New. Not safe for concurrent use; it lives inside the
// single-threaded update loop.
type Recognizer struct {
	doubleTapWindow time.Duration
	pressThreshold  time.Duration
	now             func() time.Time

	// drag state
	leftDown  bool
	panning   bool
	downAt    time.Time
	downX     int
	downY     int

	// tap pairing state
	lastTapAt time.Time
	lastTapX  int
	lastTapY  int
}

// New returns a recognizer with default thresholds.
func New() *Recognizer {
	return &Recognizer{
		doubleTapWindow: DefaultDoubleTapWindow,
		pressThreshold:  DefaultPressThreshold,
		now:             time.Now,
	}
}

// SetNowFunc overrides the clock, for tests.
func (r *Recognizer) SetNowFunc(fn func() time.Time) {
	if fn != nil {
		r.now = fn
	}
}

func mods(msg tea.MouseMsg) input.Modifiers {
	return input.Modifiers{Shift: msg.Shift, Ctrl: msg.Ctrl, Alt: msg.Alt}
}

func occ(typ string, msg tea.MouseMsg) input.Occurrence {
	return input.Occurrence{
		Type:   typ,
		X:      msg.X,
		Y:      msg.Y,
		HasPos: true,
		Mod:    mods(msg),
		Raw:    msg,
	}
}

// Mouse classifies one mouse message. It returns zero or more occurrences;
// a drag's first motion yields both panstart and pan.
func (r *Recognizer) Mouse(msg tea.MouseMsg) []input.Occurrence {
	switch {
	case msg.Button == tea.MouseButtonWheelUp && msg.Action == tea.MouseActionPress:
		o := occ("wheel", msg)
		o.Delta = 1
		return []input.Occurrence{o}

	case msg.Button == tea.MouseButtonWheelDown && msg.Action == tea.MouseActionPress:
		o := occ("wheel", msg)
		o.Delta = -1
		return []input.Occurrence{o}

	case msg.Button == tea.MouseButtonLeft && msg.Action == tea.MouseActionPress:
		r.leftDown = true
		r.panning = false
		r.downAt = r.now()
		r.downX, r.downY = msg.X, msg.Y
		return nil

	case msg.Action == tea.MouseActionMotion && r.leftDown:
		if !r.panning {
			if msg.X == r.downX && msg.Y == r.downY {
				return nil
			}
			r.panning = true
			start := occ("panstart", msg)
			start.X, start.Y = r.downX, r.downY
			return []input.Occurrence{start, occ("pan", msg)}
		}
		return []input.Occurrence{occ("pan", msg)}

	case msg.Button == tea.MouseButtonLeft && msg.Action == tea.MouseActionRelease:
		if !r.leftDown {
			return nil
		}
		r.leftDown = false
		if r.panning {
			r.panning = false
			return []input.Occurrence{occ("panend", msg)}
		}
		return []input.Occurrence{r.classifyClick(msg)}

	case msg.Action == tea.MouseActionMotion:
		return []input.Occurrence{occ("mousemove", msg)}
	}

	return nil
}

// classifyClick resolves a buttondown/up pair with no movement into press,
// doubletap, or tap.
func (r *Recognizer) classifyClick(msg tea.MouseMsg) input.Occurrence {
	now := r.now()

	if now.Sub(r.downAt) >= r.pressThreshold {
		r.lastTapAt = time.Time{}
		return occ("press", msg)
	}

	paired := !r.lastTapAt.IsZero() &&
		now.Sub(r.lastTapAt) <= r.doubleTapWindow &&
		abs(msg.X-r.lastTapX) <= doubleTapRadius &&
		abs(msg.Y-r.lastTapY) <= doubleTapRadius
	if paired {
		r.lastTapAt = time.Time{}
		return occ("doubletap", msg)
	}

	r.lastTapAt = now
	r.lastTapX, r.lastTapY = msg.X, msg.Y
	return occ("tap", msg)
}

// Key classifies a key message as a keyup occurrence. Terminals report a
// single event per keystroke, so the keydown side of the pair is never
// synthesized.
func (r *Recognizer) Key(msg tea.KeyMsg) []input.Occurrence {
	return []input.Occurrence{{
		Type: "keyup",
		Key:  msg.String(),
		Mod:  input.Modifiers{Alt: msg.Alt},
		Raw:  msg,
	}}
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
