package dispatch

import (
	"github.com/plotline-dev/plotline/internal/hittest"
	"github.com/plotline-dev/plotline/internal/input"
	"github.com/plotline-dev/plotline/internal/log"
	"github.com/plotline-dev/plotline/internal/tools"
)

// resolveCursor recomputes the surface cursor after a move-class dispatch.
// Precedence, highest first: an overlay's declared cursor, then an active
// inspector's cursor while the pointer is inside the plot frame, then the
// baseline. The function is stateless apart from the single cursor value it
// writes.
func (d *Dispatcher) resolveCursor(ev input.SemanticEvent, hit hittest.Result, hitOK bool) {
	next := d.baseline
	switch {
	case hitOK && hit.Cursor != "":
		next = hit.Cursor
	case d.hits.InsideFrame(ev.X, ev.Y):
		if c := inspectorCursor(d.tools.ActiveMulti(input.KindMove)); c != "" {
			next = c
		}
	}

	if next != d.cursor {
		d.cursor = next
		log.Debug(log.CatCursor, "cursor changed", "style", next)
	}
}

// inspectorCursor returns the first declared cursor among active inspectors.
func inspectorCursor(inspectors []tools.Tool) string {
	for _, t := range inspectors {
		if cp, ok := t.(tools.CursorProvider); ok {
			if c := cp.Cursor(); c != "" {
				return c
			}
		}
	}
	return ""
}
