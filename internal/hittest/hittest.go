// Package hittest resolves which interactive overlay, if any, sits under a
// screen coordinate. Overlays are bubblezone zones marked into the rendered
// view; the tester re-queries zone bounds on every call so results always
// reflect the latest rendered frame.
package hittest

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea"
	zone "github.com/lrstanley/bubblezone"
)

// Result is a positive hit: the overlay under the pointer, its declared
// cursor style, and an optional point-hit callback. Results are transient,
// scoped to one dispatch, and never cached across events.
type Result struct {
	Target string
	Cursor string
	OnHit  func(x, y int)
}

// Tester is the spatial query contract the dispatcher consumes.
type Tester interface {
	// HitTest returns the front-most overlay containing the point.
	HitTest(x, y int) (Result, bool)
	// InsideFrame reports whether the point is inside the plot interior.
	InsideFrame(x, y int) bool
}

// Overlay declares one interactive region by its zone ID. Overlays are
// checked front-most first; the first containing zone wins, they do not
// stack.
type Overlay struct {
	ZoneID string
	Cursor string
	OnHit  func(x, y int)
}

// Zones implements Tester over a bubblezone manager. The surface view marks
// its frame and overlay regions during render; Zones only reads the scanned
// bounds.
type Zones struct {
	mu       sync.RWMutex
	mgr      *zone.Manager
	frameID  string
	overlays []Overlay
}

// NewZones creates a tester bound to a zone manager. frameID is the zone
// marking the plot interior.
func NewZones(mgr *zone.Manager, frameID string) *Zones {
	return &Zones{mgr: mgr, frameID: frameID}
}

// SetOverlays replaces the overlay declarations, front-most first. The view
// calls this whenever the set of rendered overlays changes.
func (z *Zones) SetOverlays(overlays ...Overlay) {
	z.mu.Lock()
	defer z.mu.Unlock()
	z.overlays = append(z.overlays[:0], overlays...)
}

// HitTest implements Tester.
func (z *Zones) HitTest(x, y int) (Result, bool) {
	z.mu.RLock()
	defer z.mu.RUnlock()

	msg := tea.MouseMsg{X: x, Y: y}
	for _, ov := range z.overlays {
		info := z.mgr.Get(ov.ZoneID)
		if info == nil || info.IsZero() {
			continue
		}
		if info.InBounds(msg) {
			return Result{Target: ov.ZoneID, Cursor: ov.Cursor, OnHit: ov.OnHit}, true
		}
	}
	return Result{}, false
}

// InsideFrame implements Tester.
func (z *Zones) InsideFrame(x, y int) bool {
	info := z.mgr.Get(z.frameID)
	if info == nil || info.IsZero() {
		return false
	}
	return info.InBounds(tea.MouseMsg{X: x, Y: y})
}
