// Package plot holds the plotting surface model: data series, the viewport,
// point selection, and the concrete interactive tools that manipulate them.
// The plot owns no input handling; tools mutate it in response to routed
// events, and it publishes secondary document events (view and selection
// changes) on the notification channel as those mutations happen.
package plot

import (
	"fmt"
	"math"
	"sort"

	"github.com/plotline-dev/plotline/internal/events"
	"github.com/plotline-dev/plotline/internal/pubsub"
)

// Point is a single data point.
type Point struct {
	X, Y float64
}

// Series is a named sequence of points.
type Series struct {
	Name   string
	Color  string // lipgloss color
	Points []Point
	Hidden bool
}

// Viewport is the visible data-space window.
type Viewport struct {
	XMin, XMax float64
	YMin, YMax float64
}

func (v Viewport) width() float64  { return v.XMax - v.XMin }
func (v Viewport) height() float64 { return v.YMax - v.YMin }

// Ref addresses one point as (series index, point index).
type Ref struct {
	Series, Index int
}

// Plot is a single plotting surface. Not safe for concurrent use; it lives
// inside the update loop.
type Plot struct {
	id     string
	broker *pubsub.Broker[events.Notification]

	series []Series
	view   Viewport
	home   Viewport

	selected []Ref
	revision int

	// frame is the canvas position in screen cells, set by the view
	// during layout.
	frameX, frameY int
	frameW, frameH int

	readouts map[string]string
}

// New creates an empty plot surface. broker may be nil (no secondary events).
func New(id string, broker *pubsub.Broker[events.Notification]) *Plot {
	return &Plot{
		id:       id,
		broker:   broker,
		readouts: make(map[string]string),
	}
}

// ID returns the surface identifier.
func (p *Plot) ID() string { return p.id }

// Revision increments on every visible state change; the render cache keys
// on it.
func (p *Plot) Revision() int { return p.revision }

// Series returns the data series.
func (p *Plot) Series() []Series { return p.series }

// View returns the current viewport.
func (p *Plot) View() Viewport { return p.view }

// AddSeries appends a series and grows the home viewport to fit its data
// with a 5% margin on each side.
func (p *Plot) AddSeries(s Series) {
	p.series = append(p.series, s)
	p.home = fitViewport(p.series)
	p.view = p.home
	p.revision++
}

func fitViewport(series []Series) Viewport {
	xmin, xmax := math.Inf(1), math.Inf(-1)
	ymin, ymax := math.Inf(1), math.Inf(-1)
	for _, s := range series {
		for _, pt := range s.Points {
			xmin = math.Min(xmin, pt.X)
			xmax = math.Max(xmax, pt.X)
			ymin = math.Min(ymin, pt.Y)
			ymax = math.Max(ymax, pt.Y)
		}
	}
	if math.IsInf(xmin, 1) {
		return Viewport{XMin: 0, XMax: 1, YMin: 0, YMax: 1}
	}
	xpad := (xmax - xmin) * 0.05
	ypad := (ymax - ymin) * 0.05
	if xpad == 0 {
		xpad = 0.5
	}
	if ypad == 0 {
		ypad = 0.5
	}
	return Viewport{XMin: xmin - xpad, XMax: xmax + xpad, YMin: ymin - ypad, YMax: ymax + ypad}
}

// SetFrame records where the canvas sits on screen, in cells. The view calls
// this after layout so screen coordinates can map into data space.
func (p *Plot) SetFrame(x, y, w, h int) {
	p.frameX, p.frameY, p.frameW, p.frameH = x, y, w, h
}

// Frame returns the canvas geometry in screen cells.
func (p *Plot) Frame() (x, y, w, h int) {
	return p.frameX, p.frameY, p.frameW, p.frameH
}

// CellToData maps a screen cell into data space. ok is false when the frame
// has no extent yet or the cell falls outside it.
func (p *Plot) CellToData(sx, sy int) (float64, float64, bool) {
	if p.frameW <= 0 || p.frameH <= 0 {
		return 0, 0, false
	}
	cx, cy := sx-p.frameX, sy-p.frameY
	if cx < 0 || cx >= p.frameW || cy < 0 || cy >= p.frameH {
		return 0, 0, false
	}
	x := p.view.XMin + (float64(cx)+0.5)/float64(p.frameW)*p.view.width()
	// Screen y grows downward, data y upward.
	y := p.view.YMax - (float64(cy)+0.5)/float64(p.frameH)*p.view.height()
	return x, y, true
}

// localCell maps a data point into canvas-local cells for a w×h canvas.
// ok is false when the point is outside the viewport.
func localCell(view Viewport, pt Point, w, h int) (int, int, bool) {
	if view.width() <= 0 || view.height() <= 0 || w <= 0 || h <= 0 {
		return 0, 0, false
	}
	fx := (pt.X - view.XMin) / view.width()
	fy := (view.YMax - pt.Y) / view.height()
	if fx < 0 || fx >= 1 || fy < 0 || fy >= 1 {
		return 0, 0, false
	}
	return int(fx * float64(w)), int(fy * float64(h)), true
}

// xPerCell and yPerCell are the data units covered by one screen cell.
func (p *Plot) xPerCell() float64 {
	if p.frameW <= 0 {
		return 0
	}
	return p.view.width() / float64(p.frameW)
}

func (p *Plot) yPerCell() float64 {
	if p.frameH <= 0 {
		return 0
	}
	return p.view.height() / float64(p.frameH)
}

// PanByCells shifts the viewport: positive dx moves it right, positive dy
// moves it up, both measured in screen cells.
func (p *Plot) PanByCells(dx, dy int) {
	if dx == 0 && dy == 0 {
		return
	}
	sx := float64(dx) * p.xPerCell()
	sy := float64(dy) * p.yPerCell()
	p.view.XMin += sx
	p.view.XMax += sx
	p.view.YMin += sy
	p.view.YMax += sy
	p.revision++
	p.publishView()
}

// ZoomAt scales the viewport by factor about the data point under the given
// screen cell; factor < 1 zooms in. When the cell is outside the frame the
// zoom centers on the viewport midpoint.
func (p *Plot) ZoomAt(sx, sy int, factor float64) {
	if factor <= 0 {
		return
	}
	cx, cy, ok := p.CellToData(sx, sy)
	if !ok {
		cx = (p.view.XMin + p.view.XMax) / 2
		cy = (p.view.YMin + p.view.YMax) / 2
	}
	p.view = Viewport{
		XMin: cx - (cx-p.view.XMin)*factor,
		XMax: cx + (p.view.XMax-cx)*factor,
		YMin: cy - (cy-p.view.YMin)*factor,
		YMax: cy + (p.view.YMax-cy)*factor,
	}
	p.revision++
	p.publishView()
}

// ZoomTo replaces the viewport, used by box zoom. Degenerate rectangles are
// ignored.
func (p *Plot) ZoomTo(v Viewport) {
	if v.width() <= 0 || v.height() <= 0 {
		return
	}
	p.view = v
	p.revision++
	p.publishView()
}

// ResetView restores the home viewport.
func (p *Plot) ResetView() {
	p.view = p.home
	p.revision++
	p.publishView()
}

// ToggleSeries flips a series' visibility by name.
func (p *Plot) ToggleSeries(name string) {
	for i := range p.series {
		if p.series[i].Name == name {
			p.series[i].Hidden = !p.series[i].Hidden
			p.revision++
			return
		}
	}
}

// NearestVisible finds the closest visible point within maxCells of the
// screen cell, measured in cell space.
func (p *Plot) NearestVisible(sx, sy int, maxCells int) (Ref, Point, bool) {
	best := Ref{}
	bestPt := Point{}
	bestDist := math.Inf(1)
	for si, s := range p.series {
		if s.Hidden {
			continue
		}
		for pi, pt := range s.Points {
			lx, ly, ok := localCell(p.view, pt, p.frameW, p.frameH)
			if !ok {
				continue
			}
			dx := float64(lx + p.frameX - sx)
			dy := float64(ly + p.frameY - sy)
			dist := math.Hypot(dx, dy)
			if dist < bestDist {
				bestDist = dist
				best = Ref{Series: si, Index: pi}
				bestPt = pt
			}
		}
	}
	if bestDist > float64(maxCells) {
		return Ref{}, Point{}, false
	}
	return best, bestPt, true
}

// SelectNearest selects the point nearest the screen cell, replacing the
// current selection, and publishes a selection-change event. Tapping empty
// space clears the selection.
func (p *Plot) SelectNearest(sx, sy int) {
	ref, _, ok := p.NearestVisible(sx, sy, 2)
	if !ok {
		p.ClearSelection()
		return
	}
	p.selected = []Ref{ref}
	p.revision++
	p.publishSelection()
}

// ClearSelection empties the selection, publishing a selection-change event
// only if something was selected.
func (p *Plot) ClearSelection() {
	if len(p.selected) == 0 {
		return
	}
	p.selected = nil
	p.revision++
	p.publishSelection()
}

// Selected returns the selected point refs.
func (p *Plot) Selected() []Ref { return p.selected }

// IsSelected reports whether the given point is selected.
func (p *Plot) IsSelected(ref Ref) bool {
	for _, sel := range p.selected {
		if sel == ref {
			return true
		}
	}
	return false
}

// flatIndex converts a ref into a single index over all series' points.
func (p *Plot) flatIndex(ref Ref) int {
	n := 0
	for si := 0; si < ref.Series; si++ {
		n += len(p.series[si].Points)
	}
	return n + ref.Index
}

func (p *Plot) publishSelection() {
	if p.broker == nil {
		return
	}
	sel := make([]int, 0, len(p.selected))
	for _, ref := range p.selected {
		sel = append(sel, p.flatIndex(ref))
	}
	p.broker.Publish(pubsub.Topic(events.SelectionChange), p.id, events.Notification{
		Kind:     events.SelectionChange,
		Plot:     p.id,
		Selected: sel,
	})
}

func (p *Plot) publishView() {
	if p.broker == nil {
		return
	}
	p.broker.Publish(pubsub.Topic(events.ViewChange), p.id, events.Notification{
		Kind: events.ViewChange,
		Plot: p.id,
	})
}

// SetReadout sets (or, with empty text, clears) a status readout owned by
// the named tool. Readouts do not bump the revision; they render in the
// status bar, not the canvas.
func (p *Plot) SetReadout(tool, text string) {
	if text == "" {
		delete(p.readouts, tool)
		return
	}
	p.readouts[tool] = text
}

// Readouts returns the current readouts ordered by owning tool name.
func (p *Plot) Readouts() []string {
	names := make([]string, 0, len(p.readouts))
	for name := range p.readouts {
		names = append(names, name)
	}
	sort.Strings(names)
	out := make([]string, 0, len(names))
	for _, name := range names {
		out = append(out, p.readouts[name])
	}
	return out
}

// DescribeView formats the viewport for the status bar.
func (p *Plot) DescribeView() string {
	return fmt.Sprintf("x [%.2f, %.2f]  y [%.2f, %.2f]",
		p.view.XMin, p.view.XMax, p.view.YMin, p.view.YMax)
}
