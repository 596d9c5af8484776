package plot

import (
	"fmt"

	"github.com/plotline-dev/plotline/internal/input"
	"github.com/plotline-dev/plotline/internal/tools"
)

// Tool IDs, also used as toolbar labels and config keys.
const (
	ToolPan       tools.ID = "pan"
	ToolBoxZoom   tools.ID = "box_zoom"
	ToolWheelZoom tools.ID = "wheel_zoom"
	ToolTapSelect tools.ID = "tap_select"
	ToolHover     tools.ID = "hover"
	ToolCrosshair tools.ID = "crosshair"
	ToolKeyNav    tools.ID = "keynav"
)

// PanTool drags the viewport so the content follows the pointer.
type PanTool struct {
	p            *Plot
	lastX, lastY int
}

func NewPanTool(p *Plot) *PanTool { return &PanTool{p: p} }

func (t *PanTool) ID() tools.ID        { return ToolPan }
func (t *PanTool) Kinds() []input.Kind { return []input.Kind{input.KindPan} }

func (t *PanTool) HandleRouted(ev tools.RoutedEvent) {
	switch ev.Event.Source.Type {
	case "panstart":
		t.lastX, t.lastY = ev.Event.X, ev.Event.Y
	case "pan":
		t.p.PanByCells(t.lastX-ev.Event.X, ev.Event.Y-t.lastY)
		t.lastX, t.lastY = ev.Event.X, ev.Event.Y
	}
}

// BoxZoomTool zooms to the rectangle dragged out with the pointer.
type BoxZoomTool struct {
	p              *Plot
	startX, startY int
	active         bool
}

func NewBoxZoomTool(p *Plot) *BoxZoomTool { return &BoxZoomTool{p: p} }

func (t *BoxZoomTool) ID() tools.ID        { return ToolBoxZoom }
func (t *BoxZoomTool) Kinds() []input.Kind { return []input.Kind{input.KindPan} }

func (t *BoxZoomTool) HandleRouted(ev tools.RoutedEvent) {
	switch ev.Event.Source.Type {
	case "panstart":
		t.startX, t.startY = ev.Event.X, ev.Event.Y
		t.active = true
	case "panend":
		if !t.active {
			return
		}
		t.active = false
		x0, y0, ok0 := t.p.CellToData(t.startX, t.startY)
		x1, y1, ok1 := t.p.CellToData(ev.Event.X, ev.Event.Y)
		if !ok0 || !ok1 {
			return
		}
		t.p.ZoomTo(Viewport{
			XMin: min(x0, x1), XMax: max(x0, x1),
			YMin: min(y0, y1), YMax: max(y0, y1),
		})
	}
}

// WheelZoomTool zooms about the pointer on scroll.
type WheelZoomTool struct {
	p      *Plot
	invert bool
}

func NewWheelZoomTool(p *Plot) *WheelZoomTool { return &WheelZoomTool{p: p} }

// SetInvert reverses the zoom direction.
func (t *WheelZoomTool) SetInvert(on bool) { t.invert = on }

func (t *WheelZoomTool) ID() tools.ID        { return ToolWheelZoom }
func (t *WheelZoomTool) Kinds() []input.Kind { return []input.Kind{input.KindScroll} }

func (t *WheelZoomTool) HandleRouted(ev tools.RoutedEvent) {
	zoomIn := ev.Event.Source.Delta > 0
	if t.invert {
		zoomIn = !zoomIn
	}
	factor := 1.25
	if zoomIn {
		factor = 0.8
	}
	t.p.ZoomAt(ev.Event.X, ev.Event.Y, factor)
}

// TapSelectTool selects the nearest point on tap and clears the selection on
// double tap. It spans two exclusive kinds; each is activated independently.
type TapSelectTool struct {
	p *Plot
}

func NewTapSelectTool(p *Plot) *TapSelectTool { return &TapSelectTool{p: p} }

func (t *TapSelectTool) ID() tools.ID { return ToolTapSelect }
func (t *TapSelectTool) Kinds() []input.Kind {
	return []input.Kind{input.KindTap, input.KindDoubleTap}
}

func (t *TapSelectTool) HandleRouted(ev tools.RoutedEvent) {
	switch ev.Kind {
	case input.KindTap:
		t.p.SelectNearest(ev.Event.X, ev.Event.Y)
	case input.KindDoubleTap:
		t.p.ClearSelection()
	}
}

// HoverInspector shows the nearest data point in the status bar. It is an
// always-on move listener with no cursor override of its own.
type HoverInspector struct {
	p *Plot
}

func NewHoverInspector(p *Plot) *HoverInspector { return &HoverInspector{p: p} }

func (t *HoverInspector) ID() tools.ID        { return ToolHover }
func (t *HoverInspector) Kinds() []input.Kind { return []input.Kind{input.KindMove} }

func (t *HoverInspector) HandleRouted(ev tools.RoutedEvent) {
	if ev.Kind == input.KindMoveExit {
		t.p.SetReadout(string(ToolHover), "")
		return
	}
	ref, pt, ok := t.p.NearestVisible(ev.Event.X, ev.Event.Y, 3)
	if !ok {
		t.p.SetReadout(string(ToolHover), "")
		return
	}
	name := t.p.Series()[ref.Series].Name
	t.p.SetReadout(string(ToolHover), fmt.Sprintf("%s (%.2f, %.2f)", name, pt.X, pt.Y))
}

// CrosshairInspector tracks the pointer's data-space position and declares
// the crosshair cursor while inside the frame.
type CrosshairInspector struct {
	p *Plot
}

func NewCrosshairInspector(p *Plot) *CrosshairInspector { return &CrosshairInspector{p: p} }

func (t *CrosshairInspector) ID() tools.ID        { return ToolCrosshair }
func (t *CrosshairInspector) Kinds() []input.Kind { return []input.Kind{input.KindMove} }
func (t *CrosshairInspector) Cursor() string      { return "crosshair" }

func (t *CrosshairInspector) HandleRouted(ev tools.RoutedEvent) {
	if ev.Kind == input.KindMoveExit {
		t.p.SetReadout(string(ToolCrosshair), "")
		return
	}
	x, y, ok := t.p.CellToData(ev.Event.X, ev.Event.Y)
	if !ok {
		t.p.SetReadout(string(ToolCrosshair), "")
		return
	}
	t.p.SetReadout(string(ToolCrosshair), fmt.Sprintf("x=%.2f y=%.2f", x, y))
}

// KeyNavTool pans and resets the viewport from the keyboard. It is a multi
// listener: it coexists with any other key listener.
type KeyNavTool struct {
	p *Plot
}

func NewKeyNavTool(p *Plot) *KeyNavTool { return &KeyNavTool{p: p} }

func (t *KeyNavTool) ID() tools.ID        { return ToolKeyNav }
func (t *KeyNavTool) Kinds() []input.Kind { return []input.Kind{input.KindKey} }

func (t *KeyNavTool) HandleRouted(ev tools.RoutedEvent) {
	switch ev.Event.Source.Key {
	case "left":
		t.p.PanByCells(-2, 0)
	case "right":
		t.p.PanByCells(2, 0)
	case "up":
		t.p.PanByCells(0, 1)
	case "down":
		t.p.PanByCells(0, -1)
	case "home":
		t.p.ResetView()
	case "esc":
		t.p.ClearSelection()
	}
}
