package plot

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/plotline-dev/plotline/internal/events"
	"github.com/plotline-dev/plotline/internal/pubsub"
)

// newTestPlot returns a plot with one diagonal series, a 10x10 frame at the
// origin, and an exact [0,10]x[0,10] viewport, so one cell equals one data
// unit.
func newTestPlot(t *testing.T) (*Plot, <-chan pubsub.Event[events.Notification]) {
	t.Helper()

	broker := pubsub.NewBroker[events.Notification]()
	t.Cleanup(broker.Close)
	ch := broker.Subscribe(context.Background())

	p := New("plot-1", broker)
	p.AddSeries(Series{
		Name:   "diag",
		Color:  "#10B981",
		Points: []Point{{1.5, 1.5}, {5.5, 5.5}, {8.5, 8.5}},
	})
	p.SetFrame(0, 0, 10, 10)
	p.ZoomTo(Viewport{XMin: 0, XMax: 10, YMin: 0, YMax: 10})

	// Drain the events produced by setup.
	for len(ch) > 0 {
		<-ch
	}
	return p, ch
}

func nextEvent(t *testing.T, ch <-chan pubsub.Event[events.Notification]) events.Notification {
	t.Helper()
	select {
	case ev := <-ch:
		return ev.Payload
	case <-time.After(100 * time.Millisecond):
		require.Fail(t, "timeout waiting for notification")
		return events.Notification{}
	}
}

func TestAddSeries_FitsHomeViewport(t *testing.T) {
	p := New("plot-1", nil)
	p.AddSeries(Series{Name: "s", Points: []Point{{0, 0}, {10, 20}}})

	v := p.View()
	require.InDelta(t, -0.5, v.XMin, 1e-9)
	require.InDelta(t, 10.5, v.XMax, 1e-9)
	require.InDelta(t, -1.0, v.YMin, 1e-9)
	require.InDelta(t, 21.0, v.YMax, 1e-9)
}

func TestAddSeries_EmptyDataGetsUnitViewport(t *testing.T) {
	p := New("plot-1", nil)
	p.AddSeries(Series{Name: "empty"})

	require.Equal(t, Viewport{XMin: 0, XMax: 1, YMin: 0, YMax: 1}, p.View())
}

func TestCellToData_CentersAndInvertsY(t *testing.T) {
	p, _ := newTestPlot(t)

	x, y, ok := p.CellToData(0, 0)
	require.True(t, ok)
	require.InDelta(t, 0.5, x, 1e-9)
	require.InDelta(t, 9.5, y, 1e-9)

	x, y, ok = p.CellToData(9, 9)
	require.True(t, ok)
	require.InDelta(t, 9.5, x, 1e-9)
	require.InDelta(t, 0.5, y, 1e-9)
}

func TestCellToData_OutsideFrame(t *testing.T) {
	p, _ := newTestPlot(t)

	_, _, ok := p.CellToData(10, 5)
	require.False(t, ok)
	_, _, ok = p.CellToData(5, -1)
	require.False(t, ok)
}

func TestCellToData_NoFrameYet(t *testing.T) {
	p := New("plot-1", nil)
	_, _, ok := p.CellToData(0, 0)
	require.False(t, ok)
}

func TestPanByCells_ShiftsViewportAndPublishes(t *testing.T) {
	p, ch := newTestPlot(t)
	rev := p.Revision()

	p.PanByCells(2, 1)

	v := p.View()
	require.InDelta(t, 2.0, v.XMin, 1e-9)
	require.InDelta(t, 12.0, v.XMax, 1e-9)
	require.InDelta(t, 1.0, v.YMin, 1e-9)
	require.InDelta(t, 11.0, v.YMax, 1e-9)
	require.Greater(t, p.Revision(), rev)

	ev := nextEvent(t, ch)
	require.Equal(t, events.ViewChange, ev.Kind)
	require.Equal(t, "plot-1", ev.Plot)
}

func TestPanByCells_ZeroIsNoOp(t *testing.T) {
	p, ch := newTestPlot(t)
	rev := p.Revision()

	p.PanByCells(0, 0)

	require.Equal(t, rev, p.Revision())
	require.Empty(t, ch)
}

func TestZoomAt_ZoomsAboutPointer(t *testing.T) {
	p, _ := newTestPlot(t)

	// Cell (0,0) maps to data (0.5, 9.5); halving keeps that point fixed.
	p.ZoomAt(0, 0, 0.5)

	v := p.View()
	require.InDelta(t, 0.25, v.XMin, 1e-9)
	require.InDelta(t, 5.25, v.XMax, 1e-9)
	require.InDelta(t, 4.75, v.YMin, 1e-9)
	require.InDelta(t, 9.75, v.YMax, 1e-9)
}

func TestZoomAt_OutsideFrameCentersOnViewport(t *testing.T) {
	p, _ := newTestPlot(t)

	p.ZoomAt(-5, -5, 0.5)

	v := p.View()
	require.InDelta(t, 2.5, v.XMin, 1e-9)
	require.InDelta(t, 7.5, v.XMax, 1e-9)
}

func TestZoomTo_IgnoresDegenerateRect(t *testing.T) {
	p, _ := newTestPlot(t)
	before := p.View()

	p.ZoomTo(Viewport{XMin: 3, XMax: 3, YMin: 0, YMax: 1})

	require.Equal(t, before, p.View())
}

func TestResetView_RestoresHome(t *testing.T) {
	p := New("plot-1", nil)
	p.AddSeries(Series{Name: "s", Points: []Point{{0, 0}, {10, 10}}})
	home := p.View()

	p.SetFrame(0, 0, 10, 10)
	p.PanByCells(3, 0)
	require.NotEqual(t, home, p.View())

	p.ResetView()
	require.Equal(t, home, p.View())
}

func TestSelectNearest_PicksPointAndPublishesFlatIndex(t *testing.T) {
	p, ch := newTestPlot(t)

	// Data (5.5, 5.5) sits on cell (5, 4): fy=(10-5.5)/10 -> row 4.
	p.SelectNearest(5, 4)

	require.Len(t, p.Selected(), 1)
	require.Equal(t, Ref{Series: 0, Index: 1}, p.Selected()[0])
	require.True(t, p.IsSelected(Ref{Series: 0, Index: 1}))

	ev := nextEvent(t, ch)
	require.Equal(t, events.SelectionChange, ev.Kind)
	require.Equal(t, []int{1}, ev.Selected)
}

func TestSelectNearest_EmptySpaceClearsSelection(t *testing.T) {
	p, ch := newTestPlot(t)

	p.SelectNearest(5, 4)
	nextEvent(t, ch)
	require.Len(t, p.Selected(), 1)

	p.SelectNearest(0, 0) // far from every point
	require.Empty(t, p.Selected())

	ev := nextEvent(t, ch)
	require.Equal(t, events.SelectionChange, ev.Kind)
	require.Empty(t, ev.Selected)
}

func TestClearSelection_NoEventWhenAlreadyEmpty(t *testing.T) {
	p, ch := newTestPlot(t)

	p.ClearSelection()
	require.Empty(t, ch)
}

func TestToggleSeries_HidesFromNearestLookup(t *testing.T) {
	p, _ := newTestPlot(t)

	_, _, ok := p.NearestVisible(5, 4, 2)
	require.True(t, ok)

	p.ToggleSeries("diag")
	_, _, ok = p.NearestVisible(5, 4, 2)
	require.False(t, ok)

	p.ToggleSeries("diag")
	_, _, ok = p.NearestVisible(5, 4, 2)
	require.True(t, ok)
}

func TestReadouts_SortedByOwnerAndClearable(t *testing.T) {
	p, _ := newTestPlot(t)

	p.SetReadout("hover", "diag (5.50, 5.50)")
	p.SetReadout("crosshair", "x=5.00 y=5.00")

	require.Equal(t, []string{"x=5.00 y=5.00", "diag (5.50, 5.50)"}, p.Readouts())

	p.SetReadout("hover", "")
	require.Equal(t, []string{"x=5.00 y=5.00"}, p.Readouts())
}
