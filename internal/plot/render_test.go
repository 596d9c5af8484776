package plot

import (
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/require"

	"github.com/plotline-dev/plotline/internal/cachemanager"
)

func canvasLines(s string) []string {
	return strings.Split(ansi.Strip(s), "\n")
}

func TestCanvas_DrawsPointsAtLocalCells(t *testing.T) {
	p, _ := newTestPlot(t)
	r := NewRenderer(p, nil)

	lines := canvasLines(r.Canvas(10, 10))
	require.Len(t, lines, 10)

	// Data (5.5, 5.5) lands on local cell (5, 4).
	require.Equal(t, pointGlyph, string([]rune(lines[4])[5]))
	require.Equal(t, pointGlyph, string([]rune(lines[8])[1]))
	require.Equal(t, pointGlyph, string([]rune(lines[1])[8]))
}

func TestCanvas_SelectedPointUsesSelectionGlyph(t *testing.T) {
	p, _ := newTestPlot(t)
	r := NewRenderer(p, nil)

	p.SelectNearest(5, 4)

	lines := canvasLines(r.Canvas(10, 10))
	require.Equal(t, selectedGlyph, string([]rune(lines[4])[5]))
	require.Equal(t, pointGlyph, string([]rune(lines[8])[1]))
}

func TestCanvas_HiddenSeriesNotDrawn(t *testing.T) {
	p, _ := newTestPlot(t)
	r := NewRenderer(p, nil)

	p.ToggleSeries("diag")

	stripped := ansi.Strip(r.Canvas(10, 10))
	require.NotContains(t, stripped, pointGlyph)
}

func TestCanvas_MemoizedUntilRevisionChanges(t *testing.T) {
	p, _ := newTestPlot(t)
	cache := cachemanager.NewInMemoryCacheManager[string, string]("canvas", time.Minute, time.Minute)
	r := NewRenderer(p, cache)

	first := r.Canvas(10, 10)
	require.Equal(t, first, r.Canvas(10, 10))

	p.PanByCells(3, 0)
	second := r.Canvas(10, 10)
	require.NotEqual(t, first, second)
}

func TestCanvas_ZeroSize(t *testing.T) {
	p, _ := newTestPlot(t)
	r := NewRenderer(p, nil)

	require.Equal(t, "", r.Canvas(0, 10))
	require.Equal(t, "", r.Canvas(10, 0))
}
