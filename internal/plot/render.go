package plot

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/plotline-dev/plotline/internal/cachemanager"
)

const (
	pointGlyph    = "●"
	selectedGlyph = "◆"
	canvasTTL     = time.Minute
)

// Renderer draws the plot canvas. Canvas strings are memoized by size and
// plot revision; anything that changes the picture bumps the revision, so a
// stale entry can never be served.
type Renderer struct {
	plot  *Plot
	cache cachemanager.CacheManager[string, string]
}

// NewRenderer creates a renderer. cache may be nil to disable memoization.
func NewRenderer(p *Plot, cache cachemanager.CacheManager[string, string]) *Renderer {
	return &Renderer{plot: p, cache: cache}
}

// Canvas renders the w×h plot interior (no border) as a lipgloss-styled
// string of exactly h lines.
func (r *Renderer) Canvas(w, h int) string {
	if w <= 0 || h <= 0 {
		return ""
	}

	key := fmt.Sprintf("%dx%d:r%d", w, h, r.plot.Revision())
	if r.cache != nil {
		if cached, ok := r.cache.Get(context.Background(), key); ok {
			return cached
		}
	}

	out := r.draw(w, h)

	if r.cache != nil {
		r.cache.Set(context.Background(), key, out, canvasTTL)
	}
	return out
}

func (r *Renderer) draw(w, h int) string {
	type cell struct {
		glyph string
		style lipgloss.Style
		set   bool
	}
	grid := make([][]cell, h)
	for y := range grid {
		grid[y] = make([]cell, w)
	}

	view := r.plot.View()
	for si, s := range r.plot.Series() {
		if s.Hidden {
			continue
		}
		style := lipgloss.NewStyle().Foreground(lipgloss.Color(s.Color))
		selStyle := style.Reverse(true)
		for pi, pt := range s.Points {
			x, y, ok := localCell(view, pt, w, h)
			if !ok {
				continue
			}
			c := cell{glyph: pointGlyph, style: style, set: true}
			if r.plot.IsSelected(Ref{Series: si, Index: pi}) {
				c.glyph = selectedGlyph
				c.style = selStyle
			}
			grid[y][x] = c
		}
	}

	var b strings.Builder
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			c := grid[y][x]
			if !c.set {
				b.WriteByte(' ')
				continue
			}
			b.WriteString(c.style.Render(c.glyph))
		}
		if y < h-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}
