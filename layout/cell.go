package layout

import (
	"github.com/mattn/go-runewidth"

	"github.com/lixenwraith/petal-bloom/glyph"
)

// Default nominal cell size in px; presets are tuned in px
const (
	DefaultCellWidth  = 8.0
	DefaultCellHeight = 16.0
	tabStop           = 4
)

// CellProbe lays text out on a terminal grid of fixed columns.
// Geometry is reported in px using a nominal cell size
type CellProbe struct {
	runs      []glyph.Text
	cols      int
	cellW     float64
	cellH     float64
	scroll    int
	collector glyph.Collector

	boxes  boxIndex
	placed []Placed
	rows   int
}

// CellOption configures a CellProbe
type CellOption func(*CellProbe)

// WithCellSize sets the nominal px size of one cell
func WithCellSize(w, h float64) CellOption {
	return func(p *CellProbe) {
		if w > 0 {
			p.cellW = w
		}
		if h > 0 {
			p.cellH = h
		}
	}
}

// WithScroll sets the first visible row
func WithScroll(row int) CellOption {
	return func(p *CellProbe) {
		if row > 0 {
			p.scroll = row
		}
	}
}

// WithSegmenter overrides grapheme segmentation
func WithSegmenter(seg glyph.Segmenter) CellOption {
	return func(p *CellProbe) {
		p.collector = glyph.NewCollector(seg)
	}
}

// NewCellProbe lays runs out in cols columns
func NewCellProbe(runs []glyph.Text, cols int, opts ...CellOption) *CellProbe {
	p := &CellProbe{
		runs:      runs,
		cols:      max(cols, 1),
		cellW:     DefaultCellWidth,
		cellH:     DefaultCellHeight,
		collector: glyph.NewCollector(nil),
	}
	for _, opt := range opts {
		opt(p)
	}
	p.layout()
	return p
}

func (p *CellProbe) layout() {
	p.boxes = newBoxIndex(len(p.runs))
	p.placed = p.placed[:0]
	x, y := 0, 0

	for ri, run := range p.runs {
		for _, seg := range p.collector.Segmenter.Segments(run.Value) {
			if isNewline(seg.Text) {
				p.boxes[ri][seg.Start] = p.cellBox(x, y, 0)
				x, y = 0, y+1
				continue
			}

			w := runewidth.StringWidth(seg.Text)
			if seg.Text == "\t" {
				w = tabStop - x%tabStop
			}
			if w > 0 && x+w > p.cols {
				x, y = 0, y+1
			}
			box := p.cellBox(x, y, w)
			p.boxes[ri][seg.Start] = box
			if w > 0 {
				p.placed = append(p.placed, Placed{Text: seg.Text, Box: box, Style: run.Style})
			}
			x += w
		}
	}
	p.rows = y + 1
}

func (p *CellProbe) cellBox(x, y, w int) glyph.Rect {
	return glyph.Rect{
		Left:   float64(x) * p.cellW,
		Top:    float64(y-p.scroll) * p.cellH,
		Width:  float64(w) * p.cellW,
		Height: p.cellH,
	}
}

// MeasureGlyphsInRegion implements glyph.LayoutProbe
func (p *CellProbe) MeasureGlyphsInRegion(region glyph.Rect, maxCount int) []glyph.Piece {
	return p.collector.Collect(p.runs, region, maxCount, p.boxes.measure)
}

// Region returns the px rectangle of a cols x rows viewport
func (p *CellProbe) Region(rows int) glyph.Rect {
	return glyph.Rect{Width: float64(p.cols) * p.cellW, Height: float64(rows) * p.cellH}
}

// Placed returns every laid-out cluster with non-zero width
func (p *CellProbe) Placed() []Placed {
	return p.placed
}

// Rows returns the number of laid-out rows
func (p *CellProbe) Rows() int {
	return p.rows
}

// CellSize returns the nominal px size of one cell
func (p *CellProbe) CellSize() (w, h float64) {
	return p.cellW, p.cellH
}
