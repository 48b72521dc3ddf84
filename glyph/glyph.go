// Package glyph defines the extracted glyph geometry and the extraction loop
// shared by every layout host.
package glyph

import "github.com/lixenwraith/petal-bloom/render"

// Rect is an axis-aligned box in viewport pixels
type Rect struct {
	Left, Top, Width, Height float64
}

// Right returns the right edge
func (r Rect) Right() float64 { return r.Left + r.Width }

// Bottom returns the bottom edge
func (r Rect) Bottom() float64 { return r.Top + r.Height }

// Center returns the box center
func (r Rect) Center() (x, y float64) {
	return r.Left + r.Width/2, r.Top + r.Height/2
}

// Empty reports a degenerate box that cannot have been rendered
func (r Rect) Empty() bool {
	return r.Width < 1 || r.Height < 1
}

// Outside reports whether r lies entirely outside region.
// Edges are half-open: a box that only touches the region is outside
func (r Rect) Outside(region Rect) bool {
	return r.Bottom() <= region.Top || r.Top >= region.Bottom() ||
		r.Right() <= region.Left || r.Left >= region.Right()
}

// RelativeTo translates r into region-relative coordinates
func (r Rect) RelativeTo(region Rect) Rect {
	return Rect{Left: r.Left - region.Left, Top: r.Top - region.Top, Width: r.Width, Height: r.Height}
}

// Font weights used by hosts
const (
	WeightNormal = 400
	WeightBold   = 700
)

// Font styles used by hosts
const (
	StyleNormal = "normal"
	StyleItalic = "italic"
)

// Font families used by hosts
const (
	FamilySans = "sans-serif"
	FamilyMono = "monospace"
)

// Style is the presentation snapshot of a glyph's nearest styled ancestor.
// Layout-affecting properties are not captured
type Style struct {
	Color      render.RGB
	FontFamily string
	FontSizePx float64
	FontWeight int
	FontStyle  string
}

// Bold reports a weight at or above semibold
func (s Style) Bold() bool { return s.FontWeight >= 600 }

// Italic reports an italic or oblique style
func (s Style) Italic() bool { return s.FontStyle == StyleItalic || s.FontStyle == "oblique" }

// Piece is one user-perceived character captured from the document
type Piece struct {
	Char  string
	Box   Rect
	Style Style
}

// Text is a styled run of document text, the unit hosts walk in reading order
type Text struct {
	Value string
	Style Style
}

// LayoutProbe measures rendered glyphs of a document region.
// Implementations are read-only with respect to the document
type LayoutProbe interface {
	MeasureGlyphsInRegion(region Rect, maxCount int) []Piece
}
