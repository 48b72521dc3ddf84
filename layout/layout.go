// Package layout provides the two layout hosts: a terminal cell grid and a
// pixel layout built on real font metrics. Both expose glyph.LayoutProbe.
package layout

import (
	"github.com/lixenwraith/petal-bloom/glyph"
)

// Placed is one laid-out cluster, including whitespace, used by surfaces to draw the source document
type Placed struct {
	Text  string
	Box   glyph.Rect
	Style glyph.Style
}

// boxIndex maps run index and segment start to a measured box
type boxIndex []map[int]glyph.Rect

func newBoxIndex(runs int) boxIndex {
	idx := make(boxIndex, runs)
	for i := range idx {
		idx[i] = make(map[int]glyph.Rect)
	}
	return idx
}

func (b boxIndex) measure(run int, seg glyph.Segment) (glyph.Rect, bool) {
	if run < 0 || run >= len(b) {
		return glyph.Rect{}, false
	}
	r, ok := b[run][seg.Start]
	return r, ok
}

func isNewline(s string) bool {
	return s == "\n" || s == "\r\n" || s == "\r"
}
