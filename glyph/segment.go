package glyph

import (
	"unicode/utf8"

	"github.com/rivo/uniseg"
)

// Segment is one cluster of a text run with byte offsets into the run
type Segment struct {
	Text       string
	Start, End int
}

// Segmenter splits text into user-perceived characters
type Segmenter interface {
	Segments(text string) []Segment
}

// GraphemeSegmenter splits on extended grapheme cluster boundaries (UAX #29)
type GraphemeSegmenter struct{}

// Segments implements Segmenter
func (GraphemeSegmenter) Segments(text string) []Segment {
	segs := make([]Segment, 0, len(text))
	gr := uniseg.NewGraphemes(text)
	for gr.Next() {
		start, end := gr.Positions()
		segs = append(segs, Segment{Text: text[start:end], Start: start, End: end})
	}
	return segs
}

// CodePointSegmenter splits on code points.
// Combining marks, emoji sequences and regional indicator pairs come out as
// separate pieces; this is the accepted degradation when grapheme
// segmentation is disabled
type CodePointSegmenter struct{}

// Segments implements Segmenter
func (CodePointSegmenter) Segments(text string) []Segment {
	segs := make([]Segment, 0, utf8.RuneCountInString(text))
	for i, r := range text {
		n := utf8.RuneLen(r)
		if n < 0 {
			// Invalid byte decodes as RuneError of width 1
			n = 1
		}
		segs = append(segs, Segment{Text: text[i : i+n], Start: i, End: i + n})
	}
	return segs
}

// DefaultSegmenter returns the grapheme segmenter, or the code point fallback when disabled
func DefaultSegmenter(graphemes bool) Segmenter {
	if graphemes {
		return GraphemeSegmenter{}
	}
	return CodePointSegmenter{}
}
