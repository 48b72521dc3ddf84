package glyph

import "strings"

// Measure reports the rendered box of a segment of run index run.
// ok is false when the host has no box for the segment
type Measure func(run int, seg Segment) (box Rect, ok bool)

// Collector runs the extraction loop: reading order, blank-run skipping,
// segmentation, degenerate and off-screen filtering and the count cap
type Collector struct {
	Segmenter Segmenter
}

// NewCollector creates a collector with the given segmenter, grapheme segmentation when nil
func NewCollector(seg Segmenter) Collector {
	if seg == nil {
		seg = GraphemeSegmenter{}
	}
	return Collector{Segmenter: seg}
}

// Collect returns at most maxCount pieces in document order
func (c Collector) Collect(runs []Text, region Rect, maxCount int, measure Measure) []Piece {
	if maxCount <= 0 {
		return []Piece{}
	}
	seg := c.Segmenter
	if seg == nil {
		seg = GraphemeSegmenter{}
	}

	pieces := make([]Piece, 0, min(maxCount, 256))
	for i, run := range runs {
		if len(pieces) >= maxCount {
			break
		}
		if strings.TrimSpace(run.Value) == "" {
			continue
		}
		for _, s := range seg.Segments(run.Value) {
			if len(pieces) >= maxCount {
				break
			}
			box, ok := measure(i, s)
			if !ok || box.Empty() || box.Outside(region) {
				continue
			}
			pieces = append(pieces, Piece{Char: s.Text, Box: box, Style: run.Style})
		}
	}
	return pieces
}
