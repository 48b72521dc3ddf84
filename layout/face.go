package layout

import (
	"fmt"
	"math"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gobolditalic"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"

	"github.com/lixenwraith/petal-bloom/glyph"
)

// FaceSet builds and caches opentype faces for glyph styles from the Go font family
type FaceSet struct {
	mu    sync.Mutex
	fonts map[string]*opentype.Font
	faces map[faceKey]font.Face
}

type faceKey struct {
	variant string
	size    float64
}

// NewFaceSet parses the embedded Go fonts
func NewFaceSet() (*FaceSet, error) {
	sources := map[string][]byte{
		"regular":    goregular.TTF,
		"bold":       gobold.TTF,
		"italic":     goitalic.TTF,
		"bolditalic": gobolditalic.TTF,
		"mono":       gomono.TTF,
	}
	fs := &FaceSet{
		fonts: make(map[string]*opentype.Font, len(sources)),
		faces: make(map[faceKey]font.Face),
	}
	for name, ttf := range sources {
		f, err := opentype.Parse(ttf)
		if err != nil {
			return nil, fmt.Errorf("parse %s font: %w", name, err)
		}
		fs.fonts[name] = f
	}
	return fs, nil
}

func variantOf(s glyph.Style) string {
	switch {
	case s.FontFamily == glyph.FamilyMono:
		return "mono"
	case s.Bold() && s.Italic():
		return "bolditalic"
	case s.Bold():
		return "bold"
	case s.Italic():
		return "italic"
	}
	return "regular"
}

// Face returns the face for a style, falling back to 16px when size is unset
func (fs *FaceSet) Face(s glyph.Style) (font.Face, error) {
	size := s.FontSizePx
	if size <= 0 {
		size = 16
	}
	key := faceKey{variant: variantOf(s), size: size}

	fs.mu.Lock()
	defer fs.mu.Unlock()
	if face, ok := fs.faces[key]; ok {
		return face, nil
	}
	face, err := opentype.NewFace(fs.fonts[key.variant], &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("create %s face: %w", key.variant, err)
	}
	fs.faces[key] = face
	return face, nil
}

// Close releases every cached face
func (fs *FaceSet) Close() error {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	for k, face := range fs.faces {
		_ = face.Close()
		delete(fs.faces, k)
	}
	return nil
}

func fixedToFloat(v fixed.Int26_6) float64 {
	return float64(v) / 64
}

// FaceProbe lays text out in px with font metrics, wrapping at width
type FaceProbe struct {
	runs      []glyph.Text
	faces     *FaceSet
	width     float64
	margin    float64
	collector glyph.Collector

	boxes  boxIndex
	placed []Placed
	height float64
}

// FaceOption configures a FaceProbe
type FaceOption func(*FaceProbe)

// WithMargin sets the inner padding in px
func WithMargin(px float64) FaceOption {
	return func(p *FaceProbe) {
		if px >= 0 {
			p.margin = px
		}
	}
}

// WithFaceSegmenter overrides grapheme segmentation
func WithFaceSegmenter(seg glyph.Segmenter) FaceOption {
	return func(p *FaceProbe) {
		p.collector = glyph.NewCollector(seg)
	}
}

// NewFaceProbe lays runs out within width px
func NewFaceProbe(runs []glyph.Text, faces *FaceSet, width float64, opts ...FaceOption) (*FaceProbe, error) {
	p := &FaceProbe{
		runs:      runs,
		faces:     faces,
		width:     width,
		margin:    16,
		collector: glyph.NewCollector(nil),
	}
	for _, opt := range opts {
		opt(p)
	}
	if err := p.layout(); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *FaceProbe) layout() error {
	p.boxes = newBoxIndex(len(p.runs))
	p.placed = p.placed[:0]

	left := p.margin
	right := math.Max(p.width-p.margin, left+1)
	x, y := left, p.margin
	lineH := 0.0

	for ri, run := range p.runs {
		face, err := p.faces.Face(run.Style)
		if err != nil {
			return err
		}
		h := fixedToFloat(face.Metrics().Height)

		for _, seg := range p.collector.Segmenter.Segments(run.Value) {
			if isNewline(seg.Text) {
				p.boxes[ri][seg.Start] = glyph.Rect{Left: x, Top: y, Height: h}
				y += math.Max(lineH, h)
				x, lineH = left, 0
				continue
			}

			w := fixedToFloat(font.MeasureString(face, seg.Text))
			if seg.Text == "\t" {
				w = fixedToFloat(font.MeasureString(face, "    "))
			}
			if w > 0 && x+w > right && x > left {
				y += lineH
				x, lineH = left, 0
			}
			box := glyph.Rect{Left: x, Top: y, Width: w, Height: h}
			p.boxes[ri][seg.Start] = box
			if w > 0 {
				p.placed = append(p.placed, Placed{Text: seg.Text, Box: box, Style: run.Style})
			}
			x += w
			lineH = math.Max(lineH, h)
		}
	}
	p.height = y + lineH + p.margin
	return nil
}

// MeasureGlyphsInRegion implements glyph.LayoutProbe
func (p *FaceProbe) MeasureGlyphsInRegion(region glyph.Rect, maxCount int) []glyph.Piece {
	return p.collector.Collect(p.runs, region, maxCount, p.boxes.measure)
}

// Placed returns every laid-out cluster with non-zero width
func (p *FaceProbe) Placed() []Placed {
	return p.placed
}

// ContentHeight returns the laid-out document height in px including margins
func (p *FaceProbe) ContentHeight() float64 {
	return p.height
}

// Faces returns the face cache used for layout, shared with the raster surface
func (p *FaceProbe) Faces() *FaceSet {
	return p.faces
}
