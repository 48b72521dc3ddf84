package layout

import (
	"testing"

	"github.com/lixenwraith/petal-bloom/glyph"
)

func newTestFaces(t *testing.T) *FaceSet {
	t.Helper()
	fs, err := NewFaceSet()
	if err != nil {
		t.Fatalf("NewFaceSet: %v", err)
	}
	t.Cleanup(func() { _ = fs.Close() })
	return fs
}

func TestFaceProbeReadingOrder(t *testing.T) {
	fs := newTestFaces(t)
	style := glyph.Style{FontFamily: glyph.FamilySans, FontSizePx: 20, FontWeight: glyph.WeightNormal}
	runs := []glyph.Text{{Value: "Hi there", Style: style}}

	p, err := NewFaceProbe(runs, fs, 800)
	if err != nil {
		t.Fatalf("NewFaceProbe: %v", err)
	}
	got := p.MeasureGlyphsInRegion(glyph.Rect{Width: 800, Height: 200}, 100)
	if len(got) != 8 {
		t.Fatalf("len = %d, want 8", len(got))
	}
	for i := 1; i < len(got); i++ {
		if got[i].Box.Left <= got[i-1].Box.Left {
			t.Errorf("piece %d (%q) not right of %q", i, got[i].Char, got[i-1].Char)
		}
		if got[i].Box.Top != got[0].Box.Top {
			t.Errorf("piece %d on a different line", i)
		}
	}
	if got[0].Box.Height < 20 {
		t.Errorf("line height = %.1f, want >= font size", got[0].Box.Height)
	}
	if got[0].Box.Left != 16 {
		t.Errorf("first left = %.1f, want margin 16", got[0].Box.Left)
	}
}

func TestFaceProbeWraps(t *testing.T) {
	fs := newTestFaces(t)
	runs := []glyph.Text{{Value: "wwwwwwwwwwwwwwwwwwww", Style: glyph.Style{FontSizePx: 16}}}

	p, err := NewFaceProbe(runs, fs, 100, WithMargin(0))
	if err != nil {
		t.Fatalf("NewFaceProbe: %v", err)
	}
	got := p.MeasureGlyphsInRegion(glyph.Rect{Width: 100, Height: 1000}, 100)
	if len(got) != 20 {
		t.Fatalf("len = %d, want 20", len(got))
	}
	last := got[len(got)-1]
	if last.Box.Top == 0 {
		t.Error("long line did not wrap")
	}
	for _, piece := range got {
		if piece.Box.Right() > 100+0.01 {
			t.Errorf("%q overflows at %.1f", piece.Char, piece.Box.Right())
		}
	}
	if p.ContentHeight() <= last.Box.Bottom()-0.01 {
		t.Errorf("content height %.1f below last line %.1f", p.ContentHeight(), last.Box.Bottom())
	}
}

func TestFaceSetVariants(t *testing.T) {
	fs := newTestFaces(t)

	tests := []struct {
		name  string
		style glyph.Style
		want  string
	}{
		{"regular", glyph.Style{}, "regular"},
		{"bold", glyph.Style{FontWeight: glyph.WeightBold}, "bold"},
		{"italic", glyph.Style{FontStyle: glyph.StyleItalic}, "italic"},
		{"both", glyph.Style{FontWeight: glyph.WeightBold, FontStyle: glyph.StyleItalic}, "bolditalic"},
		{"mono", glyph.Style{FontFamily: glyph.FamilyMono, FontWeight: glyph.WeightBold}, "mono"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := variantOf(tt.style); got != tt.want {
				t.Errorf("variant = %q, want %q", got, tt.want)
			}
			a, err := fs.Face(tt.style)
			if err != nil {
				t.Fatalf("Face: %v", err)
			}
			b, _ := fs.Face(tt.style)
			if a != b {
				t.Error("face not cached")
			}
		})
	}
}
