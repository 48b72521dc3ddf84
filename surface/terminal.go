package surface

import (
	"math"
	"sync"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"

	"github.com/lixenwraith/petal-bloom/glyph"
	"github.com/lixenwraith/petal-bloom/layout"
	"github.com/lixenwraith/petal-bloom/parameter"
	"github.com/lixenwraith/petal-bloom/parameter/visual"
	"github.com/lixenwraith/petal-bloom/playback"
	"github.com/lixenwraith/petal-bloom/render"
)

// Terminal draws the document and the petal overlay on a tcell screen.
// Geometry arrives in px and is mapped to cells by the nominal cell size
type Terminal struct {
	mu     sync.Mutex
	screen tcell.Screen
	buf    *render.Buffer
	cellW  float64
	cellH  float64

	source        []layout.Placed
	sourceVisible bool

	open   bool
	region glyph.Rect
	poses  []playback.Pose
}

// NewTerminal creates a terminal surface over screen
func NewTerminal(screen tcell.Screen, cellW, cellH float64) *Terminal {
	w, h := screen.Size()
	return &Terminal{
		screen:        screen,
		buf:           render.NewBuffer(w, h, visual.RgbBackground),
		cellW:         cellW,
		cellH:         cellH,
		sourceVisible: true,
	}
}

// SetSource replaces the document drawn beneath the overlay
func (t *Terminal) SetSource(placed []layout.Placed) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.source = placed
	t.paintLocked()
}

// Open implements playback.Surface
func (t *Terminal) Open(region glyph.Rect) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.poses = nil
	t.region = region
	t.open = true
	t.paintLocked()
	return nil
}

// SetSourceVisible implements playback.Surface
func (t *Terminal) SetSourceVisible(visible bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.sourceVisible = visible
	t.paintLocked()
}

// Draw implements playback.Surface
func (t *Terminal) Draw(poses []playback.Pose) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.open {
		return ErrClosed
	}
	t.poses = poses
	t.paintLocked()
	return nil
}

// Close implements playback.Surface
func (t *Terminal) Close() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.open = false
	t.poses = nil
	t.paintLocked()
}

func (t *Terminal) cell(px, py float64) (int, int) {
	return int(math.Floor(px / t.cellW)), int(math.Floor(py / t.cellH))
}

func (t *Terminal) paintLocked() {
	w, h := t.screen.Size()
	if bw, bh := t.buf.Bounds(); bw != w || bh != h {
		t.buf.Resize(w, h)
	} else {
		t.buf.Clear()
	}

	if t.sourceVisible {
		for _, p := range t.source {
			x, y := t.cell(p.Box.Left, p.Box.Top)
			attrs := render.AttrNone
			if p.Style.Bold() {
				attrs |= render.AttrBold
			}
			t.buf.Set(x, y, p.Text, p.Style.Color, render.BlendReplace, 1, attrs)
		}
	}
	if t.open {
		for _, p := range t.poses {
			t.drawPose(p)
		}
	}
	t.flushLocked()
}

func (t *Terminal) drawPose(p playback.Pose) {
	el := p.Element
	if el == nil || p.Opacity <= 0.01 {
		return
	}
	tr := p.Transform
	left := t.region.Left + el.Origin.Left + tr.TranslateX
	top := t.region.Top + el.Origin.Top + tr.TranslateY

	switch el.Kind {
	case playback.KindDust:
		ch := visual.DustSmall
		if el.Size*tr.Scale >= parameter.DustLargePx {
			ch = visual.DustLarge
		}
		x, y := t.cell(left+el.Origin.Width/2, top+el.Origin.Height/2)
		t.buf.Set(x, y, string(ch), el.Color, render.BlendScreen, p.Opacity, render.AttrNone)

	case playback.KindHalf:
		fg := el.Color
		if el.Side == playback.SideRight {
			fg = el.Accent
		}
		attrs := render.AttrNone
		if tr.TranslateZ >= parameter.DepthBoldPx || el.Style.Bold() {
			attrs |= render.AttrBold
		}
		if p.Opacity < parameter.DimOpacity {
			attrs |= render.AttrDim
		}
		x, y := t.cell(left+t.cellW/2, top+el.Origin.Height/2)
		t.buf.Set(x, y, el.Char, fg, render.BlendAlpha, p.Opacity, attrs)
	}
}

func (t *Terminal) flushLocked() {
	w, h := t.buf.Bounds()
	for y := 0; y < h; y++ {
		for x := 0; x < w; {
			c := t.buf.Get(x, y)
			style := render.CellStyle(c)
			if c.Text == "" {
				t.screen.SetContent(x, y, ' ', nil, style)
				x++
				continue
			}
			rs := []rune(c.Text)
			t.screen.SetContent(x, y, rs[0], rs[1:], style)
			x += max(1, runewidth.StringWidth(c.Text))
		}
	}
	t.screen.Show()
}
