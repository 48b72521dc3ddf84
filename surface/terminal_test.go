package surface

import (
	"errors"
	"testing"

	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/petal-bloom/glyph"
	"github.com/lixenwraith/petal-bloom/layout"
	"github.com/lixenwraith/petal-bloom/parameter/visual"
	"github.com/lixenwraith/petal-bloom/playback"
	"github.com/lixenwraith/petal-bloom/render"
	"github.com/lixenwraith/petal-bloom/timeline"
)

func newTestScreen(t *testing.T) tcell.SimulationScreen {
	t.Helper()
	screen := tcell.NewSimulationScreen("UTF-8")
	if err := screen.Init(); err != nil {
		t.Fatalf("Init: %v", err)
	}
	screen.SetSize(20, 5)
	t.Cleanup(screen.Fini)
	return screen
}

func runeAt(screen tcell.Screen, x, y int) rune {
	r, _, _, _ := screen.GetContent(x, y)
	return r
}

var testSource = []layout.Placed{
	{Text: "a", Box: glyph.Rect{Left: 0, Top: 0, Width: 8, Height: 16}, Style: glyph.Style{Color: render.RGBWhite}},
	{Text: "b", Box: glyph.Rect{Left: 8, Top: 0, Width: 8, Height: 16}, Style: glyph.Style{Color: render.RGBWhite}},
}

func halfPose(side playback.Side, dx, opacity float64) playback.Pose {
	el := &playback.Element{
		Kind:   playback.KindHalf,
		Side:   side,
		Char:   "a",
		Origin: glyph.Rect{Width: 8, Height: 16},
		Color:  render.RGB{R: 255, G: 100, B: 150},
		Accent: render.RGB{R: 255, G: 160, B: 200},
	}
	tr := timeline.Identity()
	tr.TranslateX = dx
	return playback.Pose{Element: el, Pose: timeline.Pose{Transform: tr, Opacity: opacity}}
}

func TestTerminalLifecycle(t *testing.T) {
	screen := newTestScreen(t)
	term := NewTerminal(screen, 8, 16)
	term.SetSource(testSource)

	if runeAt(screen, 0, 0) != 'a' || runeAt(screen, 1, 0) != 'b' {
		t.Fatal("source not painted")
	}

	if err := term.Draw(nil); !errors.Is(err, ErrClosed) {
		t.Errorf("Draw before Open err = %v", err)
	}

	if err := term.Open(glyph.Rect{Width: 160, Height: 80}); err != nil {
		t.Fatalf("Open: %v", err)
	}
	term.SetSourceVisible(false)
	if runeAt(screen, 0, 0) != ' ' {
		t.Error("source still visible")
	}

	if err := term.Draw([]playback.Pose{halfPose(playback.SideRight, 16, 1)}); err != nil {
		t.Fatalf("Draw: %v", err)
	}
	if runeAt(screen, 2, 0) != 'a' {
		t.Errorf("petal not drawn at cell 2: %q", runeAt(screen, 2, 0))
	}
	_, _, style, _ := screen.GetContent(2, 0)
	fg, _, _ := style.Decompose()
	if fg != render.RGBToTcell(render.RGB{R: 255, G: 160, B: 200}) {
		t.Errorf("right half fg = %v, want accent", fg)
	}

	term.Close()
	term.SetSourceVisible(true)
	if runeAt(screen, 2, 0) != ' ' || runeAt(screen, 0, 0) != 'a' {
		t.Error("teardown did not restore the document")
	}
}

func TestTerminalOpenClearsStaleOverlay(t *testing.T) {
	screen := newTestScreen(t)
	term := NewTerminal(screen, 8, 16)

	_ = term.Open(glyph.Rect{Width: 160, Height: 80})
	_ = term.Draw([]playback.Pose{halfPose(playback.SideLeft, 24, 1)})
	if runeAt(screen, 3, 0) != 'a' {
		t.Fatal("petal not drawn")
	}

	_ = term.Open(glyph.Rect{Width: 160, Height: 80})
	if runeAt(screen, 3, 0) != ' ' {
		t.Error("stale petal survived Open")
	}
}

func TestTerminalOpacityAndDust(t *testing.T) {
	screen := newTestScreen(t)
	term := NewTerminal(screen, 8, 16)
	_ = term.Open(glyph.Rect{Width: 160, Height: 80})

	faded := halfPose(playback.SideLeft, 0, 0.3)
	small := playback.Pose{
		Element: &playback.Element{Kind: playback.KindDust, Size: 2, Origin: glyph.Rect{Left: 40, Top: 4, Width: 2, Height: 2}, Color: render.RGBWhite},
		Pose:    timeline.Pose{Transform: timeline.Transform{Scale: 1}, Opacity: 0.9},
	}
	large := playback.Pose{
		Element: &playback.Element{Kind: playback.KindDust, Size: 5, Origin: glyph.Rect{Left: 56, Top: 4, Width: 5, Height: 5}, Color: render.RGBWhite},
		Pose:    timeline.Pose{Transform: timeline.Transform{Scale: 1}, Opacity: 0.9},
	}
	if err := term.Draw([]playback.Pose{faded, small, large}); err != nil {
		t.Fatalf("Draw: %v", err)
	}

	_, _, style, _ := screen.GetContent(0, 0)
	fg, _, attrs := style.Decompose()
	if attrs&tcell.AttrDim == 0 {
		t.Error("faded petal not dim")
	}
	want := render.Blend(visual.RgbBackground, render.RGB{R: 255, G: 100, B: 150}, 0.3)
	if fg != render.RGBToTcell(want) {
		t.Errorf("faded fg = %v, want %v", fg, want)
	}

	if got := runeAt(screen, 5, 0); got != '·' {
		t.Errorf("small dust = %q", got)
	}
	if got := runeAt(screen, 7, 0); got != '•' {
		t.Errorf("large dust = %q", got)
	}
}
