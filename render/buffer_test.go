package render

import "testing"

func TestBufferSetAndClear(t *testing.T) {
	bg := RGB{26, 27, 38}
	b := NewBuffer(4, 2, bg)

	b.Set(1, 1, "a", RGBWhite, BlendReplace, 1, AttrBold)
	c := b.Get(1, 1)
	if c.Text != "a" || c.Fg != RGBWhite || c.Attrs != AttrBold {
		t.Fatalf("Get(1,1) = %+v", c)
	}

	// Out of bounds is dropped silently
	b.Set(9, 9, "x", RGBWhite, BlendReplace, 1, AttrNone)
	if got := b.Get(9, 9); got != (Cell{}) {
		t.Errorf("out of bounds Get = %+v, want zero", got)
	}

	b.Clear()
	if c := b.Get(1, 1); c.Text != "" || c.Bg != bg {
		t.Errorf("after Clear cell = %+v", c)
	}
}

func TestBufferAlphaFadesTowardBackground(t *testing.T) {
	b := NewBuffer(1, 1, RGBBlack)
	b.Set(0, 0, "*", RGBWhite, BlendAlpha, 0.5, AttrNone)
	if got := b.Get(0, 0).Fg; got != (RGB{128, 128, 128}) {
		t.Errorf("alpha fg = %v", got)
	}
}

func TestBufferResizeAndEach(t *testing.T) {
	b := NewBuffer(2, 2, RGBBlack)
	b.Resize(3, 1)
	w, h := b.Bounds()
	if w != 3 || h != 1 {
		t.Fatalf("Bounds = %d,%d", w, h)
	}
	n := 0
	b.Each(func(x, y int, c Cell) {
		if y != 0 || x != n {
			t.Errorf("Each order: got (%d,%d) at step %d", x, y, n)
		}
		n++
	})
	if n != 3 {
		t.Errorf("Each visited %d cells, want 3", n)
	}
}
