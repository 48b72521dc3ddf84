package render

// Attr is a text attribute bitmask carried through to the terminal
type Attr uint8

const (
	AttrNone Attr = 0
	AttrBold Attr = 1 << 0
	AttrDim  Attr = 1 << 1
)

// BlendMode selects how a foreground write composites onto a cell
type BlendMode uint8

const (
	// BlendReplace overwrites the foreground
	BlendReplace BlendMode = iota
	// BlendAlpha composites foreground over the cell background by alpha
	BlendAlpha
	// BlendScreen lightens the existing foreground, used for overlapping dust
	BlendScreen
)

// Cell is one grid position. Text holds a full grapheme cluster; empty means blank
type Cell struct {
	Text  string
	Fg    RGB
	Bg    RGB
	Attrs Attr
}

// Buffer is a row-major cell compositor, flushed to the screen by the terminal surface
type Buffer struct {
	cells  []Cell
	width  int
	height int
	bg     RGB
}

// NewBuffer creates a buffer with the specified dimensions filled with bg
func NewBuffer(width, height int, bg RGB) *Buffer {
	b := &Buffer{bg: bg}
	b.Resize(width, height)
	return b
}

// Resize adjusts buffer dimensions, reallocates only if capacity insufficient
func (b *Buffer) Resize(width, height int) {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	size := width * height
	if cap(b.cells) < size {
		b.cells = make([]Cell, size)
	} else {
		b.cells = b.cells[:size]
	}
	b.width = width
	b.height = height
	b.Clear()
}

// Clear resets all cells to blank using exponential copy
func (b *Buffer) Clear() {
	if len(b.cells) == 0 {
		return
	}
	b.cells[0] = Cell{Fg: b.bg, Bg: b.bg}
	for filled := 1; filled < len(b.cells); filled *= 2 {
		copy(b.cells[filled:], b.cells[:filled])
	}
}

// Bounds returns buffer dimensions
func (b *Buffer) Bounds() (width, height int) {
	return b.width, b.height
}

// Background returns the fill color
func (b *Buffer) Background() RGB {
	return b.bg
}

func (b *Buffer) inBounds(x, y int) bool {
	return x >= 0 && x < b.width && y >= 0 && y < b.height
}

// Set writes text with fg composited by mode. Out of bounds writes are dropped
func (b *Buffer) Set(x, y int, text string, fg RGB, mode BlendMode, alpha float64, attrs Attr) {
	if !b.inBounds(x, y) {
		return
	}
	dst := &b.cells[y*b.width+x]

	switch mode {
	case BlendReplace:
		dst.Fg = fg
	case BlendAlpha:
		dst.Fg = Blend(dst.Bg, fg, alpha)
	case BlendScreen:
		if dst.Text == "" {
			dst.Fg = Blend(dst.Bg, fg, alpha)
		} else {
			dst.Fg = Screen(dst.Fg, fg, alpha)
		}
	}
	if text != "" {
		dst.Text = text
		dst.Attrs = attrs
	}
}

// Get returns the cell at x,y; zero Cell when out of bounds
func (b *Buffer) Get(x, y int) Cell {
	if !b.inBounds(x, y) {
		return Cell{}
	}
	return b.cells[y*b.width+x]
}

// Each visits all cells in row-major order
func (b *Buffer) Each(fn func(x, y int, c Cell)) {
	for i, c := range b.cells {
		fn(i%b.width, i/b.width, c)
	}
}
