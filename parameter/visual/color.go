package visual

import (
	"github.com/lixenwraith/petal-bloom/render"
)

// Tokyo Night document palette
var (
	RgbBackground = render.RGB{R: 26, G: 27, B: 38}
	RgbForeground = render.RGB{R: 192, G: 202, B: 245}
	RgbHeading    = render.RGB{R: 122, G: 162, B: 247}
	RgbEmphasis   = render.RGB{R: 187, G: 154, B: 247}
	RgbCode       = render.RGB{R: 158, G: 206, B: 106}
	RgbLink       = render.RGB{R: 125, G: 207, B: 255}
	RgbMuted      = render.RGB{R: 86, G: 95, B: 137}
	RgbBullet     = render.RGB{R: 255, G: 158, B: 100}
)

// AccentLighten is the luminance step, in percent, from a petal color to its gradient accent
const AccentLighten = 12.0

// Dust glyphs by size, terminal host only
const (
	DustSmall = '·'
	DustLarge = '•'
)
