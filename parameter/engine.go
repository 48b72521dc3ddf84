package parameter

import "time"

// Playback timing
const (
	// FrameUpdateInterval is the overlay frame interval (~60 FPS)
	FrameUpdateInterval = 16 * time.Millisecond

	// TeardownMargin is added to the preset duration before the overlay is removed
	TeardownMargin = 200 * time.Millisecond

	// RecordFrameInterval is the GIF frame interval; GIF delays are in 1/100 s
	RecordFrameInterval = 40 * time.Millisecond
)

// Layout defaults
const (
	// DefaultFontSizePx is the body text size of the raster host
	DefaultFontSizePx = 16.0

	// DefaultRenderWidth is the raster canvas width in px
	DefaultRenderWidth = 800

	// DefaultRenderHeight is the raster canvas height in px
	DefaultRenderHeight = 400

	// PerspectivePx is the viewer distance for depth scaling
	PerspectivePx = 600.0
)

// Heading sizes by level, index 0 unused
var HeadingScale = [7]float64{1, 2.0, 1.6, 1.35, 1.15, 1.05, 1.0}

// Terminal overlay
const (
	// DepthBoldPx is the z translation past which a petal renders bold
	DepthBoldPx = 12.0

	// DimOpacity is the opacity below which a petal renders dim
	DimOpacity = 0.5

	// DustLargePx is the scaled dust diameter drawn with the large glyph
	DustLargePx = 3.5
)
