// Package preset resolves named animation styles into immutable parameter bundles.
package preset

import (
	"strings"
	"time"
)

// Name identifies a preset
type Name string

const (
	Sakura Name = "sakura"
	Neon   Name = "neon"
	Gold   Name = "gold"
	Shape  Name = "shape"
)

// ShapePattern selects the convergence curve of the shape preset
type ShapePattern string

const (
	Heart ShapePattern = "heart"
	Swirl ShapePattern = "swirl"
)

// ReturnMode selects where dispersed glyphs come to rest
type ReturnMode string

const (
	ReturnOriginal       ReturnMode = "original"
	ReturnConvergeCenter ReturnMode = "convergeCenter"
	ReturnConvergeShape  ReturnMode = "convergeShape"
)

// Range is a closed numeric interval sampled uniformly
type Range struct {
	Min, Max float64
}

// Tint is an HSL color, zero meaning "inherit the glyph color"
type Tint struct {
	Hue, Saturation, Luminance float64
}

// IsZero reports an unset tint
func (t Tint) IsZero() bool { return t == Tint{} }

// Parameters is the fixed bundle governing one animation.
// It is a comparable value; Resolve never shares state between calls
type Parameters struct {
	Name  Name
	Label string

	Hue           Range // degrees
	Saturation    Range // percent
	Luminance     Range // percent
	GradientAngle Range // degrees
	RotateZ       Range // degrees, sign applied per half
	RotateX       float64
	RotateY       float64
	Split         Range // px
	Delay         Range // ms

	Duration            time.Duration
	GlyphCap            int
	BaseRadius          float64
	RadiusFactor        float64
	DelayCadenceModulus int
	DelayCadenceStep    float64 // ms
	DustProbability     float64
	DustTint            Tint
	DepthZ              float64
	Easing              string

	ReturnMode   ReturnMode
	ShapePattern ShapePattern
	ShapeScale   float64
}

// Converges reports whether glyphs end away from their origin
func (p Parameters) Converges() bool {
	return p.ReturnMode != ReturnOriginal
}

// WithReturnMode returns a copy with a different return mode.
// Shape convergence borrows the shape preset's scale when the bundle has none
func (p Parameters) WithReturnMode(mode ReturnMode) Parameters {
	p.ReturnMode = mode
	if mode == ReturnConvergeShape {
		if p.ShapeScale <= 0 {
			p.ShapeScale = shape.ShapeScale
		}
		p.ShapePattern = normalizeShape(p.ShapePattern)
	}
	return p
}

// WithShapePattern returns a copy converging on pattern, heart when unrecognized
func (p Parameters) WithShapePattern(pattern ShapePattern) Parameters {
	p.ShapePattern = normalizeShape(pattern)
	return p
}

// WithGlyphCap returns a copy with a different glyph cap
func (p Parameters) WithGlyphCap(n int) Parameters {
	if n < 0 {
		n = 0
	}
	p.GlyphCap = n
	return p
}

var sakura = Parameters{
	Name:                Sakura,
	Label:               "Sakura Dream",
	Hue:                 Range{328, 350},
	Saturation:          Range{70, 90},
	Luminance:           Range{68, 86},
	GradientAngle:       Range{40, 100},
	RotateZ:             Range{10, 28},
	RotateX:             12,
	RotateY:             28,
	Split:               Range{6, 12},
	Delay:               Range{0, 140},
	Duration:            2400 * time.Millisecond,
	GlyphCap:            2200,
	BaseRadius:          50,
	RadiusFactor:        0.25,
	DelayCadenceModulus: 16,
	DelayCadenceStep:    8,
	DustProbability:     0.35,
	DustTint:            Tint{335, 85, 78},
	DepthZ:              30,
	Easing:              "cubic-bezier(0.22, 1, 0.36, 1)",
	ReturnMode:          ReturnOriginal,
}

var neon = Parameters{
	Name:                Neon,
	Label:               "Neon Cyber",
	Hue:                 Range{180, 320},
	Saturation:          Range{90, 100},
	Luminance:           Range{50, 65},
	GradientAngle:       Range{0, 180},
	RotateZ:             Range{20, 40},
	RotateX:             22,
	RotateY:             40,
	Split:               Range{8, 16},
	Delay:               Range{20, 160},
	Duration:            1800 * time.Millisecond,
	GlyphCap:            2000,
	BaseRadius:          70,
	RadiusFactor:        0.35,
	DelayCadenceModulus: 14,
	DelayCadenceStep:    10,
	DustProbability:     0.3,
	DustTint:            Tint{200, 100, 60},
	DepthZ:              40,
	Easing:              "cubic-bezier(0.16, 1, 0.3, 1)",
	ReturnMode:          ReturnOriginal,
}

var gold = Parameters{
	Name:                Gold,
	Label:               "Golden Grace",
	Hue:                 Range{42, 55},
	Saturation:          Range{75, 90},
	Luminance:           Range{55, 72},
	GradientAngle:       Range{20, 60},
	RotateZ:             Range{6, 14},
	RotateX:             8,
	RotateY:             18,
	Split:               Range{4, 10},
	Delay:               Range{0, 120},
	Duration:            1700 * time.Millisecond,
	GlyphCap:            1800,
	BaseRadius:          40,
	RadiusFactor:        0.22,
	DelayCadenceModulus: 18,
	DelayCadenceStep:    6,
	DustProbability:     0.18,
	DustTint:            Tint{45, 95, 62},
	DepthZ:              24,
	Easing:              "cubic-bezier(0.25, 1, 0.5, 1)",
	ReturnMode:          ReturnOriginal,
}

var shape = Parameters{
	Name:                Shape,
	Label:               "Shape Convergence",
	Hue:                 Range{320, 340},
	Saturation:          Range{70, 95},
	Luminance:           Range{60, 80},
	GradientAngle:       Range{30, 90},
	RotateZ:             Range{10, 26},
	RotateX:             14,
	RotateY:             30,
	Split:               Range{6, 12},
	Delay:               Range{0, 150},
	Duration:            2200 * time.Millisecond,
	GlyphCap:            2000,
	BaseRadius:          60,
	RadiusFactor:        0.28,
	DelayCadenceModulus: 16,
	DelayCadenceStep:    8,
	DustProbability:     0.28,
	DepthZ:              30,
	Easing:              "cubic-bezier(0.22, 1, 0.36, 1)",
	ReturnMode:          ReturnConvergeShape,
	ShapePattern:        Heart,
	ShapeScale:          0.42,
}

// Resolve returns the parameters of the named preset.
// Unknown names fall back to the shape preset; pattern only affects that preset
func Resolve(name string, pattern ShapePattern) Parameters {
	switch Name(strings.ToLower(strings.TrimSpace(name))) {
	case Sakura:
		return sakura
	case Neon:
		return neon
	case Gold:
		return gold
	}
	p := shape
	p.ShapePattern = normalizeShape(pattern)
	return p
}

// Names returns preset names in display order
func Names() []Name {
	return []Name{Sakura, Neon, Gold, Shape}
}

// Known reports whether name is one of the fixed presets
func Known(name string) bool {
	n := Name(strings.ToLower(strings.TrimSpace(name)))
	for _, known := range Names() {
		if n == known {
			return true
		}
	}
	return false
}

// ParseShape maps user input to a shape pattern, heart when unrecognized
func ParseShape(s string) ShapePattern {
	return normalizeShape(ShapePattern(strings.ToLower(strings.TrimSpace(s))))
}

// ParseReturnMode maps user input to a return mode.
// Accepts the canonical names plus the short forms "center" and "shape"
func ParseReturnMode(s string) (ReturnMode, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "original":
		return ReturnOriginal, true
	case "center", "convergecenter":
		return ReturnConvergeCenter, true
	case "shape", "convergeshape":
		return ReturnConvergeShape, true
	}
	return "", false
}

func normalizeShape(p ShapePattern) ShapePattern {
	if p == Swirl {
		return Swirl
	}
	return Heart
}
