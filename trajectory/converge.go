package trajectory

import (
	"math"

	"github.com/lixenwraith/petal-bloom/glyph"
	"github.com/lixenwraith/petal-bloom/preset"
)

const (
	// heartUnit scales the unit heart curve (x in [-16,16]) to the region
	heartUnit = 0.03
	// swirlTurns is the number of revolutions traced across all glyphs
	swirlTurns = 1.5
)

// ConvergeTarget returns the region-relative resting point of glyph index of total.
// For ReturnOriginal the caller applies no convergence; the region center is returned
func ConvergeTarget(index, total int, region glyph.Rect, params preset.Parameters) (x, y float64) {
	cx, cy := region.Width/2, region.Height/2
	if params.ReturnMode != preset.ReturnConvergeShape || total <= 0 {
		return cx, cy
	}

	t := float64(index) / float64(total) * 2 * math.Pi
	if params.ShapePattern == preset.Swirl {
		angle := t * swirlTurns
		r := SwirlRadius(index, total, region, params)
		return cx + math.Cos(angle)*r, cy + math.Sin(angle)*r
	}

	hx, hy := HeartPoint(t)
	scale := math.Min(region.Width, region.Height) * params.ShapeScale * heartUnit
	// Curve y grows upward, screen y grows downward
	return cx + hx*scale, cy - hy*scale
}

// HeartPoint evaluates the classic heart curve at t radians
func HeartPoint(t float64) (x, y float64) {
	s := math.Sin(t)
	x = 16 * s * s * s
	y = 13*math.Cos(t) - 5*math.Cos(2*t) - 2*math.Cos(3*t) - math.Cos(4*t)
	return x, y
}

// SwirlRadius is the distance from center of glyph index on the swirl.
// It shrinks linearly with reading order, not with elapsed time: the first
// glyph lands on the outer ring and glyph total would land on the center
func SwirlRadius(index, total int, region glyph.Rect, params preset.Parameters) float64 {
	if total <= 0 {
		return 0
	}
	maxR := math.Min(region.Width, region.Height) * params.ShapeScale
	return maxR * (1 - float64(index)/float64(total))
}
