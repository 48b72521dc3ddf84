package trajectory

import (
	"math"
	"testing"

	"github.com/lixenwraith/petal-bloom/glyph"
	"github.com/lixenwraith/petal-bloom/preset"
)

func TestHeartTargetAtZeroIsBottomCusp(t *testing.T) {
	params := preset.Resolve("shape", preset.Heart)
	scale := math.Min(testRegion.Width, testRegion.Height) * params.ShapeScale * heartUnit

	x, y := ConvergeTarget(0, 1000, testRegion, params)
	wantX := testRegion.Width / 2
	wantY := testRegion.Height/2 - (13-5-2-1)*scale
	if math.Abs(x-wantX) > 1e-9 || math.Abs(y-wantY) > 1e-9 {
		t.Errorf("heart(t=0) = (%v,%v), want (%v,%v)", x, y, wantX, wantY)
	}
	// 400 * 0.42 * 0.03 = 5.04 px per unit, 5 units above center
	if math.Abs(y-(200-25.2)) > 1e-9 {
		t.Errorf("heart(t=0) y = %v, want 174.8", y)
	}
}

func TestHeartPointClosedForm(t *testing.T) {
	x, y := HeartPoint(math.Pi / 2)
	if math.Abs(x-16) > 1e-9 {
		t.Errorf("x(pi/2) = %v, want 16", x)
	}
	// 13cos(pi/2) - 5cos(pi) - 2cos(3pi/2) - cos(2pi) = 0 + 5 - 0 - 1
	if math.Abs(y-4) > 1e-9 {
		t.Errorf("y(pi/2) = %v, want 4", y)
	}
}

func TestSwirlRadiusShrinksWithIndex(t *testing.T) {
	params := preset.Resolve("shape", preset.Swirl)
	total := 120
	maxR := math.Min(testRegion.Width, testRegion.Height) * params.ShapeScale

	prev := math.Inf(1)
	for i := 0; i <= total; i++ {
		r := SwirlRadius(i, total, testRegion, params)
		if r >= prev {
			t.Fatalf("radius not strictly decreasing at %d: %v >= %v", i, r, prev)
		}
		prev = r
	}
	if r := SwirlRadius(0, total, testRegion, params); math.Abs(r-maxR) > 1e-9 {
		t.Errorf("radius(0) = %v, want %v", r, maxR)
	}
	if r := SwirlRadius(total, total, testRegion, params); r != 0 {
		t.Errorf("radius(T) = %v, want 0", r)
	}
}

func TestSwirlTargetsLieOnRadius(t *testing.T) {
	params := preset.Resolve("shape", preset.Swirl)
	total := 40
	for i := 0; i < total; i++ {
		x, y := ConvergeTarget(i, total, testRegion, params)
		d := math.Hypot(x-testRegion.Width/2, y-testRegion.Height/2)
		if want := SwirlRadius(i, total, testRegion, params); math.Abs(d-want) > 1e-9 {
			t.Errorf("glyph %d at distance %v, want %v", i, d, want)
		}
	}
}

func TestConvergeTargetCenterAndEmpty(t *testing.T) {
	center := preset.Resolve("gold", preset.Heart).WithReturnMode(preset.ReturnConvergeCenter)
	if x, y := ConvergeTarget(3, 10, testRegion, center); x != 400 || y != 200 {
		t.Errorf("center target = %v,%v", x, y)
	}
	shape := preset.Resolve("shape", preset.Heart)
	if x, y := ConvergeTarget(0, 0, glyph.Rect{Width: 10, Height: 10}, shape); x != 5 || y != 5 {
		t.Errorf("zero total target = %v,%v", x, y)
	}
	if SwirlRadius(0, 0, testRegion, shape) != 0 {
		t.Error("zero total radius should be 0")
	}
}
