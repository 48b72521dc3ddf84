package trajectory

import (
	"math"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/lixenwraith/petal-bloom/glyph"
	"github.com/lixenwraith/petal-bloom/preset"
)

var testRegion = glyph.Rect{Left: 0, Top: 0, Width: 800, Height: 400}

func linePieces(n int) []glyph.Piece {
	pieces := make([]glyph.Piece, n)
	for i := range pieces {
		pieces[i] = glyph.Piece{
			Char: "a",
			Box:  glyph.Rect{Left: float64(10 + (i%70)*10), Top: float64(20 + (i/70)*20), Width: 10, Height: 20},
		}
	}
	return pieces
}

func TestPlanDeterministicWithSeed(t *testing.T) {
	params := preset.Resolve("shape", preset.Heart)
	pieces := linePieces(50)

	a := NewPlanner(params, NewSource(42)).Plan(pieces, testRegion)
	b := NewPlanner(params, NewSource(42)).Plan(pieces, testRegion)
	if diff := cmp.Diff(a, b); diff != "" {
		t.Fatalf("same seed produced different plans (-a +b):\n%s", diff)
	}

	c := NewPlanner(params, NewSource(43)).Plan(pieces, testRegion)
	if cmp.Equal(a, c) {
		t.Error("different seeds produced identical plans")
	}
}

func TestOriginalModeHasNoConvergence(t *testing.T) {
	for _, name := range []string{"sakura", "neon", "gold"} {
		params := preset.Resolve(name, preset.Heart)
		for _, n := range []int{1, 7, 300} {
			for _, tr := range NewPlanner(params, NewSource(1)).Plan(linePieces(n), testRegion) {
				if tr.Convergence != (Offset{}) {
					t.Fatalf("%s: glyph %d/%d has convergence %+v", name, tr.Index, n, tr.Convergence)
				}
			}
		}
	}
}

func TestPlanRangesAndSigns(t *testing.T) {
	params := preset.Resolve("neon", preset.Heart)
	base := math.Min(testRegion.Width, testRegion.Height)
	maxRadius := params.BaseRadius + base*params.RadiusFactor

	for _, tr := range NewPlanner(params, NewSource(7)).Plan(linePieces(200), testRegion) {
		if tr.Split < params.Split.Min || tr.Split > params.Split.Max {
			t.Errorf("split %v out of range", tr.Split)
		}
		if tr.RotateZLeft > -params.RotateZ.Min || tr.RotateZLeft < -params.RotateZ.Max {
			t.Errorf("left rz %v not in [-max,-min]", tr.RotateZLeft)
		}
		if tr.RotateZRight < params.RotateZ.Min || tr.RotateZRight > params.RotateZ.Max {
			t.Errorf("right rz %v out of range", tr.RotateZRight)
		}
		if math.Abs(tr.RotateX) > params.RotateX || math.Abs(tr.RotateY) > params.RotateY {
			t.Errorf("rx/ry out of symmetric range: %v %v", tr.RotateX, tr.RotateY)
		}
		r := math.Hypot(tr.Drift.DX, tr.Drift.DY)
		if r < params.BaseRadius-1e-9 || r > maxRadius+1e-9 {
			t.Errorf("drift radius %v outside [%v,%v]", r, params.BaseRadius, maxRadius)
		}
		// Sway keeps the drift direction per axis at 60-100% magnitude
		for _, pair := range [][2]float64{{tr.Drift.DX, tr.Sway.DX}, {tr.Drift.DY, tr.Sway.DY}} {
			if pair[0] == 0 {
				continue
			}
			ratio := pair[1] / pair[0]
			if ratio < 0.6-1e-9 || ratio > 1+1e-9 {
				t.Errorf("sway ratio %v outside [0.6,1]", ratio)
			}
		}
		c := tr.Color
		if c.Hue < params.Hue.Min || c.Hue > params.Hue.Max || c.Luminance < params.Luminance.Min || c.Luminance > params.Luminance.Max {
			t.Errorf("color out of range: %+v", c)
		}
		if tr.Dust != nil {
			if tr.Dust.Size < 2 || tr.Dust.Size > 5 {
				t.Errorf("dust size %v", tr.Dust.Size)
			}
		}
	}
}

func TestDelayCadence(t *testing.T) {
	params := preset.Resolve("gold", preset.Heart)
	for _, tr := range NewPlanner(params, NewSource(3)).Plan(linePieces(60), testRegion) {
		cadence := float64(tr.Index%params.DelayCadenceModulus) * params.DelayCadenceStep
		lo := msToDuration(params.Delay.Min + cadence)
		hi := msToDuration(params.Delay.Max + cadence)
		if tr.Delay < lo || tr.Delay > hi {
			t.Errorf("glyph %d delay %v outside [%v,%v]", tr.Index, tr.Delay, lo, hi)
		}
	}
	if got, want := MaxDelay(params), 222*time.Millisecond; got != want {
		t.Errorf("MaxDelay = %v, want %v", got, want)
	}
}

func TestDustFrequencyFollowsProbability(t *testing.T) {
	params := preset.Resolve("sakura", preset.Heart)
	plans := NewPlanner(params, NewSource(11)).Plan(linePieces(4000), testRegion)
	dust := 0
	for _, tr := range plans {
		if tr.Dust != nil {
			dust++
			ratioX := tr.Dust.Offset.DX / tr.Drift.DX
			if tr.Drift.DX != 0 && (ratioX < 0.5-1e-9 || ratioX > 0.9+1e-9) {
				t.Errorf("dust travel ratio %v outside [0.5,0.9]", ratioX)
			}
		}
	}
	rate := float64(dust) / float64(len(plans))
	if math.Abs(rate-params.DustProbability) > 0.05 {
		t.Errorf("dust rate %v, want about %v", rate, params.DustProbability)
	}

	never := params
	never.DustProbability = 0
	for _, tr := range NewPlanner(never, NewSource(11)).Plan(linePieces(100), testRegion) {
		if tr.Dust != nil {
			t.Fatal("dust emitted with zero probability")
		}
	}
}

func TestConvergenceDeltaTargetsCenter(t *testing.T) {
	params := preset.Resolve("gold", preset.Heart).WithReturnMode(preset.ReturnConvergeCenter)
	region := glyph.Rect{Left: 100, Top: 50, Width: 800, Height: 400}
	piece := glyph.Piece{Char: "x", Box: glyph.Rect{Left: 110, Top: 60, Width: 10, Height: 20}}

	tr := NewPlanner(params, NewSource(5)).PlanOne(0, 1, piece, region)
	// Glyph center relative to region is (15, 20); region center is (400, 200)
	if want := (Offset{DX: 385, DY: 180}); tr.Convergence != want {
		t.Errorf("Convergence = %+v, want %+v", tr.Convergence, want)
	}
}
