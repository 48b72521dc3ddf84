package preset

import (
	"testing"
	"time"
)

func TestResolveKnownPresets(t *testing.T) {
	tests := []struct {
		name     string
		duration time.Duration
		dust     float64
		mode     ReturnMode
	}{
		{"sakura", 2400 * time.Millisecond, 0.35, ReturnOriginal},
		{"neon", 1800 * time.Millisecond, 0.3, ReturnOriginal},
		{"gold", 1700 * time.Millisecond, 0.18, ReturnOriginal},
		{"shape", 2200 * time.Millisecond, 0.28, ReturnConvergeShape},
		{"  GOLD ", 1700 * time.Millisecond, 0.18, ReturnOriginal},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Resolve(tt.name, Heart)
			if p.Duration != tt.duration || p.DustProbability != tt.dust || p.ReturnMode != tt.mode {
				t.Errorf("Resolve(%q) = duration %v dust %v mode %v", tt.name, p.Duration, p.DustProbability, p.ReturnMode)
			}
		})
	}
}

func TestResolveIsPure(t *testing.T) {
	for _, n := range Names() {
		a := Resolve(string(n), Swirl)
		b := Resolve(string(n), Swirl)
		if a != b {
			t.Errorf("Resolve(%s) not deterministic", n)
		}
		// Mutating a copy must not leak into later resolutions
		a.GlyphCap = -1
		if Resolve(string(n), Swirl).GlyphCap == -1 {
			t.Errorf("Resolve(%s) shares state", n)
		}
	}
}

func TestResolveUnknownFallsBackToShape(t *testing.T) {
	for _, name := range []string{"", "lotus", "SAKURA2"} {
		p := Resolve(name, Swirl)
		want := Resolve("shape", Swirl)
		if p != want {
			t.Errorf("Resolve(%q) did not fall back to shape", name)
		}
		if p.ShapePattern != Swirl {
			t.Errorf("fallback ignored pattern: %v", p.ShapePattern)
		}
	}
}

func TestShapePatternOnlyAffectsShape(t *testing.T) {
	if Resolve("gold", Swirl).ShapePattern != "" {
		t.Error("gold should not carry a shape pattern")
	}
	if Resolve("shape", "spiral").ShapePattern != Heart {
		t.Error("unknown pattern should resolve to heart")
	}
}

func TestDelaysFitTeardownMargin(t *testing.T) {
	// Dust and glyph delays stay below the duration for every preset
	for _, n := range Names() {
		p := Resolve(string(n), Heart)
		maxDelay := p.Delay.Max + float64(p.DelayCadenceModulus-1)*p.DelayCadenceStep
		if time.Duration(maxDelay*float64(time.Millisecond)) >= p.Duration {
			t.Errorf("%s: max delay %vms exceeds duration %v", n, maxDelay, p.Duration)
		}
	}
}

func TestParseHelpers(t *testing.T) {
	if ParseShape(" Swirl ") != Swirl || ParseShape("x") != Heart {
		t.Error("ParseShape mismatch")
	}
	if m, ok := ParseReturnMode("center"); !ok || m != ReturnConvergeCenter {
		t.Error("ParseReturnMode(center)")
	}
	if _, ok := ParseReturnMode("bounce"); ok {
		t.Error("ParseReturnMode should reject unknown")
	}
	if !Known("Neon") || Known("lotus") {
		t.Error("Known mismatch")
	}
	p := Resolve("gold", Heart).WithReturnMode(ReturnConvergeCenter).WithGlyphCap(-5)
	if p.ReturnMode != ReturnConvergeCenter || p.GlyphCap != 0 || !p.Converges() {
		t.Errorf("With* helpers: %+v", p)
	}
}

func TestShapeReturnOnColourPreset(t *testing.T) {
	for _, name := range []string{"sakura", "neon", "gold"} {
		p := Resolve(name, Heart).WithReturnMode(ReturnConvergeShape)
		if p.ShapeScale != shape.ShapeScale {
			t.Errorf("%s: scale = %v, want %v", name, p.ShapeScale, shape.ShapeScale)
		}
		if p.ShapePattern != Heart {
			t.Errorf("%s: pattern = %q, want heart", name, p.ShapePattern)
		}
		if p.Name != Name(name) {
			t.Errorf("%s: name changed to %s", name, p.Name)
		}
	}

	p := Resolve("neon", Heart).WithReturnMode(ReturnConvergeShape).WithShapePattern(Swirl)
	if p.ShapePattern != Swirl {
		t.Errorf("pattern = %q, want swirl", p.ShapePattern)
	}
	if Resolve("gold", Heart).WithReturnMode(ReturnConvergeCenter).ShapeScale != 0 {
		t.Error("center return should leave scale alone")
	}
}
