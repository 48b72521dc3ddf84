package timeline

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Easing maps linear progress in [0,1] to eased progress
type Easing interface {
	Ease(p float64) float64
}

// Linear is the identity easing
type Linear struct{}

// Ease implements Easing
func (Linear) Ease(p float64) float64 { return clamp01(p) }

// CubicBezier is a CSS cubic-bezier timing function with endpoints (0,0) and (1,1)
type CubicBezier struct {
	X1, Y1, X2, Y2 float64
}

// Named CSS timing functions
var (
	Ease      = CubicBezier{0.25, 0.1, 0.25, 1}
	EaseIn    = CubicBezier{0.42, 0, 1, 1}
	EaseOut   = CubicBezier{0, 0, 0.58, 1}
	EaseInOut = CubicBezier{0.42, 0, 0.58, 1}
)

const (
	newtonIterations = 8
	newtonEpsilon    = 1e-7
	bisectIterations = 40
)

func bezier(a1, a2, t float64) float64 {
	// B(t) = 3(1-t)^2 t a1 + 3(1-t) t^2 a2 + t^3
	u := 1 - t
	return 3*u*u*t*a1 + 3*u*t*t*a2 + t*t*t
}

func bezierSlope(a1, a2, t float64) float64 {
	u := 1 - t
	return 3*u*u*a1 + 6*u*t*(a2-a1) + 3*t*t*(1-a2)
}

// Ease solves x(t) = p for t and returns y(t)
func (c CubicBezier) Ease(p float64) float64 {
	if p <= 0 {
		return 0
	}
	if p >= 1 {
		return 1
	}
	if c.X1 == c.Y1 && c.X2 == c.Y2 {
		return p
	}

	t := p
	for range newtonIterations {
		x := bezier(c.X1, c.X2, t) - p
		if math.Abs(x) < newtonEpsilon {
			return bezier(c.Y1, c.Y2, t)
		}
		d := bezierSlope(c.X1, c.X2, t)
		if math.Abs(d) < 1e-6 {
			break
		}
		t -= x / d
	}

	// Newton failed to converge, x(t) is monotonic for X1,X2 in [0,1]
	lo, hi := 0.0, 1.0
	t = p
	for range bisectIterations {
		x := bezier(c.X1, c.X2, t)
		if math.Abs(x-p) < newtonEpsilon {
			break
		}
		if x < p {
			lo = t
		} else {
			hi = t
		}
		t = (lo + hi) / 2
	}
	return bezier(c.Y1, c.Y2, t)
}

// ParseEasing parses a CSS timing function: linear, ease, ease-in, ease-out,
// ease-in-out or cubic-bezier(x1, y1, x2, y2)
func ParseEasing(s string) (Easing, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	switch s {
	case "", "linear":
		return Linear{}, nil
	case "ease":
		return Ease, nil
	case "ease-in":
		return EaseIn, nil
	case "ease-out":
		return EaseOut, nil
	case "ease-in-out":
		return EaseInOut, nil
	}

	inner, ok := strings.CutPrefix(s, "cubic-bezier(")
	if !ok || !strings.HasSuffix(inner, ")") {
		return nil, fmt.Errorf("unsupported easing %q", s)
	}
	parts := strings.Split(strings.TrimSuffix(inner, ")"), ",")
	if len(parts) != 4 {
		return nil, fmt.Errorf("cubic-bezier needs 4 arguments, got %d", len(parts))
	}
	var v [4]float64
	for i, part := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
		if err != nil {
			return nil, fmt.Errorf("cubic-bezier argument %d: %w", i+1, err)
		}
		v[i] = f
	}
	if v[0] < 0 || v[0] > 1 || v[2] < 0 || v[2] > 1 {
		return nil, fmt.Errorf("cubic-bezier x values must be in [0,1]: %q", s)
	}
	return CubicBezier{X1: v[0], Y1: v[1], X2: v[2], Y2: v[3]}, nil
}

// MustParseEasing is ParseEasing that falls back to Linear on error
func MustParseEasing(s string) Easing {
	e, err := ParseEasing(s)
	if err != nil {
		return Linear{}
	}
	return e
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
