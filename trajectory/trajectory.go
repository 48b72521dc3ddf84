// Package trajectory plans the randomized split, drift, tumble and convergence
// of every extracted glyph.
package trajectory

import (
	"math"
	"math/rand/v2"
	"time"

	"github.com/lixenwraith/petal-bloom/glyph"
	"github.com/lixenwraith/petal-bloom/preset"
)

// Offset is a 2D displacement in px
type Offset struct {
	DX, DY float64
}

// Color is the per-glyph color shared by both halves
type Color struct {
	Hue, Saturation, Luminance, GradientAngle float64
}

// Dust is an ambient particle emitted at the glyph center
type Dust struct {
	Size   float64 // px diameter
	Offset Offset  // travel over the dust lifetime
}

// Trajectory is the motion plan of one glyph's two halves
type Trajectory struct {
	Index int
	Color Color

	// Drift is the raw radial displacement; Sway is Drift scaled per axis and is
	// what both halves reach at the tumble keyframe
	Drift Offset
	Sway  Offset

	// Split is the tear magnitude; the left half moves by -Split, the right by +Split
	Split float64

	RotateZLeft  float64
	RotateZRight float64
	RotateX      float64
	RotateY      float64

	Convergence Offset
	Delay       time.Duration
	Dust        *Dust
}

// Planner draws trajectories from one injected random source.
// Draw order per glyph is fixed so a seeded source reproduces plans exactly
type Planner struct {
	params preset.Parameters
	rng    *rand.Rand
}

// NewPlanner creates a planner over params using rng
func NewPlanner(params preset.Parameters, rng *rand.Rand) *Planner {
	return &Planner{params: params, rng: rng}
}

// NewSource returns a PCG source seeded from seed
func NewSource(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// Plan returns one trajectory per piece, in piece order
func (p *Planner) Plan(pieces []glyph.Piece, region glyph.Rect) []Trajectory {
	plans := make([]Trajectory, len(pieces))
	for i, piece := range pieces {
		plans[i] = p.PlanOne(i, len(pieces), piece, region)
	}
	return plans
}

func (p *Planner) uniform(r preset.Range) float64 {
	return r.Min + p.rng.Float64()*(r.Max-r.Min)
}

// PlanOne plans glyph index of total
func (p *Planner) PlanOne(index, total int, piece glyph.Piece, region glyph.Rect) Trajectory {
	params := p.params
	tr := Trajectory{Index: index}

	tr.Color = Color{
		Hue:           p.uniform(params.Hue),
		Saturation:    p.uniform(params.Saturation),
		Luminance:     p.uniform(params.Luminance),
		GradientAngle: p.uniform(params.GradientAngle),
	}

	angle := p.rng.Float64() * 2 * math.Pi
	base := math.Min(region.Width, region.Height)
	radius := params.BaseRadius + p.rng.Float64()*(base*params.RadiusFactor)
	tr.Drift = Offset{DX: math.Cos(angle) * radius, DY: math.Sin(angle) * radius}

	tr.Split = p.uniform(params.Split)

	delayMs := p.uniform(params.Delay)
	if params.DelayCadenceModulus > 0 {
		delayMs += float64(index%params.DelayCadenceModulus) * params.DelayCadenceStep
	}
	tr.Delay = msToDuration(delayMs)

	tr.Sway = Offset{
		DX: tr.Drift.DX * (0.6 + p.rng.Float64()*0.4),
		DY: tr.Drift.DY * (0.6 + p.rng.Float64()*0.4),
	}

	tr.RotateZLeft = -p.uniform(params.RotateZ)
	tr.RotateZRight = p.uniform(params.RotateZ)
	tr.RotateX = p.uniform(preset.Range{Min: -params.RotateX, Max: params.RotateX})
	tr.RotateY = p.uniform(preset.Range{Min: -params.RotateY, Max: params.RotateY})

	if params.Converges() {
		rel := piece.Box.RelativeTo(region)
		cx, cy := rel.Center()
		tx, ty := ConvergeTarget(index, total, region, params)
		tr.Convergence = Offset{DX: tx - cx, DY: ty - cy}
	}

	if p.rng.Float64() < params.DustProbability {
		size := 2 + p.rng.Float64()*3
		tr.Dust = &Dust{
			Size: size,
			Offset: Offset{
				DX: tr.Drift.DX * (0.5 + p.rng.Float64()*0.4),
				DY: tr.Drift.DY * (0.5 + p.rng.Float64()*0.4),
			},
		}
	}

	return tr
}

// MaxDelay returns the largest delay params can produce
func MaxDelay(params preset.Parameters) time.Duration {
	ms := params.Delay.Max
	if params.DelayCadenceModulus > 0 {
		ms += float64(params.DelayCadenceModulus-1) * params.DelayCadenceStep
	}
	return msToDuration(ms)
}

func msToDuration(ms float64) time.Duration {
	return time.Duration(ms * float64(time.Millisecond))
}
