package playback

import (
	"math"

	"github.com/lixenwraith/petal-bloom/glyph"
	"github.com/lixenwraith/petal-bloom/parameter/visual"
	"github.com/lixenwraith/petal-bloom/preset"
	"github.com/lixenwraith/petal-bloom/render"
	"github.com/lixenwraith/petal-bloom/timeline"
	"github.com/lixenwraith/petal-bloom/trajectory"
)

// Keyframe offsets of a half timeline
const (
	offsetSplit  = 0.15
	offsetTumble = 0.55

	splitTilt      = 8.0 // degrees
	tumbleOpacity  = 0.6
	convergeFinish = 0.85

	dustStartScale = 0.6
	dustEndScale   = 1.1
	dustOpacity    = 0.9
)

// HalfKeyframes builds the four-stop timeline of one half.
// split carries the half's sign: negative for left, positive for right
func HalfKeyframes(tr trajectory.Trajectory, split, rotateZ float64, params preset.Parameters) []timeline.Keyframe {
	dir := -1.0
	if split > 0 {
		dir = 1
	}

	end := timeline.Keyframe{Offset: 1, Transform: timeline.Identity(), Opacity: 1}
	if params.Converges() {
		end.Transform.TranslateX = tr.Convergence.DX
		end.Transform.TranslateY = tr.Convergence.DY
		end.Opacity = convergeFinish
	}

	return []timeline.Keyframe{
		{Offset: 0, Transform: timeline.Identity(), Opacity: 1},
		{
			Offset: offsetSplit,
			Transform: timeline.Transform{
				TranslateX: split,
				TranslateY: dir,
				RotateZ:    dir * splitTilt,
				RotateX:    tr.RotateX / 2,
				RotateY:    tr.RotateY / 2,
				Scale:      1,
			},
			Opacity: 1,
		},
		{
			Offset: offsetTumble,
			Transform: timeline.Transform{
				TranslateX: tr.Sway.DX,
				TranslateY: tr.Sway.DY,
				TranslateZ: params.DepthZ,
				RotateZ:    rotateZ,
				RotateX:    tr.RotateX,
				RotateY:    tr.RotateY,
				Scale:      1,
			},
			Opacity: tumbleOpacity,
		},
		end,
	}
}

// DustKeyframes builds the two-stop dust timeline
func DustKeyframes(d trajectory.Dust) []timeline.Keyframe {
	return []timeline.Keyframe{
		{Offset: 0, Transform: timeline.Transform{Scale: dustStartScale}, Opacity: dustOpacity},
		{
			Offset:    1,
			Transform: timeline.Transform{TranslateX: d.Offset.DX, TranslateY: d.Offset.DY, Scale: dustEndScale},
			Opacity:   0,
		},
	}
}

// PetalColor returns the rounded HSL color of a trajectory and its gradient accent
func PetalColor(c trajectory.Color) (base, accent render.RGB) {
	base = render.HSL(math.Round(c.Hue), math.Round(c.Saturation), math.Round(c.Luminance))
	return base, render.Lighten(base, visual.AccentLighten)
}

// BuildElements creates two halves per glyph followed by its optional dust, in piece order
func BuildElements(region glyph.Rect, pieces []glyph.Piece, plans []trajectory.Trajectory, params preset.Parameters) []Element {
	n := min(len(pieces), len(plans))
	elements := make([]Element, 0, n*2+n/2)
	easing := timeline.MustParseEasing(params.Easing)
	dustDuration := params.Duration * 7 / 10

	var dustTint render.RGB
	if !params.DustTint.IsZero() {
		dustTint = render.HSL(params.DustTint.Hue, params.DustTint.Saturation, params.DustTint.Luminance)
	}

	for i := 0; i < n; i++ {
		piece, tr := pieces[i], plans[i]
		origin := piece.Box.RelativeTo(region)
		color, accent := PetalColor(tr.Color)

		for _, half := range [...]struct {
			side  Side
			split float64
			rz    float64
		}{
			{SideLeft, -tr.Split, tr.RotateZLeft},
			{SideRight, tr.Split, tr.RotateZRight},
		} {
			elements = append(elements, Element{
				ID:            len(elements),
				Kind:          KindHalf,
				Side:          half.side,
				Glyph:         i,
				Char:          piece.Char,
				Style:         piece.Style,
				Origin:        origin,
				Color:         color,
				Accent:        accent,
				GradientAngle: math.Round(tr.Color.GradientAngle),
				Timeline: timeline.New(
					HalfKeyframes(tr, half.split, half.rz, params),
					easing, tr.Delay, params.Duration,
				),
			})
		}

		if tr.Dust == nil {
			continue
		}
		cx, cy := origin.Center()
		size := tr.Dust.Size
		dc := color
		if !params.DustTint.IsZero() {
			dc = dustTint
		}
		elements = append(elements, Element{
			ID:     len(elements),
			Kind:   KindDust,
			Glyph:  i,
			Origin: glyph.Rect{Left: cx - size/2, Top: cy - size/2, Width: size, Height: size},
			Color:  dc,
			Accent: render.Lighten(dc, visual.AccentLighten),
			Size:   size,
			Timeline: timeline.New(
				DustKeyframes(*tr.Dust),
				easing, tr.Delay, dustDuration,
			),
		})
	}
	return elements
}
