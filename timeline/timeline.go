// Package timeline implements keyframe timelines sampled against elapsed time,
// mirroring the behavior of a CSS animation with fill-mode forwards.
package timeline

import (
	"sort"
	"time"
)

// Transform is the composed translate3d/rotate/rotateX/rotateY/scale of an element.
// Translations are in px, rotations in degrees
type Transform struct {
	TranslateX, TranslateY, TranslateZ float64
	RotateZ, RotateX, RotateY          float64
	Scale                              float64
}

// Identity returns the untransformed state
func Identity() Transform {
	return Transform{Scale: 1}
}

// Keyframe is one stop of a timeline. Offset is in [0,1]
type Keyframe struct {
	Offset    float64
	Transform Transform
	Opacity   float64
}

// Pose is a sampled element state
type Pose struct {
	Transform Transform
	Opacity   float64
	// Progress is the linear iteration progress in [0,1]
	Progress float64
	// Started is false while the element waits out its delay
	Started bool
	// Finished is true once delay + duration elapsed
	Finished bool
}

// Timeline is an ordered keyframe list with one easing applied to the whole iteration
type Timeline struct {
	Keyframes []Keyframe
	Easing    Easing
	Delay     time.Duration
	Duration  time.Duration
}

// New creates a timeline, sorting keyframes by offset
func New(keyframes []Keyframe, easing Easing, delay, duration time.Duration) Timeline {
	kf := make([]Keyframe, len(keyframes))
	copy(kf, keyframes)
	sort.SliceStable(kf, func(i, j int) bool { return kf[i].Offset < kf[j].Offset })
	if easing == nil {
		easing = Linear{}
	}
	return Timeline{Keyframes: kf, Easing: easing, Delay: delay, Duration: duration}
}

// End returns the elapsed time at which the timeline completes
func (tl Timeline) End() time.Duration {
	return tl.Delay + tl.Duration
}

// Sample returns the pose at elapsed time since the run started.
// Before the delay the first keyframe applies, after the end the last one holds
func (tl Timeline) Sample(elapsed time.Duration) Pose {
	if len(tl.Keyframes) == 0 {
		return Pose{Transform: Identity(), Opacity: 1}
	}

	local := elapsed - tl.Delay
	var progress float64
	switch {
	case local < 0:
		progress = 0
	case tl.Duration <= 0 || local >= tl.Duration:
		progress = 1
	default:
		progress = float64(local) / float64(tl.Duration)
	}

	eased := tl.Easing.Ease(progress)
	kf := tl.Keyframes

	pose := Pose{
		Progress: progress,
		Started:  local >= 0,
		Finished: local >= tl.Duration,
	}

	switch {
	case eased <= kf[0].Offset:
		pose.Transform, pose.Opacity = kf[0].Transform, kf[0].Opacity
	case eased >= kf[len(kf)-1].Offset:
		last := kf[len(kf)-1]
		pose.Transform, pose.Opacity = last.Transform, last.Opacity
	default:
		i := sort.Search(len(kf), func(i int) bool { return kf[i].Offset > eased }) - 1
		a, b := kf[i], kf[i+1]
		span := b.Offset - a.Offset
		f := 0.0
		if span > 0 {
			f = (eased - a.Offset) / span
		}
		pose.Transform = Lerp(a.Transform, b.Transform, f)
		pose.Opacity = lerp(a.Opacity, b.Opacity, f)
	}
	return pose
}

// Lerp interpolates each transform component independently
func Lerp(a, b Transform, f float64) Transform {
	return Transform{
		TranslateX: lerp(a.TranslateX, b.TranslateX, f),
		TranslateY: lerp(a.TranslateY, b.TranslateY, f),
		TranslateZ: lerp(a.TranslateZ, b.TranslateZ, f),
		RotateZ:    lerp(a.RotateZ, b.RotateZ, f),
		RotateX:    lerp(a.RotateX, b.RotateX, f),
		RotateY:    lerp(a.RotateY, b.RotateY, f),
		Scale:      lerp(a.Scale, b.Scale, f),
	}
}

func lerp(a, b, f float64) float64 {
	return a + (b-a)*f
}
