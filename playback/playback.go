// Package playback turns planned trajectories into overlay elements, runs one
// task per element against an injected clock and tears the overlay down.
package playback

import (
	"errors"

	"github.com/lixenwraith/petal-bloom/glyph"
	"github.com/lixenwraith/petal-bloom/render"
	"github.com/lixenwraith/petal-bloom/timeline"
)

// ErrRunActive is returned by Start while a previous run has not torn down
var ErrRunActive = errors.New("playback run already active")

// State is the lifecycle stage of one bloom invocation
type State int32

const (
	StateIdle State = iota
	StateExtracting
	StatePlanning
	StatePlaying
	StateTornDown
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateExtracting:
		return "extracting"
	case StatePlanning:
		return "planning"
	case StatePlaying:
		return "playing"
	case StateTornDown:
		return "torn-down"
	}
	return "unknown"
}

// Side selects which half of the glyph an element shows
type Side uint8

const (
	SideNone Side = iota
	SideLeft
	SideRight
)

func (s Side) String() string {
	switch s {
	case SideLeft:
		return "left"
	case SideRight:
		return "right"
	}
	return "none"
}

// Kind distinguishes half-glyph petals from dust particles
type Kind uint8

const (
	KindHalf Kind = iota
	KindDust
)

// Element is one animated overlay node
type Element struct {
	ID    int
	Kind  Kind
	Side  Side
	Glyph int // source piece index

	Char  string
	Style glyph.Style
	// Origin is the region-relative box the element starts from
	Origin glyph.Rect

	Color         render.RGB
	Accent        render.RGB
	GradientAngle float64
	// Size is the dust diameter in px
	Size float64

	Timeline timeline.Timeline
}

// Pose is an element sampled at one instant
type Pose struct {
	Element *Element
	timeline.Pose
}

// Surface is the host overlay: it hides the source content and draws element poses.
// Open discards any overlay left over from an earlier run
type Surface interface {
	Open(region glyph.Rect) error
	SetSourceVisible(visible bool)
	Draw(poses []Pose) error
	Close()
}
