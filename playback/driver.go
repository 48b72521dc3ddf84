package playback

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/lixenwraith/petal-bloom/clock"
	"github.com/lixenwraith/petal-bloom/glyph"
	"github.com/lixenwraith/petal-bloom/parameter"
	"github.com/lixenwraith/petal-bloom/preset"
	"github.com/lixenwraith/petal-bloom/trajectory"
)

// Option configures a Driver
type Option func(*Driver)

// WithClock injects the time source, defaults to wall time
func WithClock(c clock.Clock) Option {
	return func(d *Driver) {
		if c != nil {
			d.clock = c
		}
	}
}

// WithLogger sets the driver logger
func WithLogger(l *zap.Logger) Option {
	return func(d *Driver) {
		if l != nil {
			d.log = l
		}
	}
}

// WithFrameInterval enables the frame loop; zero leaves frame rendering to the caller
func WithFrameInterval(interval time.Duration) Option {
	return func(d *Driver) {
		if interval >= 0 {
			d.frameInterval = interval
		}
	}
}

// WithTeardownMargin sets the delay past the preset duration before teardown
func WithTeardownMargin(margin time.Duration) Option {
	return func(d *Driver) {
		if margin >= 0 {
			d.margin = margin
		}
	}
}

// Driver owns one overlay surface and admits a single run at a time
type Driver struct {
	surface       Surface
	clock         clock.Clock
	log           *zap.Logger
	frameInterval time.Duration
	margin        time.Duration

	mu     sync.Mutex
	active *Run
}

// NewDriver creates a driver drawing to surface
func NewDriver(surface Surface, opts ...Option) *Driver {
	d := &Driver{
		surface: surface,
		clock:   clock.NewTimeProvider(),
		log:     zap.NewNop(),
		margin:  parameter.TeardownMargin,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Clock returns the driver time source
func (d *Driver) Clock() clock.Clock {
	return d.clock
}

// Start hides the source, opens the overlay and begins playback of one element per half and dust.
// The returned run tears down on its own; cancelling ctx tears it down immediately
func (d *Driver) Start(ctx context.Context, region glyph.Rect, pieces []glyph.Piece, plans []trajectory.Trajectory, params preset.Parameters) (*Run, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.active != nil {
		return nil, ErrRunActive
	}

	elements := BuildElements(region, pieces, plans, params)
	if err := d.surface.Open(region); err != nil {
		return nil, fmt.Errorf("open overlay: %w", err)
	}
	d.surface.SetSourceVisible(false)

	runCtx, cancel := context.WithCancel(ctx)
	start := d.clock.Now()
	deadline := start.Add(params.Duration + d.margin)

	var latest time.Duration
	for i := range elements {
		latest = max(latest, elements[i].Timeline.End())
	}
	bound := start.Add(latest + d.margin)
	if bound.Before(deadline) {
		bound = deadline
	}

	r := &Run{
		Elements: elements,
		Region:   region,
		driver:   d,
		log:      d.log.With(zap.String("preset", string(params.Name)), zap.Int("elements", len(elements))),
		start:    start,
		deadline: deadline,
		bound:    bound,
		cancel:   cancel,
		done:     make(chan struct{}),
	}
	r.state.Store(int32(StatePlaying))
	d.active = r

	r.log.Debug("Playback started",
		zap.Int("glyphs", min(len(pieces), len(plans))),
		zap.Duration("teardown", deadline.Sub(start)),
		zap.Duration("bound", bound.Sub(start)))

	go r.play(runCtx)
	return r, nil
}

// Active returns the running playback, nil when idle
func (d *Driver) Active() *Run {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.active
}

// Shutdown tears down the active run immediately and waits for its tasks to exit
func (d *Driver) Shutdown() {
	r := d.Active()
	if r == nil {
		return
	}
	r.Cancel()
	<-r.Done()
}

func (d *Driver) release(r *Run) {
	d.mu.Lock()
	if d.active == r {
		d.active = nil
	}
	d.mu.Unlock()
}
