// Package bloom wires extraction, planning and playback into one invocation.
package bloom

import (
	"context"
	"math/rand/v2"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/lixenwraith/petal-bloom/glyph"
	"github.com/lixenwraith/petal-bloom/playback"
	"github.com/lixenwraith/petal-bloom/preset"
	"github.com/lixenwraith/petal-bloom/trajectory"
)

// Engine runs blooms of one document region through one driver
type Engine struct {
	probe   glyph.LayoutProbe
	driver  *playback.Driver
	log     *zap.Logger
	onStart func(preset.Parameters)
	state   atomic.Int32
	run     atomic.Pointer[playback.Run]
}

// Option configures an Engine
type Option func(*Engine)

// WithLogger sets the engine logger
func WithLogger(l *zap.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.log = l
		}
	}
}

// OnStart registers a hook called once playback begins
func OnStart(fn func(preset.Parameters)) Option {
	return func(e *Engine) { e.onStart = fn }
}

// New creates an engine over probe and driver
func New(probe glyph.LayoutProbe, driver *playback.Driver, opts ...Option) *Engine {
	e := &Engine{probe: probe, driver: driver, log: zap.NewNop()}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// State returns the stage of the most recent invocation
func (e *Engine) State() playback.State {
	s := playback.State(e.state.Load())
	if s == playback.StatePlaying {
		if r := e.run.Load(); r != nil {
			return r.State()
		}
	}
	return s
}

func (e *Engine) setState(s playback.State) {
	e.state.Store(int32(s))
	e.log.Debug("Bloom state", zap.Stringer("state", s))
}

// SetProbe replaces the layout probe, used after the document or viewport changes
func (e *Engine) SetProbe(probe glyph.LayoutProbe) {
	e.probe = probe
}

// Bloom extracts up to params.GlyphCap glyphs of region, plans them with rng and starts playback.
// An empty region is a silent no-op returning a nil run
func (e *Engine) Bloom(ctx context.Context, region glyph.Rect, params preset.Parameters, rng *rand.Rand) (*playback.Run, error) {
	if region.Width <= 0 || region.Height <= 0 {
		e.log.Debug("Bloom skipped, empty region")
		return nil, nil
	}
	if e.driver.Active() != nil {
		return nil, playback.ErrRunActive
	}

	e.setState(playback.StateExtracting)
	pieces := e.probe.MeasureGlyphsInRegion(region, params.GlyphCap)

	e.setState(playback.StatePlanning)
	plans := trajectory.NewPlanner(params, rng).Plan(pieces, region)

	run, err := e.driver.Start(ctx, region, pieces, plans, params)
	if err != nil {
		e.setState(playback.StateIdle)
		return nil, err
	}
	e.run.Store(run)
	e.setState(playback.StatePlaying)
	e.log.Info("Bloom started",
		zap.String("preset", string(params.Name)),
		zap.String("return", string(params.ReturnMode)),
		zap.Int("glyphs", len(pieces)),
		zap.Int("elements", len(run.Elements)))

	if e.onStart != nil {
		e.onStart(params)
	}
	return run, nil
}
