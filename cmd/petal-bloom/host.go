package main

import (
	"context"
	"errors"
	"math/rand/v2"
	"time"

	"github.com/gdamore/tcell/v2"
	"go.uber.org/zap"

	"github.com/lixenwraith/petal-bloom/bloom"
	"github.com/lixenwraith/petal-bloom/chime"
	"github.com/lixenwraith/petal-bloom/config"
	"github.com/lixenwraith/petal-bloom/document"
	"github.com/lixenwraith/petal-bloom/layout"
	"github.com/lixenwraith/petal-bloom/playback"
	"github.com/lixenwraith/petal-bloom/preset"
	"github.com/lixenwraith/petal-bloom/surface"
)

// terminalHost shows one note on a tcell screen and blooms it on demand
type terminalHost struct {
	screen   tcell.Screen
	settings config.Settings
	log      *zap.Logger
	rng      *rand.Rand

	note   *document.Note
	params preset.Parameters
	scroll int

	surface *surface.Terminal
	probe   *layout.CellProbe
	driver  *playback.Driver
	engine  *bloom.Engine
}

// hostOptions selects how the event loop ends
type hostOptions struct {
	once   bool                  // bloom immediately, exit after teardown
	reload <-chan *document.Note // replacement notes, each blooms on arrival
}

func newTerminalHost(screen tcell.Screen, note *document.Note, s config.Settings, log *zap.Logger, rng *rand.Rand, player *chime.Player) *terminalHost {
	h := &terminalHost{
		screen:   screen,
		settings: s,
		log:      log,
		rng:      rng,
		note:     note,
		params:   resolveParams(s, note.Overrides),
		surface:  surface.NewTerminal(screen, s.CellWidth, s.CellHeight),
	}

	interval := time.Second / time.Duration(max(s.FPS, 1))
	h.driver = playback.NewDriver(h.surface,
		playback.WithLogger(log),
		playback.WithFrameInterval(interval))

	h.relayout()
	h.engine = bloom.New(h.probe, h.driver,
		bloom.WithLogger(log),
		bloom.OnStart(func(p preset.Parameters) {
			if player != nil {
				player.Play(p.Name)
			}
		}))
	return h
}

// relayout rebuilds the grid layout for the current note, width and scroll
func (h *terminalHost) relayout() {
	cols, _ := h.screen.Size()
	h.probe = layout.NewCellProbe(h.note.Runs, cols,
		layout.WithCellSize(h.settings.CellWidth, h.settings.CellHeight),
		layout.WithScroll(h.scroll))
	h.surface.SetSource(h.probe.Placed())
	if h.engine != nil {
		h.engine.SetProbe(h.probe)
	}
}

func (h *terminalHost) scrollBy(delta int) {
	if h.driver.Active() != nil {
		return
	}
	_, rows := h.screen.Size()
	next := min(max(h.scroll+delta, 0), max(h.probe.Rows()-rows, 0))
	if next == h.scroll {
		return
	}
	h.scroll = next
	h.relayout()
}

// setNote swaps the displayed note, ending any running bloom first
func (h *terminalHost) setNote(note *document.Note) {
	h.driver.Shutdown()
	h.note = note
	h.params = resolveParams(h.settings, note.Overrides)
	h.scroll = 0
	h.relayout()
	h.log.Debug("Note replaced", zap.String("path", note.Path))
}

// bloom starts a run over the visible viewport.
// A press while a run is active is ignored
func (h *terminalHost) bloom(ctx context.Context) (*playback.Run, error) {
	_, rows := h.screen.Size()
	run, err := h.engine.Bloom(ctx, h.probe.Region(rows), h.params, h.rng)
	if errors.Is(err, playback.ErrRunActive) {
		h.log.Debug("Bloom ignored, run active")
		return nil, nil
	}
	return run, err
}

// loop pumps screen events until quit, context end or, with once, the first teardown
func (h *terminalHost) loop(ctx context.Context, opts hostOptions) error {
	defer h.driver.Shutdown()

	eventChan := make(chan tcell.Event, 100)
	stop := make(chan struct{})
	defer close(stop)
	go func() {
		for {
			ev := h.screen.PollEvent()
			if ev == nil {
				return
			}
			select {
			case eventChan <- ev:
			case <-stop:
				return
			}
		}
	}()

	var done <-chan struct{}
	if opts.once {
		run, err := h.bloom(ctx)
		if err != nil {
			return err
		}
		if run == nil {
			return nil
		}
		done = run.Done()
	}

	for {
		select {
		case <-ctx.Done():
			return nil

		case <-done:
			if opts.once {
				return nil
			}
			done = nil

		case note := <-opts.reload:
			h.setNote(note)
			run, err := h.bloom(ctx)
			if err != nil {
				return err
			}
			if run != nil {
				done = run.Done()
			}

		case ev := <-eventChan:
			quit, run, err := h.handleEvent(ctx, ev)
			if err != nil || quit {
				return err
			}
			if run != nil {
				done = run.Done()
			}
		}
	}
}

func (h *terminalHost) handleEvent(ctx context.Context, ev tcell.Event) (quit bool, run *playback.Run, err error) {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		switch {
		case ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC:
			return true, nil, nil
		case ev.Key() == tcell.KeyEnter:
			run, err = h.bloom(ctx)
			return false, run, err
		case ev.Key() == tcell.KeyDown:
			h.scrollBy(1)
		case ev.Key() == tcell.KeyUp:
			h.scrollBy(-1)
		case ev.Key() == tcell.KeyRune:
			switch ev.Rune() {
			case 'q':
				return true, nil, nil
			case ' ':
				run, err = h.bloom(ctx)
				return false, run, err
			case 'j':
				h.scrollBy(1)
			case 'k':
				h.scrollBy(-1)
			}
		}

	case *tcell.EventResize:
		// Petal positions are stale after a resize; relayout repaints at the new size
		h.driver.Shutdown()
		h.screen.Sync()
		h.relayout()
	}
	return false, nil, nil
}
