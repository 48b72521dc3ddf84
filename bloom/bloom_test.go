package bloom

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"go.uber.org/goleak"

	"github.com/lixenwraith/petal-bloom/clock"
	"github.com/lixenwraith/petal-bloom/glyph"
	"github.com/lixenwraith/petal-bloom/layout"
	"github.com/lixenwraith/petal-bloom/playback"
	"github.com/lixenwraith/petal-bloom/preset"
	"github.com/lixenwraith/petal-bloom/trajectory"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

var epoch = time.Date(2024, 4, 1, 9, 0, 0, 0, time.UTC)

type nullSurface struct {
	mu      sync.Mutex
	visible bool
	opens   int
}

func (s *nullSurface) Open(glyph.Rect) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.opens++
	return nil
}

func (s *nullSurface) SetSourceVisible(v bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.visible = v
}

func (s *nullSurface) Draw([]playback.Pose) error { return nil }
func (s *nullSurface) Close()                     {}

// countingProbe records the cap it was asked for
type countingProbe struct {
	inner    glyph.LayoutProbe
	lastCap  int
	requests int
}

func (p *countingProbe) MeasureGlyphsInRegion(region glyph.Rect, maxCount int) []glyph.Piece {
	p.requests++
	p.lastCap = maxCount
	return p.inner.MeasureGlyphsInRegion(region, maxCount)
}

func newEngine(t *testing.T, text string, opts ...Option) (*Engine, *clock.MockTimeProvider, *countingProbe, *nullSurface) {
	t.Helper()
	cells := layout.NewCellProbe([]glyph.Text{{Value: text}}, 100)
	probe := &countingProbe{inner: cells}
	mock := clock.NewMockTimeProvider(epoch)
	surface := &nullSurface{visible: true}
	driver := playback.NewDriver(surface, playback.WithClock(mock))
	e := New(probe, driver, opts...)
	t.Cleanup(driver.Shutdown)
	return e, mock, probe, surface
}

func TestBloomRunsToTeardown(t *testing.T) {
	var started []preset.Name
	e, mock, probe, surface := newEngine(t, "petals fall", OnStart(func(p preset.Parameters) {
		started = append(started, p.Name)
	}))
	params := preset.Resolve("gold", "")
	region := glyph.Rect{Width: 800, Height: 400}

	run, err := e.Bloom(context.Background(), region, params, trajectory.NewSource(5))
	if err != nil {
		t.Fatalf("Bloom: %v", err)
	}
	if probe.lastCap != params.GlyphCap {
		t.Errorf("probe cap = %d, want %d", probe.lastCap, params.GlyphCap)
	}
	if e.State() != playback.StatePlaying {
		t.Errorf("state = %v, want playing", e.State())
	}
	if len(started) != 1 || started[0] != preset.Gold {
		t.Errorf("start hook calls = %v", started)
	}

	halves := 0
	for _, el := range run.Elements {
		if el.Kind == playback.KindHalf {
			halves++
		}
	}
	// the inner space is measured and extracted like any other glyph
	if halves != 22 {
		t.Errorf("halves = %d, want 22", halves)
	}

	if _, err := e.Bloom(context.Background(), region, params, trajectory.NewSource(6)); !errors.Is(err, playback.ErrRunActive) {
		t.Errorf("overlapping bloom err = %v", err)
	}
	if probe.requests != 1 {
		t.Errorf("rejected bloom still extracted")
	}

	mock.BlockUntil(len(run.Elements)+2, time.Second)
	mock.Advance(params.Duration + 200*time.Millisecond)
	select {
	case <-run.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("run did not finish")
	}
	if e.State() != playback.StateTornDown {
		t.Errorf("state = %v, want torn-down", e.State())
	}
	surface.mu.Lock()
	defer surface.mu.Unlock()
	if !surface.visible {
		t.Error("source left hidden")
	}
}

func TestBloomEmptyRegionIsNoop(t *testing.T) {
	e, _, probe, surface := newEngine(t, "text")
	for _, region := range []glyph.Rect{{}, {Width: 100}, {Height: 100}} {
		run, err := e.Bloom(context.Background(), region, preset.Resolve("sakura", ""), trajectory.NewSource(1))
		if run != nil || err != nil {
			t.Errorf("region %+v: run=%v err=%v", region, run, err)
		}
	}
	if probe.requests != 0 || surface.opens != 0 {
		t.Error("empty region reached extraction or the surface")
	}
	if e.State() != playback.StateIdle {
		t.Errorf("state = %v, want idle", e.State())
	}
}

func TestBloomSameSeedSamePlan(t *testing.T) {
	params := preset.Resolve("shape", preset.Swirl)
	region := glyph.Rect{Width: 800, Height: 400}

	var delays [2][]time.Duration
	for i := range delays {
		e, _, _, _ := newEngine(t, "converge")
		run, err := e.Bloom(context.Background(), region, params, trajectory.NewSource(99))
		if err != nil {
			t.Fatalf("Bloom: %v", err)
		}
		for _, el := range run.Elements {
			delays[i] = append(delays[i], el.Timeline.Delay)
		}
		run.Cancel()
		<-run.Done()
	}
	if len(delays[0]) != len(delays[1]) {
		t.Fatalf("element counts differ: %d vs %d", len(delays[0]), len(delays[1]))
	}
	for i := range delays[0] {
		if delays[0][i] != delays[1][i] {
			t.Fatalf("element %d delay %v vs %v", i, delays[0][i], delays[1][i])
		}
	}
}
