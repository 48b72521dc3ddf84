package playback

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/lixenwraith/petal-bloom/glyph"
)

// Run is one playback invocation
type Run struct {
	Elements []Element
	Region   glyph.Rect

	driver *Driver
	log    *zap.Logger

	start    time.Time
	deadline time.Time
	bound    time.Time

	cancel context.CancelFunc
	done   chan struct{}
	state  atomic.Int32

	// mu serializes drawing against teardown
	mu         sync.Mutex
	torn       bool
	tornDownAt time.Time
}

// StartedAt returns the clock time playback began
func (r *Run) StartedAt() time.Time { return r.start }

// Deadline returns the earliest teardown time
func (r *Run) Deadline() time.Time { return r.deadline }

// State returns the current lifecycle stage
func (r *Run) State() State { return State(r.state.Load()) }

// Done is closed once the overlay is torn down and every task has exited
func (r *Run) Done() <-chan struct{} { return r.done }

// Cancel tears the run down immediately
func (r *Run) Cancel() { r.cancel() }

// Wait blocks until the run is done or ctx ends
func (r *Run) Wait(ctx context.Context) error {
	select {
	case <-r.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// TornDownAt returns the teardown time, zero while playing
func (r *Run) TornDownAt() time.Time {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.tornDownAt
}

// Frame samples every element at now
func (r *Run) Frame(now time.Time) []Pose {
	elapsed := now.Sub(r.start)
	poses := make([]Pose, len(r.Elements))
	for i := range r.Elements {
		poses[i] = Pose{Element: &r.Elements[i], Pose: r.Elements[i].Timeline.Sample(elapsed)}
	}
	return poses
}

// Render draws the frame at now unless the run is already torn down
func (r *Run) Render(now time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.torn {
		return nil
	}
	if err := r.driver.surface.Draw(r.Frame(now)); err != nil {
		r.log.Debug("Frame draw failed", zap.Error(err))
		return err
	}
	return nil
}

// sleepUntil blocks until the clock reaches t or ctx ends
func (r *Run) sleepUntil(ctx context.Context, t time.Time) error {
	d := t.Sub(r.driver.clock.Now())
	if d <= 0 {
		return nil
	}
	select {
	case <-r.driver.clock.After(d):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (r *Run) after(t time.Time) <-chan time.Time {
	return r.driver.clock.After(t.Sub(r.driver.clock.Now()))
}

func (r *Run) play(ctx context.Context) {
	g, gctx := errgroup.WithContext(ctx)
	for i := range r.Elements {
		end := r.start.Add(r.Elements[i].Timeline.End())
		g.Go(func() error { return r.sleepUntil(gctx, end) })
	}
	joined := make(chan struct{})
	go func() {
		_ = g.Wait()
		close(joined)
	}()

	var frames sync.WaitGroup
	stopFrames := make(chan struct{})
	if interval := r.driver.frameInterval; interval > 0 {
		frames.Add(1)
		go func() {
			defer frames.Done()
			r.frameLoop(interval, stopFrames)
		}()
	}

	deadlineC := r.after(r.deadline)
	boundC := r.after(r.bound)

	reason := "completed"
	select {
	case <-ctx.Done():
		reason = "cancelled"
	case <-deadlineC:
		select {
		case <-joined:
		case <-boundC:
			reason = "bounded"
		case <-ctx.Done():
			reason = "cancelled"
		}
	}

	close(stopFrames)
	frames.Wait()
	r.teardown(reason)

	r.cancel()
	<-joined
	close(r.done)
}

func (r *Run) frameLoop(interval time.Duration, stop <-chan struct{}) {
	for {
		select {
		case <-stop:
			return
		case <-r.driver.clock.After(interval):
			_ = r.Render(r.driver.clock.Now())
		}
	}
}

// teardown closes the overlay and restores the source in one step
func (r *Run) teardown(reason string) {
	r.mu.Lock()
	r.torn = true
	r.tornDownAt = r.driver.clock.Now()
	r.driver.surface.Close()
	r.driver.surface.SetSourceVisible(true)
	r.state.Store(int32(StateTornDown))
	at := r.tornDownAt.Sub(r.start)
	r.mu.Unlock()

	r.driver.release(r)
	r.log.Debug("Playback torn down", zap.String("reason", reason), zap.Duration("at", at))
}
