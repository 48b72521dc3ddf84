// Package chime plays a short bell when a bloom starts. Audio is optional:
// a failed speaker init leaves a silent player.
package chime

import (
	"fmt"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/generators"
	"github.com/gopxl/beep/speaker"
	"go.uber.org/zap"

	"github.com/lixenwraith/petal-bloom/preset"
)

const (
	sampleRate = beep.SampleRate(44100)
	toneLength = 90 * time.Millisecond
	fadeLength = 60 * time.Millisecond
)

// tones are the two notes of each preset's chime in Hz
var tones = map[preset.Name][2]float64{
	preset.Sakura: {880, 1318.5},
	preset.Neon:   {659.3, 987.8},
	preset.Gold:   {1046.5, 1568},
	preset.Shape:  {784, 1174.7},
}

// Player plays preset chimes on the system speaker
type Player struct {
	mu      sync.Mutex
	enabled bool
	log     *zap.Logger
}

// New initializes the speaker. Initialization failure is non-fatal and disables playback
func New(enabled bool, log *zap.Logger) *Player {
	if log == nil {
		log = zap.NewNop()
	}
	p := &Player{log: log}
	if !enabled {
		return p
	}
	if err := speaker.Init(sampleRate, sampleRate.N(time.Second/10)); err != nil {
		log.Warn("Audio initialization failed, continuing without chime", zap.Error(err))
		return p
	}
	p.enabled = true
	return p
}

// Enabled reports whether the speaker is available
func (p *Player) Enabled() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.enabled
}

// Streamer builds the chime of a preset: two sine notes, the second fading out
func Streamer(name preset.Name) (beep.Streamer, error) {
	notes, ok := tones[name]
	if !ok {
		notes = tones[preset.Shape]
	}
	first, err := generators.SineTone(sampleRate, notes[0])
	if err != nil {
		return nil, fmt.Errorf("tone %v: %w", notes[0], err)
	}
	second, err := generators.SineTone(sampleRate, notes[1])
	if err != nil {
		return nil, fmt.Errorf("tone %v: %w", notes[1], err)
	}

	tail := &fadeOut{
		Streamer: beep.Take(sampleRate.N(toneLength+fadeLength), second),
		total:    sampleRate.N(toneLength + fadeLength),
	}
	return beep.Seq(beep.Take(sampleRate.N(toneLength), first), tail), nil
}

// Play queues the chime for name; a no-op when audio is unavailable
func (p *Player) Play(name preset.Name) {
	if !p.Enabled() {
		return
	}
	s, err := Streamer(name)
	if err != nil {
		p.log.Debug("Chime unavailable", zap.Error(err))
		return
	}
	speaker.Play(s)
}

// Close releases the speaker
func (p *Player) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.enabled {
		speaker.Close()
		p.enabled = false
	}
}

// fadeOut scales samples linearly to silence over total samples at reduced volume
type fadeOut struct {
	beep.Streamer
	total int
	pos   int
}

func (f *fadeOut) Stream(samples [][2]float64) (int, bool) {
	n, ok := f.Streamer.Stream(samples)
	for i := 0; i < n; i++ {
		gain := 0.4 * (1 - float64(f.pos)/float64(max(f.total, 1)))
		samples[i][0] *= gain
		samples[i][1] *= gain
		f.pos++
	}
	return n, ok
}
