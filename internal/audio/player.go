// Package audio plays the simulation's sound triggers through the system
// speaker. Every sound is synthesized; there are no asset files.
package audio

import (
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/speaker"
	"go.uber.org/zap"

	"github.com/Garsondee/Gravinyon/internal/config"
	"github.com/Garsondee/Gravinyon/internal/sim"
)

// Player implements sim.SoundPlayer. Before Init succeeds, and after Close,
// Play is a no-op, so the game runs without an audio device.
type Player struct {
	mu          sync.Mutex
	mixer       *beep.Mixer
	rate        beep.SampleRate
	volume      float64
	enabled     bool
	initialized bool
	played      int
	voices      int64 // noise seed for the next voice
	log         *zap.Logger
}

var _ sim.SoundPlayer = (*Player)(nil)

// NewPlayer creates a player for cfg. It does not touch the audio device.
func NewPlayer(cfg config.AudioConfig, log *zap.Logger) *Player {
	if log == nil {
		log = zap.NewNop()
	}
	rate := cfg.SampleRate
	if rate <= 0 {
		rate = 44100
	}
	return &Player{
		mixer:   &beep.Mixer{},
		rate:    beep.SampleRate(rate),
		volume:  cfg.Volume,
		enabled: cfg.Enabled,
		log:     log,
	}
}

// Init opens the speaker and starts the mixer. It is a no-op when audio is
// disabled or already initialized.
func (p *Player) Init() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.enabled || p.initialized {
		return nil
	}
	if err := speaker.Init(p.rate, p.rate.N(100*time.Millisecond)); err != nil {
		return fmt.Errorf("init speaker at %d Hz: %w", p.rate, err)
	}
	speaker.Play(p.mixer)
	p.initialized = true
	p.log.Info("audio ready", zap.Int("sample_rate", int(p.rate)), zap.Float64("volume", p.volume))
	return nil
}

// Play queues s on the mixer and returns immediately.
func (p *Player) Play(s sim.Sound) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.initialized {
		return
	}
	st := p.nextVoice(s)
	speaker.Lock()
	p.mixer.Add(st)
	speaker.Unlock()
	p.played++
}

// nextVoice builds the volume-scaled streamer for s. Each voice gets its own
// noise seed so repeated booms do not sound identical. Callers hold p.mu.
func (p *Player) nextVoice(s sim.Sound) beep.Streamer {
	p.voices++
	return newVolume(Streamer(s, p.rate, p.voices), p.volume)
}

// Played returns how many sounds have been queued.
func (p *Player) Played() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.played
}

// Ready reports whether the speaker is open.
func (p *Player) Ready() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.initialized
}

// Close drops every queued sound. The speaker stays open; beep has no way to
// reopen it at a different rate anyway.
func (p *Player) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.initialized {
		return
	}
	speaker.Lock()
	p.mixer.Clear()
	speaker.Unlock()
	p.initialized = false
}

func newVolume(s beep.Streamer, vol float64) beep.Streamer {
	if vol <= 0 {
		return &effects.Volume{Streamer: s, Base: 2, Volume: 0, Silent: true}
	}
	return &effects.Volume{Streamer: s, Base: 2, Volume: math.Log2(vol), Silent: false}
}
