package audio

import (
	"math"
	"math/rand"
	"time"

	"github.com/gopxl/beep"

	"github.com/Garsondee/Gravinyon/internal/sim"
)

// Sound lengths.
const (
	pewDuration  = 90 * time.Millisecond
	boomDuration = 450 * time.Millisecond
	dieDuration  = 700 * time.Millisecond
)

// Streamer returns a fresh, finite streamer for s at rate. seed drives the
// noise in booms and deaths. Unknown sounds yield silence.
func Streamer(s sim.Sound, rate beep.SampleRate, seed int64) beep.Streamer {
	switch s {
	case sim.SoundPew:
		return NewPewGenerator(rate)
	case sim.SoundBoom:
		return NewBoomGenerator(rate, seed)
	case sim.SoundDie:
		return NewDieGenerator(rate, seed)
	default:
		return beep.Silence(0)
	}
}

// PewGenerator generates a short falling square chirp.
type PewGenerator struct {
	sr      beep.SampleRate
	pos     int
	samples int
	phase   float64
}

// NewPewGenerator creates a pew sound generator
func NewPewGenerator(sr beep.SampleRate) *PewGenerator {
	return &PewGenerator{sr: sr, samples: sr.N(pewDuration)}
}

func (g *PewGenerator) Stream(samples [][2]float64) (n int, ok bool) {
	if g.pos >= g.samples {
		return 0, false
	}
	for i := range samples {
		if g.pos >= g.samples {
			return i, true
		}
		p := float64(g.pos) / float64(g.samples)

		// 1200Hz down to 300Hz
		freq := 1200 - 900*p
		g.phase += freq / float64(g.sr)
		g.phase -= math.Floor(g.phase)

		sample := 0.25
		if g.phase >= 0.5 {
			sample = -0.25
		}
		sample *= 1 - p

		samples[i][0] = sample
		samples[i][1] = sample
		g.pos++
	}
	return len(samples), true
}

func (g *PewGenerator) Err() error {
	return nil
}

// BoomGenerator generates low-passed noise with an exponential decay.
type BoomGenerator struct {
	sr      beep.SampleRate
	pos     int
	samples int
	rng     *rand.Rand
	last    float64
}

// NewBoomGenerator creates an explosion generator
func NewBoomGenerator(sr beep.SampleRate, seed int64) *BoomGenerator {
	return &BoomGenerator{
		sr:      sr,
		samples: sr.N(boomDuration),
		rng:     rand.New(rand.NewSource(seed)), // #nosec G404 -- audio noise
	}
}

func (g *BoomGenerator) Stream(samples [][2]float64) (n int, ok bool) {
	if g.pos >= g.samples {
		return 0, false
	}
	for i := range samples {
		if g.pos >= g.samples {
			return i, true
		}
		t := float64(g.pos) / float64(g.sr)
		noise := g.rng.Float64()*2 - 1

		// One-pole low-pass for a duller rumble
		g.last += 0.12 * (noise - g.last)
		sample := 0.6 * g.last * math.Exp(-t*9)

		samples[i][0] = sample
		samples[i][1] = sample
		g.pos++
	}
	return len(samples), true
}

func (g *BoomGenerator) Err() error {
	return nil
}

// DieGenerator generates a long descending sweep over noise.
type DieGenerator struct {
	sr      beep.SampleRate
	pos     int
	samples int
	phase   float64
	rng     *rand.Rand
}

// NewDieGenerator creates a ship death generator
func NewDieGenerator(sr beep.SampleRate, seed int64) *DieGenerator {
	return &DieGenerator{
		sr:      sr,
		samples: sr.N(dieDuration),
		rng:     rand.New(rand.NewSource(seed)), // #nosec G404 -- audio noise
	}
}

func (g *DieGenerator) Stream(samples [][2]float64) (n int, ok bool) {
	if g.pos >= g.samples {
		return 0, false
	}
	for i := range samples {
		if g.pos >= g.samples {
			return i, true
		}
		p := float64(g.pos) / float64(g.samples)

		// 440Hz down to 55Hz, exponential
		freq := 440 * math.Pow(0.125, p)
		g.phase += 2 * math.Pi * freq / float64(g.sr)
		if g.phase > 2*math.Pi {
			g.phase -= 2 * math.Pi
		}

		env := 1 - p
		sample := env * (0.3*math.Sin(g.phase) + 0.1*(g.rng.Float64()*2-1))

		samples[i][0] = sample
		samples[i][1] = sample
		g.pos++
	}
	return len(samples), true
}

func (g *DieGenerator) Err() error {
	return nil
}
