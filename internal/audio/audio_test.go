package audio

import (
	"math"
	"testing"

	"github.com/gopxl/beep"

	"github.com/Garsondee/Gravinyon/internal/config"
	"github.com/Garsondee/Gravinyon/internal/sim"
)

const testRate = beep.SampleRate(8000)

// drain reads s to the end and returns the sample count and peak amplitude.
func drain(t *testing.T, s beep.Streamer) (int, float64) {
	t.Helper()
	buf := make([][2]float64, 512)
	total, peak := 0, 0.0
	for i := 0; i < 1000; i++ {
		n, ok := s.Stream(buf)
		for _, smp := range buf[:n] {
			peak = math.Max(peak, math.Abs(smp[0]))
			if smp[0] != smp[1] {
				t.Fatal("expected mono output on both channels")
			}
		}
		total += n
		if !ok {
			return total, peak
		}
	}
	t.Fatal("streamer never finished")
	return 0, 0
}

func TestStreamer_FiniteAndBounded(t *testing.T) {
	cases := []struct {
		sound sim.Sound
		want  int
	}{
		{sim.SoundPew, testRate.N(pewDuration)},
		{sim.SoundBoom, testRate.N(boomDuration)},
		{sim.SoundDie, testRate.N(dieDuration)},
	}
	for _, tc := range cases {
		n, peak := drain(t, Streamer(tc.sound, testRate, 1))
		if n != tc.want {
			t.Errorf("%s: %d samples, want %d", tc.sound, n, tc.want)
		}
		if peak == 0 || peak > 1 {
			t.Errorf("%s: peak %v outside (0,1]", tc.sound, peak)
		}
	}
}

func TestStreamer_UnknownIsSilent(t *testing.T) {
	n, _ := drain(t, Streamer(sim.Sound(42), testRate, 1))
	if n != 0 {
		t.Fatalf("expected empty stream, got %d samples", n)
	}
}

func TestPlayer_GracefulDegradation(t *testing.T) {
	p := NewPlayer(config.AudioConfig{Enabled: true, SampleRate: 44100, Volume: 0.5}, nil)

	defer func() {
		if r := recover(); r != nil {
			t.Errorf("player panicked without initialization: %v", r)
		}
	}()

	p.Play(sim.SoundPew)
	p.Play(sim.SoundDie)
	p.Close()
	if p.Played() != 0 || p.Ready() {
		t.Fatalf("uninitialized player should drop sounds, played %d", p.Played())
	}
}

func TestPlayer_DisabledInitIsNoop(t *testing.T) {
	p := NewPlayer(config.AudioConfig{Enabled: false}, nil)
	if err := p.Init(); err != nil {
		t.Fatalf("disabled init returned %v", err)
	}
	if p.Ready() {
		t.Fatal("disabled player must not open the speaker")
	}
	p.Play(sim.SoundBoom)
	if p.Played() != 0 {
		t.Fatal("disabled player queued a sound")
	}
}

func TestNewVolume_SilentAtZero(t *testing.T) {
	s := newVolume(NewPewGenerator(testRate), 0)
	_, peak := drain(t, s)
	if peak != 0 {
		t.Fatalf("expected silence at volume 0, peak %v", peak)
	}
}

// render reads the first block of s.
func render(s beep.Streamer) [][2]float64 {
	buf := make([][2]float64, 256)
	n, _ := s.Stream(buf)
	return buf[:n]
}

func sameSamples(a, b [][2]float64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestPlayer_VoicesUseFreshNoise(t *testing.T) {
	p := NewPlayer(config.AudioConfig{Enabled: true, SampleRate: int(testRate), Volume: 1}, nil)

	for _, s := range []sim.Sound{sim.SoundBoom, sim.SoundDie} {
		first := render(p.nextVoice(s))
		second := render(p.nextVoice(s))
		if sameSamples(first, second) {
			t.Errorf("%s: consecutive voices played identical noise", s)
		}
	}
	if p.voices != 4 {
		t.Fatalf("expected 4 voices handed out, got %d", p.voices)
	}

	// The same seed still reproduces the same sound.
	a := render(Streamer(sim.SoundBoom, testRate, 7))
	b := render(Streamer(sim.SoundBoom, testRate, 7))
	if !sameSamples(a, b) {
		t.Fatal("equal seeds should render equal noise")
	}
}
