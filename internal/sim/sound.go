package sim

// Sound identifies a sound effect the simulation asks the host to play.
type Sound int

const (
	SoundDie Sound = iota
	SoundPew
	SoundBoom
)

func (s Sound) String() string {
	switch s {
	case SoundDie:
		return "die"
	case SoundPew:
		return "pew"
	case SoundBoom:
		return "boom"
	default:
		return "unknown"
	}
}

// SoundPlayer plays sounds fire-and-forget. Play must not block the step.
type SoundPlayer interface {
	Play(Sound)
}

type silent struct{}

func (silent) Play(Sound) {}

// SoundCounter counts requested sounds. Useful for tests and headless runs.
type SoundCounter struct {
	Counts [3]int
	Order  []Sound
}

func (c *SoundCounter) Play(s Sound) {
	if s >= 0 && int(s) < len(c.Counts) {
		c.Counts[s]++
	}
	c.Order = append(c.Order, s)
}
