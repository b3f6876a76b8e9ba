// Package rng defines the random source used by the simulation. Every random
// draw in a tick goes through a Source so that runs are reproducible from a
// seed and tests can pin draws to range endpoints.
package rng

import "math/rand"

// Source produces uniform values in inclusive ranges.
type Source interface {
	// Int returns a value in [min, max].
	Int(min, max int) int
	// Float returns a value in [min, max].
	Float(min, max float32) float32
}

// Rand is a seeded Source backed by math/rand.
type Rand struct {
	r *rand.Rand
}

// NewRand returns a Source seeded with seed.
func NewRand(seed int64) *Rand {
	return &Rand{r: rand.New(rand.NewSource(seed))} // #nosec G404 -- game only
}

func (s *Rand) Int(min, max int) int {
	if max <= min {
		return min
	}
	return min + s.r.Intn(max-min+1)
}

// floatSteps is the resolution of Rand.Float: draws land on floatSteps+1
// evenly spaced points so both endpoints are reachable.
const floatSteps = 1 << 24

func (s *Rand) Float(min, max float32) float32 {
	if max <= min {
		return min
	}
	return lerp(min, max, float32(s.r.Int63n(floatSteps+1))/floatSteps)
}

// lerp maps u in [0, 1] onto [min, max]. u == 1 yields exactly max and
// rounding never carries the result past it.
func lerp(min, max, u float32) float32 {
	if u >= 1 {
		return max
	}
	v := min + u*(max-min)
	if v > max {
		return max
	}
	return v
}

// Min always returns the lower bound.
type Min struct{}

func (Min) Int(min, _ int) int { return min }
func (Min) Float(min, _ float32) float32 { return min }

// Max always returns the upper bound.
type Max struct{}

func (Max) Int(_, max int) int { return max }
func (Max) Float(_, max float32) float32 { return max }

// Script replays a fixed sequence of draws and falls back to Min once the
// sequence is exhausted. Each scripted value is clamped into the requested
// range. It is meant for tests that steer one particular draw.
type Script struct {
	Ints   []int
	Floats []float32
}

func (s *Script) Int(min, max int) int {
	if len(s.Ints) == 0 {
		return min
	}
	v := s.Ints[0]
	s.Ints = s.Ints[1:]
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

func (s *Script) Float(min, max float32) float32 {
	if len(s.Floats) == 0 {
		return min
	}
	v := s.Floats[0]
	s.Floats = s.Floats[1:]
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}
