package sim

import (
	"testing"
)

// TestInvariants_LongRun drives the autopilot through several seeds and checks
// the record invariants after every step.
func TestInvariants_LongRun(t *testing.T) {
	for seed := int64(1); seed <= 5; seed++ {
		h := NewHarness(WithSeed(seed), WithSpawnedShip())
		ap := NewAutopilot()
		w := h.World
		top := w.Extent()

		prevCaps := [4]int{}
		for tick := 0; tick < 600; tick++ {
			w.Step(ap.Command(w))
			if w.Ships().Len() == 0 {
				w.SpawnShip()
			}

			caps := [4]int{w.Ships().Cap(), w.Enemies().Cap(), w.Bullets().Cap(), w.Particles().Cap()}
			lens := [4]int{w.Ships().Len(), w.Enemies().Len(), w.Bullets().Len(), w.Particles().Len()}
			for i := range caps {
				if lens[i] > caps[i] {
					t.Fatalf("seed %d tick %d: pool %d count %d > capacity %d", seed, tick, i, lens[i], caps[i])
				}
				if caps[i] < prevCaps[i] {
					t.Fatalf("seed %d tick %d: pool %d capacity shrank %d -> %d", seed, tick, i, prevCaps[i], caps[i])
				}
			}
			prevCaps = caps

			for _, s := range w.Ships().Live() {
				if s.Reload > s.ReloadMax {
					t.Fatalf("seed %d tick %d: reload %d > max %d", seed, tick, s.Reload, s.ReloadMax)
				}
			}
			for _, e := range w.Enemies().Live() {
				if e.X < -1 || e.X > 1 || e.Y < -top || e.Y > top {
					t.Fatalf("seed %d tick %d: enemy out of bounds at (%v,%v)", seed, tick, e.X, e.Y)
				}
			}
			for _, b := range w.Bullets().Live() {
				if b.SafeTime > BulletSafeTime {
					t.Fatalf("seed %d tick %d: safe time %d", seed, tick, b.SafeTime)
				}
			}
			for _, p := range w.Particles().Live() {
				if p.LifeTime > p.LifeTimeMax {
					t.Fatalf("seed %d tick %d: life %d > max %d", seed, tick, p.LifeTime, p.LifeTimeMax)
				}
				if p.LifeTime == 0 {
					continue
				}
				if want := particleRadius(p.RadiusMax, p.LifeTime, p.LifeTimeMax); p.Radius != want {
					t.Fatalf("seed %d tick %d: radius %v, want %v", seed, tick, p.Radius, want)
				}
			}
		}
		t.Logf("seed %d: %+v", seed, w.Stats())
	}
}
