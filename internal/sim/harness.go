package sim

import (
	"github.com/Garsondee/Gravinyon/internal/mirror"
	"github.com/Garsondee/Gravinyon/internal/rng"
)

// Harness is a headless driver around a World for tests and batch runs. It
// owns the command fed to each Step and records sounds, uploads and events.
type Harness struct {
	World   *World
	Events  *EventLog
	Sounds  *SoundCounter
	Uploads *mirror.Recorder

	cfg     Config
	src     rng.Source
	verbose bool
	cmd     Command
}

// harnessOptionKind controls the pass in which an option is applied.
type harnessOptionKind int

const (
	harnessOptInfra  harnessOptionKind = iota // config, source, verbose: applied before the World exists
	harnessOptEntity                          // entities: applied to the new World
	harnessOptInput                           // cursor and firing: applied last, needs the viewport
)

// HarnessOption is a builder function applied to a Harness during construction.
type HarnessOption struct {
	kind harnessOptionKind
	fn   func(*Harness)
}

// WithSeed seeds a math/rand source for deterministic runs.
func WithSeed(seed int64) HarnessOption {
	return HarnessOption{harnessOptInfra, func(h *Harness) {
		h.src = rng.NewRand(seed)
	}}
}

// WithRandom sets the random source directly, e.g. rng.Min{}.
func WithRandom(src rng.Source) HarnessOption {
	return HarnessOption{harnessOptInfra, func(h *Harness) {
		h.src = src
	}}
}

// WithConfig replaces the World configuration.
func WithConfig(cfg Config) HarnessOption {
	return HarnessOption{harnessOptInfra, func(h *Harness) {
		h.cfg = cfg
	}}
}

// WithPools sets the starting pool capacities.
func WithPools(ships, enemies, bullets, particles int) HarnessOption {
	return HarnessOption{harnessOptInfra, func(h *Harness) {
		h.cfg.ShipCapacity = ships
		h.cfg.EnemyCapacity = enemies
		h.cfg.BulletCapacity = bullets
		h.cfg.ParticleCapacity = particles
	}}
}

// WithVerbose enables per-tick pool count events.
func WithVerbose(v bool) HarnessOption {
	return HarnessOption{harnessOptInfra, func(h *Harness) {
		h.verbose = v
	}}
}

// WithShip places a ship record as given.
func WithShip(s Ship) HarnessOption {
	return HarnessOption{harnessOptEntity, func(h *Harness) {
		*h.World.ships.Alloc() = s
	}}
}

// WithSpawnedShip spawns a ship the way the game does, at the origin.
func WithSpawnedShip() HarnessOption {
	return HarnessOption{harnessOptEntity, func(h *Harness) {
		h.World.SpawnShip()
	}}
}

// WithEnemy places an enemy record as given.
func WithEnemy(e Enemy) HarnessOption {
	return HarnessOption{harnessOptEntity, func(h *Harness) {
		*h.World.enemies.Alloc() = e
	}}
}

// WithBullet places a bullet record as given.
func WithBullet(b Bullet) HarnessOption {
	return HarnessOption{harnessOptEntity, func(h *Harness) {
		*h.World.bullets.Alloc() = b
	}}
}

// WithParticle places a particle record as given.
func WithParticle(p Particle) HarnessOption {
	return HarnessOption{harnessOptEntity, func(h *Harness) {
		*h.World.particles.Alloc() = p
	}}
}

// WithCursor points the cursor at world coordinates (wx, wy).
func WithCursor(wx, wy float32) HarnessOption {
	return HarnessOption{harnessOptInput, func(h *Harness) {
		h.SetCursor(wx, wy)
	}}
}

// WithFiring holds the fire button down (or releases it).
func WithFiring(firing bool) HarnessOption {
	return HarnessOption{harnessOptInput, func(h *Harness) {
		h.cmd.Firing = firing
	}}
}

// NewHarness constructs a Harness from the given options in three ordered passes:
//  1. Infrastructure (config, random source, verbose)
//  2. Build the World, then place entities
//  3. Input (cursor, firing)
//
// Without WithCursor the cursor sits at the world point (0.5, 0), away from a
// ship spawned at the origin.
func NewHarness(opts ...HarnessOption) *Harness {
	h := &Harness{
		cfg:     DefaultConfig(),
		src:     rng.NewRand(1),
		Sounds:  &SoundCounter{},
		Uploads: &mirror.Recorder{},
	}
	for _, o := range opts {
		if o.kind == harnessOptInfra {
			o.fn(h)
		}
	}
	h.Events = NewEventLog(h.verbose)
	h.World = New(h.cfg,
		WithSource(h.src),
		WithSounds(h.Sounds),
		WithUploader(h.Uploads),
		WithEventLog(h.Events),
	)
	for _, o := range opts {
		if o.kind == harnessOptEntity {
			o.fn(h)
		}
	}
	h.SetCursor(0.5, 0)
	for _, o := range opts {
		if o.kind == harnessOptInput {
			o.fn(h)
		}
	}
	return h
}

// SetCursor moves the cursor to world coordinates (wx, wy).
func (h *Harness) SetCursor(wx, wy float32) {
	h.cmd.CursorX, h.cmd.CursorY = h.cfg.Viewport.ToWindow(wx, wy)
}

// SetFiring sets the fire button state for following steps.
func (h *Harness) SetFiring(firing bool) {
	h.cmd.Firing = firing
}

// Command returns the command the next step will use.
func (h *Harness) Command() Command { return h.cmd }

// Step advances one tick with the current command.
func (h *Harness) Step() {
	h.World.Step(h.cmd)
}

// RunTicks advances the simulation n ticks.
func (h *Harness) RunTicks(n int) {
	for i := 0; i < n; i++ {
		h.World.Step(h.cmd)
	}
}

// RunUntil advances the simulation up to maxTicks, stopping early if predicate
// returns true. Returns the tick at which the predicate was satisfied, or -1.
func (h *Harness) RunUntil(predicate func(*Harness) bool, maxTicks int) int {
	for i := 0; i < maxTicks; i++ {
		h.World.Step(h.cmd)
		if predicate(h) {
			return h.World.Tick()
		}
	}
	return -1
}

// Snapshot is a lightweight summary of the world at a tick.
type Snapshot struct {
	Tick      int
	Ships     int
	Enemies   int
	Bullets   int
	Particles int
	Stats     Stats
}

// Snapshot returns the current pool sizes and counters.
func (h *Harness) Snapshot() Snapshot {
	w := h.World
	return Snapshot{
		Tick:      w.Tick(),
		Ships:     w.ships.Len(),
		Enemies:   w.enemies.Len(),
		Bullets:   w.bullets.Len(),
		Particles: w.particles.Len(),
		Stats:     w.Stats(),
	}
}
