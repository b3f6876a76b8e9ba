// Package sim is the per-frame entity simulation: four pools of ships,
// enemies, bullets and particles, advanced one tick at a time by Step.
//
// A World is single-threaded. The host calls Step once per frame and reads the
// pools or the mirror between steps, never during one.
package sim

import (
	"go.uber.org/zap"

	"github.com/Garsondee/Gravinyon/internal/mirror"
	"github.com/Garsondee/Gravinyon/internal/pool"
	"github.com/Garsondee/Gravinyon/internal/rng"
)

// Config holds the host-supplied constants of a World.
type Config struct {
	Viewport Viewport

	ShipCapacity     int
	EnemyCapacity    int
	BulletCapacity   int
	ParticleCapacity int

	// Recoil pushes a ship away from the cursor when it fires. Zero disables it.
	Recoil float32
}

// DefaultConfig returns a 1024x576 viewport and the stock pool sizes.
func DefaultConfig() Config {
	return Config{
		Viewport:         Viewport{Left: 0, Top: 0, Width: 1024, Height: 576},
		ShipCapacity:     16,
		EnemyCapacity:    32,
		BulletCapacity:   32,
		ParticleCapacity: 256,
	}
}

// Mirror holds the render copies of the four pools, refreshed after each
// phase of Step.
type Mirror struct {
	Ships     *mirror.Buffer[Ship]
	Enemies   *mirror.Buffer[Enemy]
	Bullets   *mirror.Buffer[Bullet]
	Particles *mirror.Buffer[Particle]
}

// Buffer names used as upload keys.
const (
	BufferShips     = "ships"
	BufferEnemies   = "enemies"
	BufferBullets   = "bullets"
	BufferParticles = "particles"
)

// Stats are running counters over the life of a World.
type Stats struct {
	Ticks int

	ShipsSpawned   int
	ShipDeaths     int
	DeathsByCursor int
	DeathsByEnemy  int
	DeathsByEdge   int
	DeathsByBullet int

	EnemiesSpawned int
	EnemiesKilled  int

	BulletsFired   int
	BulletsExpired int

	ParticlesSpawned int
	ParticlesExpired int

	// Fires where the bullet pool outgrew the capacity it had before the
	// allocation, meaning a fixed-size bullet buffer would be too small.
	BulletBufferOverflows int

	PeakEnemies   int
	PeakBullets   int
	PeakParticles int
}

// World is the simulation context. It owns the pools, the random source and
// the mirror; nothing about it is global.
type World struct {
	cfg    Config
	extent float32

	rnd    rng.Source
	sounds SoundPlayer
	log    *zap.Logger
	events *EventLog
	up     mirror.Uploader

	ships     *pool.Pool[Ship]
	enemies   *pool.Pool[Enemy]
	bullets   *pool.Pool[Bullet]
	particles *pool.Pool[Particle]

	mirror Mirror

	tick  int
	stats Stats
}

// Option configures a World at construction.
type Option func(*World)

// WithSource sets the random source. The default is rng.NewRand(1).
func WithSource(src rng.Source) Option {
	return func(w *World) { w.rnd = src }
}

// WithSounds sets the sound player. The default discards sounds.
func WithSounds(p SoundPlayer) Option {
	return func(w *World) { w.sounds = p }
}

// WithUploader sets the consumer of mirror publishes.
func WithUploader(up mirror.Uploader) Option {
	return func(w *World) { w.up = up }
}

// WithLogger sets the diagnostics logger. The default is a no-op logger.
func WithLogger(l *zap.Logger) Option {
	return func(w *World) { w.log = l }
}

// WithEventLog records gameplay events into l.
func WithEventLog(l *EventLog) Option {
	return func(w *World) { w.events = l }
}

// New creates a World with empty pools. No ship is spawned; call SpawnShip.
func New(cfg Config, opts ...Option) *World {
	w := &World{
		cfg:    cfg,
		extent: cfg.Viewport.Extent(),
		rnd:    rng.NewRand(1),
		sounds: silent{},
		log:    zap.NewNop(),
	}
	for _, o := range opts {
		o(w)
	}
	if w.sounds == nil {
		w.sounds = silent{}
	}
	if w.log == nil {
		w.log = zap.NewNop()
	}

	w.ships = pool.New[Ship](cfg.ShipCapacity)
	w.enemies = pool.New[Enemy](cfg.EnemyCapacity)
	w.bullets = pool.New[Bullet](cfg.BulletCapacity)
	w.particles = pool.New[Particle](cfg.ParticleCapacity)

	w.mirror = Mirror{
		Ships:     mirror.NewBuffer[Ship](BufferShips, w.ships.Cap(), w.up, w.log),
		Enemies:   mirror.NewBuffer[Enemy](BufferEnemies, w.enemies.Cap(), w.up, w.log),
		Bullets:   mirror.NewBuffer[Bullet](BufferBullets, w.bullets.Cap(), w.up, w.log),
		Particles: mirror.NewBuffer[Particle](BufferParticles, w.particles.Cap(), w.up, w.log),
	}
	return w
}

// SpawnShip adds a ship at the origin, at rest, ready to fire.
func (w *World) SpawnShip() *Ship {
	s := w.ships.Alloc()
	s.ReloadMax = DefaultReloadMax
	w.stats.ShipsSpawned++
	w.event(CatShip, KeySpawn, "", s.X, s.Y, 0)
	return s
}

// Ships returns the ship pool. Callers must not keep indices across a Step.
func (w *World) Ships() *pool.Pool[Ship] { return w.ships }

// Enemies returns the enemy pool.
func (w *World) Enemies() *pool.Pool[Enemy] { return w.enemies }

// Bullets returns the bullet pool.
func (w *World) Bullets() *pool.Pool[Bullet] { return w.bullets }

// Particles returns the particle pool.
func (w *World) Particles() *pool.Pool[Particle] { return w.particles }

// Mirror returns the render copies as of the last Step.
func (w *World) Mirror() *Mirror { return &w.mirror }

// Stats returns a copy of the running counters.
func (w *World) Stats() Stats { return w.stats }

// Tick returns the number of completed steps.
func (w *World) Tick() int { return w.tick }

// Config returns the configuration the World was built with.
func (w *World) Config() Config { return w.cfg }

// Extent returns the world y of the top edge; the bottom edge is its negation.
func (w *World) Extent() float32 { return w.extent }

// Events returns the event log, or nil when none was configured.
func (w *World) Events() *EventLog { return w.events }

// Close releases pools and mirror buffers. The World must not be used
// afterwards.
func (w *World) Close() {
	w.ships.Release()
	w.enemies.Release()
	w.bullets.Release()
	w.particles.Release()
	w.mirror.Ships.Release()
	w.mirror.Enemies.Release()
	w.mirror.Bullets.Release()
	w.mirror.Particles.Release()
}

func (w *World) event(cat, key, value string, x, y float32, num float64) {
	if w.events == nil {
		return
	}
	w.events.Add(Event{Tick: w.tick, Category: cat, Key: key, Value: value, X: x, Y: y, NumVal: num})
}
