package sim

import (
	"math"
	"unsafe"
)

// Records are stored by value in their pools and mirrored byte-for-byte to
// the renderer, so field order is part of the render contract. Every field is
// 4 bytes wide and there is no padding.

// Ship is a player ship. Velocity is kept as (Angle, Speed); DrawAngle is the
// sprite facing and points at the cursor.
type Ship struct {
	X, Y      float32
	DrawAngle float32
	Angle     float32
	Speed     float32
	Reload    uint32
	ReloadMax uint32
}

// Enemy drifts across the world, wrapping horizontally and bouncing
// vertically.
type Enemy struct {
	X, Y    float32
	R, G, B float32
	Angle   float32
	Speed   float32
}

// Bullet carries a smoothed tail point trailing its position. SafeTime counts
// down the ticks during which it cannot hit a ship.
type Bullet struct {
	X, Y         float32
	R, G, B      float32
	Angle        float32
	TailX, TailY float32
	Speed        float32
	SafeTime     uint32
}

// Particle is a short-lived explosion fragment. Radius shrinks linearly with
// remaining life.
type Particle struct {
	X, Y        float32
	R, G, B     float32
	DrawAngle   float32
	Radius      float32
	Rotation    float32
	Angle       float32
	Speed       float32
	RadiusMax   float32
	LifeTime    uint32
	LifeTimeMax uint32
}

// Attribute locates one vertex attribute inside a record.
type Attribute struct {
	Name       string
	Offset     uintptr
	Components int
}

// Layout is the vertex layout a renderer binds for one pool's buffer.
type Layout struct {
	Stride     uintptr
	Attributes []Attribute
}

var (
	ShipLayout = Layout{
		Stride: unsafe.Sizeof(Ship{}),
		Attributes: []Attribute{
			{"position", unsafe.Offsetof(Ship{}.X), 2},
			{"draw_angle", unsafe.Offsetof(Ship{}.DrawAngle), 1},
		},
	}
	EnemyLayout = Layout{
		Stride: unsafe.Sizeof(Enemy{}),
		Attributes: []Attribute{
			{"position", unsafe.Offsetof(Enemy{}.X), 2},
			{"color", unsafe.Offsetof(Enemy{}.R), 3},
			{"angle", unsafe.Offsetof(Enemy{}.Angle), 1},
		},
	}
	BulletLayout = Layout{
		Stride: unsafe.Sizeof(Bullet{}),
		Attributes: []Attribute{
			{"position", unsafe.Offsetof(Bullet{}.X), 2},
			{"color", unsafe.Offsetof(Bullet{}.R), 3},
			{"angle", unsafe.Offsetof(Bullet{}.Angle), 1},
			{"tail", unsafe.Offsetof(Bullet{}.TailX), 2},
		},
	}
	ParticleLayout = Layout{
		Stride: unsafe.Sizeof(Particle{}),
		Attributes: []Attribute{
			{"position", unsafe.Offsetof(Particle{}.X), 2},
			{"color", unsafe.Offsetof(Particle{}.R), 3},
			{"draw_angle", unsafe.Offsetof(Particle{}.DrawAngle), 1},
			{"radius", unsafe.Offsetof(Particle{}.Radius), 1},
		},
	}
)

// Gameplay constants in world units (the world is 2 wide).
const (
	ShipRadius  = 0.013
	EnemyRadius = 0.012

	// Cursor pull applied to ship velocity each tick.
	Gravity = 0.0008
	// Vertical velocity kept by a ship bouncing off the top or bottom.
	ShipBounce = 0.8

	DefaultReloadMax = 5

	// Bullet speed is BulletSpeedFactor divided by the ship-cursor distance.
	BulletSpeedFactor = 0.009
	BulletSafeTime    = 20
	// Spacing of hit samples along a bullet's tail-to-head segment.
	BulletSampleStep = 0.010
	minSegmentLength = 0.0001

	// Weight of the old tail in the tail smoothing filter, out of 5.
	tailWeight = 4

	tau = 2 * math.Pi
)

// Explosion sizes, inclusive.
const (
	shipExplosionMin  = 50
	shipExplosionMax  = 70
	enemyExplosionMin = 30
	enemyExplosionMax = 50
)

func length(x, y float32) float32 {
	return float32(math.Sqrt(float64(x*x + y*y)))
}

func atan2(y, x float32) float32 {
	return float32(math.Atan2(float64(y), float64(x)))
}

func velocity(angle, speed float32) (vx, vy float32) {
	s, c := math.Sincos(float64(angle))
	return float32(c) * speed, float32(s) * speed
}

// particleRadius is the radius a particle has with lt of ltMax ticks left.
func particleRadius(radiusMax float32, lt, ltMax uint32) float32 {
	return radiusMax * (float32(lt) / float32(ltMax))
}
