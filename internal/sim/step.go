package sim

import (
	"math"

	"go.uber.org/zap"
)

// Command is the input snapshot for one Step. The cursor is in window pixels.
type Command struct {
	CursorX, CursorY float64
	Firing           bool
}

// Death causes, used in events.
const (
	causeCursor = "cursor"
	causeEnemy  = "enemy"
	causeEdge   = "edge"
	causeBullet = "bullet"
)

// Step advances the world one tick: spawn enemies, then update ships,
// bullets, enemies and particles in that order. Each phase publishes its pool
// to the mirror before the next phase starts.
func (w *World) Step(cmd Command) {
	w.tick++
	w.stats.Ticks++

	w.spawnEnemies()

	cx, cy := w.cfg.Viewport.ToWorld(cmd.CursorX, cmd.CursorY)
	w.updateShips(cx, cy, cmd.Firing)
	w.mirror.Ships.Publish(w.ships.Live())

	w.updateBullets()
	w.mirror.Bullets.Publish(w.bullets.Live())

	w.updateEnemies()
	w.mirror.Enemies.Publish(w.enemies.Live())

	w.updateParticles()
	w.mirror.Particles.Publish(w.particles.Live())

	w.stats.PeakEnemies = max(w.stats.PeakEnemies, w.enemies.Len())
	w.stats.PeakBullets = max(w.stats.PeakBullets, w.bullets.Len())
	w.stats.PeakParticles = max(w.stats.PeakParticles, w.particles.Len())

	if w.events != nil && w.events.Verbose() {
		w.events.AddVerbose(Event{
			Tick:     w.tick,
			Category: CatPool,
			Key:      KeyCounts,
			Value: formatCounts(w.ships.Len(), w.enemies.Len(),
				w.bullets.Len(), w.particles.Len()),
		})
	}
}

// spawnEnemies drops a batch of enemies on the right edge when few are left,
// and rarely otherwise.
func (w *World) spawnEnemies() {
	if w.enemies.Len() > 3 && w.rnd.Int(0, 999) != 0 {
		return
	}
	n := w.rnd.Int(2, 8)
	for i := 0; i < n; i++ {
		e := w.enemies.Alloc()
		e.R, e.G, e.B = 0, 1, 1
		e.X = 1
		if w.rnd.Int(0, 3) == 0 {
			// Straight in from the right.
			e.Y = w.rnd.Float(-w.extent, w.extent)
			e.Angle = math.Pi + w.rnd.Float(-0.06, 0.06)
			e.Speed = w.rnd.Float(0.004, 0.009)
		} else {
			e.Y = w.rnd.Float(-w.extent, w.extent)
			e.Angle = w.rnd.Float(tau*5/16, tau*11/16)
			e.Speed = w.rnd.Float(0.001, 0.006)
		}
		w.event(CatEnemy, KeySpawn, "", e.X, e.Y, float64(e.Speed))
	}
	w.stats.EnemiesSpawned += n
}

func (w *World) updateShips(cx, cy float32, firing bool) {
	c := w.ships.Cursor()
	for c.Next() {
		if w.updateShip(c.Current(), cx, cy, firing) {
			c.RemoveCurrent()
		}
	}
}

// updateShip advances one ship and reports whether it died. A dead ship has
// already exploded; the caller removes it.
func (w *World) updateShip(s *Ship, cx, cy float32, firing bool) bool {
	vx, vy := velocity(s.Angle, s.Speed)

	dist := length(s.X-cx, s.Y-cy)
	if dist < ShipRadius {
		w.killShip(s, s.Angle, s.Speed, causeCursor)
		return true
	}
	for _, e := range w.enemies.Live() {
		if length(s.X-e.X, s.Y-e.Y) < ShipRadius+EnemyRadius {
			w.killShip(s, s.Angle, s.Speed, causeEnemy)
			return true
		}
	}

	aim := atan2(cy-s.Y, cx-s.X)

	if s.Reload > 0 {
		s.Reload--
	} else if firing {
		s.Reload = s.ReloadMax
		w.sounds.Play(SoundPew)
		if w.cfg.Recoil != 0 {
			rx, ry := velocity(aim, w.cfg.Recoil)
			vx -= rx
			vy -= ry
		}
		w.fire(s, aim, dist)
	}

	vx += Gravity * (cx - s.X) / dist
	vy += Gravity * (cy - s.Y) / dist

	s.X += vx
	s.Y += vy

	if s.X < -1 || s.X > 1 {
		w.killShip(s, s.Angle, -s.Speed, causeEdge)
		return true
	}
	if s.Y < -w.extent {
		s.Y = -w.extent
		vy *= -ShipBounce
	} else if s.Y > w.extent {
		s.Y = w.extent
		vy *= -ShipBounce
	}

	s.Angle = atan2(vy, vx)
	s.Speed = length(vx, vy)
	s.DrawAngle = aim
	return false
}

// fire spawns a bullet just outside the ship, heading for the cursor. The
// closer the cursor, the faster the bullet.
func (w *World) fire(s *Ship, aim, dist float32) {
	prior := w.bullets.Cap()
	b := w.bullets.Alloc()
	ax, ay := velocity(aim, ShipRadius)
	b.X = s.X + ax
	b.Y = s.Y + ay
	b.R, b.G, b.B = 1, 1, 1
	b.TailX, b.TailY = s.X, s.Y
	b.Angle = aim
	b.Speed = BulletSpeedFactor / dist
	b.SafeTime = BulletSafeTime

	w.stats.BulletsFired++
	w.event(CatBullet, KeyFire, "", b.X, b.Y, float64(b.Speed))

	if n := w.bullets.Len(); n > prior {
		w.stats.BulletBufferOverflows++
		w.log.Warn("bullet pool outgrew its buffer",
			zap.Int("count", n),
			zap.Int("prior_capacity", prior),
		)
		w.event(CatDiag, KeyOverflow, BufferBullets, 0, 0, float64(n))
	}
}

func (w *World) killShip(s *Ship, angle, speed float32, cause string) {
	w.sounds.Play(SoundDie)
	w.explode(s.X, s.Y, angle, speed, w.rnd.Int(shipExplosionMin, shipExplosionMax))

	w.stats.ShipDeaths++
	switch cause {
	case causeCursor:
		w.stats.DeathsByCursor++
	case causeEnemy:
		w.stats.DeathsByEnemy++
	case causeEdge:
		w.stats.DeathsByEdge++
	case causeBullet:
		w.stats.DeathsByBullet++
	}
	w.log.Debug("ship died", zap.String("cause", cause), zap.Int("tick", w.tick))
	w.event(CatShip, KeyDie, cause, s.X, s.Y, 0)
}

func (w *World) updateBullets() {
	c := w.bullets.Cursor()
	for c.Next() {
		if w.updateBullet(c.Current()) {
			c.RemoveCurrent()
		}
	}
}

// updateBullet advances one bullet and reports whether it is gone.
func (w *World) updateBullet(b *Bullet) bool {
	b.TailX = (b.X + float32(tailWeight*b.TailX)) / (tailWeight + 1)
	b.TailY = (b.Y + float32(tailWeight*b.TailY)) / (tailWeight + 1)

	vx, vy := velocity(b.Angle, b.Speed)
	b.X += vx
	b.Y += vy

	if b.TailX < -1 || b.TailX > 1 || b.TailY < -1 || b.TailY > 1 {
		w.stats.BulletsExpired++
		w.event(CatBullet, KeyExpire, "", b.X, b.Y, 0)
		return true
	}

	ec := w.enemies.Cursor()
	for ec.Next() {
		e := ec.Current()
		if !segmentHits(b, e.X, e.Y, EnemyRadius) {
			continue
		}
		w.sounds.Play(SoundBoom)
		w.explode(e.X, e.Y, b.Angle, b.Speed, w.rnd.Int(enemyExplosionMin, enemyExplosionMax))
		w.stats.EnemiesKilled++
		w.log.Debug("enemy killed", zap.Int("tick", w.tick))
		w.event(CatEnemy, KeyKill, "", e.X, e.Y, 0)
		ec.RemoveCurrent()
		return true
	}

	if b.SafeTime > 0 {
		b.SafeTime--
		return false
	}

	sc := w.ships.Cursor()
	for sc.Next() {
		s := sc.Current()
		if length(b.X-s.X, b.Y-s.Y) < ShipRadius {
			w.killShip(s, s.Angle, s.Speed, causeBullet)
			sc.RemoveCurrent()
			return true
		}
	}
	return false
}

// segmentHits samples the bullet's tail-to-head segment every
// BulletSampleStep and reports whether any sample lies within radius of
// (x, y). A zero-length segment is treated as minSegmentLength long.
func segmentHits(b *Bullet, x, y, radius float32) bool {
	l := length(b.X-b.TailX, b.Y-b.TailY)
	if l == 0 {
		l = minSegmentLength
	}
	for s := float32(0); s <= l; s += BulletSampleStep {
		u := s / l
		sx := b.TailX*u + b.X*(1-u)
		sy := b.TailY*u + b.Y*(1-u)
		if length(x-sx, y-sy) < radius {
			return true
		}
	}
	return false
}

func (w *World) updateEnemies() {
	enemies := w.enemies.Live()
	for i := range enemies {
		e := &enemies[i]
		vx, vy := velocity(e.Angle, e.Speed)
		e.X += vx
		e.Y += vy

		if e.X < -1 {
			e.X = 1
		} else if e.X > 1 {
			e.X = -1
		}
		if e.Y < -w.extent {
			e.Y = -w.extent
			vy = -vy
		} else if e.Y > w.extent {
			e.Y = w.extent
			vy = -vy
		}

		e.Angle = atan2(vy, vx)
		e.Speed = length(vx, vy)
	}
}

func (w *World) updateParticles() {
	c := w.particles.Cursor()
	for c.Next() {
		if w.updateParticle(c.Current()) {
			c.RemoveCurrent()
			w.stats.ParticlesExpired++
		}
	}
}

// updateParticle ages and moves one particle and reports whether it is gone.
func (w *World) updateParticle(p *Particle) bool {
	if p.LifeTime == 0 {
		return true
	}
	p.LifeTime--
	p.Radius = particleRadius(p.RadiusMax, p.LifeTime, p.LifeTimeMax)

	vx, vy := velocity(p.Angle, p.Speed)
	p.X += vx
	p.Y += vy

	if p.X < -1-p.Radius || p.X > 1+p.Radius || p.Y < -1-p.Radius || p.Y > 1+p.Radius {
		return true
	}
	p.DrawAngle += p.Rotation
	return false
}

// explode spawns n white particles at (x, y) scattered around the given
// heading and speed.
func (w *World) explode(x, y, angle, speed float32, n int) {
	for i := 0; i < n; i++ {
		p := w.particles.Alloc()
		p.X, p.Y = x, y
		p.R, p.G, p.B = 1, 1, 1
		p.RadiusMax = w.rnd.Float(0.005, 0.018)
		p.Radius = p.RadiusMax
		p.DrawAngle = w.rnd.Float(0, tau)
		p.Angle = angle + w.rnd.Float(-0.4, 0.4)
		p.Speed = speed * w.rnd.Float(0.1, 1.3)
		p.Rotation = w.rnd.Float(-0.03, 0.03)
		p.LifeTimeMax = uint32(w.rnd.Int(20, 70))
		p.LifeTime = p.LifeTimeMax
	}
	w.stats.ParticlesSpawned += n
}
