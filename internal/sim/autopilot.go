package sim

// Autopilot steers the first live ship for headless runs. The ship is pulled
// toward the cursor, so the cursor is kept a short way off the ship: toward
// the nearest enemy while it is far enough to shoot at, away from it once it
// gets close.
type Autopilot struct {
	// Distance from the ship at which the cursor is placed.
	Standoff float32
	// Enemies nearer than this are fled from instead of fired at.
	Danger float32
	// Ships beyond this |x| are steered back toward the centre.
	EdgeMargin float32
}

// NewAutopilot returns an autopilot with tuned defaults.
func NewAutopilot() *Autopilot {
	return &Autopilot{Standoff: 0.2, Danger: 0.12, EdgeMargin: 0.75}
}

// Command computes the input for the next Step of w.
func (a *Autopilot) Command(w *World) Command {
	vp := w.cfg.Viewport
	ships := w.ships.Live()
	if len(ships) == 0 {
		px, py := vp.ToWindow(0.5, 0)
		return Command{CursorX: px, CursorY: py}
	}
	s := ships[0]

	tx, ty := s.X+a.Standoff, s.Y
	firing := false
	if e, d, ok := nearestEnemy(w.enemies.Live(), s.X, s.Y); ok && d > 0 {
		dx, dy := (e.X-s.X)/d, (e.Y-s.Y)/d
		if d < a.Danger {
			dx, dy = -dx, -dy
		} else {
			firing = true
		}
		tx, ty = s.X+dx*a.Standoff, s.Y+dy*a.Standoff
	}

	if s.X > a.EdgeMargin || s.X < -a.EdgeMargin {
		tx, ty = 0, s.Y
		firing = false
	}

	lim := w.extent * 0.95
	tx = clamp(tx, -0.95, 0.95)
	ty = clamp(ty, -lim, lim)

	// Never park the cursor on the ship.
	if length(tx-s.X, ty-s.Y) < 2*ShipRadius {
		if s.X > 0 {
			tx = s.X - a.Standoff
		} else {
			tx = s.X + a.Standoff
		}
	}

	px, py := vp.ToWindow(tx, ty)
	return Command{CursorX: px, CursorY: py, Firing: firing}
}

func nearestEnemy(enemies []Enemy, x, y float32) (Enemy, float32, bool) {
	best, bestD, found := Enemy{}, float32(0), false
	for _, e := range enemies {
		d := length(e.X-x, e.Y-y)
		if !found || d < bestD {
			best, bestD, found = e, d, true
		}
	}
	return best, bestD, found
}

func clamp(v, lo, hi float32) float32 {
	return min(max(v, lo), hi)
}
