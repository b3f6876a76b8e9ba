package game

import (
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/Garsondee/Gravinyon/internal/sim"
)

var (
	shipColor     = color.RGBA{R: 235, G: 240, B: 255, A: 255}
	shipHullColor = color.RGBA{R: 90, G: 120, B: 200, A: 255}
	borderColor   = color.RGBA{R: 40, G: 50, B: 80, A: 255}
	cursorColor   = color.RGBA{R: 200, G: 60, B: 60, A: 200}
)

// toScreen maps a world position to screen pixels.
func toScreen(vp sim.Viewport, x, y float32) (float32, float32) {
	px, py := vp.ToWindow(x, y)
	return float32(px), float32(py)
}

// pixelsPerUnit is the screen length of one world unit. The world is two
// units wide.
func pixelsPerUnit(vp sim.Viewport) float32 {
	return float32(vp.Width / 2)
}

// rgba converts a record colour in [0, 1] to a screen colour.
func rgba(r, g, b float32, a uint8) color.RGBA {
	return color.RGBA{R: channel(r), G: channel(g), B: channel(b), A: a}
}

func channel(v float32) uint8 {
	switch {
	case v <= 0:
		return 0
	case v >= 1:
		return 255
	}
	return uint8(v*255 + 0.5)
}

// drawWorld renders the last published mirror records. It never reads the
// live pools.
func (g *Game) drawWorld(screen *ebiten.Image) {
	vp := g.world.Config().Viewport
	m := g.world.Mirror()

	vector.StrokeRect(screen, float32(vp.Left)-1, float32(vp.Top)-1, float32(vp.Width)+2, float32(vp.Height)+2, 1.0, borderColor, false)

	for _, p := range m.Particles.Records() {
		drawParticle(screen, vp, p)
	}
	for _, e := range m.Enemies.Records() {
		drawEnemy(screen, vp, e)
	}
	for _, b := range m.Bullets.Records() {
		drawBullet(screen, vp, b)
	}
	for _, s := range m.Ships.Records() {
		drawShip(screen, vp, s)
	}
	g.drawCursor(screen)
}

// shipOutline returns the three world-space corners of a ship arrowhead.
func shipOutline(s sim.Ship) [3][2]float32 {
	const r = sim.ShipRadius
	var pts [3][2]float32
	for i, a := range [3]float64{0, 2.5, -2.5} {
		sin, cos := math.Sincos(float64(s.DrawAngle) + a)
		k := float32(r)
		if i > 0 {
			k = r * 0.8
		}
		pts[i] = [2]float32{s.X + k*float32(cos), s.Y + k*float32(sin)}
	}
	return pts
}

func drawShip(screen *ebiten.Image, vp sim.Viewport, s sim.Ship) {
	pts := shipOutline(s)
	var path vector.Path
	for i, p := range pts {
		x, y := toScreen(vp, p[0], p[1])
		if i == 0 {
			path.MoveTo(x, y)
		} else {
			path.LineTo(x, y)
		}
	}
	path.Close()
	op := &vector.DrawPathOptions{AntiAlias: true}
	op.ColorScale.ScaleWithColor(shipHullColor)
	vector.FillPath(screen, &path, &vector.FillOptions{}, op)

	sx, sy := toScreen(vp, s.X, s.Y)
	vector.StrokeCircle(screen, sx, sy, sim.ShipRadius*pixelsPerUnit(vp), 1.0, shipColor, true)
}

func drawEnemy(screen *ebiten.Image, vp sim.Viewport, e sim.Enemy) {
	ex, ey := toScreen(vp, e.X, e.Y)
	r := sim.EnemyRadius * pixelsPerUnit(vp)
	c := rgba(e.R, e.G, e.B, 255)
	vector.StrokeCircle(screen, ex, ey, r, 1.5, c, true)

	sin, cos := math.Sincos(float64(e.Angle))
	hx, hy := toScreen(vp, e.X+sim.EnemyRadius*float32(cos), e.Y+sim.EnemyRadius*float32(sin))
	vector.StrokeLine(screen, ex, ey, hx, hy, 1.0, c, true)
}

func drawBullet(screen *ebiten.Image, vp sim.Viewport, b sim.Bullet) {
	hx, hy := toScreen(vp, b.X, b.Y)
	tx, ty := toScreen(vp, b.TailX, b.TailY)
	vector.StrokeLine(screen, tx, ty, hx, hy, 2.0, rgba(b.R, b.G, b.B, 255), true)
}

// drawParticle renders a spinning square shard that shrinks with its
// remaining life.
func drawParticle(screen *ebiten.Image, vp sim.Viewport, p sim.Particle) {
	if p.Radius <= 0 {
		return
	}
	var path vector.Path
	for i := 0; i < 4; i++ {
		sin, cos := math.Sincos(float64(p.DrawAngle) + float64(i)*math.Pi/2)
		x, y := toScreen(vp, p.X+p.Radius*float32(cos), p.Y+p.Radius*float32(sin))
		if i == 0 {
			path.MoveTo(x, y)
		} else {
			path.LineTo(x, y)
		}
	}
	path.Close()
	alpha := uint8(255)
	if p.RadiusMax > 0 {
		alpha = channel(p.Radius / p.RadiusMax)
	}
	op := &vector.DrawPathOptions{AntiAlias: true}
	op.ColorScale.ScaleWithColor(rgba(p.R, p.G, p.B, alpha))
	vector.FillPath(screen, &path, &vector.FillOptions{}, op)
}

// drawCursor marks the kill zone around the pointer.
func (g *Game) drawCursor(screen *ebiten.Image) {
	vp := g.world.Config().Viewport
	if !vp.Contains(g.cmd.CursorX, g.cmd.CursorY) {
		return
	}
	r := sim.ShipRadius * pixelsPerUnit(vp)
	vector.StrokeCircle(screen, float32(g.cmd.CursorX), float32(g.cmd.CursorY), r, 1.0, cursorColor, true)
}
