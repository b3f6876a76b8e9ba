package game

import (
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	"go.uber.org/zap"

	"github.com/Garsondee/Gravinyon/internal/mirror"
	"github.com/Garsondee/Gravinyon/internal/sim"
)

// reportFeedLines is how many feed entries the debug report carries.
const reportFeedLines = 20

// debugReport summarises the world state as plain text for bug reports.
func (g *Game) debugReport() string {
	w := g.world
	st := w.Stats()
	m := w.Mirror()

	var b strings.Builder
	fmt.Fprintf(&b, "--- Gravinyon debug report ---\n")
	fmt.Fprintf(&b, "seed=%d tick=%d paused=%v\n", g.seed, w.Tick(), g.paused)
	vp := w.Config().Viewport
	fmt.Fprintf(&b, "viewport=%.0fx%.0f+%.0f+%.0f extent=%.4f\n\n", vp.Width, vp.Height, vp.Left, vp.Top, w.Extent())

	b.WriteString("== pools ==\n")
	fmt.Fprintf(&b, "ships     %4d / %4d\n", w.Ships().Len(), w.Ships().Cap())
	fmt.Fprintf(&b, "enemies   %4d / %4d\n", w.Enemies().Len(), w.Enemies().Cap())
	fmt.Fprintf(&b, "bullets   %4d / %4d\n", w.Bullets().Len(), w.Bullets().Cap())
	fmt.Fprintf(&b, "particles %4d / %4d\n\n", w.Particles().Len(), w.Particles().Cap())

	b.WriteString("== mirror ==\n")
	writeBuffer(&b, m.Ships)
	writeBuffer(&b, m.Enemies)
	writeBuffer(&b, m.Bullets)
	writeBuffer(&b, m.Particles)
	b.WriteByte('\n')

	b.WriteString("== stats ==\n")
	fmt.Fprintf(&b, "ships spawned=%d deaths=%d (cursor=%d enemy=%d edge=%d bullet=%d)\n",
		st.ShipsSpawned, st.ShipDeaths, st.DeathsByCursor, st.DeathsByEnemy, st.DeathsByEdge, st.DeathsByBullet)
	fmt.Fprintf(&b, "enemies spawned=%d killed=%d peak=%d\n", st.EnemiesSpawned, st.EnemiesKilled, st.PeakEnemies)
	fmt.Fprintf(&b, "bullets fired=%d expired=%d peak=%d overflows=%d\n",
		st.BulletsFired, st.BulletsExpired, st.PeakBullets, st.BulletBufferOverflows)
	fmt.Fprintf(&b, "particles spawned=%d expired=%d peak=%d\n", st.ParticlesSpawned, st.ParticlesExpired, st.PeakParticles)

	recent := g.feed.Recent()
	if len(recent) > reportFeedLines {
		recent = recent[len(recent)-reportFeedLines:]
	}
	if len(recent) > 0 {
		b.WriteString("\n== recent events ==\n")
		for _, e := range recent {
			fmt.Fprintf(&b, "%5d %-6s %s\n", e.Tick, e.Category, e.Message)
		}
	}
	return b.String()
}

type bufferInfo interface {
	Name() string
	Len() int
	Cap() int
	Stride() int
	Publishes() int
	Grows() int
}

var (
	_ bufferInfo = (*mirror.Buffer[sim.Ship])(nil)
	_ bufferInfo = (*mirror.Buffer[sim.Particle])(nil)
)

func writeBuffer(b *strings.Builder, buf bufferInfo) {
	fmt.Fprintf(b, "%-9s count=%d cap=%d stride=%d publishes=%d grows=%d\n",
		buf.Name(), buf.Len(), buf.Cap(), buf.Stride(), buf.Publishes(), buf.Grows())
}

// writeClipboard is swapped out in tests.
var writeClipboard = clipboard.WriteAll

// copyReport puts the debug report on the system clipboard. Failure is
// logged and shown on the HUD, never fatal.
func (g *Game) copyReport() {
	report := g.debugReport()
	g.lastReport = report
	if err := writeClipboard(report); err != nil {
		g.log.Warn("clipboard unavailable", zap.Error(err), zap.Int("bytes", len(report)))
		g.flash("clipboard unavailable")
		return
	}
	g.log.Info("debug report copied", zap.Int("bytes", len(report)), zap.Int("tick", g.world.Tick()))
	g.flash("report copied")
}
