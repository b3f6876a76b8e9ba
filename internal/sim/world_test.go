package sim

import (
	"math"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/Garsondee/Gravinyon/internal/mirror"
	"github.com/Garsondee/Gravinyon/internal/rng"
)

func TestLayouts_MatchRecordOrder(t *testing.T) {
	cases := []struct {
		name    string
		layout  Layout
		stride  uintptr
		offsets map[string]uintptr
	}{
		{"ship", ShipLayout, 28, map[string]uintptr{"position": 0, "draw_angle": 8}},
		{"enemy", EnemyLayout, 28, map[string]uintptr{"position": 0, "color": 8, "angle": 20}},
		{"bullet", BulletLayout, 40, map[string]uintptr{"position": 0, "color": 8, "angle": 20, "tail": 24}},
		{"particle", ParticleLayout, 52, map[string]uintptr{"position": 0, "color": 8, "draw_angle": 20, "radius": 24}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if tc.layout.Stride != tc.stride {
				t.Fatalf("stride %d, want %d", tc.layout.Stride, tc.stride)
			}
			if len(tc.layout.Attributes) != len(tc.offsets) {
				t.Fatalf("got %d attributes, want %d", len(tc.layout.Attributes), len(tc.offsets))
			}
			for _, a := range tc.layout.Attributes {
				if want, ok := tc.offsets[a.Name]; !ok || a.Offset != want {
					t.Fatalf("attribute %s at offset %d, want %d", a.Name, a.Offset, want)
				}
			}
		})
	}
}

func TestSpawnShip(t *testing.T) {
	w := New(DefaultConfig())
	s := w.SpawnShip()
	if s.X != 0 || s.Y != 0 || s.Speed != 0 {
		t.Fatalf("expected ship at rest at origin, got %+v", *s)
	}
	if s.Reload != 0 || s.ReloadMax != DefaultReloadMax {
		t.Fatalf("expected reload 0/%d, got %d/%d", DefaultReloadMax, s.Reload, s.ReloadMax)
	}
	if w.Stats().ShipsSpawned != 1 {
		t.Fatal("spawn not counted")
	}
}

func TestNew_StartingCapacities(t *testing.T) {
	w := New(DefaultConfig())
	if w.Ships().Cap() != 16 || w.Enemies().Cap() != 32 || w.Bullets().Cap() != 32 || w.Particles().Cap() != 256 {
		t.Fatalf("unexpected capacities %d/%d/%d/%d",
			w.Ships().Cap(), w.Enemies().Cap(), w.Bullets().Cap(), w.Particles().Cap())
	}
	if w.Mirror().Bullets.Cap() != 32 {
		t.Fatalf("bullet mirror sized %d, want 32", w.Mirror().Bullets.Cap())
	}
	if !approx(w.Extent(), 0.5625, 1e-7) {
		t.Fatalf("extent %v, want 576/1024", w.Extent())
	}
}

func TestWorld_LogsBulletOverflow(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	cfg := DefaultConfig()
	cfg.BulletCapacity = 1
	rec := &mirror.Recorder{}
	w := New(cfg, WithSource(rng.Min{}), WithLogger(zap.New(core)), WithUploader(rec))
	w.SpawnShip()
	*w.Bullets().Alloc() = Bullet{X: 0, Y: 0.5, TailX: 0, TailY: 0.5, SafeTime: 50}

	px, py := cfg.Viewport.ToWindow(0.5, 0)
	w.Step(Command{CursorX: px, CursorY: py, Firing: true})

	if n := logs.FilterMessage("bullet pool outgrew its buffer").Len(); n != 1 {
		t.Fatalf("expected 1 overflow warning, got %d", n)
	}
	if n := logs.FilterMessage("mirror buffer undersized, growing").Len(); n != 1 {
		t.Fatalf("expected 1 mirror growth warning, got %d", n)
	}
	u, ok := rec.Last(BufferBullets)
	if !ok || u.Count != 2 {
		t.Fatalf("expected bullets uploaded with count 2, got %+v", u)
	}
}

func TestWorld_NilOptionsFallBack(t *testing.T) {
	w := New(DefaultConfig(), WithSounds(nil), WithLogger(nil))
	w.SpawnShip()
	// Cursor on the ship: dies, plays a sound, logs. None of it may panic.
	px, py := w.Config().Viewport.ToWindow(0, 0)
	w.Step(Command{CursorX: px, CursorY: py})
	if w.Ships().Len() != 0 {
		t.Fatal("expected ship to die")
	}
	if w.Events() != nil {
		t.Fatal("expected no event log by default")
	}
}

func TestWorld_Close(t *testing.T) {
	w := New(DefaultConfig())
	w.SpawnShip()
	w.Step(Command{})
	w.Close()
	if w.Ships().Len() != 0 || w.Mirror().Ships.Len() != 0 {
		t.Fatal("expected pools and mirror released")
	}
}

func TestViewport_Transform(t *testing.T) {
	vp := Viewport{Left: 0, Top: 0, Width: 1024, Height: 576}

	wx, wy := vp.ToWorld(0, 0)
	if wx != -1 || !approx(wy, 0.5625, 1e-7) {
		t.Fatalf("top-left maps to (%v,%v)", wx, wy)
	}
	wx, wy = vp.ToWorld(1024, 576)
	if wx != 1 || !approx(wy, -0.5625, 1e-7) {
		t.Fatalf("bottom-right maps to (%v,%v)", wx, wy)
	}
	wx, wy = vp.ToWorld(512, 288)
	if wx != 0 || wy != 0 {
		t.Fatalf("centre maps to (%v,%v)", wx, wy)
	}
	if math.Abs(vp.Aspect()-16.0/9.0) > 1e-12 {
		t.Fatalf("aspect %v", vp.Aspect())
	}
}

func TestViewport_OffsetRoundTrip(t *testing.T) {
	vp := Viewport{Left: 100, Top: 40, Width: 800, Height: 600}
	for _, p := range [][2]float32{{0, 0}, {-1, 0.75}, {0.3, -0.2}, {1, -0.75}} {
		px, py := vp.ToWindow(p[0], p[1])
		wx, wy := vp.ToWorld(px, py)
		if !approx(wx, p[0], 1e-6) || !approx(wy, p[1], 1e-6) {
			t.Fatalf("round trip (%v,%v) -> (%v,%v)", p[0], p[1], wx, wy)
		}
	}
	if !vp.Contains(100, 40) || vp.Contains(900, 40) || vp.Contains(99, 300) {
		t.Fatal("Contains disagrees with the viewport rectangle")
	}
}

func TestSound_String(t *testing.T) {
	if SoundDie.String() != "die" || SoundPew.String() != "pew" || SoundBoom.String() != "boom" {
		t.Fatal("unexpected sound names")
	}
	if Sound(9).String() != "unknown" {
		t.Fatal("expected unknown for out-of-range sound")
	}
}

func TestEventLog(t *testing.T) {
	l := NewEventLog(false)
	l.Add(Event{Tick: 1, Category: CatEnemy, Key: KeySpawn})
	l.Add(Event{Tick: 2, Category: CatShip, Key: KeyDie, Value: "cursor"})
	l.Add(Event{Tick: 3, Category: CatShip, Key: KeyDie, Value: "edge"})
	l.AddVerbose(Event{Tick: 3, Category: CatPool, Key: KeyCounts})

	if l.Count(CatShip, KeyDie) != 2 {
		t.Fatalf("expected 2 deaths, got %d", l.Count(CatShip, KeyDie))
	}
	if l.Count(CatPool, "") != 0 {
		t.Fatal("verbose event recorded in non-verbose log")
	}
	if got := len(l.Since(2)); got != 2 {
		t.Fatalf("Since(2) returned %d events", got)
	}
	if l.Since(9) != nil {
		t.Fatal("Since past the end should be nil")
	}
	last, ok := l.LastOf(CatShip, KeyDie)
	if !ok || last.Value != "edge" {
		t.Fatalf("LastOf returned %+v", last)
	}
	if !l.HasEntry(CatShip, "", "curs") || l.HasEntry(CatBullet, "", "") {
		t.Fatal("HasEntry mismatch")
	}
	out := l.Format()
	if strings.Count(out, "\n") != 3 || !strings.Contains(out, "[T=00002] ship") {
		t.Fatalf("unexpected format:\n%s", out)
	}
	l.Reset()
	if len(l.Entries()) != 0 {
		t.Fatal("reset kept entries")
	}
}

func TestEventLog_VerboseCounts(t *testing.T) {
	h := NewHarness(WithSeed(2), WithVerbose(true))
	h.RunTicks(3)
	if n := h.Events.Count(CatPool, KeyCounts); n != 3 {
		t.Fatalf("expected 3 per-tick count events, got %d", n)
	}
}

func TestAutopilot(t *testing.T) {
	ap := NewAutopilot()
	w := New(DefaultConfig(), WithSource(rng.Min{}))
	vp := w.Config().Viewport

	cmd := ap.Command(w)
	if cmd.Firing {
		t.Fatal("should not fire with no ship")
	}

	w.SpawnShip()
	*w.Enemies().Alloc() = Enemy{X: 0.6, Y: 0}
	cmd = ap.Command(w)
	if !cmd.Firing {
		t.Fatal("expected to fire at a distant enemy")
	}
	cx, cy := vp.ToWorld(cmd.CursorX, cmd.CursorY)
	if !approx(cx, ap.Standoff, 1e-5) || !approx(cy, 0, 1e-5) {
		t.Fatalf("expected cursor toward enemy at standoff, got (%v,%v)", cx, cy)
	}

	w.Enemies().At(0).X = 0.05
	cmd = ap.Command(w)
	if cmd.Firing {
		t.Fatal("expected to flee a close enemy")
	}
	cx, _ = vp.ToWorld(cmd.CursorX, cmd.CursorY)
	if cx >= 0 {
		t.Fatalf("expected cursor away from enemy, got x=%v", cx)
	}
}
