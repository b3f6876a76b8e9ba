// Package game hosts the simulation in an ebiten window: it polls input into
// a sim.Command, runs one Step per tick and draws the published mirror.
package game

import (
	"fmt"
	"image/color"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"go.uber.org/zap"
	"golang.org/x/image/font/basicfont"

	"github.com/Garsondee/Gravinyon/internal/config"
	"github.com/Garsondee/Gravinyon/internal/rng"
	"github.com/Garsondee/Gravinyon/internal/sim"
)

// hudScale is the integer upscale factor applied to HUD text.
const hudScale = 2

// flashTicks is how long a HUD status message stays up.
const flashTicks = 120

type Game struct {
	cfg    *config.Config
	log    *zap.Logger
	world  *sim.World
	events *sim.EventLog
	seed   int64

	width  int // window plus feed panel
	height int

	cmd       sim.Command
	feed      *Feed
	paused    bool
	showHUD   bool
	showFeed  bool
	prevKeys  map[ebiten.Key]bool
	respawnIn int // ticks until the fleet returns; -1 when none is pending

	status      string
	statusTicks int
	lastReport  string

	// Offscreen buffer for HUD text, rendered at 1x then blitted at hudScale.
	hudBuf  *ebiten.Image
	hudFace text.Face
}

// New builds a game from cfg. sounds may be nil for a silent game.
func New(cfg *config.Config, log *zap.Logger, sounds sim.SoundPlayer) *Game {
	g := newGame(cfg, log, sounds)
	g.hudBuf = ebiten.NewImage(g.width/hudScale, g.height/hudScale)
	g.hudFace = text.NewGoXFace(basicfont.Face7x13)
	return g
}

// newGame sets up everything except GPU resources.
func newGame(cfg *config.Config, log *zap.Logger, sounds sim.SoundPlayer) *Game {
	if log == nil {
		log = zap.NewNop()
	}
	seed := cfg.Sim.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	events := sim.NewEventLog(false)
	world := sim.New(cfg.World(),
		sim.WithSource(rng.NewRand(seed)),
		sim.WithSounds(sounds),
		sim.WithLogger(log.Named("sim")),
		sim.WithEventLog(events),
	)
	g := &Game{
		cfg:       cfg,
		log:       log,
		world:     world,
		events:    events,
		seed:      seed,
		width:     cfg.Window.Width + feedPanelWidth,
		height:    cfg.Window.Height,
		feed:      NewFeed(),
		showHUD:   true,
		showFeed:  true,
		prevKeys:  make(map[ebiten.Key]bool),
		respawnIn: -1,
	}
	// Park the cursor off to the right of the ship so the first tick is safe.
	vp := cfg.World().Viewport
	g.cmd.CursorX, g.cmd.CursorY = vp.ToWindow(0.5, 0)

	g.spawnFleet()
	log.Info("game started",
		zap.Int64("seed", seed),
		zap.Int("start_ships", cfg.Sim.StartShips),
		zap.Int("respawn_delay", cfg.Sim.RespawnDelay),
	)
	return g
}

// Size returns the window size the game lays itself out at.
func (g *Game) Size() (int, int) {
	return g.width, g.height
}

// World exposes the simulation for inspection.
func (g *Game) World() *sim.World {
	return g.world
}

func (g *Game) Update() error {
	g.handleInput()
	if g.statusTicks > 0 {
		g.statusTicks--
	}
	if g.paused {
		return nil
	}
	g.simTick(g.cmd)
	return nil
}

// simTick runs one simulation step and the host bookkeeping around it.
func (g *Game) simTick(cmd sim.Command) {
	g.world.Step(cmd)

	g.feed.Ingest(g.events.Entries())
	g.events.Reset()

	g.updateRespawn()
}

// updateRespawn brings the fleet back respawn_delay ticks after the last
// ship is lost.
func (g *Game) updateRespawn() {
	if g.world.Ships().Len() > 0 {
		g.respawnIn = -1
		return
	}
	if g.cfg.Sim.RespawnDelay <= 0 {
		return
	}
	if g.respawnIn < 0 {
		g.respawnIn = g.cfg.Sim.RespawnDelay
		return
	}
	g.respawnIn--
	if g.respawnIn <= 0 {
		g.spawnFleet()
	}
}

func (g *Game) spawnFleet() {
	for i := 0; i < g.cfg.Sim.StartShips; i++ {
		g.world.SpawnShip()
	}
	g.respawnIn = -1
	g.feed.Ingest(g.events.Entries())
	g.events.Reset()
}

func (g *Game) flash(msg string) {
	g.status = msg
	g.statusTicks = flashTicks
}

// handleInput samples the pointer into the command and processes
// edge-triggered keys.
func (g *Game) handleInput() {
	mx, my := ebiten.CursorPosition()
	g.cmd.CursorX, g.cmd.CursorY = float64(mx), float64(my)
	g.cmd.Firing = ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft) || ebiten.IsKeyPressed(ebiten.KeySpace)

	currentKeys := map[ebiten.Key]bool{}
	pressed := func(k ebiten.Key) bool {
		currentKeys[k] = ebiten.IsKeyPressed(k)
		return currentKeys[k] && !g.prevKeys[k]
	}

	if pressed(ebiten.KeyP) {
		g.paused = !g.paused
	}
	if pressed(ebiten.KeyH) {
		g.showHUD = !g.showHUD
	}
	if pressed(ebiten.KeyL) {
		g.showFeed = !g.showFeed
	}
	if pressed(ebiten.KeyR) {
		g.spawnFleet()
	}
	if pressed(ebiten.KeyC) {
		g.copyReport()
	}
	// Single-step while paused.
	if pressed(ebiten.KeyPeriod) && g.paused {
		g.simTick(g.cmd)
	}

	g.prevKeys = currentKeys
}

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(color.RGBA{R: 4, G: 5, B: 10, A: 255})

	g.drawWorld(screen)

	if g.showFeed {
		g.feed.Draw(screen, g.cfg.Window.Width, g.height)
	}
	if g.showHUD {
		g.drawHUD(screen)
	}
}

// hudLines is the HUD text for the current state.
func (g *Game) hudLines() []string {
	w := g.world
	st := w.Stats()
	state := "RUN"
	if g.paused {
		state = "PAUSED"
	}
	lines := []string{
		fmt.Sprintf("T=%d %s  tps %.0f", w.Tick(), state, ebiten.ActualTPS()),
		fmt.Sprintf("ships %d  enemies %d", w.Ships().Len(), w.Enemies().Len()),
		fmt.Sprintf("bullets %d  particles %d", w.Bullets().Len(), w.Particles().Len()),
		fmt.Sprintf("kills %d  deaths %d", st.EnemiesKilled, st.ShipDeaths),
	}
	if g.respawnIn > 0 {
		lines = append(lines, fmt.Sprintf("respawn in %d", g.respawnIn))
	}
	lines = append(lines, "P pause  . step  R ships  C report")
	lines = append(lines, "H hud  L events")
	if g.statusTicks > 0 && g.status != "" {
		lines = append(lines, g.status)
	}
	return lines
}

// drawHUD renders the status box in the top-left corner into hudBuf at 1x,
// then composites it onto the screen at hudScale.
func (g *Game) drawHUD(screen *ebiten.Image) {
	lines := g.hudLines()

	const lineH = 13 // basicfont Face7x13
	const charW = 7
	const padX = 4
	const padY = 3

	maxLen := 0
	for _, l := range lines {
		if len(l) > maxLen {
			maxLen = len(l)
		}
	}
	boxW := float32(maxLen*charW + padX*2)
	boxH := float32(len(lines)*lineH + padY*2)
	bx, by := float32(4), float32(4)

	g.hudBuf.Clear()
	vector.FillRect(g.hudBuf, bx, by, boxW, boxH, color.RGBA{R: 6, G: 8, B: 16, A: 200}, false)
	vector.StrokeRect(g.hudBuf, bx, by, boxW, boxH, 1.0, color.RGBA{R: 60, G: 80, B: 140, A: 180}, false)

	for i, line := range lines {
		op := &text.DrawOptions{}
		op.GeoM.Translate(float64(bx)+padX, float64(by)+padY+float64(i*lineH))
		op.ColorScale.ScaleWithColor(color.RGBA{R: 200, G: 210, B: 230, A: 255})
		text.Draw(g.hudBuf, line, g.hudFace, op)
	}

	opts := &ebiten.DrawImageOptions{}
	opts.GeoM.Scale(float64(hudScale), float64(hudScale))
	screen.DrawImage(g.hudBuf, opts)
}

func (g *Game) Layout(_, _ int) (int, int) {
	return g.width, g.height
}

// Close releases the simulation.
func (g *Game) Close() {
	g.world.Close()
}
