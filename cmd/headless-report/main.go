package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/Garsondee/Gravinyon/internal/config"
	"github.com/Garsondee/Gravinyon/internal/rng"
	"github.com/Garsondee/Gravinyon/internal/sim"
	"github.com/Garsondee/Gravinyon/internal/telemetry"
)

type runStats struct {
	runIndex int
	seed     int64
	ticks    int

	firstKillTick  int
	firstDeathTick int
	respawns       int

	stats sim.Stats
	final telemetry.Row
}

type options struct {
	runs        int
	ticks       int
	seedBase    int64
	seedStep    int64
	sampleEvery int
	csvPath     string
	cfgPath     string
}

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("headless-report", flag.ContinueOnError)
	var opt options
	fs.IntVar(&opt.runs, "runs", 5, "number of headless simulation runs")
	fs.IntVar(&opt.ticks, "ticks", 3600, "ticks per run")
	fs.Int64Var(&opt.seedBase, "seed-base", 42, "base RNG seed for run 1")
	fs.Int64Var(&opt.seedStep, "seed-step", 1, "seed increment between runs")
	fs.IntVar(&opt.sampleEvery, "sample-every", 60, "ticks between CSV rows")
	fs.StringVar(&opt.csvPath, "csv", "", "write per-tick pool sizes to this CSV file")
	fs.StringVar(&opt.cfgPath, "config", "", "path to a YAML or TOML config file (default $"+config.EnvPath+")")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if opt.runs <= 0 {
		return errors.New("-runs must be > 0")
	}
	if opt.ticks <= 0 {
		return errors.New("-ticks must be > 0")
	}
	if opt.sampleEvery <= 0 {
		return errors.New("-sample-every must be > 0")
	}

	cfg, err := config.Load(config.ResolvePath(opt.cfgPath))
	if err != nil {
		return err
	}

	var csv *telemetry.Writer
	if opt.csvPath != "" {
		csv, err = telemetry.Create(opt.csvPath)
		if err != nil {
			return err
		}
		defer func() { _ = csv.Close() }()
	}

	fmt.Fprintf(out, "=== Headless Gravinyon Report ===\n")
	fmt.Fprintf(out, "runs=%d ticks=%d seed_base=%d seed_step=%d\n\n", opt.runs, opt.ticks, opt.seedBase, opt.seedStep)

	all := make([]runStats, 0, opt.runs)
	for i := 0; i < opt.runs; i++ {
		seed := opt.seedBase + int64(i)*opt.seedStep
		rs, err := runOnce(cfg, i+1, seed, opt.ticks, opt.sampleEvery, csv)
		if err != nil {
			return err
		}
		all = append(all, rs)
		printRun(out, rs)
	}
	printAggregate(out, all)

	if csv != nil {
		fmt.Fprintf(out, "\ncsv_rows=%d path=%s\n", csv.Rows(), opt.csvPath)
	}
	return nil
}

// runOnce plays one seeded game with the autopilot at the controls. Lost
// fleets come back after the configured respawn delay, as in the windowed
// game.
func runOnce(cfg *config.Config, runIndex int, seed int64, ticks, sampleEvery int, csv *telemetry.Writer) (runStats, error) {
	events := sim.NewEventLog(false)
	w := sim.New(cfg.World(),
		sim.WithSource(rng.NewRand(seed)),
		sim.WithEventLog(events),
	)
	defer w.Close()

	spawnFleet := func() {
		for i := 0; i < cfg.Sim.StartShips; i++ {
			w.SpawnShip()
		}
	}
	spawnFleet()

	ap := sim.NewAutopilot()
	rs := runStats{runIndex: runIndex, seed: seed, ticks: ticks}
	respawnIn := -1
	for t := 0; t < ticks; t++ {
		w.Step(ap.Command(w))

		if w.Ships().Len() == 0 && cfg.Sim.RespawnDelay > 0 {
			switch {
			case respawnIn < 0:
				respawnIn = cfg.Sim.RespawnDelay
			case respawnIn <= 1:
				spawnFleet()
				rs.respawns++
				respawnIn = -1
			default:
				respawnIn--
			}
		}

		if w.Tick()%sampleEvery == 0 {
			if err := csv.Write(telemetry.Sample(runIndex, seed, w)); err != nil {
				return rs, err
			}
		}
	}

	rs.firstKillTick = firstTick(events, sim.CatEnemy, sim.KeyKill)
	rs.firstDeathTick = firstTick(events, sim.CatShip, sim.KeyDie)
	rs.stats = w.Stats()
	rs.final = telemetry.Sample(runIndex, seed, w)
	return rs, nil
}

func firstTick(events *sim.EventLog, category, key string) int {
	matches := events.Filter(category, key)
	if len(matches) == 0 {
		return -1
	}
	return matches[0].Tick
}

func printRun(out io.Writer, rs runStats) {
	st := rs.stats
	fmt.Fprintf(out, "--- Run %d (seed=%d) ---\n", rs.runIndex, rs.seed)
	fmt.Fprintf(out, "phase_markers: first_kill=%d first_death=%d respawns=%d\n",
		rs.firstKillTick, rs.firstDeathTick, rs.respawns)
	fmt.Fprintf(out, "ships: spawned=%d deaths=%d cursor=%d enemy=%d edge=%d bullet=%d\n",
		st.ShipsSpawned, st.ShipDeaths, st.DeathsByCursor, st.DeathsByEnemy, st.DeathsByEdge, st.DeathsByBullet)
	fmt.Fprintf(out, "enemies: spawned=%d killed=%d peak=%d\n", st.EnemiesSpawned, st.EnemiesKilled, st.PeakEnemies)
	fmt.Fprintf(out, "bullets: fired=%d expired=%d peak=%d overflows=%d\n",
		st.BulletsFired, st.BulletsExpired, st.PeakBullets, st.BulletBufferOverflows)
	fmt.Fprintf(out, "particles: spawned=%d expired=%d peak=%d\n", st.ParticlesSpawned, st.ParticlesExpired, st.PeakParticles)
	fmt.Fprintf(out, "final_pools: ships=%d enemies=%d bullets=%d particles=%d\n\n",
		rs.final.Ships, rs.final.Enemies, rs.final.Bullets, rs.final.Particles)
}

func printAggregate(out io.Writer, all []runStats) {
	collect := func(f func(runStats) float64) telemetry.Summary {
		xs := make([]float64, 0, len(all))
		for _, rs := range all {
			xs = append(xs, f(rs))
		}
		return telemetry.Summarize(xs)
	}

	fmt.Fprintln(out, "=== Aggregate ===")
	fmt.Fprintf(out, "runs=%d\n", len(all))
	fmt.Fprintf(out, "enemies_killed:   %s\n", collect(func(rs runStats) float64 { return float64(rs.stats.EnemiesKilled) }))
	fmt.Fprintf(out, "ship_deaths:      %s\n", collect(func(rs runStats) float64 { return float64(rs.stats.ShipDeaths) }))
	fmt.Fprintf(out, "bullets_fired:    %s\n", collect(func(rs runStats) float64 { return float64(rs.stats.BulletsFired) }))
	fmt.Fprintf(out, "peak_particles:   %s\n", collect(func(rs runStats) float64 { return float64(rs.stats.PeakParticles) }))
	fmt.Fprintf(out, "bullet_overflows: %s\n", collect(func(rs runStats) float64 { return float64(rs.stats.BulletBufferOverflows) }))
	fmt.Fprintf(out, "kill_ratio:       %s\n", collect(func(rs runStats) float64 { return killRatio(rs.stats) }))
}

// killRatio is enemies killed per ship lost. A run without losses counts its
// kills outright.
func killRatio(st sim.Stats) float64 {
	if st.ShipDeaths == 0 {
		return float64(st.EnemiesKilled)
	}
	return float64(st.EnemiesKilled) / float64(st.ShipDeaths)
}
