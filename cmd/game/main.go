package main

import (
	"flag"
	"log"

	"github.com/hajimehoshi/ebiten/v2"
	"go.uber.org/zap"

	"github.com/Garsondee/Gravinyon/internal/audio"
	"github.com/Garsondee/Gravinyon/internal/config"
	"github.com/Garsondee/Gravinyon/internal/game"
	"github.com/Garsondee/Gravinyon/internal/logging"
)

func main() {
	var cfgPath string
	flag.StringVar(&cfgPath, "config", "", "path to a YAML or TOML config file (default $"+config.EnvPath+")")
	flag.Parse()

	cfg, err := config.Load(config.ResolvePath(cfgPath))
	if err != nil {
		log.Fatal(err)
	}

	logger, err := logging.New(cfg.Logging)
	if err != nil {
		log.Fatal(err)
	}
	defer func() { _ = logger.Sync() }()

	player := audio.NewPlayer(cfg.Audio, logger.Named("audio"))
	if err := player.Init(); err != nil {
		logger.Warn("audio disabled", zap.Error(err))
	}
	defer player.Close()

	g := game.New(cfg, logger, player)
	defer g.Close()

	w, h := g.Size()
	ebiten.SetWindowTitle(cfg.Window.Title)
	ebiten.SetWindowSize(w, h)
	ebiten.SetTPS(cfg.Window.TPS)
	if err := ebiten.RunGame(g); err != nil {
		logger.Error("game exited", zap.Error(err))
		log.Fatal(err)
	}
}
