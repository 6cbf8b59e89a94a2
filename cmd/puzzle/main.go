//go:build ebiten

package main

import (
	"context"
	"errors"
	"flag"
	"log"

	"github.com/hajimehoshi/ebiten/v2"
	"go.uber.org/zap"

	"mad-puzzle/internal/app"
	"mad-puzzle/internal/config"
	"mad-puzzle/internal/logging"
	_ "mad-puzzle/internal/puzzles/elements"
	_ "mad-puzzle/internal/puzzles/merge"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}
	cfg.Bind(flag.CommandLine)
	flag.Parse()

	logger, err := logging.New(cfg.LogLevel, cfg.LogDev)
	if err != nil {
		log.Fatal(err)
	}
	defer logger.Sync()

	store, err := cfg.OpenStore()
	if err != nil {
		logger.Fatal("open layout store", zap.Error(err))
	}
	if store != nil {
		defer store.Close()
	}

	s, preset, err := app.NewSession(context.Background(), cfg, store, logger)
	if err != nil {
		logger.Fatal("build session", zap.Error(err))
	}

	opts := app.DefaultOptions()
	opts.Scale = cfg.Scale
	opts.Store = store
	opts.Logger = logger
	game := app.New(s, opts)
	size := s.Grid().Size()

	ebiten.SetWindowTitle("mad-puzzle: " + preset.Name)
	ebiten.SetWindowSize(size.W*opts.Scale+opts.HUDWidth, size.H*opts.Scale)

	if err := ebiten.RunGame(game); err != nil && !errors.Is(err, ebiten.Termination) {
		logger.Fatal("run game", zap.Error(err))
	}
}
