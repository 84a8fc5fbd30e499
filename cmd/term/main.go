package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"

	"github.com/gdamore/tcell/v2"

	"github.com/Garsondee/Tile-Engine/internal/demo"
	"github.com/Garsondee/Tile-Engine/internal/engine"
	"github.com/Garsondee/Tile-Engine/internal/termview"
)

func main() {
	var configPath, mapPath, logPath string
	flag.StringVar(&configPath, "config", "", "JSON engine config (defaults when empty)")
	flag.StringVar(&mapPath, "map", "", "Tiled JSON map (built-in level when empty)")
	flag.StringVar(&logPath, "log", "", "write engine log lines to this file")
	flag.Parse()

	if err := run(configPath, mapPath, logPath); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath, mapPath, logPath string) error {
	// The terminal owns stdout, so logs go to a file or nowhere.
	logger := log.New(io.Discard, "tile-engine: ", log.LstdFlags)
	if logPath != "" {
		f, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("open log: %w", err)
		}
		defer f.Close()
		logger.SetOutput(f)
	}

	cfg := engine.DefaultConfig()
	if configPath != "" {
		var err error
		if cfg, err = engine.LoadConfig(configPath); err != nil {
			return err
		}
	}
	scene, err := demo.Start(cfg, mapPath, engine.WithLogger(logger))
	if err != nil {
		return err
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("terminal: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("terminal init: %w", err)
	}
	defer screen.Fini()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	r := termview.New(screen, scene.Game, termview.Options{
		Map:    scene.Map,
		Status: scene.Summary,
		Logger: logger,
	})
	err = r.Run(ctx)
	logger.Printf("exit: %s", scene.Summary())
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
