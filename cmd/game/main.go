package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/Garsondee/Tile-Engine/internal/demo"
	"github.com/Garsondee/Tile-Engine/internal/engine"
	"github.com/Garsondee/Tile-Engine/internal/view"
)

type options struct {
	configPath string
	mapPath    string
	logPath    string
	debug      bool
}

func main() {
	var opts options
	flag.StringVar(&opts.configPath, "config", "", "JSON engine config (defaults when empty)")
	flag.StringVar(&opts.mapPath, "map", "", "Tiled JSON map (built-in level when empty)")
	flag.StringVar(&opts.logPath, "log", "", "append engine log lines to this file")
	flag.BoolVar(&opts.debug, "debug", false, "start in debug mode")
	flag.Parse()

	if err := run(opts); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// run owns every resource it opens so that their deferred cleanup runs
// before main exits.
func run(opts options) error {
	logger := log.New(os.Stderr, "tile-engine: ", log.LstdFlags)
	if opts.logPath != "" {
		f, err := os.OpenFile(opts.logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("open log: %w", err)
		}
		defer f.Close()
		logger.SetOutput(io.MultiWriter(os.Stderr, f))
	}

	runner, err := newRunner(opts, logger)
	if err != nil {
		return err
	}

	ebiten.SetWindowTitle("Tile Engine")
	ebiten.SetWindowSize(runner.WindowSize())
	if err := ebiten.RunGame(runner); err != nil {
		logger.Printf("exit: %v", err)
		return err
	}
	return nil
}

func newRunner(opts options, logger *log.Logger) (*view.Runner, error) {
	cfg := engine.DefaultConfig()
	if opts.configPath != "" {
		var err error
		if cfg, err = engine.LoadConfig(opts.configPath); err != nil {
			return nil, err
		}
	}
	scene, err := demo.Start(cfg, opts.mapPath, engine.WithLogger(logger), engine.WithDebug(opts.debug || cfg.Debug))
	if err != nil {
		return nil, err
	}
	return view.New(scene.Game, view.Options{
		Map:    scene.Map,
		Status: scene.Summary,
		Logger: logger,
	})
}
