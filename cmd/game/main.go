package main

import (
	"fmt"
	"math/rand"
	"os"

	"github.com/fernwheel/branchtalk/internal/config"
	"github.com/fernwheel/branchtalk/internal/engine"
	"github.com/fernwheel/branchtalk/internal/script"
	"github.com/fernwheel/branchtalk/internal/tui"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Printf("Error loading config: %v\n", err)
		os.Exit(1)
	}

	var sc *script.Script
	if cfg.ScriptPath != "" {
		sc, err = script.Load(cfg.ScriptPath)
	} else {
		sc, err = script.Default()
	}
	if err != nil {
		fmt.Printf("Error loading script: %v\n", err)
		os.Exit(1)
	}

	var src rand.Source
	if cfg.Seed != nil {
		src = rand.NewSource(*cfg.Seed)
	}

	if err := tui.Run(engine.New(sc, src)); err != nil {
		fmt.Printf("Error running TUI: %v\n", err)
		os.Exit(1)
	}
}
