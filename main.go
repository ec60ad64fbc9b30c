package main

import (
	"fmt"
	"os"

	"github.com/fernwheel/branchtalk/internal/engine"
	"github.com/fernwheel/branchtalk/internal/script"
	"github.com/fernwheel/branchtalk/internal/tui"
)

func main() {
	sc, err := script.Default()
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	if err := tui.Run(engine.New(sc, nil)); err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
}
