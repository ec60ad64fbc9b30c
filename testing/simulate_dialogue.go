package main

import (
	"fmt"
	"log"
	"math/rand"
	"time"

	"github.com/fernwheel/branchtalk/internal/config"
	"github.com/fernwheel/branchtalk/internal/dialogue"
	"github.com/fernwheel/branchtalk/internal/engine"
	"github.com/fernwheel/branchtalk/internal/script"
)

const maxLines = 40

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	var sc *script.Script
	if cfg.ScriptPath != "" {
		sc, err = script.Load(cfg.ScriptPath)
	} else {
		sc, err = script.Default()
	}
	if err != nil {
		log.Fatalf("Failed to load script: %v", err)
	}

	seed := time.Now().UnixNano()
	if cfg.Seed != nil {
		seed = *cfg.Seed
	}
	fmt.Printf("--- %s (seed %d) ---\n\n", sc.Title, seed)

	eng := engine.New(sc, rand.NewSource(seed))
	chooser := rand.New(rand.NewSource(seed + 1))

	st, ok := eng.Start()
	for lines := 0; ok && lines < maxLines; lines++ {
		fmt.Printf("[%s] %s: %s\n", st.Subtitle.Entry.ID, st.Subtitle.Speaker, st.Subtitle.Text)

		if st.HasValidPCResponses() && !st.HasPCAutoResponse() {
			r := pickResponse(chooser, st.PCResponses)
			fmt.Printf("    (menu: %d options, picked %q)\n", len(st.PCResponses), r.Text.Text)
			st, ok = eng.Choose(r)
			continue
		}
		st, ok = eng.Advance(st)
	}

	fmt.Printf("\nConversation over. Flags: %v\n", eng.Flags())
}

func pickResponse(r *rand.Rand, responses []*dialogue.Response) *dialogue.Response {
	var enabled []*dialogue.Response
	for _, resp := range responses {
		if resp != nil && resp.Enabled {
			enabled = append(enabled, resp)
		}
	}
	return enabled[r.Intn(len(enabled))]
}
