package config

import (
	"fmt"
	"os"
	"strconv"
)

// Config holds the application configuration.
type Config struct {
	// ScriptPath points at a YAML dialogue script. Empty means the script
	// embedded in the binary.
	ScriptPath string
	// Seed, when set, makes every random branch pick deterministic.
	Seed *int64
}

// LoadConfig loads the configuration from environment variables.
func LoadConfig() (*Config, error) {
	cfg := &Config{
		ScriptPath: os.Getenv("DIALOGUE_SCRIPT"),
	}
	if raw := os.Getenv("DIALOGUE_SEED"); raw != "" {
		seed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("DIALOGUE_SEED must be an integer, got %q", raw)
		}
		cfg.Seed = &seed
	}
	return cfg, nil
}
