package script

import (
	_ "embed"
)

//go:embed scripts/lighthouse.yaml
var defaultScript []byte

// Default returns the script compiled into the binary, used when no script
// path is configured.
func Default() (*Script, error) {
	return Parse(defaultScript)
}
