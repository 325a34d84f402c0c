package cli

import "github.com/aretw0/parley/internal/config"

// Options are the settings shared by every command.
type Options struct {
	// Dir is the dialogue repository.
	Dir    string
	Debug  bool
	Config config.Config
}
