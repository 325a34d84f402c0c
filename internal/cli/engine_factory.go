package cli

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/aretw0/parley"
	"github.com/aretw0/parley/pkg/adapters/lua"
	"github.com/aretw0/parley/pkg/domain"
	"github.com/aretw0/parley/pkg/observability"
	"github.com/aretw0/parley/pkg/registry"
)

// createEngine initializes a Parley engine with standard CLI conventions:
// Lua hook scripts found next to the dialogues (or in the configured scripts
// directory) are registered before any document is compiled.
func createEngine(opts Options, logger *slog.Logger, hooks ...domain.LifecycleHooks) (*parley.Engine, error) {
	reg := registry.NewRegistry()

	scripts := opts.Config.Scripts
	if scripts == "" {
		scripts = opts.Dir
	}
	if info, err := os.Stat(scripts); err == nil && info.IsDir() {
		n, err := lua.LoadDir(scripts, reg, lua.WithLogger(logger))
		if err != nil {
			return nil, fmt.Errorf("error loading hook scripts: %w", err)
		}
		if n > 0 {
			logger.Debug("lua hooks registered", "dir", scripts, "count", n)
		}
	}

	tag, err := opts.Config.LanguageTag()
	if err != nil {
		return nil, err
	}

	if opts.Debug {
		hooks = append(hooks, observability.LogHooks(logger))
	}

	engine, err := parley.New(opts.Dir,
		parley.WithLogger(logger),
		parley.WithRegistry(reg),
		parley.WithLanguage(tag),
		parley.WithLifecycleHooks(observability.Combine(hooks...)),
	)
	if err != nil {
		return nil, fmt.Errorf("error initializing engine: %w", err)
	}
	return engine, nil
}
