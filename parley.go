package parley

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"

	"github.com/aretw0/parley/internal/runtime"
	loamAdapter "github.com/aretw0/parley/pkg/adapters/loam"
	"github.com/aretw0/parley/pkg/domain"
	"github.com/aretw0/parley/pkg/history"
	"github.com/aretw0/parley/pkg/ports"
	"github.com/aretw0/parley/pkg/registry"
	"github.com/google/uuid"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Context is one live dialogue session.
type Context = runtime.Context

// EdgeData is an edge of the active node together with its satisfaction.
type EdgeData = runtime.EdgeData

// Engine is the high-level entry point for the Parley library.
// It owns the collaborators shared by every session it starts: the loader,
// the global visitation memory, the hook registry and the logger.
type Engine struct {
	loader   ports.DialogueLoader
	memory   *history.Memory
	accessor ports.VariableAccessor
	registry *registry.Registry
	hooks    domain.LifecycleHooks
	language language.Tag
	intn     func(n int) int
	logger   *slog.Logger
	Name     string
}

// Option defines a functional option for configuring the Engine.
type Option func(*Engine)

// WithLoader injects a custom DialogueLoader, bypassing the default Loam initialization.
func WithLoader(l ports.DialogueLoader) Option {
	return func(e *Engine) {
		e.loader = l
	}
}

// WithLogger sets a custom structured logger for the engine.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithMemory shares a global visitation memory between engines.
func WithMemory(m *history.Memory) Option {
	return func(e *Engine) {
		e.memory = m
	}
}

// WithVariableAccessor enables class-variable conditions, events and text arguments.
func WithVariableAccessor(a ports.VariableAccessor) Option {
	return func(e *Engine) {
		e.accessor = a
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(e *Engine) {
		e.hooks = hooks
	}
}

// WithRegistry sets the registry custom hooks in documents are resolved from.
// It only affects the default loader.
func WithRegistry(r *registry.Registry) Option {
	return func(e *Engine) {
		e.registry = r
	}
}

// WithLanguage sets the locale numbers in text arguments are formatted for.
func WithLanguage(tag language.Tag) Option {
	return func(e *Engine) {
		e.language = tag
	}
}

// WithRandom replaces the source random selectors pick children with.
// intn must return a number in [0, n).
func WithRandom(intn func(n int) int) Option {
	return func(e *Engine) {
		e.intn = intn
	}
}

// New initializes a new Parley Engine.
// By default, it loads dialogues from a Loam repository at the given path.
// If WithLoader option is provided, repoPath can be empty and Loam is skipped.
func New(repoPath string, opts ...Option) (*Engine, error) {
	eng := &Engine{language: language.English}

	for _, opt := range opts {
		opt(eng)
	}

	if eng.registry == nil {
		eng.registry = registry.NewRegistry()
	}

	if eng.loader == nil {
		if repoPath == "" {
			return nil, fmt.Errorf("repoPath is required when no custom loader is provided")
		}

		absPath, err := filepath.Abs(repoPath)
		if err != nil {
			return nil, fmt.Errorf("invalid path: %w", err)
		}
		eng.Name = filepath.Base(absPath)

		loader, err := loamAdapter.Open(absPath, eng.registry)
		if err != nil {
			return nil, err
		}
		eng.loader = loader
	} else if repoPath != "" {
		eng.Name = filepath.Base(repoPath)
	}

	if eng.logger == nil {
		eng.logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}
	if eng.Name != "" {
		eng.logger = eng.logger.With("repository", eng.Name)
	}
	if eng.memory == nil {
		eng.memory = history.NewMemory()
	}

	return eng, nil
}

// Load retrieves and compiles a dialogue by ID.
func (e *Engine) Load(ctx context.Context, id string) (*domain.Dialogue, error) {
	return e.loader.Load(ctx, id)
}

// Dialogues lists the IDs the loader can serve.
func (e *Engine) Dialogues(ctx context.Context) ([]string, error) {
	return e.loader.List(ctx)
}

// Watch returns a channel that signals when a dialogue changes.
// Returns error if the loader does not support watching.
func (e *Engine) Watch(ctx context.Context) (<-chan string, error) {
	if w, ok := e.loader.(ports.Watchable); ok {
		return w.Watch(ctx)
	}
	return nil, fmt.Errorf("current loader does not support watching")
}

// Loader returns the underlying DialogueLoader used by the engine.
func (e *Engine) Loader() ports.DialogueLoader {
	return e.loader
}

// Registry returns the hook registry documents are compiled against.
func (e *Engine) Registry() *registry.Registry {
	return e.registry
}

// Memory returns the global visitation memory. Use a history.Syncer to persist it.
func (e *Engine) Memory() *history.Memory {
	return e.memory
}

// Logger returns the engine logger.
func (e *Engine) Logger() *slog.Logger {
	return e.logger
}

// DialogueHistory exports the global visitation memory.
func (e *Engine) DialogueHistory() map[uuid.UUID]domain.History {
	return e.memory.Export()
}

// SetDialogueHistory replaces the global visitation memory.
func (e *Engine) SetDialogueHistory(entries map[uuid.UUID]domain.History) {
	e.memory.Replace(entries)
}

// ClearDialogueHistory forgets every visit of every dialogue.
func (e *Engine) ClearDialogueHistory() {
	e.memory.Clear()
}

func (e *Engine) env() runtime.Env {
	return runtime.Env{
		Logger:   e.logger,
		Memory:   e.memory,
		Accessor: e.accessor,
		Hooks:    e.hooks,
		Printer:  message.NewPrinter(e.language),
		Intn:     e.intn,
	}
}
